// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"log/slog"
	"path/filepath"
	"sync"

	"cogentcore.org/core/base/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/jinzhu/copier"
	"github.com/mitchellh/go-homedir"
)

// Watcher reloads a configuration file whenever it changes.
type Watcher struct {

	// File is the file being watched.
	File string

	onChange  func(cfg *Config)
	watcher   *fsnotify.Watcher
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error

	mu      sync.Mutex
	current *Config
}

// Watch starts watching the given file. Every time it is written, it is
// read on top of a copy of the last configuration (initially current),
// and onChange is called with the result on the watcher goroutine.
// current itself is never modified. Call [Watcher.Close] to stop.
func Watch(file string, current *Config, onChange func(cfg *Config)) (*Watcher, error) {
	fn, err := homedir.Expand(file)
	if err != nil {
		return nil, err
	}
	if fn, err = filepath.Abs(fn); err != nil {
		return nil, err
	}
	if _, err := formatOf(fn); err != nil {
		return nil, err
	}
	cur := &Config{}
	if err := copier.CopyWithOption(cur, current, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// editors often replace the file, so watch the directory
	if err := fw.Add(filepath.Dir(fn)); err != nil {
		fw.Close()
		return nil, err
	}
	w := &Watcher{File: fn, onChange: onChange, watcher: fw, done: make(chan struct{}), current: cur}
	w.wg.Add(1)
	go w.watch()
	return w, nil
}

// Current returns a copy of the last configuration that was loaded.
func (w *Watcher) Current() *Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	cfg := &Config{}
	errors.Log(copier.CopyWithOption(cfg, w.current, copier.Option{DeepCopy: true}))
	return cfg
}

func (w *Watcher) watch() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.File {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("config: watching file", "file", w.File, "err", err)
		}
	}
}

// reload reads the file on top of the current configuration.
func (w *Watcher) reload() {
	next := w.Current()
	if err := Open(next, w.File); err != nil {
		// a partial write; the next event retries
		slog.Warn("config: reloading file", "file", w.File, "err", err)
		return
	}
	if err := next.Validate(); err != nil {
		slog.Error("config: ignoring invalid file", "file", w.File, "err", err)
		return
	}
	w.mu.Lock()
	w.current = next
	w.mu.Unlock()
	slog.Info("config: reloaded", "file", w.File)
	if w.onChange != nil {
		w.onChange(w.Current())
	}
}

// Close stops watching and waits for the watcher goroutine to exit.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)
		w.closeErr = w.watcher.Close()
		w.wg.Wait()
	})
	return w.closeErr
}
