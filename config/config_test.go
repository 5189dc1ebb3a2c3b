// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaults(t *testing.T) {
	cfg := New()
	assert.Equal(t, "Simulator", cfg.Title)
	assert.Equal(t, 1920, cfg.Width)
	assert.Equal(t, 1080, cfg.Height)
	assert.Equal(t, 2*time.Second, cfg.IntervalDuration())
	assert.Equal(t, float32(5), cfg.Orbit.Radius)
	assert.False(t, cfg.AutoStart)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := New()
	cfg.Width = 0
	cfg.Interval = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window size")
	assert.Contains(t, err.Error(), "interval")
}

func TestSaveOpenTOML(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "sim.toml")
	cfg := New()
	cfg.Title = "Orbits"
	cfg.Interval = 0.25
	cfg.Orbit.Speed = 0.1
	require.NoError(t, Save(cfg, fn))

	got := New()
	require.NoError(t, Open(got, fn))
	assert.Equal(t, cfg, got)

	b, err := os.ReadFile(fn)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, toml.Unmarshal(b, &raw))
	assert.Equal(t, "Orbits", raw["Title"])
	assert.Contains(t, raw, "Orbit")
}

func TestSaveOpenYAML(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "sim.yml")
	cfg := New()
	cfg.Frames = 12
	cfg.Orbit.Radius = 3
	require.NoError(t, Save(cfg, fn))

	b, err := os.ReadFile(fn)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(b, &raw))
	assert.Equal(t, 12, raw["frames"])

	got := New()
	require.NoError(t, Open(got, fn))
	assert.Equal(t, cfg, got)
}

func TestOpenPartialYAML(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(fn, []byte("interval: 0.5\norbit:\n  radius: 2\n"), 0666))
	got := New()
	require.NoError(t, Open(got, fn))
	assert.Equal(t, 0.5, got.Interval)
	assert.Equal(t, float32(2), got.Orbit.Radius)
	assert.Equal(t, "Simulator", got.Title, "fields not in the file keep their values")
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, Open(New(), filepath.Join(dir, "sim.json")))
	assert.Error(t, Open(New(), filepath.Join(dir, "missing.toml")))

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("Width = \"wide\""), 0666))
	assert.Error(t, Open(New(), bad))
}

func TestHomeDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	cfg := New()
	cfg.Frames = 7
	require.NoError(t, Save(cfg, "~/sim.toml"))
	assert.FileExists(t, filepath.Join(home, "sim.toml"))
	got := New()
	require.NoError(t, Open(got, "~/sim.toml"))
	assert.Equal(t, 7, got.Frames)
}

func TestWatch(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "sim.toml")
	cfg := New()
	require.NoError(t, Save(cfg, fn))

	changes := make(chan *Config, 16)
	w, err := Watch(fn, cfg, func(c *Config) { changes <- c })
	require.NoError(t, err)
	defer w.Close()

	next := New()
	next.Interval = 0.1
	require.NoError(t, Save(next, fn))

	var got *Config
	require.Eventually(t, func() bool {
		select {
		case got = <-changes:
			return got.Interval == 0.1
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0.1, w.Current().Interval)
	assert.Equal(t, 2.0, cfg.Interval, "the current config is not modified")

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestWatchUnsupported(t *testing.T) {
	_, err := Watch(filepath.Join(t.TempDir(), "sim.ini"), New(), nil)
	assert.Error(t, err)
}
