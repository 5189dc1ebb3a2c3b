// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config provides the configuration of the simulator command,
// loaded from flags and TOML or YAML files.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/iox/tomlx"
	"cogentcore.org/core/base/iox/yamlx"
	"cogentcore.org/core/cli"
	"github.com/mitchellh/go-homedir"
)

// DefaultFile is the default configuration file name.
const DefaultFile = "simulator.toml"

// Config is the configuration of the simulator.
type Config struct {

	// Title is the title of the window.
	Title string `default:"Simulator"`

	// Width is the width of the window in device-independent pixels.
	Width int `default:"1920"`

	// Height is the height of the window in device-independent pixels.
	Height int `default:"1080"`

	// Interval is the minimum time between computation frames, in seconds.
	Interval float64 `default:"2"`

	// AutoStart starts the computation goroutine as soon as the simulator runs.
	AutoStart bool `flag:"start,auto-start"`

	// NoGUI runs the simulator without opening a window.
	NoGUI bool `flag:"nogui,no-gui"`

	// Frames is the number of frames after which the simulator closes
	// itself. 0 means no limit.
	Frames int

	// Watch reloads the configuration file when it changes,
	// applying the new interval.
	Watch bool

	// Debug turns on debug logging.
	Debug bool `flag:"d,debug"`

	// Orbit configures the orbiting marker of the demo.
	Orbit OrbitConfig `display:"inline"`
}

// OrbitConfig configures the demo orbit.
type OrbitConfig struct {

	// Radius is the radius of the orbit.
	Radius float32 `default:"5"`

	// Speed is the angle in radians advanced per frame.
	Speed float32 `default:"0.5"`
}

// New returns a new [Config] with default values.
func New() *Config {
	cfg := &Config{}
	cli.SetFromDefaults(cfg)
	return cfg
}

// IntervalDuration returns [Config.Interval] as a duration.
func (c *Config) IntervalDuration() time.Duration {
	return time.Duration(c.Interval * float64(time.Second))
}

// Validate returns an error describing every invalid field, or nil.
func (c *Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("config: window size %dx%d must be positive", c.Width, c.Height))
	}
	if c.Interval < 0 {
		errs = append(errs, fmt.Errorf("config: interval %g must not be negative", c.Interval))
	}
	if c.Frames < 0 {
		errs = append(errs, fmt.Errorf("config: frames %d must not be negative", c.Frames))
	}
	return errors.Join(errs...)
}

// format is a config file encoding.
type format int

const (
	formatTOML format = iota
	formatYAML
)

func formatOf(file string) (format, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".toml":
		return formatTOML, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	}
	return 0, fmt.Errorf("config: unsupported file type %q (use .toml, .yaml or .yml)", file)
}

// Open reads the given file into cfg, with the encoding determined by the
// file extension. Fields not in the file keep their values. A leading ~ in
// the file name is expanded to the home directory.
func Open(cfg *Config, file string) error {
	fn, err := homedir.Expand(file)
	if err != nil {
		return err
	}
	f, err := formatOf(fn)
	if err != nil {
		return err
	}
	switch f {
	case formatYAML:
		err = yamlx.Open(cfg, fn)
	default:
		err = tomlx.Open(cfg, fn)
	}
	if err != nil {
		return fmt.Errorf("config: reading %q: %w", fn, err)
	}
	return nil
}

// Save writes cfg to the given file, with the encoding determined by
// the file extension.
func Save(cfg *Config, file string) error {
	fn, err := homedir.Expand(file)
	if err != nil {
		return err
	}
	f, err := formatOf(fn)
	if err != nil {
		return err
	}
	if f == formatYAML {
		return yamlx.Save(cfg, fn)
	}
	return tomlx.Save(cfg, fn)
}
