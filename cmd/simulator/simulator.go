// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command simulator runs a set of example nodes in a window with a 3D
// scene and a side panel.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/fsx"
	"cogentcore.org/core/base/logx"
	"cogentcore.org/core/cli"
	"cogentcore.org/sim/config"
	"cogentcore.org/sim/node"
	"cogentcore.org/sim/nodes"
	"cogentcore.org/sim/simcore"
	"cogentcore.org/sim/simulator"
	"cogentcore.org/sim/toolkit"
	"cogentcore.org/sim/toolkit/offscreen"
	"github.com/muesli/termenv"
)

func main() { //types:skip
	opts := cli.DefaultOptions("simulator", "Simulator runs nodes in a window with a 3D scene, stepping them at a fixed interval.")
	opts.DefaultFiles = []string{config.DefaultFile}
	cli.Run(opts, config.New(), Run)
}

// Run opens the simulator window and runs until it is closed,
// or until the configured number of frames has been computed.
func Run(c *config.Config) error { //cli:cmd -root
	setupLogging(c.Debug)

	var app toolkit.App
	if c.NoGUI {
		app = offscreen.NewApp()
	} else {
		app = simcore.NewApp()
	}
	sm, err := simulator.NewFromConfig(app, c)
	if err != nil {
		return err
	}

	counter := nodes.NewCounter("frames")
	if c.Frames > 0 {
		counter.Limit = uint64(c.Frames)
		counter.OnLimit = sm.Close
	}
	orbit := nodes.NewOrbit("orbit", c.Orbit.Radius, c.Orbit.Speed)
	marker := nodes.NewMarker("marker", orbit)
	controls := nodes.NewControls(counter)
	for _, n := range []node.Node{counter, orbit, marker, controls} {
		if err := sm.RegisterNode(n); err != nil {
			return err
		}
	}

	if c.Watch && errors.Log1(fsx.FileExists(config.DefaultFile)) {
		w, err := config.Watch(config.DefaultFile, c, func(nc *config.Config) {
			slog.Info("config changed", "file", config.DefaultFile, "interval", nc.IntervalDuration())
			sm.SetInterval(nc.IntervalDuration())
		})
		if errors.Log(err) == nil {
			defer w.Close()
		}
	}

	// there is nothing to click without a window
	if c.AutoStart || c.NoGUI {
		sm.Post(sm.StartComputation)
	}
	sm.Run()

	printSummary(sm.Stats().Frames, counter.Count(), sm.Compute.Err())
	return nil
}

// printSummary prints the number of frames run, in color when
// stderr is a terminal that supports it.
func printSummary(frames, steps uint64, err error) {
	out := termenv.NewOutput(os.Stderr)
	msg := out.String(fmt.Sprintf("simulator: %d frames, %d counted steps", frames, steps)).Bold()
	if err != nil {
		fmt.Fprintln(out, msg.Foreground(out.Color("1")))
		fmt.Fprintln(out, out.String(err.Error()).Foreground(out.Color("1")))
		return
	}
	fmt.Fprintln(out, msg.Foreground(out.Color("2")))
}

// setupLogging sets the default logger to print to stderr at the
// info level, or the debug level if debug is on.
func setupLogging(debug bool) {
	level := &slog.LevelVar{}
	if debug {
		level.Set(slog.LevelDebug)
	}
	logx.UserLevel = level.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
