// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"testing"
	"time"

	"cogentcore.org/sim/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFrames(t *testing.T) {
	c := config.New()
	c.NoGUI = true
	c.Frames = 3
	c.Interval = 0.001

	done := make(chan error, 1)
	go func() { done <- Run(c) }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("simulator did not close after the frame limit")
	}
}

func TestRunInvalid(t *testing.T) {
	c := config.New()
	c.NoGUI = true
	c.Width = 0
	require.Error(t, Run(c))
}
