// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nodes

import (
	"sync"
	"testing"
	"time"

	"cogentcore.org/core/events"
	"cogentcore.org/core/events/key"
	"cogentcore.org/core/math32"
	"cogentcore.org/sim/simulator"
	"cogentcore.org/sim/toolkit"
	"cogentcore.org/sim/toolkit/offscreen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSimulator(t *testing.T) (*simulator.Simulator, *offscreen.App, *offscreen.Window) {
	app := offscreen.NewApp()
	sm, err := simulator.New(app, "nodes", 640, 480)
	require.NoError(t, err)
	t.Cleanup(sm.StopComputation)
	return sm, app, sm.Window.(*offscreen.Window)
}

func TestCounterLimit(t *testing.T) {
	c := NewCounter("count")
	c.Limit = 3
	hits := 0
	c.OnLimit = func() { hits++ }
	for range 5 {
		c.Step()
	}
	assert.Equal(t, uint64(5), c.Count())
	assert.Equal(t, 1, hits)
}

func TestOrbit(t *testing.T) {
	o := NewOrbit("orbit", 2, math32.Pi/2)
	assert.InDelta(t, 2, o.Position().X, 1e-5)
	o.Step()
	p := o.Position()
	assert.InDelta(t, 0, p.X, 1e-5)
	assert.InDelta(t, 2, p.Z, 1e-5)
	assert.Equal(t, float32(1), p.Y)
	for range 4 {
		o.Step()
	}
	assert.Less(t, o.Angle(), float32(2*math32.Pi))

	// position may be read while stepping
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 1000 {
			o.Step()
		}
	}()
	for range 1000 {
		assert.InDelta(t, 2, o.Position().Sub(math32.Vec3(0, 1, 0)).Length(), 1e-4)
	}
	wg.Wait()
}

func TestMarker(t *testing.T) {
	sm, _, w := newTestSimulator(t)
	o := NewOrbit("orbit", 3, 1)
	m := NewMarker("ball", o)
	require.NoError(t, sm.RegisterNode(o))
	require.NoError(t, sm.RegisterNode(m))

	m.Step()
	assert.ErrorIs(t, m.Err, toolkit.ErrMissingResource)

	sm.OnStart()
	assert.Equal(t, []string{"ball"}, w.OffscreenScene().Solids())
	o.Step()
	m.Step()
	require.NoError(t, m.Err)
	sd, err := sm.Scene().Solid("ball")
	require.NoError(t, err)
	assert.Equal(t, o.Position(), sd.Pos())
	assert.Contains(t, m.Control.(toolkit.Text).Text(), "ball: (")
	assert.Positive(t, w.OffscreenScene().RedrawCount())
}

func TestControls(t *testing.T) {
	sm, app, w := newTestSimulator(t)
	sm.SetInterval(time.Hour)
	c := NewCounter("count")
	ctl := NewControls(c)
	require.NoError(t, sm.RegisterNode(c))
	require.NoError(t, sm.RegisterNode(ctl))

	items := w.OffscreenPanel().Items()
	require.Len(t, items, 3)
	assert.Equal(t, ctl.Status(), items[0].Control)
	assert.Equal(t, sm.Em, items[1].Spacer)
	assert.Equal(t, ctl.Control, items[2].Control)

	w.DoLayout()
	assert.Equal(t, "Start", ctl.Control.(*offscreen.Button).Label())

	other := events.NewKey(events.KeyChord, 'x', key.CodeX, 0)
	w.SendKey(other)
	assert.False(t, other.IsHandled())
	assert.False(t, sm.IsComputing())

	space := events.NewKey(events.KeyChord, ' ', key.CodeSpacebar, 0)
	w.SendKey(space)
	assert.True(t, space.IsHandled())
	assert.True(t, sm.IsComputing())
	require.Eventually(t, func() bool { return c.Count() == 1 }, time.Second, time.Millisecond)
	app.RunPending()
	assert.Equal(t, "Pause", ctl.Control.(*offscreen.Button).Label())
	assert.Contains(t, ctl.Status().Text(), "frame 1")

	ctl.Control.(toolkit.Button).Click()
	assert.False(t, sm.IsComputing())
	app.RunPending()
	assert.Equal(t, "Start", ctl.Control.(*offscreen.Button).Label())
}
