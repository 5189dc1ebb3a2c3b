// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nodes provides example simulator nodes: [Counter] and [Orbit]
// compute on the computation goroutine, and [Marker] and [Controls]
// show their state in the window.
package nodes

import (
	"fmt"
	"image/color"
	"sync"
	"sync/atomic"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/colors"
	"cogentcore.org/core/events"
	"cogentcore.org/core/math32"
	"cogentcore.org/sim/node"
	"cogentcore.org/sim/toolkit"
)

// Counter is a headless node that counts its steps.
type Counter struct {
	node.NodeBase

	// Limit is the number of steps after which OnLimit is called.
	// 0 means no limit.
	Limit uint64

	// OnLimit is called once, on the computation goroutine, when Limit is reached.
	OnLimit func()

	count atomic.Uint64
}

// NewCounter returns a new [Counter] with the given name.
func NewCounter(name string) *Counter {
	return &Counter{NodeBase: node.NodeBase{Name: name}}
}

func (c *Counter) Step() {
	n := c.count.Add(1)
	if c.Limit > 0 && n == c.Limit && c.OnLimit != nil {
		c.OnLimit()
	}
}

// Count returns the number of steps so far.
func (c *Counter) Count() uint64 {
	return c.count.Load()
}

// Orbit is a headless node that moves a point around a circle in the
// horizontal plane, advancing by Speed radians every step.
type Orbit struct {
	node.NodeBase

	// Radius is the radius of the circle.
	Radius float32

	// Speed is the angle in radians advanced per step.
	Speed float32

	// Height is the height of the circle above the ground.
	Height float32

	mu    sync.Mutex
	angle float32
}

// NewOrbit returns a new [Orbit] with the given name, radius and speed.
func NewOrbit(name string, radius, speed float32) *Orbit {
	return &Orbit{NodeBase: node.NodeBase{Name: name}, Radius: radius, Speed: speed, Height: 1}
}

func (o *Orbit) Step() {
	o.mu.Lock()
	o.angle = math32.Mod(o.angle+o.Speed, 2*math32.Pi)
	o.mu.Unlock()
}

// Angle returns the current angle in radians.
func (o *Orbit) Angle() float32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.angle
}

// Position returns the current position. It is safe to call
// from any goroutine.
func (o *Orbit) Position() math32.Vector3 {
	a := o.Angle()
	return math32.Vec3(o.Radius*math32.Cos(a), o.Height, o.Radius*math32.Sin(a))
}

// Positioner is the interface for nodes that have a position.
type Positioner interface {
	Position() math32.Vector3
}

// Marker is a visual node that shows a sphere in the scene at the
// position of its source, and the coordinates in the panel.
type Marker struct {
	node.VisualBase

	// Source is the node whose position is shown.
	Source Positioner

	// Radius is the radius of the sphere.
	Radius float32

	// Color is the color of the sphere.
	Color color.RGBA

	// Err is the last error from updating the sphere.
	Err error

	text toolkit.Text
}

// NewMarker returns a new [Marker] in the panel with the given name
// that follows the given source.
func NewMarker(name string, source Positioner) *Marker {
	m := &Marker{Source: source, Radius: 0.5, Color: colors.Orange}
	m.Name = name
	m.InPanel = true
	return m
}

func (m *Marker) MakeControl(w toolkit.Window) toolkit.Control {
	m.text = w.NewText(m.Name)
	m.text.SetText(m.Name)
	return m.text
}

// OnStart adds the sphere to the scene.
func (m *Marker) OnStart() {
	sd, err := m.Owner.Scene().AddSphere(m.Name, m.Radius, m.Color)
	if errors.Log(err) != nil {
		m.Err = err
		return
	}
	if m.Source != nil {
		sd.SetPos(m.Source.Position())
	}
}

// Step moves the sphere to the position of the source.
func (m *Marker) Step() {
	sd, err := m.Owner.Scene().Solid(m.Name)
	if err != nil {
		m.Err = err
		return
	}
	m.Err = nil
	if m.Source == nil {
		return
	}
	pos := m.Source.Position()
	sd.SetPos(pos)
	if m.text != nil {
		m.text.SetText(fmt.Sprintf("%s: (%.2f, %.2f, %.2f)", m.Name, pos.X, pos.Y, pos.Z))
	}
	m.Owner.Scene().ForceRedraw()
}

// Controls is a visual node with a button that starts and pauses the
// computation and a text that shows its status. It also toggles the
// computation when the space key is pressed in the scene.
type Controls struct {
	node.VisualBase

	// Counter is the node whose count is shown as the frame number.
	Counter *Counter

	button toolkit.Button
	status toolkit.Text
}

// NewControls returns a new [Controls] in the panel.
func NewControls(counter *Counter) *Controls {
	c := &Controls{Counter: counter}
	c.Name = "controls"
	c.InPanel = true
	return c
}

// MakeControl makes the button, which is returned, and the status
// text, which is added to the panel first.
func (c *Controls) MakeControl(w toolkit.Window) toolkit.Control {
	c.status = w.NewText("status")
	errors.Log(w.Panel().AddChild(c.status))
	c.button = w.NewButton("toggle", "Start", c.Toggle)
	return c.button
}

// Status returns the status text control.
func (c *Controls) Status() toolkit.Text {
	return c.status
}

// CreateLayout refreshes the status before each layout pass.
func (c *Controls) CreateLayout(ctx *toolkit.LayoutContext) {
	c.update()
}

// Toggle starts the computation if it is paused and pauses it otherwise.
func (c *Controls) Toggle() {
	if c.Owner.IsComputing() {
		c.Owner.StopComputation()
	} else {
		c.Owner.StartComputation()
	}
	c.update()
}

func (c *Controls) OnStartComputation() { c.Owner.Post(c.update) }
func (c *Controls) OnPauseComputation() { c.Owner.Post(c.update) }

func (c *Controls) Step() {
	c.update()
}

func (c *Controls) OnKey(e events.Event) node.EventResults {
	if e.KeyRune() != ' ' {
		return node.Ignored
	}
	c.Toggle()
	return node.Handled
}

// update shows the current state. It runs on the UI thread.
func (c *Controls) update() {
	if c.button == nil || c.Owner == nil {
		return
	}
	running := c.Owner.IsComputing()
	if running {
		c.button.SetText("Pause")
	} else {
		c.button.SetText("Start")
	}
	frames := uint64(0)
	if c.Counter != nil {
		frames = c.Counter.Count()
	}
	c.status.SetText(fmt.Sprintf("frame %d, every %v", frames, c.Owner.Interval()))
}
