// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package simulator provides [Simulator], which hosts a set of nodes in a
// window with a 3D scene and a side panel, runs their computation on a
// background goroutine, and routes window events to them.
//
// There is at most one Simulator per process, since it owns the
// process-wide [toolkit.App] main loop.
package simulator

import (
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync/atomic"
	"time"

	"cogentcore.org/core/colors"
	"cogentcore.org/core/events"
	"cogentcore.org/core/math32"
	"cogentcore.org/sim/compute"
	"cogentcore.org/sim/config"
	"cogentcore.org/sim/node"
	"cogentcore.org/sim/toolkit"
)

// Scene defaults.
var (
	// SunDirection is the direction the sun light shines in.
	SunDirection = math32.Vec3(-1, -1, -1)

	// SunIntensity is the intensity of the sun light in lux.
	SunIntensity float32 = 100000

	// CameraFOV is the vertical field of view of the camera in degrees.
	CameraFOV float32 = 90

	// SceneBounds is the region that the camera initially shows.
	SceneBounds = math32.B3(-10, -10, -10, 10, 10, 10)
)

// Simulator is a window with a 3D scene and a side panel that hosts
// a set of nodes. It implements [node.Owner].
type Simulator struct {

	// App is the application that runs the main loop.
	App toolkit.App

	// Window is the window of the simulator.
	Window toolkit.Window

	// Em is the font size of the window theme in pixels,
	// used as the spacing between panel controls.
	Em float32

	// Nodes are the registered nodes in registration order.
	Nodes *node.Registry

	// Router routes scene input events to the nodes.
	Router *node.Router

	// Compute runs the computation goroutine.
	Compute *compute.Scheduler

	// closed is whether the simulator has shut down.
	closed atomic.Bool
}

var _ node.Owner = (*Simulator)(nil)

// New returns a new simulator with a window of the given title and size
// made by the given app.
func New(app toolkit.App, title string, width, height int) (*Simulator, error) {
	w, err := app.NewWindow(title, width, height)
	if err != nil {
		return nil, fmt.Errorf("simulator: making window: %w", err)
	}
	sm := &Simulator{App: app, Window: w, Em: w.Em()}
	sm.Nodes = node.NewRegistry(sm)
	sm.Router = node.NewRouter(sm.Nodes)
	sm.Compute = compute.NewScheduler(sm.Nodes, compute.PosterFunc(sm.Post))

	w.SetOnLayout(sm.onLayout)
	w.SetOnClose(sm.onClose)
	sc := w.Scene()
	sc.SetOnKey(sm.onKey)
	sc.SetOnMouse(sm.onMouse)
	sc.SetBackground(colors.Black)
	sc.SetSunLight(SunDirection, colors.White, SunIntensity)
	sc.ShowGroundPlane(true)
	sc.SetupCamera(CameraFOV, SceneBounds, SceneBounds.Center())
	return sm, nil
}

// NewFromConfig returns a new simulator for the given configuration.
func NewFromConfig(app toolkit.App, cfg *config.Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sm, err := New(app, cfg.Title, cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	sm.SetInterval(cfg.IntervalDuration())
	return sm, nil
}

// RegisterNode adds the given node to the simulator. If it is a
// [node.Visual] node, its control is made and added to the side panel
// after an [Simulator.Em] spacer if [node.VisualBase.InPanel] is set,
// or to the window otherwise. It returns a [*node.DuplicateNameError]
// if the name of the node is already taken.
// It must be called on the UI thread.
func (sm *Simulator) RegisterNode(n node.Node) error {
	if err := sm.Nodes.Add(n); err != nil {
		return err
	}
	v, ok := node.AsVisual(n)
	if !ok {
		return nil
	}
	vb := v.AsVisualBase()
	ctl := v.MakeControl(sm.Window)
	vb.Control = ctl
	if ctl == nil {
		return nil
	}
	if vb.InPanel {
		p := sm.Window.Panel()
		p.AddFixed(sm.Em)
		return p.AddChild(ctl)
	}
	return sm.Window.AddChild(ctl)
}

// NodesOf returns the nodes of the given simulator that are of type T,
// in registration order.
func NodesOf[T any](sm *Simulator) []T {
	return node.NodesOf[T](sm.Nodes)
}

// OnStart calls [node.Node.OnStart] on every node.
func (sm *Simulator) OnStart() {
	for _, n := range sm.Nodes.All() {
		n.OnStart()
	}
}

// OnExit stops the computation goroutine if it is running, calls
// [node.Node.OnExit] on every node, and then removes all nodes.
func (sm *Simulator) OnExit() {
	sm.Compute.Stop()
	for _, n := range sm.Nodes.All() {
		n.OnExit()
	}
	sm.Nodes.Clear()
}

// Run starts the nodes, renders the scene, and runs the main loop of the
// app until it quits, typically because the window was closed.
// It must be called on the goroutine that becomes the UI thread.
func (sm *Simulator) Run() {
	if !sm.protect("start", sm.OnStart) {
		// nodes that already started still get OnExit
		sm.protect("exit", func() { sm.shutdown() })
		return
	}
	sm.Window.Scene().ForceRedraw()
	sm.App.Run()
	// the app can also quit without the window closing
	sm.shutdown()
}

// IsClosed returns whether the simulator has shut down.
func (sm *Simulator) IsClosed() bool {
	return sm.closed.Load()
}

// Close closes the simulator as though the user closed the window.
// It can be called from any goroutine, including the Step of a node.
func (sm *Simulator) Close() {
	sm.Post(sm.onClose)
}

// onClose handles the window closing. Only the first call has any effect.
func (sm *Simulator) onClose() {
	sm.protect("close", func() { sm.shutdown() })
	sm.App.Quit()
}

// shutdown calls [Simulator.OnExit] the first time it is called,
// returning whether it did.
func (sm *Simulator) shutdown() bool {
	if !sm.closed.CompareAndSwap(false, true) {
		return false
	}
	sm.OnExit()
	slog.Debug("simulator: shut down", "goroutines", runtime.NumGoroutine(), "frames", sm.Compute.Stats().Frames)
	return true
}

// onLayout lays out the visual nodes, the panel, and the scene,
// which gets the content area to the left of the panel.
func (sm *Simulator) onLayout(ctx *toolkit.LayoutContext) {
	sm.protect("layout", func() {
		for _, v := range sm.Nodes.Visuals() {
			v.CreateLayout(ctx)
		}
		content := sm.Window.ContentRect()
		panel := sm.Window.Panel().SetupLayout(sm.Window)
		// full content height from the content origin, which is 0 for both toolkits
		sm.Window.Scene().SetFrame(image.Rect(content.Min.X, content.Min.Y, panel.Min.X, content.Max.Y))
	})
}

func (sm *Simulator) onKey(e events.Event) {
	sm.protect("key", func() { sm.Router.Key(e) })
}

func (sm *Simulator) onMouse(e events.Event) {
	sm.protect("mouse", func() { sm.Router.Mouse(e) })
}

// protect calls fun, recovering from a panic in it by logging the panic
// and quitting the app. It returns whether fun returned normally.
// It guards every entry point from the UI thread.
func (sm *Simulator) protect(op string, fun func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			slog.Error("simulator: quitting after failure on UI thread", "op", op, "err", r, "stack", string(debug.Stack()))
			sm.App.Quit()
		}
	}()
	fun()
	return true
}

// StartComputation starts the computation goroutine.
func (sm *Simulator) StartComputation() {
	sm.Compute.Start()
}

// StopComputation stops the computation goroutine and waits for it to exit.
// It must not be called from the Step of a headless node.
func (sm *Simulator) StopComputation() {
	sm.Compute.Stop()
}

// IsComputing returns whether the computation goroutine is running.
func (sm *Simulator) IsComputing() bool {
	return sm.Compute.IsRunning()
}

// Interval returns the minimum time between computation frames.
func (sm *Simulator) Interval() time.Duration {
	return sm.Compute.Interval()
}

// SetInterval sets the minimum time between computation frames.
func (sm *Simulator) SetInterval(d time.Duration) {
	sm.Compute.SetInterval(d)
}

// Stats returns the frame statistics of the computation goroutine.
func (sm *Simulator) Stats() compute.Stats {
	return sm.Compute.Stats()
}

// Scene returns the 3D scene.
func (sm *Simulator) Scene() toolkit.Scene {
	return sm.Window.Scene()
}

// Post runs fun asynchronously on the UI thread. A panic in fun quits the app.
func (sm *Simulator) Post(fun func()) {
	sm.Window.PostToMain(func() {
		sm.protect("post", fun)
	})
}
