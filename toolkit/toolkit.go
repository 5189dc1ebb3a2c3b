// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package toolkit defines the boundary between the simulator and the
// window, widget and 3D scene system that hosts it. The simulator only
// talks to these interfaces; see package simcore for the Cogent Core
// implementation and package offscreen for a headless one.
package toolkit

import (
	"fmt"
	"image"
	"image/color"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/events"
	"cogentcore.org/core/math32"
)

// App is the process-wide GUI application. There is at most one per process.
type App interface {

	// NewWindow creates a new window with the given title and size in
	// device-independent pixels.
	NewWindow(title string, width, height int) (Window, error)

	// Run runs the main event loop on the calling goroutine, which becomes
	// the UI thread. It returns after [App.Quit].
	Run()

	// Quit requests termination of the main event loop. It is safe to call
	// more than once and from any goroutine.
	Quit()
}

// LayoutContext is passed to layout callbacks before every layout pass.
type LayoutContext struct {

	// Em is the current font size in pixels.
	Em float32

	// Size is the size of the window content area.
	Size image.Point
}

// Window is a top-level window containing a 3D [Scene] and a side [Panel].
type Window interface {
	Title() string

	// Em returns the current font size of the window theme in pixels.
	Em() float32

	// ContentRect returns the content area of the window.
	ContentRect() image.Rectangle

	Scene() Scene
	Panel() Panel

	// AddChild adds the given control directly to the window,
	// outside of the panel.
	AddChild(c Control) error

	// SetOnLayout sets the function called before every layout pass.
	SetOnLayout(fun func(ctx *LayoutContext))

	// SetOnClose sets the function called when the window is closed.
	SetOnClose(fun func())

	// PostToMain runs fun exactly once, asynchronously, on the UI thread.
	// Posted functions run in the order they were posted.
	PostToMain(fun func())

	// NewText makes a new text control owned by this window.
	NewText(name string) Text

	// NewButton makes a new button control owned by this window that
	// calls onClick on the UI thread when clicked.
	NewButton(name, label string, onClick func()) Button
}

// Panel is a vertical list of controls shown next to the 3D scene.
type Panel interface {

	// AddFixed adds a fixed-size spacer of the given size in pixels.
	AddFixed(size float32)

	// AddChild adds the given control to the end of the panel.
	AddChild(c Control) error

	// SetupLayout computes the panel geometry within the given window
	// and returns the rectangle the panel occupies.
	SetupLayout(w Window) image.Rectangle
}

// Scene is the 3D scene view of a [Window].
type Scene interface {
	SetBackground(c color.RGBA)

	// SetSunLight configures a directional light shining along dir.
	// Intensity is in lux; 100000 is full daylight.
	SetSunLight(dir math32.Vector3, c color.RGBA, intensity float32)

	ShowGroundPlane(show bool)

	// SetupCamera points a camera with the given vertical field of view
	// in degrees at center, far enough away to see all of bounds.
	SetupCamera(fov float32, bounds math32.Box3, center math32.Vector3)

	// SetFrame sets the area of the window that the scene is drawn in.
	SetFrame(r image.Rectangle)
	Frame() image.Rectangle

	// SetOnKey and SetOnMouse set the input callbacks of the scene.
	// The callback marks the event as handled with [events.Event.SetHandled]
	// when it consumes it.
	SetOnKey(fun func(e events.Event))
	SetOnMouse(fun func(e events.Event))

	// AddSphere adds a sphere solid with the given name.
	AddSphere(name string, radius float32, c color.RGBA) (Solid, error)

	// Solid returns the solid with the given name, or a
	// [*MissingResourceError] if there is none.
	Solid(name string) (Solid, error)

	// ForceRedraw requests that the scene be rendered again.
	ForceRedraw()
}

// Solid is a handle on a solid object in a [Scene].
type Solid interface {
	Name() string
	SetPos(pos math32.Vector3)
	Pos() math32.Vector3
}

// Control is a UI control owned by a window.
type Control interface {
	ControlName() string
}

// Text is a control displaying a line of text.
type Text interface {
	Control
	SetText(text string)
	Text() string
}

// Button is a clickable control.
type Button interface {
	Control
	SetText(label string)

	// Click performs the click action as though the user clicked.
	Click()
}

// ErrMissingResource is returned (wrapped in [MissingResourceError])
// when an expected scene resource such as a mesh or solid does not exist.
var ErrMissingResource = errors.New("toolkit: missing resource")

// MissingResourceError is returned when a named scene resource does not exist.
type MissingResourceError struct {

	// Kind is the kind of resource, such as "mesh" or "solid".
	Kind string

	// Name is the name that was looked up.
	Name string
}

func (e *MissingResourceError) Error() string {
	return fmt.Sprintf("no %s named %q in scene", e.Kind, e.Name)
}

func (e *MissingResourceError) Unwrap() error {
	return ErrMissingResource
}
