// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package offscreen provides a [toolkit.App] that has no display.
// Windows, scenes and controls only record their state, and the main
// loop runs posted functions. It is used for testing and for running
// a simulator without a GUI.
package offscreen

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"cogentcore.org/core/events"
	"cogentcore.org/core/math32"
	"cogentcore.org/sim/toolkit"
)

// DefaultEm is the font size in pixels of new windows.
const DefaultEm = 16

// PanelEms is the width of the side panel in ems.
const PanelEms = 15

// App is an offscreen [toolkit.App].
type App struct {
	queue    toolkit.TaskQueue
	quitOnce sync.Once
	quit     chan struct{}

	mu      sync.Mutex
	windows []*Window
}

// NewApp returns a new offscreen app.
func NewApp() *App {
	return &App{quit: make(chan struct{})}
}

// NewWindow returns a new [*Window].
func (a *App) NewWindow(title string, width, height int) (toolkit.Window, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("offscreen: invalid window size %dx%d", width, height)
	}
	w := &Window{
		app:   a,
		title: title,
		size:  image.Pt(width, height),
		em:    DefaultEm,
		scene: newScene(),
	}
	w.panel = &Panel{}
	a.mu.Lock()
	a.windows = append(a.windows, w)
	a.mu.Unlock()
	return w, nil
}

// Windows returns the windows made by the app.
func (a *App) Windows() []*Window {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*Window(nil), a.windows...)
}

// Run runs posted functions on the calling goroutine until [App.Quit].
func (a *App) Run() {
	a.queue.Run(nil)
}

// Quit stops [App.Run]. Functions still queued are dropped.
func (a *App) Quit() {
	a.quitOnce.Do(func() {
		close(a.quit)
		a.queue.Close()
	})
}

// Done returns a channel that is closed when [App.Quit] is called.
func (a *App) Done() <-chan struct{} {
	return a.quit
}

// IsQuit returns whether [App.Quit] has been called.
func (a *App) IsQuit() bool {
	select {
	case <-a.quit:
		return true
	default:
		return false
	}
}

// RunPending runs the functions that are waiting on the main loop, for
// tests that do not call [App.Run]. It returns the number of functions run.
func (a *App) RunPending() int {
	return a.queue.RunPending()
}

// Pending returns the number of functions waiting on the main loop.
func (a *App) Pending() int {
	return a.queue.Len()
}

// Window is an offscreen [toolkit.Window].
type Window struct {
	app   *App
	title string
	scene *Scene
	panel *Panel

	mu       sync.Mutex
	size     image.Point
	em       float32
	children []toolkit.Control
	onLayout func(ctx *toolkit.LayoutContext)
	onClose  func()
	layouts  int
}

func (w *Window) Title() string { return w.title }

func (w *Window) Em() float32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.em
}

// SetEm sets the font size of the window.
func (w *Window) SetEm(em float32) {
	w.mu.Lock()
	w.em = em
	w.mu.Unlock()
}

func (w *Window) ContentRect() image.Rectangle {
	w.mu.Lock()
	defer w.mu.Unlock()
	return image.Rectangle{Max: w.size}
}

// Resize sets the size of the window and runs a layout pass.
func (w *Window) Resize(width, height int) {
	w.mu.Lock()
	w.size = image.Pt(width, height)
	w.mu.Unlock()
	w.DoLayout()
}

func (w *Window) Scene() toolkit.Scene { return w.scene }

// OffscreenScene returns the scene of the window as a [*Scene].
func (w *Window) OffscreenScene() *Scene { return w.scene }

func (w *Window) Panel() toolkit.Panel { return w.panel }

// OffscreenPanel returns the panel of the window as a [*Panel].
func (w *Window) OffscreenPanel() *Panel { return w.panel }

func (w *Window) AddChild(c toolkit.Control) error {
	if c == nil {
		return fmt.Errorf("offscreen: cannot add nil control to window %q", w.title)
	}
	w.mu.Lock()
	w.children = append(w.children, c)
	w.mu.Unlock()
	return nil
}

// Children returns the controls added directly to the window.
func (w *Window) Children() []toolkit.Control {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]toolkit.Control(nil), w.children...)
}

func (w *Window) SetOnLayout(fun func(ctx *toolkit.LayoutContext)) {
	w.mu.Lock()
	w.onLayout = fun
	w.mu.Unlock()
}

func (w *Window) SetOnClose(fun func()) {
	w.mu.Lock()
	w.onClose = fun
	w.mu.Unlock()
}

func (w *Window) PostToMain(fun func()) {
	w.app.queue.Post(fun)
}

// DoLayout runs a layout pass, calling the layout function if there is one.
func (w *Window) DoLayout() {
	w.mu.Lock()
	fun := w.onLayout
	ctx := &toolkit.LayoutContext{Em: w.em, Size: w.size}
	w.layouts++
	w.mu.Unlock()
	if fun != nil {
		fun(ctx)
	}
}

// Layouts returns the number of layout passes so far.
func (w *Window) Layouts() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.layouts
}

// RequestClose closes the window as though the user closed it,
// calling the close function if there is one.
func (w *Window) RequestClose() {
	w.mu.Lock()
	fun := w.onClose
	w.mu.Unlock()
	if fun != nil {
		fun()
	}
}

// SendKey delivers the given key event to the scene.
func (w *Window) SendKey(e events.Event) {
	w.scene.send(e, true)
}

// SendMouse delivers the given mouse event to the scene.
func (w *Window) SendMouse(e events.Event) {
	w.scene.send(e, false)
}

func (w *Window) NewText(name string) toolkit.Text {
	return &Text{name: name}
}

func (w *Window) NewButton(name, label string, onClick func()) toolkit.Button {
	return &Button{name: name, label: label, onClick: onClick}
}

// PanelItem is an entry of a [Panel]: either a spacer or a control.
type PanelItem struct {

	// Spacer is the size of the spacer in pixels, if Control is nil.
	Spacer float32

	// Control is the control, if this is not a spacer.
	Control toolkit.Control
}

// Panel is an offscreen [toolkit.Panel] on the right side of its window.
type Panel struct {
	mu    sync.Mutex
	items []PanelItem
}

func (p *Panel) AddFixed(size float32) {
	p.mu.Lock()
	p.items = append(p.items, PanelItem{Spacer: size})
	p.mu.Unlock()
}

func (p *Panel) AddChild(c toolkit.Control) error {
	if c == nil {
		return fmt.Errorf("offscreen: cannot add nil control to panel")
	}
	p.mu.Lock()
	p.items = append(p.items, PanelItem{Control: c})
	p.mu.Unlock()
	return nil
}

// Items returns the spacers and controls of the panel in order.
func (p *Panel) Items() []PanelItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PanelItem(nil), p.items...)
}

// SetupLayout places the panel on the right side of the window content,
// [PanelEms] wide, or the whole width if the window is narrower.
func (p *Panel) SetupLayout(w toolkit.Window) image.Rectangle {
	cr := w.ContentRect()
	width := int(PanelEms * w.Em())
	x := max(cr.Max.X-width, cr.Min.X)
	return image.Rect(x, cr.Min.Y, cr.Max.X, cr.Max.Y)
}

// Scene is an offscreen [toolkit.Scene].
type Scene struct {
	mu sync.Mutex

	Background  color.RGBA
	SunDir      math32.Vector3
	SunColor    color.RGBA
	SunLux      float32
	GroundPlane bool
	FOV         float32
	Bounds      math32.Box3
	Center      math32.Vector3
	Redraws     int

	frame   image.Rectangle
	onKey   func(e events.Event)
	onMouse func(e events.Event)
	solids  map[string]*Solid
	order   []string
}

func newScene() *Scene {
	return &Scene{solids: map[string]*Solid{}}
}

func (sc *Scene) SetBackground(c color.RGBA) {
	sc.mu.Lock()
	sc.Background = c
	sc.mu.Unlock()
}

func (sc *Scene) SetSunLight(dir math32.Vector3, c color.RGBA, intensity float32) {
	sc.mu.Lock()
	sc.SunDir, sc.SunColor, sc.SunLux = dir, c, intensity
	sc.mu.Unlock()
}

func (sc *Scene) ShowGroundPlane(show bool) {
	sc.mu.Lock()
	sc.GroundPlane = show
	sc.mu.Unlock()
}

func (sc *Scene) SetupCamera(fov float32, bounds math32.Box3, center math32.Vector3) {
	sc.mu.Lock()
	sc.FOV, sc.Bounds, sc.Center = fov, bounds, center
	sc.mu.Unlock()
}

func (sc *Scene) SetFrame(r image.Rectangle) {
	sc.mu.Lock()
	sc.frame = r
	sc.mu.Unlock()
}

func (sc *Scene) Frame() image.Rectangle {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.frame
}

func (sc *Scene) SetOnKey(fun func(e events.Event)) {
	sc.mu.Lock()
	sc.onKey = fun
	sc.mu.Unlock()
}

func (sc *Scene) SetOnMouse(fun func(e events.Event)) {
	sc.mu.Lock()
	sc.onMouse = fun
	sc.mu.Unlock()
}

func (sc *Scene) send(e events.Event, isKey bool) {
	sc.mu.Lock()
	fun := sc.onMouse
	if isKey {
		fun = sc.onKey
	}
	sc.mu.Unlock()
	if fun != nil {
		fun(e)
	}
}

func (sc *Scene) AddSphere(name string, radius float32, c color.RGBA) (toolkit.Solid, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("offscreen: sphere %q has invalid radius %g", name, radius)
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if _, has := sc.solids[name]; has {
		return nil, fmt.Errorf("offscreen: solid %q already exists", name)
	}
	sd := &Solid{name: name, Radius: radius, Color: c}
	sc.solids[name] = sd
	sc.order = append(sc.order, name)
	return sd, nil
}

func (sc *Scene) Solid(name string) (toolkit.Solid, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sd, ok := sc.solids[name]
	if !ok {
		return nil, &toolkit.MissingResourceError{Kind: "solid", Name: name}
	}
	return sd, nil
}

// Solids returns the names of the solids in the order they were added.
func (sc *Scene) Solids() []string {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return append([]string(nil), sc.order...)
}

// Remove removes the solid with the given name, if there is one.
func (sc *Scene) Remove(name string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	delete(sc.solids, name)
	for i, nm := range sc.order {
		if nm == name {
			sc.order = append(sc.order[:i], sc.order[i+1:]...)
			break
		}
	}
}

func (sc *Scene) ForceRedraw() {
	sc.mu.Lock()
	sc.Redraws++
	sc.mu.Unlock()
}

// RedrawCount returns the number of redraws requested.
func (sc *Scene) RedrawCount() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.Redraws
}

// Solid is an offscreen [toolkit.Solid].
type Solid struct {
	name   string
	Radius float32
	Color  color.RGBA

	mu  sync.Mutex
	pos math32.Vector3
}

func (sd *Solid) Name() string { return sd.name }

func (sd *Solid) SetPos(pos math32.Vector3) {
	sd.mu.Lock()
	sd.pos = pos
	sd.mu.Unlock()
}

func (sd *Solid) Pos() math32.Vector3 {
	sd.mu.Lock()
	defer sd.mu.Unlock()
	return sd.pos
}

// Text is an offscreen [toolkit.Text].
type Text struct {
	name string

	mu   sync.Mutex
	text string
}

func (tx *Text) ControlName() string { return tx.name }

func (tx *Text) SetText(text string) {
	tx.mu.Lock()
	tx.text = text
	tx.mu.Unlock()
}

func (tx *Text) Text() string {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return tx.text
}

// Button is an offscreen [toolkit.Button].
type Button struct {
	name    string
	onClick func()

	mu    sync.Mutex
	label string
}

func (bt *Button) ControlName() string { return bt.name }

func (bt *Button) SetText(label string) {
	bt.mu.Lock()
	bt.label = label
	bt.mu.Unlock()
}

// Label returns the label of the button.
func (bt *Button) Label() string {
	bt.mu.Lock()
	defer bt.mu.Unlock()
	return bt.label
}

func (bt *Button) Click() {
	if bt.onClick != nil {
		bt.onClick()
	}
}
