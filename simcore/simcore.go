// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package simcore implements the toolkit interfaces of a simulator with
// Cogent Core: a window is a [core.Body] split between an
// [xyzcore.SceneEditor] and a side panel [core.Frame].
package simcore

import (
	"fmt"
	"image"
	"sync"

	"cogentcore.org/core/core"
	"cogentcore.org/core/events"
	"cogentcore.org/core/styles"
	"cogentcore.org/core/tree"
	"cogentcore.org/core/xyz/xyzcore"
	"cogentcore.org/sim/toolkit"
)

// PanelEms is the width of the side panel in ems.
const PanelEms = 15

// App is a [toolkit.App] for Cogent Core. It supports one window,
// which is the main window of the app.
type App struct {
	mu       sync.Mutex
	main     *Window
	quitOnce sync.Once
}

// NewApp returns a new app.
func NewApp() *App {
	return &App{}
}

// NewWindow makes the main window of the app. It can only be called once.
func (a *App) NewWindow(title string, width, height int) (toolkit.Window, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.main != nil {
		return nil, fmt.Errorf("simcore: app already has a window (%q)", a.main.title)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("simcore: invalid window size %dx%d", width, height)
	}
	a.main = newWindow(title, width, height)
	return a.main, nil
}

// Run opens the main window and runs the app until all windows are closed.
func (a *App) Run() {
	a.mu.Lock()
	w := a.main
	a.mu.Unlock()
	if w == nil {
		return
	}
	w.body.RunMainWindow()
}

// Quit closes the app.
func (a *App) Quit() {
	a.quitOnce.Do(func() {
		a.mu.Lock()
		w := a.main
		a.mu.Unlock()
		if w != nil {
			w.queue.Close()
		}
		core.TheApp.Quit()
	})
}

// Window is a [toolkit.Window] for Cogent Core.
type Window struct {
	title  string
	size   image.Point
	body   *core.Body
	splits *core.Splits
	editor *xyzcore.SceneEditor
	panel  *Panel
	scene  *Scene

	// queue holds the functions posted to the UI thread. They run on a
	// goroutine that holds the render lock of the window while running each.
	queue     toolkit.TaskQueue
	startOnce sync.Once

	mu       sync.Mutex
	onLayout func(ctx *toolkit.LayoutContext)
	onClose  func()
}

func newWindow(title string, width, height int) *Window {
	w := &Window{title: title, size: image.Pt(width, height)}
	b := core.NewBody(title)
	w.body = b
	b.Styler(func(s *styles.Style) {
		s.Min.X.Dp(float32(width))
		s.Min.Y.Dp(float32(height))
		w.layout()
	})
	w.splits = core.NewSplits(b)
	w.editor = xyzcore.NewSceneEditor(w.splits)
	w.editor.UpdateWidget()
	fr := core.NewFrame(w.splits)
	fr.Styler(func(s *styles.Style) {
		s.Direction = styles.Column
		s.Overflow.Y = styles.OverflowAuto
	})
	w.panel = &Panel{frame: fr}
	w.scene = newScene(w)
	w.splits.SetSplits(1-w.panelFraction(), w.panelFraction())

	b.OnShow(func(e events.Event) {
		w.startOnce.Do(func() { go w.queue.Run(w.exec) })
	})
	b.Scene.OnClose(func(e events.Event) {
		w.mu.Lock()
		fun := w.onClose
		w.mu.Unlock()
		if fun != nil {
			fun()
		}
	})
	return w
}

// exec runs a posted function while holding the render lock, so that it
// is serialized with event handling and rendering.
func (w *Window) exec(task func()) {
	w.body.AsyncLock()
	defer w.body.AsyncUnlock()
	task()
}

// layout calls the layout function before the body is laid out.
func (w *Window) layout() {
	w.mu.Lock()
	fun := w.onLayout
	w.mu.Unlock()
	if fun == nil {
		return
	}
	fun(&toolkit.LayoutContext{Em: w.Em(), Size: w.ContentRect().Size()})
}

// panelFraction returns the fraction of the width used by the panel.
func (w *Window) panelFraction() float32 {
	cw := float32(w.ContentRect().Dx())
	if cw <= 0 {
		return 0.2
	}
	return min(PanelEms*w.Em()/cw, 1)
}

func (w *Window) Title() string { return w.title }

// Em returns the font size in pixels at the current zoom.
func (w *Window) Em() float32 {
	zoom := core.AppearanceSettings.Zoom
	if zoom <= 0 {
		zoom = 100
	}
	return 16 * zoom / 100
}

// ContentRect returns the area of the window, or the requested
// size before it is shown.
func (w *Window) ContentRect() image.Rectangle {
	if sc := w.body.Scene; sc != nil {
		if sz := sc.SceneGeom.Size; sz.X > 0 && sz.Y > 0 {
			return image.Rectangle{Max: sz}
		}
	}
	return image.Rectangle{Max: w.size}
}

func (w *Window) Scene() toolkit.Scene { return w.scene }

func (w *Window) Panel() toolkit.Panel { return w.panel }

// Body returns the body of the window.
func (w *Window) Body() *core.Body { return w.body }

// AddChild adds the control to the bottom of the window, below the splits.
func (w *Window) AddChild(c toolkit.Control) error {
	wd, err := widgetOf(c)
	if err != nil {
		return err
	}
	w.body.AddChild(wd)
	w.body.Update()
	return nil
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

// PostToMain runs fun after the window is shown, holding its render lock.
func (w *Window) PostToMain(fun func()) {
	w.queue.Post(fun)
}

func (w *Window) NewText(name string) toolkit.Text {
	tx := core.NewText()
	tx.SetName(name)
	return &Text{W: tx}
}

func (w *Window) NewButton(name, label string, onClick func()) toolkit.Button {
	bt := core.NewButton()
	bt.SetName(name)
	bt.SetText(label)
	b := &Button{W: bt, onClick: onClick}
	bt.OnClick(func(e events.Event) { b.Click() })
	return b
}

// Panel is the side panel of a [Window].
type Panel struct {
	frame *core.Frame
}

// AddFixed adds a space of the given height in pixels.
func (p *Panel) AddFixed(size float32) {
	sp := core.NewSpace(p.frame)
	sp.Styler(func(s *styles.Style) {
		s.Min.Y.Dot(size)
	})
}

func (p *Panel) AddChild(c toolkit.Control) error {
	wd, err := widgetOf(c)
	if err != nil {
		return err
	}
	p.frame.AddChild(wd)
	p.frame.Update()
	return nil
}

// SetupLayout returns the right [PanelEms] of the window content.
func (p *Panel) SetupLayout(tw toolkit.Window) image.Rectangle {
	cr := tw.ContentRect()
	x := max(cr.Max.X-int(PanelEms*tw.Em()), cr.Min.X)
	return image.Rect(x, cr.Min.Y, cr.Max.X, cr.Max.Y)
}

// widgeter is implemented by the controls of this package.
type widgeter interface {
	widget() core.Widget
}

func widgetOf(c toolkit.Control) (tree.Node, error) {
	wc, ok := c.(widgeter)
	if !ok || c == nil {
		return nil, fmt.Errorf("simcore: control %T is not a Cogent Core control", c)
	}
	return wc.widget(), nil
}

// Text is a [toolkit.Text] shown with a [core.Text].
type Text struct {
	W *core.Text
}

func (tx *Text) widget() core.Widget { return tx.W }

func (tx *Text) ControlName() string { return tx.W.Name }

func (tx *Text) SetText(text string) {
	tx.W.SetText(text)
	tx.W.UpdateWidget()
	tx.W.NeedsLayout()
}

func (tx *Text) Text() string { return tx.W.Text }

// Button is a [toolkit.Button] shown with a [core.Button].
type Button struct {
	W       *core.Button
	onClick func()
}

func (bt *Button) widget() core.Widget { return bt.W }

func (bt *Button) ControlName() string { return bt.W.Name }

func (bt *Button) SetText(label string) {
	bt.W.SetText(label)
	bt.W.UpdateWidget()
	bt.W.NeedsLayout()
}

func (bt *Button) Click() {
	if bt.onClick != nil {
		bt.onClick()
	}
}
