// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package offscreen

import (
	"image"
	"image/color"
	"testing"
	"time"

	"cogentcore.org/core/events"
	"cogentcore.org/core/events/key"
	"cogentcore.org/core/math32"
	"cogentcore.org/sim/toolkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWindow(t *testing.T) (*App, *Window) {
	a := NewApp()
	tw, err := a.NewWindow("test", 800, 600)
	require.NoError(t, err)
	return a, tw.(*Window)
}

func TestNewWindowSize(t *testing.T) {
	a := NewApp()
	_, err := a.NewWindow("bad", 0, 100)
	assert.Error(t, err)
	_, w := newWindow(t)
	assert.Equal(t, "test", w.Title())
	assert.Equal(t, image.Rect(0, 0, 800, 600), w.ContentRect())
	assert.Equal(t, float32(DefaultEm), w.Em())
}

func TestRunQuit(t *testing.T) {
	a, w := newWindow(t)
	var got []int
	for i := range 3 {
		w.PostToMain(func() { got = append(got, i) })
	}
	w.PostToMain(a.Quit)

	done := make(chan struct{})
	go func() {
		a.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Quit")
	}
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.True(t, a.IsQuit())

	// quit twice is fine, and posting after quit drops the function
	a.Quit()
	w.PostToMain(func() { t.Error("ran after quit") })
	assert.Equal(t, 0, a.RunPending())
}

func TestRunPending(t *testing.T) {
	a, w := newWindow(t)
	ran := 0
	w.PostToMain(func() {
		ran++
		w.PostToMain(func() { ran++ })
	})
	assert.Equal(t, 1, a.Pending())
	assert.Equal(t, 2, a.RunPending())
	assert.Equal(t, 2, ran)
}

func TestPanelLayout(t *testing.T) {
	_, w := newWindow(t)
	p := w.OffscreenPanel()
	tx := w.NewText("status")
	p.AddFixed(16)
	require.NoError(t, p.AddChild(tx))
	assert.Error(t, p.AddChild(nil))
	assert.Equal(t, []PanelItem{{Spacer: 16}, {Control: tx}}, p.Items())

	r := p.SetupLayout(w)
	assert.Equal(t, image.Rect(800-PanelEms*DefaultEm, 0, 800, 600), r)

	w.SetEm(100)
	assert.Equal(t, image.Rect(0, 0, 800, 600), p.SetupLayout(w), "panel is clamped to the window")
}

func TestWindowCallbacks(t *testing.T) {
	_, w := newWindow(t)
	var ctxs []toolkit.LayoutContext
	w.SetOnLayout(func(ctx *toolkit.LayoutContext) { ctxs = append(ctxs, *ctx) })
	w.Resize(400, 300)
	require.Len(t, ctxs, 1)
	assert.Equal(t, image.Pt(400, 300), ctxs[0].Size)
	assert.Equal(t, 1, w.Layouts())

	closes := 0
	w.RequestClose()
	w.SetOnClose(func() { closes++ })
	w.RequestClose()
	assert.Equal(t, 1, closes)

	var keys, mice int
	w.Scene().SetOnKey(func(e events.Event) { keys++ })
	w.Scene().SetOnMouse(func(e events.Event) { mice++ })
	w.SendKey(events.NewKey(events.KeyChord, ' ', key.CodeSpacebar, 0))
	w.SendMouse(events.NewMouse(events.MouseDown, events.Left, image.Pt(1, 1), 0))
	w.SendMouse(events.NewMouse(events.MouseUp, events.Left, image.Pt(1, 1), 0))
	assert.Equal(t, 1, keys)
	assert.Equal(t, 2, mice)
}

func TestSceneSolids(t *testing.T) {
	_, w := newWindow(t)
	sc := w.OffscreenScene()
	_, err := sc.Solid("ball")
	var me *toolkit.MissingResourceError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "solid", me.Kind)
	assert.ErrorIs(t, err, toolkit.ErrMissingResource)

	sd, err := sc.AddSphere("ball", 0.5, color.RGBA{255, 0, 0, 255})
	require.NoError(t, err)
	_, err = sc.AddSphere("ball", 0.5, color.RGBA{})
	assert.Error(t, err)
	_, err = sc.AddSphere("dot", 0, color.RGBA{})
	assert.Error(t, err)

	sd.SetPos(math32.Vec3(1, 2, 3))
	got, err := sc.Solid("ball")
	require.NoError(t, err)
	assert.Equal(t, math32.Vec3(1, 2, 3), got.Pos())
	assert.Equal(t, []string{"ball"}, sc.Solids())

	sc.Remove("ball")
	assert.Empty(t, sc.Solids())
	sc.ForceRedraw()
	assert.Equal(t, 1, sc.RedrawCount())
}

func TestControls(t *testing.T) {
	_, w := newWindow(t)
	clicks := 0
	bt := w.NewButton("toggle", "Start", func() { clicks++ })
	bt.Click()
	bt.SetText("Pause")
	assert.Equal(t, 1, clicks)
	assert.Equal(t, "Pause", bt.(*Button).Label())
	assert.Equal(t, "toggle", bt.ControlName())

	tx := w.NewText("status")
	tx.SetText("frame 1")
	assert.Equal(t, "frame 1", tx.Text())
	require.NoError(t, w.AddChild(tx))
	assert.Equal(t, []toolkit.Control{tx}, w.Children())
}
