// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simcore

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"cogentcore.org/core/colors"
	"cogentcore.org/core/events"
	"cogentcore.org/core/math32"
	"cogentcore.org/core/xyz"
	"cogentcore.org/sim/toolkit"
)

// FullSunLux is the intensity in lux that gives a light of full brightness.
const FullSunLux = 100000

// sceneEvents are the event types delivered to the mouse function of a [Scene].
var sceneEvents = []events.Types{events.MouseDown, events.MouseUp, events.Click, events.DoubleClick, events.Scroll}

// Scene is a [toolkit.Scene] shown in the [xyzcore.SceneEditor] of a [Window].
type Scene struct {
	win *Window

	mu      sync.Mutex
	frame   image.Rectangle
	onKey   func(e events.Event)
	onMouse func(e events.Event)
	sun     *xyz.Directional
	ground  *xyz.Solid
}

func newScene(w *Window) *Scene {
	sc := &Scene{win: w}
	sw := w.editor.SceneWidget()
	// listeners added later run first, so nodes see events
	// before the default camera navigation does
	sw.On(events.KeyChord, func(e events.Event) {
		sc.mu.Lock()
		fun := sc.onKey
		sc.mu.Unlock()
		if fun != nil {
			fun(e)
		}
	})
	for _, et := range sceneEvents {
		sw.On(et, func(e events.Event) {
			sc.mu.Lock()
			fun := sc.onMouse
			sc.mu.Unlock()
			if fun != nil {
				fun(e)
			}
		})
	}
	return sc
}

// XYZ returns the underlying 3D scene.
func (sc *Scene) XYZ() *xyz.Scene {
	return sc.win.editor.SceneXYZ()
}

func (sc *Scene) SetBackground(c color.RGBA) {
	sc.XYZ().Background = colors.Uniform(c)
}

// SetSunLight sets a directional light shining along dir, with a brightness
// of intensity relative to [FullSunLux].
func (sc *Scene) SetSunLight(dir math32.Vector3, c color.RGBA, intensity float32) {
	xs := sc.XYZ()
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.sun == nil {
		xyz.NewAmbient(xs, "ambient", 0.3, xyz.DirectSun)
		sc.sun = xyz.NewDirectional(xs, "sun", 1, xyz.DirectSun)
	}
	// a directional light shines from its position toward the origin
	sc.sun.Pos = dir.Negate()
	sc.sun.Color = c
	sc.sun.Lumens = math32.Clamp(intensity/FullSunLux, 0, 1)
	xs.SetNeedsUpdate()
}

func (sc *Scene) ShowGroundPlane(show bool) {
	xs := sc.XYZ()
	sc.mu.Lock()
	defer sc.mu.Unlock()
	switch {
	case show && sc.ground == nil:
		pm := xyz.NewPlane(xs, "ground-plane", 20, 20)
		sc.ground = xyz.NewSolid(xs)
		sc.ground.SetName("ground")
		sc.ground.SetMesh(pm).SetColor(colors.Gray)
	case !show && sc.ground != nil:
		sc.ground.Delete()
		sc.ground = nil
	}
	xs.SetNeedsUpdate()
}

// SetupCamera places the camera in front of and above center, far
// enough away that the bounding sphere of bounds fills the view.
func (sc *Scene) SetupCamera(fov float32, bounds math32.Box3, center math32.Vector3) {
	xs := sc.XYZ()
	radius := bounds.Size().Length() / 2
	dist := radius / math32.Tan(math32.DegToRad(fov/2))
	xs.Camera.FOV = fov
	xs.Camera.Pose.Pos = center.Add(math32.Vec3(0, radius/2, dist))
	xs.Camera.LookAt(center, math32.Vec3(0, 1, 0))
	xs.SaveCamera("default")
	xs.SetNeedsUpdate()
}

// SetFrame sets the split between the scene and the panel so that the
// scene gets the width of r.
func (sc *Scene) SetFrame(r image.Rectangle) {
	sc.mu.Lock()
	changed := sc.frame != r
	sc.frame = r
	sc.mu.Unlock()
	if !changed {
		return
	}
	cw := float32(sc.win.ContentRect().Dx())
	if cw <= 0 {
		return
	}
	f := math32.Clamp(float32(r.Dx())/cw, 0, 1)
	sc.win.splits.SetSplits(f, 1-f)
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

func (sc *Scene) AddSphere(name string, radius float32, c color.RGBA) (toolkit.Solid, error) {
	xs := sc.XYZ()
	if xs.ChildByName(name, 0) != nil {
		return nil, fmt.Errorf("simcore: solid %q already exists", name)
	}
	mnm := fmt.Sprintf("sphere-%g", radius)
	ms, err := xs.MeshByName(mnm)
	if err != nil {
		ms = xyz.NewSphere(xs, mnm, radius, 32)
	}
	sd := xyz.NewSolid(xs)
	sd.SetName(name)
	sd.SetMesh(ms).SetColor(c)
	xs.SetNeedsUpdate()
	return &Solid{scene: sc, sd: sd}, nil
}

func (sc *Scene) Solid(name string) (toolkit.Solid, error) {
	sd, ok := sc.XYZ().ChildByName(name, 0).(*xyz.Solid)
	if !ok {
		return nil, &toolkit.MissingResourceError{Kind: "solid", Name: name}
	}
	return &Solid{scene: sc, sd: sd}, nil
}

func (sc *Scene) ForceRedraw() {
	sc.XYZ().SetNeedsRender()
	sc.win.editor.NeedsRender()
}

// Solid is a [toolkit.Solid] for an [xyz.Solid].
type Solid struct {
	scene *Scene
	sd    *xyz.Solid
}

func (s *Solid) Name() string { return s.sd.Name }

func (s *Solid) SetPos(pos math32.Vector3) {
	s.sd.Pose.Pos = pos
	s.scene.XYZ().SetNeedsUpdate()
}

func (s *Solid) Pos() math32.Vector3 { return s.sd.Pose.Pos }
