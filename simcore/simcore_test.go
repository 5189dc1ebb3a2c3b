// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simcore

import (
	"image"
	"testing"

	"cogentcore.org/core/colors"
	"cogentcore.org/core/math32"
	"cogentcore.org/sim/toolkit"
	"cogentcore.org/sim/toolkit/offscreen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ toolkit.App    = (*App)(nil)
	_ toolkit.Window = (*Window)(nil)
	_ toolkit.Scene  = (*Scene)(nil)
	_ toolkit.Text   = (*Text)(nil)
	_ toolkit.Button = (*Button)(nil)
)

func TestPanelSetupLayout(t *testing.T) {
	tw, err := offscreen.NewApp().NewWindow("layout", 1000, 700)
	require.NoError(t, err)
	r := (&Panel{}).SetupLayout(tw)
	assert.Equal(t, image.Rect(1000-PanelEms*offscreen.DefaultEm, 0, 1000, 700), r)
}

func TestForeignControl(t *testing.T) {
	tw, err := offscreen.NewApp().NewWindow("foreign", 100, 100)
	require.NoError(t, err)
	_, err = widgetOf(tw.NewText("x"))
	assert.Error(t, err)
	_, err = widgetOf(nil)
	assert.Error(t, err)
}

func TestSceneSpheres(t *testing.T) {
	w, err := NewApp().NewWindow("spheres", 400, 300)
	require.NoError(t, err)
	sc := w.Scene()

	sd, err := sc.AddSphere("ball", 0.5, colors.Orange)
	require.NoError(t, err)
	assert.Equal(t, "ball", sd.Name())
	// same radius, so the mesh is shared
	_, err = sc.AddSphere("other", 0.5, colors.Blue)
	require.NoError(t, err)
	ms, err := sc.(*Scene).XYZ().MeshByName("sphere-0.5")
	require.NoError(t, err)
	assert.NotNil(t, ms)

	_, err = sc.AddSphere("ball", 1, colors.Orange)
	assert.Error(t, err)

	got, err := sc.Solid("ball")
	require.NoError(t, err)
	got.SetPos(math32.Vec3(1, 2, 3))
	assert.Equal(t, math32.Vec3(1, 2, 3), sd.Pos())

	_, err = sc.Solid("missing")
	assert.ErrorIs(t, err, toolkit.ErrMissingResource)
}
