// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package node defines the pluggable units of per-frame behavior that
// run inside a simulator, the ordered [Registry] that holds them, and the
// [Router] that dispatches input events to them.
//
// There are two kinds of nodes. Headless nodes only compute: their
// [Node.Step] runs on the computation goroutine. [Visual] nodes also own a
// UI control and participate in layout: their [Node.Step] always runs on
// the UI thread.
package node

import (
	"time"

	"cogentcore.org/core/events"
	"cogentcore.org/sim/toolkit"
)

// Node is the interface that every simulator node implements.
// Embed [NodeBase] to get no-op defaults for everything
// except the behavior you need.
type Node interface {

	// AsNodeBase returns the [NodeBase] of the node.
	AsNodeBase() *NodeBase

	// OnStart is called once when the simulator starts running.
	OnStart()

	// OnExit is called once when the simulator shuts down.
	OnExit()

	// OnStartComputation is called on the UI thread before the
	// computation goroutine starts.
	OnStartComputation()

	// OnPauseComputation is called on the UI thread after the
	// computation goroutine has stopped.
	OnPauseComputation()

	// Step performs one frame of computation. It runs on the computation
	// goroutine for headless nodes and on the UI thread for [Visual] nodes.
	Step()

	// OnMouse and OnKey handle input events from the 3D scene.
	// Returning [Handled] stops the event from reaching later nodes.
	OnMouse(e events.Event) EventResults
	OnKey(e events.Event) EventResults
}

// Visual is a [Node] that also owns a UI control.
type Visual interface {
	Node

	// AsVisualBase returns the [VisualBase] of the node.
	AsVisualBase() *VisualBase

	// MakeControl makes the UI control of the node in the given window.
	// It is called once, when the node is registered.
	MakeControl(w toolkit.Window) toolkit.Control

	// CreateLayout is called before every layout pass of the window.
	CreateLayout(ctx *toolkit.LayoutContext)
}

// Owner is the simulator that a node is registered with.
// It is set as [NodeBase.Owner] at registration.
type Owner interface {
	StartComputation()

	// StopComputation must not be called from the Step of a headless
	// node, since it waits for the computation goroutine to exit, nor
	// from OnStartComputation or OnPauseComputation.
	StopComputation()

	// IsComputing can be called from any goroutine, including steps
	// and hooks that run while the computation is starting or stopping.
	IsComputing() bool

	Interval() time.Duration
	SetInterval(d time.Duration)

	// Scene returns the 3D scene. It must only be used on the UI thread.
	Scene() toolkit.Scene

	// Post runs fun asynchronously on the UI thread.
	Post(fun func())

	// Close closes the simulator window, as though the user closed it.
	Close()
}

// EventResults is the result of a node event handler.
type EventResults int32

const (
	// Ignored means that the node did not consume the event.
	Ignored EventResults = iota

	// Handled means that the node consumed the event,
	// so no later node receives it.
	Handled
)

func (r EventResults) String() string {
	switch r {
	case Ignored:
		return "Ignored"
	case Handled:
		return "Handled"
	}
	return "EventResults(unknown)"
}

// NodeBase is the base type for all nodes. It implements every
// [Node] method as a no-op.
type NodeBase struct {

	// Name is the name of the node, which must be unique within a simulator
	// if it is not empty.
	Name string

	// Owner is the simulator this node is registered with.
	// It is set by [Registry.Add]; the node does not own it.
	Owner Owner `copier:"-" json:"-"`
}

// NewNodeBase returns a new [NodeBase] with the given name.
func NewNodeBase(name string) *NodeBase {
	return &NodeBase{Name: name}
}

func (nb *NodeBase) AsNodeBase() *NodeBase { return nb }

func (nb *NodeBase) OnStart()                            {}
func (nb *NodeBase) OnExit()                             {}
func (nb *NodeBase) OnStartComputation()                 {}
func (nb *NodeBase) OnPauseComputation()                 {}
func (nb *NodeBase) Step()                               {}
func (nb *NodeBase) OnMouse(e events.Event) EventResults { return Ignored }
func (nb *NodeBase) OnKey(e events.Event) EventResults   { return Ignored }

// VisualBase is the base type for [Visual] nodes.
// Types embedding it must implement [Visual.MakeControl].
type VisualBase struct {
	NodeBase

	// InPanel is whether the control of the node is placed in the side
	// panel of the window. Otherwise it is added to the window directly.
	InPanel bool

	// Control is the control made by [Visual.MakeControl].
	// It is set when the node is registered.
	Control toolkit.Control `copier:"-" json:"-"`
}

func (vb *VisualBase) AsVisualBase() *VisualBase { return vb }

func (vb *VisualBase) CreateLayout(ctx *toolkit.LayoutContext) {}

// IsVisual returns whether the given node is a [Visual] node.
func IsVisual(n Node) bool {
	_, ok := n.(Visual)
	return ok
}

// AsVisual returns the given node as a [Visual] node, if it is one.
func AsVisual(n Node) (Visual, bool) {
	v, ok := n.(Visual)
	return v, ok
}

// IsHeadless returns whether the given node is headless, meaning
// that it is not [Visual] and its Step runs on the computation goroutine.
func IsHeadless(n Node) bool {
	return !IsVisual(n)
}

// Name returns the name of the given node.
func Name(n Node) string {
	return n.AsNodeBase().Name
}
