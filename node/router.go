// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package node

import "cogentcore.org/core/events"

// Router dispatches input events to the nodes of a [Registry]
// in registration order, stopping at the first node that handles
// the event (first-responder dispatch).
type Router struct {
	Nodes *Registry
}

// NewRouter returns a new [Router] for the given registry.
func NewRouter(r *Registry) *Router {
	return &Router{Nodes: r}
}

// Mouse dispatches a mouse event to [Node.OnMouse].
func (rt *Router) Mouse(e events.Event) EventResults {
	return rt.dispatch(e, Node.OnMouse)
}

// Key dispatches a key event to [Node.OnKey].
func (rt *Router) Key(e events.Event) EventResults {
	return rt.dispatch(e, Node.OnKey)
}

// dispatch calls handle on each node until one returns [Handled],
// in which case the event is marked as handled.
func (rt *Router) dispatch(e events.Event, handle func(Node, events.Event) EventResults) EventResults {
	if e.IsHandled() {
		return Ignored
	}
	for _, n := range rt.Nodes.All() {
		if handle(n, e) == Handled {
			e.SetHandled()
			return Handled
		}
	}
	return Ignored
}
