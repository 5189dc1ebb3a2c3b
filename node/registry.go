// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package node

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/reflectx"
)

// ErrDuplicateName is returned (wrapped in [DuplicateNameError]) when
// a node is registered with a name that is already in use.
var ErrDuplicateName = errors.New("node: duplicate name")

// DuplicateNameError is returned by [Registry.Add] for a name collision.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("name already exists in simulator: %q", e.Name)
}

func (e *DuplicateNameError) Unwrap() error {
	return ErrDuplicateName
}

// Registry is an ordered collection of nodes. Iteration always follows
// registration order. Accessors return snapshots, so the computation
// goroutine can iterate while the UI thread registers new nodes.
type Registry struct {

	// owner is set as the Owner of every node that is added.
	owner Owner

	mu    sync.RWMutex
	nodes []Node
	names map[string]Node
}

// NewRegistry returns a new empty registry whose nodes are owned by owner.
func NewRegistry(owner Owner) *Registry {
	return &Registry{owner: owner, names: map[string]Node{}}
}

// Add appends the given node and sets its owner. It returns a
// [*DuplicateNameError] if another node already has the same non-empty name,
// and an error if n is nil, including a nil pointer of a node type.
func (r *Registry) Add(n Node) error {
	if reflectx.IsNil(reflect.ValueOf(n)) {
		return errors.New("node: cannot add nil node")
	}
	nb := n.AsNodeBase()
	r.mu.Lock()
	defer r.mu.Unlock()
	if nb.Name != "" {
		if _, has := r.names[nb.Name]; has {
			return &DuplicateNameError{Name: nb.Name}
		}
		if r.names == nil {
			r.names = map[string]Node{}
		}
		r.names[nb.Name] = n
	}
	nb.Owner = r.owner
	// copy on write so that existing snapshots stay valid
	r.nodes = append(slices.Clip(r.nodes), n)
	return nil
}

// Len returns the number of nodes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}

// All returns all nodes in registration order.
func (r *Registry) All() []Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nodes[:len(r.nodes):len(r.nodes)]
}

// ByName returns the node with the given name, or nil if there is none.
func (r *Registry) ByName(name string) Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names[name]
}

// Headless returns the headless nodes in registration order.
func (r *Registry) Headless() []Node {
	var hs []Node
	for _, n := range r.All() {
		if IsHeadless(n) {
			hs = append(hs, n)
		}
	}
	return hs
}

// Visuals returns the [Visual] nodes in registration order.
func (r *Registry) Visuals() []Visual {
	return NodesOf[Visual](r)
}

// NodesOf returns the nodes in the registry that are of type T, which is
// typically an interface type or a pointer to a concrete node type,
// in registration order.
func NodesOf[T any](r *Registry) []T {
	var ts []T
	for _, n := range r.All() {
		if t, ok := n.(T); ok {
			ts = append(ts, t)
		}
	}
	return ts
}

// Clear removes all nodes without calling any of their hooks.
// Callers must call [Node.OnExit] first if it is needed.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes = nil
	r.names = map[string]Node{}
}
