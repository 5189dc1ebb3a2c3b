// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compute provides the [Scheduler] that runs simulator nodes
// on a background computation goroutine at a bounded cadence, handing
// the stepping of visual nodes back to the UI thread.
package compute

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"cogentcore.org/sim/node"
)

// DefaultInterval is the default minimum time between frames.
const DefaultInterval = 2 * time.Second

// Poster posts functions to run asynchronously on the UI thread,
// in the order they were posted.
type Poster interface {
	PostToMain(fun func())
}

// PosterFunc is a function that implements [Poster].
type PosterFunc func(fun func())

func (pf PosterFunc) PostToMain(fun func()) { pf(fun) }

// NodePanicError records a panic in a node callback on the
// computation goroutine, which ends that goroutine.
type NodePanicError struct {

	// Value is the value passed to panic.
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack string
}

func (e *NodePanicError) Error() string {
	return fmt.Sprintf("compute: node panicked: %v", e.Value)
}

// Stats are statistics about the frames of a [Scheduler].
type Stats struct {

	// Frames is the number of frames started since the scheduler was made.
	Frames uint64

	// LastFrame is the start time of the last frame.
	LastFrame time.Time

	// HeadlessTime is how long stepping the headless nodes took in the last frame.
	HeadlessTime time.Duration

	// VisualTime is how long stepping the visual nodes on the
	// UI thread took in the last completed frame.
	VisualTime time.Duration

	// Lag is how long the last frame started after its scheduled time
	// because the previous frame was still in flight on the UI thread.
	Lag time.Duration
}

// Scheduler runs the computation loop of a simulator. Every frame it steps
// the headless nodes on its own goroutine, then posts one function to the
// UI thread that steps the visual nodes. At most one such function is in
// flight at a time: if the UI thread falls behind, the next frame waits for
// it, so the cadence drifts under UI overload instead of catching up.
//
// [Scheduler.Start] and [Scheduler.Stop] are meant to be called from the
// UI thread.
type Scheduler struct {

	// Nodes are the nodes to step.
	Nodes *node.Registry

	// poster posts the visual step of each frame to the UI thread.
	poster Poster

	// interval is the minimum time between frames, in nanoseconds.
	interval atomic.Int64

	// slot holds a value while a visual step is in flight.
	slot chan struct{}

	// now returns the current time; it is replaced in tests.
	now func() time.Time

	// running is whether the computation goroutine has been started and
	// not yet stopped. It is read without mu, so node hooks and steps can
	// query it while Start or Stop is in progress.
	running atomic.Bool

	// mu serializes Start and Stop, and guards the worker channels below.
	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}

	// spawned counts worker goroutines started.
	spawned atomic.Int32

	statsMu sync.Mutex
	stats   Stats
	err     error
}

// NewScheduler returns a new stopped [Scheduler] for the given nodes
// that posts visual steps with the given [Poster].
func NewScheduler(nodes *node.Registry, poster Poster) *Scheduler {
	s := &Scheduler{
		Nodes:  nodes,
		poster: poster,
		slot:   make(chan struct{}, 1),
		now:    time.Now,
	}
	s.interval.Store(int64(DefaultInterval))
	return s
}

// Interval returns the minimum time between frames.
func (s *Scheduler) Interval() time.Duration {
	return time.Duration(s.interval.Load())
}

// SetInterval sets the minimum time between frames. Negative values
// are treated as zero. It takes effect at the next frame.
func (s *Scheduler) SetInterval(d time.Duration) {
	s.interval.Store(int64(max(d, 0)))
}

// IsRunning returns whether the computation goroutine has been started
// and not yet stopped.
func (s *Scheduler) IsRunning() bool {
	return s.running.Load()
}

// InFlight returns whether a visual step has been posted
// to the UI thread and has not yet finished.
func (s *Scheduler) InFlight() bool {
	return len(s.slot) > 0
}

// Stats returns the current frame statistics.
func (s *Scheduler) Stats() Stats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.stats
}

// Err returns the failure that ended the current computation goroutine,
// if any. It is reset by [Scheduler.Start].
func (s *Scheduler) Err() error {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.err
}

// Start calls [node.Node.OnStartComputation] on every node and starts
// the computation goroutine. It does nothing if it is already running.
// The hooks may call [Scheduler.IsRunning], but not Start or Stop.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running.Load() {
		return
	}
	for _, n := range s.Nodes.All() {
		n.OnStartComputation()
	}
	s.statsMu.Lock()
	s.err = nil
	s.statsMu.Unlock()
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.running.Store(true)
	s.spawned.Add(1)
	go s.run(s.stop, s.done)
	slog.Info("compute: started", "interval", s.Interval(), "nodes", s.Nodes.Len())
}

// Stop signals the computation goroutine to exit, waits until it has
// exited, and then calls [node.Node.OnPauseComputation] on every node.
// A step in progress is not interrupted, and a visual step already posted
// to the UI thread still runs. It does nothing if it is not running.
// It must not be called from the computation goroutine or from a hook.
// Steps and hooks may call [Scheduler.IsRunning] while it waits.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running.Load() {
		return
	}
	close(s.stop)
	<-s.done
	s.running.Store(false)
	s.stop, s.done = nil, nil
	for _, n := range s.Nodes.All() {
		n.OnPauseComputation()
	}
	slog.Info("compute: stopped", "frames", s.Stats().Frames)
}

// run is the computation loop, which runs until stop is closed
// or a node panics.
func (s *Scheduler) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	held := false // whether this goroutine holds the slot
	defer func() {
		if r := recover(); r != nil {
			if held {
				<-s.slot
			}
			s.fail(r)
		}
	}()

	var last time.Time // zero, so the first frame is immediate
	for {
		select {
		case <-stop:
			return
		default:
		}
		now := s.now()
		next := last.Add(s.Interval())
		if now.Before(next) {
			if !sleep(stop, next.Sub(now)) {
				return
			}
			continue
		}
		// the frame is due: wait for the previous visual step to finish
		select {
		case <-stop:
			return
		case s.slot <- struct{}{}:
		}
		held = true
		if last.IsZero() {
			next = time.Time{}
		}
		last = s.frame(next)
		held = false // released by the posted visual step
	}
}

// frame runs one frame, with the slot already held, and returns its start time.
func (s *Scheduler) frame(due time.Time) time.Time {
	start := s.now()
	for _, n := range s.Nodes.Headless() {
		n.Step()
	}
	htime := s.now().Sub(start)

	s.statsMu.Lock()
	s.stats.Frames++
	frames := s.stats.Frames
	s.stats.LastFrame = start
	s.stats.HeadlessTime = htime
	s.stats.Lag = 0
	if !due.IsZero() && start.After(due) {
		s.stats.Lag = start.Sub(due)
	}
	s.statsMu.Unlock()
	slog.Debug("compute: frame", "frame", frames, "headless", htime)

	s.poster.PostToMain(s.stepVisuals)
	return start
}

// stepVisuals steps the visual nodes and releases the frame slot.
// It runs on the UI thread.
func (s *Scheduler) stepVisuals() {
	defer func() { <-s.slot }()
	start := time.Now()
	for _, v := range s.Nodes.Visuals() {
		v.Step()
	}
	vtime := time.Since(start)
	s.statsMu.Lock()
	s.stats.VisualTime = vtime
	s.statsMu.Unlock()
}

// fail records a panic that ended the computation goroutine. The UI
// thread keeps running; the scheduler stays running until [Scheduler.Stop].
func (s *Scheduler) fail(r any) {
	err := &NodePanicError{Value: r, Stack: string(debug.Stack())}
	s.statsMu.Lock()
	s.err = err
	s.statsMu.Unlock()
	slog.Error("compute: computation goroutine stopped by node failure", "err", err, "stack", err.Stack)
}

// sleep waits for d or until stop is closed, returning false in the latter case.
func sleep(stop <-chan struct{}, d time.Duration) bool {
	tm := time.NewTimer(d)
	defer tm.Stop()
	select {
	case <-stop:
		return false
	case <-tm.C:
		return true
	}
}
