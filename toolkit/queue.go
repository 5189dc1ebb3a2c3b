// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package toolkit

import "sync"

// TaskQueue is a FIFO queue of functions posted from any goroutine
// and run on a single consumer goroutine (the UI thread).
// The zero value is ready to use.
type TaskQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	tasks  []func()
	closed bool
}

func (q *TaskQueue) init() {
	if q.cond == nil {
		q.cond = sync.NewCond(&q.mu)
	}
}

// Post adds fun to the end of the queue. It never runs fun itself.
// It returns false if the queue has been closed, in which case fun is dropped.
func (q *TaskQueue) Post(fun func()) bool {
	if fun == nil {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.init()
	if q.closed {
		return false
	}
	q.tasks = append(q.tasks, fun)
	q.cond.Signal()
	return true
}

// Len returns the number of tasks waiting to run.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// next blocks until a task is available or the queue is closed.
func (q *TaskQueue) next() (func(), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.init()
	for len(q.tasks) == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.closed {
		return nil, false
	}
	fun := q.tasks[0]
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]
	return fun, true
}

// Run runs tasks in FIFO order on the calling goroutine until [TaskQueue.Close]
// is called. Each task is passed to exec, which must call it exactly once;
// if exec is nil the task is called directly. Tasks still queued when the
// queue is closed are dropped.
func (q *TaskQueue) Run(exec func(task func())) {
	for {
		task, ok := q.next()
		if !ok {
			return
		}
		if exec != nil {
			exec(task)
		} else {
			task()
		}
	}
}

// RunPending runs the tasks that are queued at the time of the call,
// and any tasks they post, on the calling goroutine, and returns the
// number of tasks run. It does not block waiting for new tasks.
func (q *TaskQueue) RunPending() int {
	n := 0
	for {
		q.mu.Lock()
		if q.closed || len(q.tasks) == 0 {
			q.mu.Unlock()
			return n
		}
		fun := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()
		fun()
		n++
	}
}

// Close stops [TaskQueue.Run] and drops any queued tasks.
// Later calls to [TaskQueue.Post] return false.
func (q *TaskQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.init()
	q.closed = true
	q.tasks = nil
	q.cond.Broadcast()
}

// IsClosed returns whether [TaskQueue.Close] has been called.
func (q *TaskQueue) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
