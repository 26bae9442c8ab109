package main

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/debug"
)

// uiThread owns every read and write of the host tree. Tasks run one at a
// time, in submission order, on a single locked OS thread.
type uiThread struct {
	tasks  chan func()
	logger *slog.Logger
}

func newUIThread(queue int, logger *slog.Logger) *uiThread {
	return &uiThread{tasks: make(chan func(), queue), logger: logger}
}

// Post queues task without blocking. It reports false when the queue is
// full and the task was dropped.
func (u *uiThread) Post(task func()) bool {
	select {
	case u.tasks <- task:
		return true
	default:
		return false
	}
}

// Run executes queued tasks until ctx is cancelled.
func (u *uiThread) Run(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-u.tasks:
			u.run(task)
		}
	}
}

// Call runs fn on the UI thread and waits for it. It is for command-line
// paths that have no event loop of their own, never for key observers.
func (u *uiThread) Call(ctx context.Context, fn func()) bool {
	done := make(chan struct{})
	if !u.Post(func() { defer close(done); fn() }) {
		return false
	}
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}

func (u *uiThread) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			u.logger.Error("ui: task failed", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	task()
}
