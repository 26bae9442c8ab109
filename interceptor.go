package main

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// KeyEventKind distinguishes key transitions.
type KeyEventKind int

const (
	KeyPress KeyEventKind = iota
	KeyRelease
)

// KeyEvent is one key transition delivered by a KeySource. Key is empty for
// modifier-only events.
type KeyEvent struct {
	Kind     KeyEventKind
	Key      Key
	Mods     Modifier
	consumed bool
}

// Consume marks the event handled so the host never receives it.
func (e *KeyEvent) Consume() { e.consumed = true }

// Consumed reports whether an observer already handled the event.
func (e *KeyEvent) Consumed() bool { return e.consumed }

// KeySource is a process-wide key observer hook.
type KeySource interface {
	Install(observer func(*KeyEvent)) error
	Remove() error
}

// Scheduler hands a task to the UI thread without waiting for it.
type Scheduler interface {
	Post(task func()) bool
}

// Binding ties a chord to the handler run on the UI thread when it fires.
type Binding struct {
	Name    string
	Chord   Chord
	Handler func()
}

// InterceptorState is the lifecycle state of an Interceptor.
type InterceptorState int32

const (
	Unregistered InterceptorState = iota
	Active
)

func (s InterceptorState) String() string {
	if s == Active {
		return "active"
	}
	return "unregistered"
}

// Interceptor watches global key presses, consumes the ones matching a
// binding and schedules the binding's handler on the UI thread.
//
// Bindings are checked in the order given and the first match wins, so a
// chord must come before any other chord that would also match its events.
// The binding table is never modified after NewInterceptor returns.
type Interceptor struct {
	mu       sync.Mutex // serialises Start and Stop
	source   KeySource
	sched    Scheduler
	bindings []Binding
	state    atomic.Int32
	logger   *slog.Logger
}

// NewInterceptor builds an interceptor in the Unregistered state.
func NewInterceptor(source KeySource, sched Scheduler, logger *slog.Logger, bindings ...Binding) *Interceptor {
	for i, b := range bindings {
		for _, earlier := range bindings[:i] {
			if shadows(earlier.Chord, b.Chord) {
				logger.Warn("interceptor: chord can never fire, an earlier binding matches all its events",
					"binding", b.Name, "chord", b.Chord.String(), "shadowed_by", earlier.Name)
			}
		}
	}
	return &Interceptor{
		source:   source,
		sched:    sched,
		bindings: append([]Binding(nil), bindings...),
		logger:   logger,
	}
}

// shadows reports whether every event matching b also matches a.
func shadows(a, b Chord) bool {
	return a.Key == b.Key && a.Required&^b.Required == 0 && a.Forbidden&^b.Forbidden == 0
}

// State returns the current lifecycle state.
func (i *Interceptor) State() InterceptorState {
	return InterceptorState(i.state.Load())
}

// Start installs the key observer. No chord fires before Start returns nil.
// Starting an active interceptor is a no-op.
func (i *Interceptor) Start() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.State() == Active {
		return nil
	}
	if err := i.source.Install(i.observe); err != nil {
		return fmt.Errorf("interceptor: install key observer: %w", err)
	}
	i.state.Store(int32(Active))
	for _, b := range i.bindings {
		i.logger.Info("interceptor: chord registered", "binding", b.Name, "chord", b.Chord.String())
	}
	return nil
}

// Stop removes the key observer. Once Stop returns no further chord is
// dispatched; tasks already handed to the UI thread still run. Stop may be
// called from several shutdown paths: calls after the first do nothing.
func (i *Interceptor) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.State() != Active {
		i.logger.Debug("interceptor: already unregistered")
		return
	}
	i.state.Store(int32(Unregistered))

	i.logger.Info("interceptor: removing key observer")
	if err := i.source.Remove(); err != nil {
		i.logger.Error("interceptor: removing key observer failed", "err", err)
		return
	}
	i.logger.Info("interceptor: key observer removed")
}

// observe runs on the host's event-dispatch context. It only matches,
// consumes and posts; the handler itself always runs on the UI thread.
func (i *Interceptor) observe(ev *KeyEvent) {
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("interceptor: observer panic", "panic", r)
		}
	}()

	if ev == nil || ev.Consumed() || i.State() != Active {
		return
	}
	if ev.Kind != KeyPress || ev.Key == "" {
		return
	}
	if ev.Mods != 0 {
		i.logger.Debug("interceptor: key combination", "key", ev.Key,
			"ctrl", ev.Mods&ModCtrl != 0, "alt", ev.Mods&ModAlt != 0, "shift", ev.Mods&ModShift != 0)
	}

	for _, b := range i.bindings {
		if !b.Chord.Matches(ev.Key, ev.Mods) {
			continue
		}
		ev.Consume()
		i.logger.Info("interceptor: chord detected", "binding", b.Name, "chord", b.Chord.String())
		if !i.sched.Post(i.guard(b)) {
			i.logger.Warn("interceptor: UI thread busy, chord dropped", "binding", b.Name)
		}
		return
	}
}

// guard wraps a handler so a fault while touching the host tree ends the
// task without reaching the interceptor or the host's event loop.
func (i *Interceptor) guard(b Binding) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				i.logger.Error("interceptor: handler failed", "binding", b.Name, "panic", r, "stack", string(debug.Stack()))
			}
		}()
		b.Handler()
	}
}
