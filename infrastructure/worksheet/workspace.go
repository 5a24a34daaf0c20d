package worksheet

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var ErrExportInFlight = errors.New("an export is already running")

// Workspace owns one State and serialises actions against it.
type Workspace struct {
	Token string

	mu        sync.Mutex
	state     State
	opts      Options
	lastSeen  time.Time
	exporting atomic.Bool
}

func NewWorkspace(token string, now time.Time, opts Options) *Workspace {
	return &Workspace{
		Token:    token,
		state:    NewState(now),
		opts:     opts,
		lastSeen: now,
	}
}

// Dispatch applies a and returns the resulting state.
func (w *Workspace) Dispatch(a Action) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	next, err := Reduce(w.state, a, w.opts)
	if err != nil {
		return w.state.Clone(), err
	}
	w.state = next
	return w.state.Clone(), nil
}

// Snapshot returns a copy of the current state.
func (w *Workspace) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Clone()
}

func (w *Workspace) Options() Options {
	return w.opts
}

// Touch records activity for idle pruning.
func (w *Workspace) Touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

// IdleSince reports whether the workspace has not been touched since cutoff.
func (w *Workspace) IdleSince(cutoff time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen.Before(cutoff) && !w.exporting.Load()
}

// BeginExport claims the single export slot. The returned func releases it.
func (w *Workspace) BeginExport() (func(), error) {
	if !w.exporting.CompareAndSwap(false, true) {
		return nil, ErrExportInFlight
	}
	return func() { w.exporting.Store(false) }, nil
}
