package sync

import "time"

// State represents the current state of the sync engine.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateFailed
)

// Status is the observable sync state surface consumed by the UI layer.
// Progress is coarse-grained: it advances once per collection phase.
type Status struct {
	State    State
	Syncing  bool
	Progress float64
	LastSync *time.Time
	Err      string
}

// setStatus replaces the engine's status under lock and publishes a copy
// to the updates channel without blocking.
func (e *Engine) setStatus(mutate func(*Status)) {
	e.mu.Lock()
	mutate(&e.status)
	status := e.status
	e.mu.Unlock()

	select {
	case e.updates <- status:
	default:
		// Drop if the channel is full to avoid blocking the sync session.
	}
}

// Status returns a snapshot of the current sync status.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Updates returns the channel on which status snapshots are published.
// Slow consumers miss intermediate snapshots rather than stalling a sync.
func (e *Engine) Updates() <-chan Status {
	return e.updates
}
