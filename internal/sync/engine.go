// Package sync implements the bidirectional synchronization engine that
// reconciles the local entity store against the per-user cloud store.
package sync

import (
	"context"
	"log/slog"
	gosync "sync"
	"time"

	"github.com/tangsl/personal-affairs/internal/cloud"
	"github.com/tangsl/personal-affairs/internal/store"
)

// Outcome summarizes a completed full sync.
type Outcome struct {
	// Uploaded is the number of documents written per collection.
	Uploaded map[string]int

	// Skipped is the number of local entities per collection that could
	// not be uploaded because they had no resolvable identifier.
	Skipped map[string]int

	// Downloaded is the number of documents reconciled per collection.
	Downloaded map[string]int

	// StartedAt is when the sync began; Duration how long it took.
	StartedAt time.Time
	Duration  time.Duration
}

// Engine drives full bidirectional syncs. All collaborators are injected;
// the engine holds no process-wide state.
//
// A single sync session runs at a time: invoking PerformFullSync while
// one is in flight returns ErrSyncInFlight rather than queueing.
type Engine struct {
	store   store.Store
	remote  cloud.RemoteStore
	session cloud.Session
	logger  *slog.Logger
	now     func() time.Time

	mu      gosync.Mutex
	syncing bool
	status  Status
	updates chan Status
}

// New creates a sync engine from its collaborators. A nil logger
// discards log output.
func New(s store.Store, remote cloud.RemoteStore, session cloud.Session, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		store:   s,
		remote:  remote,
		session: session,
		logger:  logger,
		now:     time.Now,
		updates: make(chan Status, 16),
	}
}

// PerformFullSync runs one full sync: an upload phase over all six
// collections in dependency order, then a download phase in the same
// order. Any error aborts the remaining work; a retried sync starts
// again from the first collection. The last-sync stamp is recorded only
// when both phases complete.
func (e *Engine) PerformFullSync(ctx context.Context) (*Outcome, error) {
	e.mu.Lock()
	if e.syncing {
		e.mu.Unlock()
		return nil, ErrSyncInFlight
	}
	e.syncing = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.syncing = false
		e.mu.Unlock()
	}()

	// Auth is checked before any I/O.
	if !e.session.IsAuthenticated() {
		e.setStatus(func(s *Status) {
			s.State = StateFailed
			s.Syncing = false
			s.Err = ErrNotAuthenticated.Error()
		})
		return nil, ErrNotAuthenticated
	}

	e.setStatus(func(s *Status) {
		s.State = StateRunning
		s.Syncing = true
		s.Progress = 0
		s.Err = ""
	})

	outcome := &Outcome{
		Uploaded:   make(map[string]int),
		Skipped:    make(map[string]int),
		Downloaded: make(map[string]int),
		StartedAt:  e.now(),
	}

	err := e.run(ctx, outcome)
	outcome.Duration = e.now().Sub(outcome.StartedAt)

	if err != nil {
		e.logger.Error("sync failed", "error", err)
		e.setStatus(func(s *Status) {
			s.State = StateFailed
			s.Syncing = false
			s.Err = err.Error()
		})
		return nil, err
	}

	finished := e.now()
	e.setStatus(func(s *Status) {
		s.State = StateIdle
		s.Syncing = false
		s.Progress = 1
		s.LastSync = &finished
		s.Err = ""
	})

	e.logger.Info("sync completed",
		"duration", outcome.Duration,
		"uploaded", outcome.Uploaded,
		"downloaded", outcome.Downloaded)

	return outcome, nil
}

// run executes the upload and download phases sequentially.
func (e *Engine) run(ctx context.Context, outcome *Outcome) error {
	totalSteps := float64(2 * len(syncOrder))
	step := 0

	advance := func() {
		step++
		progress := float64(step) / totalSteps
		e.setStatus(func(s *Status) { s.Progress = progress })
	}

	for _, col := range syncOrder {
		uploaded, skipped, err := col.upload(ctx, e)
		if err != nil {
			return err
		}
		outcome.Uploaded[col.name] = uploaded
		outcome.Skipped[col.name] = skipped
		e.logger.Debug("collection uploaded",
			"collection", col.name, "count", uploaded, "skipped", skipped)
		advance()
	}

	for _, col := range syncOrder {
		docs, err := e.remote.FetchAllDocuments(ctx, col.name)
		if err != nil {
			return &RemoteReadError{Collection: col.name, Err: err}
		}
		reconciled, err := col.reconcile(ctx, e, docs)
		if err != nil {
			return err
		}
		outcome.Downloaded[col.name] = reconciled
		e.logger.Debug("collection reconciled",
			"collection", col.name, "count", reconciled)
		advance()
	}

	return nil
}
