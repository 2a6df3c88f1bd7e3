// Package query serves read queries for the six collections from a
// cached snapshot with a time-based expiry, falling back to the entity
// store and refreshing the cache.
package query

import (
	"context"
	gosync "sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tangsl/personal-affairs/internal/store"
)

// cacheKey names the single snapshot the manager maintains.
const cacheKey = "main_data"

// DefaultTTL is how long a snapshot stays fresh after capture.
const DefaultTTL = 5 * time.Minute

// Manager is the query/cache layer. It holds one snapshot under a
// constant cache key; at most one refresh-from-store is in flight at a
// time, and concurrent Load callers share its result.
type Manager struct {
	store store.Store
	ttl   time.Duration
	now   func() time.Time

	mu     gosync.Mutex
	cached *Snapshot

	group singleflight.Group
}

// NewManager creates a query manager over the given store. A ttl of 0
// uses DefaultTTL.
func NewManager(s store.Store, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		store: s,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Load returns the cached snapshot if it is unexpired; otherwise it
// queries the store for all six collections, replaces the cache, and
// returns the fresh snapshot. Concurrent callers never trigger more
// than one store read.
func (m *Manager) Load(ctx context.Context) (*Snapshot, error) {
	m.mu.Lock()
	if m.cached != nil && m.now().Sub(m.cached.CapturedAt) < m.ttl {
		snap := m.cached
		m.mu.Unlock()
		return snap, nil
	}
	m.mu.Unlock()

	return m.refresh(ctx)
}

// Refresh unconditionally invalidates the cache and reloads from the
// store.
func (m *Manager) Refresh(ctx context.Context) (*Snapshot, error) {
	m.Invalidate()
	return m.refresh(ctx)
}

// LoadMore is a pagination stub: snapshots always hold the complete
// collections, so there is never a further page.
func (m *Manager) LoadMore(ctx context.Context) (*Snapshot, bool, error) {
	snap, err := m.Load(ctx)
	return snap, false, err
}

// Invalidate drops the cached snapshot so the next Load reads the store.
// The sync engine calls this after a completed sync.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	m.cached = nil
	m.mu.Unlock()
}

// refresh reads all six collections inside a singleflight group so that
// concurrent expirations collapse into one store read.
func (m *Manager) refresh(ctx context.Context) (*Snapshot, error) {
	v, err, _ := m.group.Do(cacheKey, func() (any, error) {
		snap, err := m.capture(ctx)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.cached = snap
		m.mu.Unlock()

		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// capture reads every collection from the store into a new snapshot.
func (m *Manager) capture(ctx context.Context) (*Snapshot, error) {
	projects, err := m.store.Projects(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := m.store.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	records, err := m.store.FinancialRecords(ctx)
	if err != nil {
		return nil, err
	}
	budgets, err := m.store.Budgets(ctx)
	if err != nil {
		return nil, err
	}
	credentials, err := m.store.CredentialEntries(ctx)
	if err != nil {
		return nil, err
	}
	assets, err := m.store.VirtualAssets(ctx)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Projects:    projects,
		Tasks:       tasks,
		Records:     records,
		Budgets:     budgets,
		Credentials: credentials,
		Assets:      assets,
		CapturedAt:  m.now(),
	}, nil
}
