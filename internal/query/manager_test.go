package query

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tangsl/personal-affairs/internal/model"
	"github.com/tangsl/personal-affairs/internal/store"
	"github.com/tangsl/personal-affairs/tests/testutil"
)

// countingStore counts snapshot captures. Projects is the first read of
// every capture, so its call count equals the number of store reads.
type countingStore struct {
	store.Store
	reads atomic.Int32
}

func (c *countingStore) Projects(ctx context.Context) ([]model.Project, error) {
	c.reads.Add(1)
	return c.Store.Projects(ctx)
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestManager(t *testing.T, ttl time.Duration) (*Manager, *countingStore, *fakeClock) {
	t.Helper()
	cs := &countingStore{Store: testutil.NewTestStore(t)}
	clock := &fakeClock{now: time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC)}
	m := NewManager(cs, ttl)
	m.now = clock.Now
	return m, cs, clock
}

func TestLoadServesCachedSnapshotWithinTTL(t *testing.T) {
	m, cs, _ := newTestManager(t, time.Minute)
	ctx := context.Background()

	project := model.NewProject("home", "#FFFFFF")
	if err := cs.Store.UpsertProjects(ctx, []model.Project{project}); err != nil {
		t.Fatalf("seeding project: %v", err)
	}

	first, err := m.Load(ctx)
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}
	second, err := m.Load(ctx)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}

	if first != second {
		t.Errorf("second Load returned a different snapshot")
	}
	if got := cs.reads.Load(); got != 1 {
		t.Errorf("store read %d times, want 1", got)
	}
	if len(first.Projects) != 1 || first.Projects[0].ID != project.ID {
		t.Errorf("snapshot projects = %v", first.Projects)
	}
}

func TestLoadRefreshesAfterExpiry(t *testing.T) {
	m, cs, clock := newTestManager(t, time.Minute)
	ctx := context.Background()

	first, err := m.Load(ctx)
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}

	// Data written after the capture is invisible until expiry.
	task := model.NewTask("new arrival", "", model.PriorityLow)
	if err := cs.Store.UpsertTasks(ctx, []model.Task{task}); err != nil {
		t.Fatalf("seeding task: %v", err)
	}
	stale, err := m.Load(ctx)
	if err != nil {
		t.Fatalf("stale Load: %v", err)
	}
	if len(stale.Tasks) != 0 {
		t.Errorf("stale snapshot sees %d tasks, want 0", len(stale.Tasks))
	}

	clock.Advance(time.Minute + time.Second)
	fresh, err := m.Load(ctx)
	if err != nil {
		t.Fatalf("fresh Load: %v", err)
	}
	if fresh == first {
		t.Errorf("expired Load returned the stale snapshot")
	}
	if len(fresh.Tasks) != 1 {
		t.Errorf("fresh snapshot sees %d tasks, want 1", len(fresh.Tasks))
	}
	if got := cs.reads.Load(); got != 2 {
		t.Errorf("store read %d times, want 2", got)
	}
}

func TestRefreshBypassesFreshCache(t *testing.T) {
	m, cs, _ := newTestManager(t, time.Hour)
	ctx := context.Background()

	if _, err := m.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	record := model.NewFinancialRecord("bonus", 500, model.TransactionIncome, model.CategoryIncome, "")
	if err := cs.Store.UpsertFinancialRecords(ctx, []model.FinancialRecord{record}); err != nil {
		t.Fatalf("seeding record: %v", err)
	}

	snap, err := m.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(snap.Records) != 1 {
		t.Errorf("refreshed snapshot sees %d records, want 1", len(snap.Records))
	}
	if got := cs.reads.Load(); got != 2 {
		t.Errorf("store read %d times, want 2", got)
	}
}

func TestInvalidateForcesNextLoadToRead(t *testing.T) {
	m, cs, _ := newTestManager(t, time.Hour)
	ctx := context.Background()

	if _, err := m.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	m.Invalidate()
	if _, err := m.Load(ctx); err != nil {
		t.Fatalf("Load after Invalidate: %v", err)
	}
	if got := cs.reads.Load(); got != 2 {
		t.Errorf("store read %d times, want 2", got)
	}
}

func TestLoadMoreHasNoFurtherPages(t *testing.T) {
	m, _, _ := newTestManager(t, time.Hour)

	snap, more, err := m.LoadMore(context.Background())
	if err != nil {
		t.Fatalf("LoadMore: %v", err)
	}
	if more {
		t.Errorf("LoadMore reports another page for a complete snapshot")
	}
	if snap == nil {
		t.Errorf("LoadMore returned no snapshot")
	}
}

func TestSnapshotAggregates(t *testing.T) {
	done := model.NewTask("done", "", model.PriorityLow)
	done.SetStatus(model.StatusCompleted, time.Now())
	snap := &Snapshot{
		Tasks: []model.Task{
			model.NewTask("one", "", model.PriorityLow),
			model.NewTask("two", "", model.PriorityHigh),
			done,
		},
		Records: []model.FinancialRecord{
			model.NewFinancialRecord("salary", 5000, model.TransactionIncome, model.CategoryIncome, ""),
			model.NewFinancialRecord("rent", 1200, model.TransactionExpense, model.CategoryHousing, ""),
			model.NewFinancialRecord("food", 300, model.TransactionExpense, model.CategoryFood, ""),
		},
	}

	if got := snap.Counts().Tasks; got != 3 {
		t.Errorf("Counts().Tasks = %d", got)
	}
	if got := snap.PendingTasks(); got != 2 {
		t.Errorf("PendingTasks = %d", got)
	}
	if got := snap.CompletedTasks(); got != 1 {
		t.Errorf("CompletedTasks = %d", got)
	}
	if got := snap.TotalIncome(); got != 5000 {
		t.Errorf("TotalIncome = %v", got)
	}
	if got := snap.TotalExpense(); got != 1500 {
		t.Errorf("TotalExpense = %v", got)
	}
}

func TestSnapshotSearch(t *testing.T) {
	site := "https://bank.example.com"
	snap := &Snapshot{
		Tasks: []model.Task{
			model.NewTask("Buy groceries", "milk and eggs", model.PriorityLow),
			model.NewTask("Call plumber", "kitchen sink leaks", model.PriorityHigh),
		},
		Records: []model.FinancialRecord{
			model.NewFinancialRecord("Grocery run", 80, model.TransactionExpense, model.CategoryFood, "weekly shop"),
		},
		Credentials: []model.CredentialEntry{
			model.NewCredentialEntry("Bank", "alex", "x", model.CredentialBanking),
		},
	}
	snap.Credentials[0].Website = &site

	if got := snap.SearchTasks("GROCER"); len(got) != 1 || got[0].Title != "Buy groceries" {
		t.Errorf("SearchTasks(GROCER) = %v", got)
	}
	if got := snap.SearchTasks("sink"); len(got) != 1 || got[0].Title != "Call plumber" {
		t.Errorf("SearchTasks(sink) = %v", got)
	}
	if got := snap.SearchTasks(""); len(got) != 2 {
		t.Errorf("SearchTasks(empty) matched %d", len(got))
	}
	if got := snap.SearchRecords("weekly"); len(got) != 1 {
		t.Errorf("SearchRecords(weekly) matched %d", len(got))
	}
	if got := snap.SearchCredentials("bank.example"); len(got) != 1 {
		t.Errorf("SearchCredentials(bank.example) matched %d", len(got))
	}
	if got := snap.SearchCredentials("nothing"); len(got) != 0 {
		t.Errorf("SearchCredentials(nothing) matched %d", len(got))
	}
}
