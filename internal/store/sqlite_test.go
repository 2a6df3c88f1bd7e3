package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tangsl/personal-affairs/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing store: %v", err)
		}
	})
	return s
}

func TestMigrationsAreIdempotent(t *testing.T) {
	s := newTestStore(t)

	// A second run over an already-migrated database applies nothing.
	if err := s.runMigrations(); err != nil {
		t.Fatalf("re-running migrations: %v", err)
	}

	var version int
	if err := s.db.Get(&version, "SELECT MAX(version) FROM schema_version"); err != nil {
		t.Fatalf("reading schema version: %v", err)
	}
	if want := migrations[len(migrations)-1].version; version != want {
		t.Fatalf("schema version = %d, want %d", version, want)
	}
}

func TestByIDMissingReturnsNil(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := uuid.New()

	if p, err := s.ProjectByID(ctx, id); err != nil || p != nil {
		t.Errorf("ProjectByID = (%v, %v), want (nil, nil)", p, err)
	}
	if tk, err := s.TaskByID(ctx, id); err != nil || tk != nil {
		t.Errorf("TaskByID = (%v, %v), want (nil, nil)", tk, err)
	}
	if r, err := s.FinancialRecordByID(ctx, id); err != nil || r != nil {
		t.Errorf("FinancialRecordByID = (%v, %v), want (nil, nil)", r, err)
	}
	if b, err := s.BudgetByID(ctx, id); err != nil || b != nil {
		t.Errorf("BudgetByID = (%v, %v), want (nil, nil)", b, err)
	}
	if c, err := s.CredentialEntryByID(ctx, id); err != nil || c != nil {
		t.Errorf("CredentialEntryByID = (%v, %v), want (nil, nil)", c, err)
	}
	if a, err := s.VirtualAssetByID(ctx, id); err != nil || a != nil {
		t.Errorf("VirtualAssetByID = (%v, %v), want (nil, nil)", a, err)
	}
}

func TestTaskRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	project := model.NewProject("home", "#FF0000")
	if err := s.UpsertProjects(ctx, []model.Project{project}); err != nil {
		t.Fatalf("upserting project: %v", err)
	}

	due := time.Date(2026, time.September, 15, 9, 0, 0, 0, time.UTC)
	rule := model.RepeatWeekly
	task := model.NewTask("water plants", "the ones on the balcony", model.PriorityLow)
	task.DueDate = &due
	task.RepeatRule = &rule
	task.RepeatInterval = 2
	task.ProjectID = &project.ID

	if err := s.UpsertTasks(ctx, []model.Task{task}); err != nil {
		t.Fatalf("upserting task: %v", err)
	}

	got, err := s.TaskByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("fetching task: %v", err)
	}
	if got == nil {
		t.Fatal("task not found after upsert")
	}
	if got.Title != task.Title || got.Description != task.Description {
		t.Errorf("title/description = %q/%q", got.Title, got.Description)
	}
	if got.Priority != model.PriorityLow || got.Status != model.StatusPending {
		t.Errorf("priority/status = %s/%s", got.Priority, got.Status)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("due date = %v, want %s", got.DueDate, due)
	}
	if got.CompletedAt != nil {
		t.Errorf("completed at = %v, want nil", got.CompletedAt)
	}
	if got.RepeatRule == nil || *got.RepeatRule != model.RepeatWeekly {
		t.Errorf("repeat rule = %v", got.RepeatRule)
	}
	if got.RepeatInterval != 2 {
		t.Errorf("repeat interval = %d", got.RepeatInterval)
	}
	if got.ProjectID == nil || *got.ProjectID != project.ID {
		t.Errorf("project id = %v, want %s", got.ProjectID, project.ID)
	}
	if got.ParentTaskID != nil {
		t.Errorf("parent task id = %v, want nil", got.ParentTaskID)
	}

	// Re-upserting overwrites in place rather than duplicating.
	got.SetStatus(model.StatusCompleted, due)
	if err := s.UpsertTasks(ctx, []model.Task{*got}); err != nil {
		t.Fatalf("re-upserting task: %v", err)
	}
	all, err := s.Tasks(ctx)
	if err != nil {
		t.Fatalf("listing tasks: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("task count = %d, want 1", len(all))
	}
	if all[0].Status != model.StatusCompleted || all[0].CompletedAt == nil {
		t.Errorf("after re-upsert: status=%s completedAt=%v", all[0].Status, all[0].CompletedAt)
	}
}

func TestTaskBatchParentBeforeChildOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	parent := model.NewTask("renovate kitchen", "", model.PriorityHigh)
	child := model.NewTask("pick tiles", "", model.PriorityMedium)
	child.ParentTaskID = &parent.ID

	// Child listed before its parent; deferred FK checks make the
	// batch order irrelevant.
	if err := s.UpsertTasks(ctx, []model.Task{child, parent}); err != nil {
		t.Fatalf("upserting out-of-order batch: %v", err)
	}

	got, err := s.TaskByID(ctx, child.ID)
	if err != nil || got == nil {
		t.Fatalf("fetching child: (%v, %v)", got, err)
	}
	if got.ParentTaskID == nil || *got.ParentTaskID != parent.ID {
		t.Errorf("child parent = %v, want %s", got.ParentTaskID, parent.ID)
	}
}

func TestReupsertProjectKeepsItsTasks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	project := model.NewProject("errands", "#00FF00")
	if err := s.UpsertProjects(ctx, []model.Project{project}); err != nil {
		t.Fatalf("upserting project: %v", err)
	}
	task := model.NewTask("return parcel", "", model.PriorityMedium)
	task.ProjectID = &project.ID
	if err := s.UpsertTasks(ctx, []model.Task{task}); err != nil {
		t.Fatalf("upserting task: %v", err)
	}

	// Overwriting an existing project must update the row in place; a
	// delete-and-reinsert would cascade away its tasks.
	project.Name = "errands (renamed)"
	if err := s.UpsertProjects(ctx, []model.Project{project}); err != nil {
		t.Fatalf("re-upserting project: %v", err)
	}

	got, err := s.TaskByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("fetching task: %v", err)
	}
	if got == nil {
		t.Fatal("task vanished after its project was overwritten")
	}
	if got.ProjectID == nil || *got.ProjectID != project.ID {
		t.Errorf("task project ref = %v, want %s", got.ProjectID, project.ID)
	}

	renamed, err := s.ProjectByID(ctx, project.ID)
	if err != nil || renamed == nil {
		t.Fatalf("fetching project: (%v, %v)", renamed, err)
	}
	if renamed.Name != "errands (renamed)" {
		t.Errorf("project name = %q", renamed.Name)
	}
}

func TestReupsertParentTaskKeepsSubtasks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	parent := model.NewTask("plan party", "", model.PriorityMedium)
	child := model.NewTask("order cake", "", model.PriorityLow)
	child.ParentTaskID = &parent.ID
	if err := s.UpsertTasks(ctx, []model.Task{parent, child}); err != nil {
		t.Fatalf("seeding tasks: %v", err)
	}

	// Overwrite both again with the child first, the way a reconcile
	// batch may order them. Neither overwrite may cascade.
	parent.Title = "plan birthday party"
	if err := s.UpsertTasks(ctx, []model.Task{child, parent}); err != nil {
		t.Fatalf("re-upserting batch: %v", err)
	}

	got, err := s.TaskByID(ctx, child.ID)
	if err != nil {
		t.Fatalf("fetching subtask: %v", err)
	}
	if got == nil {
		t.Fatal("subtask vanished after its parent was overwritten")
	}
	if got.ParentTaskID == nil || *got.ParentTaskID != parent.ID {
		t.Errorf("subtask parent ref = %v, want %s", got.ParentTaskID, parent.ID)
	}
}

func TestDeleteProjectCascadesToTasks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	project := model.NewProject("work", "#0000FF")
	if err := s.UpsertProjects(ctx, []model.Project{project}); err != nil {
		t.Fatalf("upserting project: %v", err)
	}

	parent := model.NewTask("quarterly report", "", model.PriorityHigh)
	parent.ProjectID = &project.ID
	sub := model.NewTask("gather figures", "", model.PriorityMedium)
	sub.ParentTaskID = &parent.ID
	loose := model.NewTask("buy milk", "", model.PriorityLow)

	if err := s.UpsertTasks(ctx, []model.Task{parent, sub, loose}); err != nil {
		t.Fatalf("upserting tasks: %v", err)
	}

	if err := s.DeleteProject(ctx, project.ID); err != nil {
		t.Fatalf("deleting project: %v", err)
	}

	remaining, err := s.Tasks(ctx)
	if err != nil {
		t.Fatalf("listing tasks: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != loose.ID {
		t.Fatalf("after cascade: %d tasks remain, want only the unattached one", len(remaining))
	}
}

func TestDeleteTaskCascadesToSubtasks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	parent := model.NewTask("plan trip", "", model.PriorityMedium)
	sub := model.NewTask("book hotel", "", model.PriorityMedium)
	sub.ParentTaskID = &parent.ID

	if err := s.UpsertTasks(ctx, []model.Task{parent, sub}); err != nil {
		t.Fatalf("upserting tasks: %v", err)
	}
	if err := s.DeleteTask(ctx, parent.ID); err != nil {
		t.Fatalf("deleting parent: %v", err)
	}

	got, err := s.TaskByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("fetching subtask: %v", err)
	}
	if got != nil {
		t.Fatalf("subtask survived parent deletion")
	}
}

func TestFinancialRecordRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := model.NewFinancialRecord("salary", 5000, model.TransactionIncome, model.CategoryIncome, "august")
	rec.Tags = []string{"recurring", "net"}

	if err := s.UpsertFinancialRecords(ctx, []model.FinancialRecord{rec}); err != nil {
		t.Fatalf("upserting record: %v", err)
	}

	got, err := s.FinancialRecordByID(ctx, rec.ID)
	if err != nil || got == nil {
		t.Fatalf("fetching record: (%v, %v)", got, err)
	}
	if got.Title != "salary" || got.Amount != 5000 {
		t.Errorf("title/amount = %q/%v", got.Title, got.Amount)
	}
	if got.Type != model.TransactionIncome || got.Category != model.CategoryIncome {
		t.Errorf("type/category = %s/%s", got.Type, got.Category)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "recurring" || got.Tags[1] != "net" {
		t.Errorf("tags = %v", got.Tags)
	}

	// Records without tags come back with none.
	plain := model.NewFinancialRecord("coffee", 4.5, model.TransactionExpense, model.CategoryFood, "")
	if err := s.UpsertFinancialRecords(ctx, []model.FinancialRecord{plain}); err != nil {
		t.Fatalf("upserting plain record: %v", err)
	}
	got, err = s.FinancialRecordByID(ctx, plain.ID)
	if err != nil || got == nil {
		t.Fatalf("fetching plain record: (%v, %v)", got, err)
	}
	if len(got.Tags) != 0 {
		t.Errorf("plain record tags = %v, want none", got.Tags)
	}
}

func TestBudgetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := model.NewBudget("dining out", 300, model.PeriodMonthly, model.CategoryFood)
	b.Spent = 120.5

	if err := s.UpsertBudgets(ctx, []model.Budget{b}); err != nil {
		t.Fatalf("upserting budget: %v", err)
	}

	got, err := s.BudgetByID(ctx, b.ID)
	if err != nil || got == nil {
		t.Fatalf("fetching budget: (%v, %v)", got, err)
	}
	if got.Name != b.Name || got.Amount != 300 || got.Spent != 120.5 {
		t.Errorf("name/amount/spent = %q/%v/%v", got.Name, got.Amount, got.Spent)
	}
	if got.Period != model.PeriodMonthly || got.Category != model.CategoryFood {
		t.Errorf("period/category = %s/%s", got.Period, got.Category)
	}
	if !got.EndDate.Equal(b.EndDate) {
		t.Errorf("end date = %s, want %s", got.EndDate, b.EndDate)
	}
}

func TestCredentialEntryRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	site := "https://example.com"
	entry := model.NewCredentialEntry("mail", "alex", "hunter2", model.CredentialEmail)
	entry.Website = &site
	entry.Favorite = true

	if err := s.UpsertCredentialEntries(ctx, []model.CredentialEntry{entry}); err != nil {
		t.Fatalf("upserting entry: %v", err)
	}

	got, err := s.CredentialEntryByID(ctx, entry.ID)
	if err != nil || got == nil {
		t.Fatalf("fetching entry: (%v, %v)", got, err)
	}
	if got.Username != "alex" || got.Secret != "hunter2" {
		t.Errorf("username/secret = %q/%q", got.Username, got.Secret)
	}
	if got.Website == nil || *got.Website != site {
		t.Errorf("website = %v", got.Website)
	}
	if got.Notes != nil {
		t.Errorf("notes = %v, want nil", got.Notes)
	}
	if !got.Favorite {
		t.Errorf("favorite flag lost")
	}
}

func TestVirtualAssetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	expiry := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)
	asset := model.NewVirtualAsset("coffee card", model.AssetGiftCard, 50, "CNY")
	asset.ExpiryDate = &expiry
	asset.Active = false

	if err := s.UpsertVirtualAssets(ctx, []model.VirtualAsset{asset}); err != nil {
		t.Fatalf("upserting asset: %v", err)
	}

	got, err := s.VirtualAssetByID(ctx, asset.ID)
	if err != nil || got == nil {
		t.Fatalf("fetching asset: (%v, %v)", got, err)
	}
	if got.Type != model.AssetGiftCard || got.Value != 50 || got.Currency != "CNY" {
		t.Errorf("type/value/currency = %s/%v/%s", got.Type, got.Value, got.Currency)
	}
	if got.ExpiryDate == nil || !got.ExpiryDate.Equal(expiry) {
		t.Errorf("expiry = %v, want %s", got.ExpiryDate, expiry)
	}
	if got.Active {
		t.Errorf("active flag not persisted")
	}
}
