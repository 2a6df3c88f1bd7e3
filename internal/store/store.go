package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/tangsl/personal-affairs/internal/model"
)

// Store defines the local persistence interface for the six entity
// collections. Fetch-by-identifier methods return (nil, nil) when no
// entity exists. Upserts are batched: each call commits in a single
// transaction so a collection is persisted atomically.
type Store interface {
	// === Projects ===

	Projects(ctx context.Context) ([]model.Project, error)
	ProjectByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	UpsertProjects(ctx context.Context, projects []model.Project) error
	DeleteProject(ctx context.Context, id uuid.UUID) error

	// === Tasks ===

	Tasks(ctx context.Context) ([]model.Task, error)
	TaskByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	UpsertTasks(ctx context.Context, tasks []model.Task) error
	DeleteTask(ctx context.Context, id uuid.UUID) error

	// === Financial records ===

	FinancialRecords(ctx context.Context) ([]model.FinancialRecord, error)
	FinancialRecordByID(ctx context.Context, id uuid.UUID) (*model.FinancialRecord, error)
	UpsertFinancialRecords(ctx context.Context, records []model.FinancialRecord) error
	DeleteFinancialRecord(ctx context.Context, id uuid.UUID) error

	// === Budgets ===

	Budgets(ctx context.Context) ([]model.Budget, error)
	BudgetByID(ctx context.Context, id uuid.UUID) (*model.Budget, error)
	UpsertBudgets(ctx context.Context, budgets []model.Budget) error
	DeleteBudget(ctx context.Context, id uuid.UUID) error

	// === Credential entries ===

	CredentialEntries(ctx context.Context) ([]model.CredentialEntry, error)
	CredentialEntryByID(ctx context.Context, id uuid.UUID) (*model.CredentialEntry, error)
	UpsertCredentialEntries(ctx context.Context, entries []model.CredentialEntry) error
	DeleteCredentialEntry(ctx context.Context, id uuid.UUID) error

	// === Virtual assets ===

	VirtualAssets(ctx context.Context) ([]model.VirtualAsset, error)
	VirtualAssetByID(ctx context.Context, id uuid.UUID) (*model.VirtualAsset, error)
	UpsertVirtualAssets(ctx context.Context, assets []model.VirtualAsset) error
	DeleteVirtualAsset(ctx context.Context, id uuid.UUID) error

	Close() error
}
