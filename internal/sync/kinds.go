package sync

import (
	"context"

	"github.com/google/uuid"

	"github.com/tangsl/personal-affairs/internal/cloud"
	"github.com/tangsl/personal-affairs/internal/identity"
	"github.com/tangsl/personal-affairs/internal/model"
)

// collection describes how one entity kind is synchronized.
type collection struct {
	name      string
	upload    func(ctx context.Context, e *Engine) (uploaded, skipped int, err error)
	reconcile func(ctx context.Context, e *Engine, docs []cloud.RawDocument) (int, error)
}

// syncOrder is the fixed dependency order for both phases: referenced
// kinds (projects) come before referencing kinds (tasks). Adding a new
// entity kind is an entry here, not a code reshuffle.
var syncOrder = []collection{
	{
		name:      cloud.CollectionProjects,
		upload:    uploadProjects,
		reconcile: reconcileProjects,
	},
	{
		name:      cloud.CollectionTasks,
		upload:    uploadTasks,
		reconcile: reconcileTasks,
	},
	{
		name:      cloud.CollectionFinancialRecords,
		upload:    uploadFinancialRecords,
		reconcile: reconcileFinancialRecords,
	},
	{
		name:      cloud.CollectionBudgets,
		upload:    uploadBudgets,
		reconcile: reconcileBudgets,
	},
	{
		name:      cloud.CollectionPasswords,
		upload:    uploadCredentials,
		reconcile: reconcileCredentials,
	},
	{
		name:      cloud.CollectionVirtualAssets,
		upload:    uploadVirtualAssets,
		reconcile: reconcileVirtualAssets,
	},
}

// uploadAll maps every local entity of one kind through its wire
// constructor and upserts it into the named remote collection. An entity
// without a resolvable identifier is skipped and counted; a remote write
// failure aborts the whole collection.
func uploadAll[E any, D any](
	ctx context.Context,
	e *Engine,
	name string,
	items []E,
	entityID func(E) uuid.UUID,
	toWire func(E, *Engine) D,
) (int, int, error) {
	uploaded, skipped := 0, 0
	for _, item := range items {
		id := entityID(item)
		if id == uuid.Nil {
			e.logger.Warn("skipping entity with no resolvable identifier",
				"collection", name)
			skipped++
			continue
		}

		doc := toWire(item, e)
		if err := e.remote.UpsertDocument(ctx, name, identity.RemoteKey(id), doc); err != nil {
			return uploaded, skipped, &RemoteWriteError{Collection: name, Err: err}
		}
		uploaded++
	}
	return uploaded, skipped, nil
}

func uploadProjects(ctx context.Context, e *Engine) (int, int, error) {
	items, err := e.store.Projects(ctx)
	if err != nil {
		return 0, 0, &LocalStoreError{Err: err}
	}
	return uploadAll(ctx, e, cloud.CollectionProjects, items,
		func(p model.Project) uuid.UUID { return p.ID },
		func(p model.Project, e *Engine) cloud.ProjectDocument {
			return cloud.NewProjectDocument(p, e.now())
		})
}

func uploadTasks(ctx context.Context, e *Engine) (int, int, error) {
	items, err := e.store.Tasks(ctx)
	if err != nil {
		return 0, 0, &LocalStoreError{Err: err}
	}
	return uploadAll(ctx, e, cloud.CollectionTasks, items,
		func(t model.Task) uuid.UUID { return t.ID },
		func(t model.Task, e *Engine) cloud.TaskDocument {
			return cloud.NewTaskDocument(t, e.now())
		})
}

func uploadFinancialRecords(ctx context.Context, e *Engine) (int, int, error) {
	items, err := e.store.FinancialRecords(ctx)
	if err != nil {
		return 0, 0, &LocalStoreError{Err: err}
	}
	return uploadAll(ctx, e, cloud.CollectionFinancialRecords, items,
		func(r model.FinancialRecord) uuid.UUID { return r.ID },
		func(r model.FinancialRecord, e *Engine) cloud.FinancialRecordDocument {
			return cloud.NewFinancialRecordDocument(r, e.now())
		})
}

func uploadBudgets(ctx context.Context, e *Engine) (int, int, error) {
	items, err := e.store.Budgets(ctx)
	if err != nil {
		return 0, 0, &LocalStoreError{Err: err}
	}
	return uploadAll(ctx, e, cloud.CollectionBudgets, items,
		func(b model.Budget) uuid.UUID { return b.ID },
		func(b model.Budget, e *Engine) cloud.BudgetDocument {
			return cloud.NewBudgetDocument(b, e.now())
		})
}

func uploadCredentials(ctx context.Context, e *Engine) (int, int, error) {
	items, err := e.store.CredentialEntries(ctx)
	if err != nil {
		return 0, 0, &LocalStoreError{Err: err}
	}
	return uploadAll(ctx, e, cloud.CollectionPasswords, items,
		func(c model.CredentialEntry) uuid.UUID { return c.ID },
		func(c model.CredentialEntry, e *Engine) cloud.CredentialDocument {
			return cloud.NewCredentialDocument(c, e.now())
		})
}

func uploadVirtualAssets(ctx context.Context, e *Engine) (int, int, error) {
	items, err := e.store.VirtualAssets(ctx)
	if err != nil {
		return 0, 0, &LocalStoreError{Err: err}
	}
	return uploadAll(ctx, e, cloud.CollectionVirtualAssets, items,
		func(a model.VirtualAsset) uuid.UUID { return a.ID },
		func(a model.VirtualAsset, e *Engine) cloud.VirtualAssetDocument {
			return cloud.NewVirtualAssetDocument(a, e.now())
		})
}
