package sync

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/tangsl/personal-affairs/internal/cloud"
	"github.com/tangsl/personal-affairs/internal/identity"
	"github.com/tangsl/personal-affairs/internal/model"
)

// decoded pairs a document's decoded local identifier with its payload.
type decoded[D any] struct {
	id  uuid.UUID
	doc D
}

// decodeDocuments parses each raw document's remote key and JSON payload.
// A malformed key or payload skips that document (logged, not fatal to
// the batch); the relative order of the remaining documents is preserved.
func decodeDocuments[D any](e *Engine, name string, docs []cloud.RawDocument) []decoded[D] {
	out := make([]decoded[D], 0, len(docs))
	for _, raw := range docs {
		id, err := identity.ParseRemoteKey(raw.ID)
		if err != nil {
			e.logger.Warn("skipping document with malformed key",
				"collection", name, "key", raw.ID, "error", err)
			continue
		}
		var doc D
		if err := json.Unmarshal(raw.Data, &doc); err != nil {
			e.logger.Warn("skipping undecodable document",
				"collection", name, "key", raw.ID, "error", err)
			continue
		}
		out = append(out, decoded[D]{id: id, doc: doc})
	}
	return out
}

// resolveRef maps a referenced remote key to a local identifier using the
// pre-fetched key map. An absent or unresolvable reference yields nil
// rather than a stale or dangling pointer.
func resolveRef(key *string, known map[string]uuid.UUID) *uuid.UUID {
	if key == nil {
		return nil
	}
	id, ok := known[*key]
	if !ok {
		return nil
	}
	return &id
}

// reconcileProjects applies incoming project documents onto the local
// store: matching entities are overwritten field-for-field, unmatched
// ones are created with the decoded identifier so a re-sync is idempotent.
func reconcileProjects(ctx context.Context, e *Engine, docs []cloud.RawDocument) (int, error) {
	items := decodeDocuments[cloud.ProjectDocument](e, cloud.CollectionProjects, docs)

	batch := make([]model.Project, 0, len(items))
	for _, d := range items {
		existing, err := e.store.ProjectByID(ctx, d.id)
		if err != nil {
			return 0, &LocalStoreError{Err: err}
		}

		p := model.Project{ID: d.id}
		if existing != nil {
			p = *existing
		}
		p.Name = d.doc.Name
		p.Color = d.doc.ColorHex
		p.CreatedAt = d.doc.CreatedAt

		batch = append(batch, p)
	}

	if err := e.store.UpsertProjects(ctx, batch); err != nil {
		return 0, &LocalStoreError{Err: err}
	}
	return len(batch), nil
}

func reconcileTasks(ctx context.Context, e *Engine, docs []cloud.RawDocument) (int, error) {
	items := decodeDocuments[cloud.TaskDocument](e, cloud.CollectionTasks, docs)

	// Project references resolve against the local snapshot; projects
	// were reconciled first, so freshly downloaded ones are visible.
	projects, err := e.store.Projects(ctx)
	if err != nil {
		return 0, &LocalStoreError{Err: err}
	}
	projectKeys := make(map[string]uuid.UUID, len(projects))
	for _, p := range projects {
		projectKeys[identity.RemoteKey(p.ID)] = p.ID
	}

	// Parent references resolve against existing local tasks plus the
	// tasks arriving in this batch, so a subtask may precede its parent.
	existingTasks, err := e.store.Tasks(ctx)
	if err != nil {
		return 0, &LocalStoreError{Err: err}
	}
	taskKeys := make(map[string]uuid.UUID, len(existingTasks)+len(items))
	for _, t := range existingTasks {
		taskKeys[identity.RemoteKey(t.ID)] = t.ID
	}
	for _, d := range items {
		taskKeys[identity.RemoteKey(d.id)] = d.id
	}

	batch := make([]model.Task, 0, len(items))
	for _, d := range items {
		existing, err := e.store.TaskByID(ctx, d.id)
		if err != nil {
			return 0, &LocalStoreError{Err: err}
		}

		t := model.Task{ID: d.id}
		if existing != nil {
			t = *existing
		}
		t.Title = d.doc.Title
		t.Description = d.doc.Description
		t.Priority = model.TaskPriority(d.doc.Priority)
		t.Status = model.TaskStatus(d.doc.Status)
		t.DueDate = d.doc.DueDate
		t.CreatedAt = d.doc.CreatedAt
		t.ReminderDate = d.doc.ReminderDate
		t.RepeatInterval = d.doc.RepeatInterval
		if d.doc.RepeatRule != nil {
			rule := model.RepeatRule(*d.doc.RepeatRule)
			t.RepeatRule = &rule
		} else {
			t.RepeatRule = nil
		}
		t.ProjectID = resolveRef(d.doc.ProjectID, projectKeys)
		t.ParentTaskID = resolveRef(d.doc.ParentTaskID, taskKeys)

		// CompletedAt is non-nil exactly when the status is completed.
		// A completed document without a stamp gets its updatedAt.
		switch {
		case t.Status != model.StatusCompleted:
			t.CompletedAt = nil
		case d.doc.CompletedAt != nil:
			t.CompletedAt = d.doc.CompletedAt
		case t.CompletedAt == nil:
			done := d.doc.UpdatedAt
			t.CompletedAt = &done
		}

		batch = append(batch, t)
	}

	if err := e.store.UpsertTasks(ctx, batch); err != nil {
		return 0, &LocalStoreError{Err: err}
	}
	return len(batch), nil
}

func reconcileFinancialRecords(ctx context.Context, e *Engine, docs []cloud.RawDocument) (int, error) {
	items := decodeDocuments[cloud.FinancialRecordDocument](e, cloud.CollectionFinancialRecords, docs)

	batch := make([]model.FinancialRecord, 0, len(items))
	for _, d := range items {
		existing, err := e.store.FinancialRecordByID(ctx, d.id)
		if err != nil {
			return 0, &LocalStoreError{Err: err}
		}

		r := model.FinancialRecord{ID: d.id}
		if existing != nil {
			r = *existing
		}
		r.Title = d.doc.Title
		r.Amount = d.doc.Amount
		r.Type = model.TransactionType(d.doc.Type)
		r.Category = model.FinancialCategory(d.doc.Category)
		r.Date = d.doc.Date
		r.Description = d.doc.Description
		r.Tags = d.doc.Tags

		batch = append(batch, r)
	}

	if err := e.store.UpsertFinancialRecords(ctx, batch); err != nil {
		return 0, &LocalStoreError{Err: err}
	}
	return len(batch), nil
}

func reconcileBudgets(ctx context.Context, e *Engine, docs []cloud.RawDocument) (int, error) {
	items := decodeDocuments[cloud.BudgetDocument](e, cloud.CollectionBudgets, docs)

	batch := make([]model.Budget, 0, len(items))
	for _, d := range items {
		existing, err := e.store.BudgetByID(ctx, d.id)
		if err != nil {
			return 0, &LocalStoreError{Err: err}
		}

		b := model.Budget{ID: d.id}
		if existing != nil {
			b = *existing
		}
		b.Name = d.doc.Name
		b.Amount = d.doc.Amount
		b.Spent = d.doc.Spent
		b.Category = model.FinancialCategory(d.doc.Category)
		// End date is derived locally from period and start so the
		// window invariant holds even for inconsistent documents.
		b.SetWindow(model.BudgetPeriod(d.doc.Period), d.doc.StartDate)

		batch = append(batch, b)
	}

	if err := e.store.UpsertBudgets(ctx, batch); err != nil {
		return 0, &LocalStoreError{Err: err}
	}
	return len(batch), nil
}

func reconcileCredentials(ctx context.Context, e *Engine, docs []cloud.RawDocument) (int, error) {
	items := decodeDocuments[cloud.CredentialDocument](e, cloud.CollectionPasswords, docs)

	batch := make([]model.CredentialEntry, 0, len(items))
	for _, d := range items {
		existing, err := e.store.CredentialEntryByID(ctx, d.id)
		if err != nil {
			return 0, &LocalStoreError{Err: err}
		}

		c := model.CredentialEntry{ID: d.id}
		if existing != nil {
			c = *existing
		}
		c.Title = d.doc.Title
		c.Username = d.doc.Username
		c.Secret = d.doc.Password
		c.Website = d.doc.Website
		c.Notes = d.doc.Notes
		c.Category = model.CredentialCategory(d.doc.Category)
		c.CreatedAt = d.doc.CreatedAt
		c.UpdatedAt = d.doc.UpdatedAt
		c.Favorite = d.doc.Favorite

		batch = append(batch, c)
	}

	if err := e.store.UpsertCredentialEntries(ctx, batch); err != nil {
		return 0, &LocalStoreError{Err: err}
	}
	return len(batch), nil
}

func reconcileVirtualAssets(ctx context.Context, e *Engine, docs []cloud.RawDocument) (int, error) {
	items := decodeDocuments[cloud.VirtualAssetDocument](e, cloud.CollectionVirtualAssets, docs)

	batch := make([]model.VirtualAsset, 0, len(items))
	for _, d := range items {
		existing, err := e.store.VirtualAssetByID(ctx, d.id)
		if err != nil {
			return 0, &LocalStoreError{Err: err}
		}

		a := model.VirtualAsset{ID: d.id}
		if existing != nil {
			a = *existing
		}
		a.Name = d.doc.Name
		a.Type = model.AssetType(d.doc.Type)
		a.Value = d.doc.Value
		a.Currency = d.doc.Currency
		a.ExpiryDate = d.doc.ExpiryDate
		a.Description = d.doc.Description
		a.Barcode = d.doc.Barcode
		a.Active = d.doc.Active
		a.CreatedAt = d.doc.CreatedAt
		a.UpdatedAt = d.doc.UpdatedAt

		batch = append(batch, a)
	}

	if err := e.store.UpsertVirtualAssets(ctx, batch); err != nil {
		return 0, &LocalStoreError{Err: err}
	}
	return len(batch), nil
}
