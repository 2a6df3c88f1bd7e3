package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tangsl/personal-affairs/internal/model"
)

// CredentialEntries retrieves all credential entries ordered by title.
func (s *SQLiteStore) CredentialEntries(ctx context.Context) ([]model.CredentialEntry, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, title, username, secret, website, notes, category,
		       created_at, updated_at, favorite
		FROM credential_entries ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("querying credential entries: %w", err)
	}
	defer rows.Close()

	var entries []model.CredentialEntry
	for rows.Next() {
		e, err := scanCredentialEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// CredentialEntryByID retrieves a single entry, or nil when none exists.
func (s *SQLiteStore) CredentialEntryByID(ctx context.Context, id uuid.UUID) (*model.CredentialEntry, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, title, username, secret, website, notes, category,
		       created_at, updated_at, favorite
		FROM credential_entries WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("getting credential entry %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("getting credential entry %s: %w", id, err)
		}
		return nil, nil
	}

	e, err := scanCredentialEntry(rows)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// UpsertCredentialEntries inserts or replaces a batch of entries in one
// transaction.
func (s *SQLiteStore) UpsertCredentialEntries(ctx context.Context, entries []model.CredentialEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT OR REPLACE INTO credential_entries (
			id, title, username, secret, website, notes, category,
			created_at, updated_at, favorite
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		_, err := stmt.ExecContext(ctx,
			e.ID, e.Title, e.Username, e.Secret,
			nullString(e.Website), nullString(e.Notes), string(e.Category),
			e.CreatedAt.UTC(), e.UpdatedAt.UTC(), boolToInt(e.Favorite),
		)
		if err != nil {
			return fmt.Errorf("upserting credential entry %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// DeleteCredentialEntry removes a credential entry by identifier.
func (s *SQLiteStore) DeleteCredentialEntry(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM credential_entries WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting credential entry %s: %w", id, err)
	}
	return nil
}

// VirtualAssets retrieves all virtual assets ordered by name.
func (s *SQLiteStore) VirtualAssets(ctx context.Context) ([]model.VirtualAsset, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, name, type, value, currency, expiry_date, description,
		       barcode, active, created_at, updated_at
		FROM virtual_assets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying virtual assets: %w", err)
	}
	defer rows.Close()

	var assets []model.VirtualAsset
	for rows.Next() {
		a, err := scanVirtualAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}

	return assets, rows.Err()
}

// VirtualAssetByID retrieves a single asset, or nil when none exists.
func (s *SQLiteStore) VirtualAssetByID(ctx context.Context, id uuid.UUID) (*model.VirtualAsset, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, name, type, value, currency, expiry_date, description,
		       barcode, active, created_at, updated_at
		FROM virtual_assets WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("getting virtual asset %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("getting virtual asset %s: %w", id, err)
		}
		return nil, nil
	}

	a, err := scanVirtualAsset(rows)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpsertVirtualAssets inserts or replaces a batch of assets in one
// transaction.
func (s *SQLiteStore) UpsertVirtualAssets(ctx context.Context, assets []model.VirtualAsset) error {
	if len(assets) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT OR REPLACE INTO virtual_assets (
			id, name, type, value, currency, expiry_date, description,
			barcode, active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, a := range assets {
		_, err := stmt.ExecContext(ctx,
			a.ID, a.Name, string(a.Type), a.Value, a.Currency,
			nullTime(a.ExpiryDate), nullString(a.Description), nullString(a.Barcode),
			boolToInt(a.Active), a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("upserting virtual asset %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// DeleteVirtualAsset removes a virtual asset by identifier.
func (s *SQLiteStore) DeleteVirtualAsset(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM virtual_assets WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting virtual asset %s: %w", id, err)
	}
	return nil
}

// scanCredentialEntry scans an entry row from a sqlx.Rows result set.
func scanCredentialEntry(rows *sqlx.Rows) (model.CredentialEntry, error) {
	var (
		e        model.CredentialEntry
		website  sql.NullString
		notes    sql.NullString
		category string
		favorite int
	)

	err := rows.Scan(&e.ID, &e.Title, &e.Username, &e.Secret,
		&website, &notes, &category, &e.CreatedAt, &e.UpdatedAt, &favorite)
	if err != nil {
		return model.CredentialEntry{}, fmt.Errorf("scanning credential entry row: %w", err)
	}

	e.Website = stringPtr(website)
	e.Notes = stringPtr(notes)
	e.Category = model.CredentialCategory(category)
	e.Favorite = favorite != 0

	return e, nil
}

// scanVirtualAsset scans an asset row from a sqlx.Rows result set.
func scanVirtualAsset(rows *sqlx.Rows) (model.VirtualAsset, error) {
	var (
		a           model.VirtualAsset
		typ         string
		expiryDate  sql.NullTime
		description sql.NullString
		barcode     sql.NullString
		active      int
	)

	err := rows.Scan(&a.ID, &a.Name, &typ, &a.Value, &a.Currency,
		&expiryDate, &description, &barcode, &active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return model.VirtualAsset{}, fmt.Errorf("scanning virtual asset row: %w", err)
	}

	a.Type = model.AssetType(typ)
	a.ExpiryDate = timePtr(expiryDate)
	a.Description = stringPtr(description)
	a.Barcode = stringPtr(barcode)
	a.Active = active != 0

	return a, nil
}
