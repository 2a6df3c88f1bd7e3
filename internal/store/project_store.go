package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tangsl/personal-affairs/internal/model"
)

// Projects retrieves all projects ordered by creation time.
func (s *SQLiteStore) Projects(ctx context.Context) ([]model.Project, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT id, name, color, created_at FROM projects ORDER BY created_at",
	)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Color, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

// ProjectByID retrieves a single project, or nil when none exists.
func (s *SQLiteStore) ProjectByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var p model.Project
	err := s.db.QueryRowxContext(ctx,
		"SELECT id, name, color, created_at FROM projects WHERE id = ?", id,
	).Scan(&p.ID, &p.Name, &p.Color, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", id, err)
	}
	return &p, nil
}

// UpsertProjects inserts or replaces a batch of projects in one transaction.
func (s *SQLiteStore) UpsertProjects(ctx context.Context, projects []model.Project) error {
	if len(projects) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// ON CONFLICT DO UPDATE rather than INSERT OR REPLACE: REPLACE
	// deletes the existing row first, which would cascade to tasks.
	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO projects (id, name, color, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name       = excluded.name,
			color      = excluded.color,
			created_at = excluded.created_at`)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range projects {
		if _, err := stmt.ExecContext(ctx, p.ID, p.Name, p.Color, p.CreatedAt.UTC()); err != nil {
			return fmt.Errorf("upserting project %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// DeleteProject removes a project; its tasks are removed by cascade.
func (s *SQLiteStore) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}
	return nil
}
