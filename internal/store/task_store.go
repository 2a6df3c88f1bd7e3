package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tangsl/personal-affairs/internal/model"
)

// Tasks retrieves all tasks ordered by creation time.
func (s *SQLiteStore) Tasks(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, title, description, priority, status, due_date,
		       created_at, completed_at, reminder_date, repeat_rule,
		       repeat_interval, project_id, parent_task_id
		FROM tasks ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// TaskByID retrieves a single task, or nil when none exists.
func (s *SQLiteStore) TaskByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, title, description, priority, status, due_date,
		       created_at, completed_at, reminder_date, repeat_rule,
		       repeat_interval, project_id, parent_task_id
		FROM tasks WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("getting task %s: %w", id, err)
		}
		return nil, nil
	}

	t, err := scanTask(rows)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpsertTasks inserts or replaces a batch of tasks in one transaction.
// Foreign key checks are deferred to commit so parents and subtasks may
// arrive in any order within the batch.
func (s *SQLiteStore) UpsertTasks(ctx context.Context, tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "PRAGMA defer_foreign_keys=ON"); err != nil {
		return fmt.Errorf("deferring foreign keys: %w", err)
	}

	// ON CONFLICT DO UPDATE rather than INSERT OR REPLACE: REPLACE
	// deletes the existing row first, which would cascade to subtasks.
	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO tasks (
			id, title, description, priority, status, due_date,
			created_at, completed_at, reminder_date, repeat_rule,
			repeat_interval, project_id, parent_task_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title           = excluded.title,
			description     = excluded.description,
			priority        = excluded.priority,
			status          = excluded.status,
			due_date        = excluded.due_date,
			created_at      = excluded.created_at,
			completed_at    = excluded.completed_at,
			reminder_date   = excluded.reminder_date,
			repeat_rule     = excluded.repeat_rule,
			repeat_interval = excluded.repeat_interval,
			project_id      = excluded.project_id,
			parent_task_id  = excluded.parent_task_id`)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, t := range tasks {
		var repeatRule sql.NullString
		if t.RepeatRule != nil {
			repeatRule = sql.NullString{String: string(*t.RepeatRule), Valid: true}
		}

		_, err := stmt.ExecContext(ctx,
			t.ID, t.Title, t.Description, string(t.Priority), string(t.Status),
			nullTime(t.DueDate), t.CreatedAt.UTC(), nullTime(t.CompletedAt),
			nullTime(t.ReminderDate), repeatRule, t.RepeatInterval,
			nullUUID(t.ProjectID), nullUUID(t.ParentTaskID),
		)
		if err != nil {
			return fmt.Errorf("upserting task %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// DeleteTask removes a task; its subtasks are removed by cascade.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	return nil
}

// scanTask scans a task row from a sqlx.Rows result set.
func scanTask(rows *sqlx.Rows) (model.Task, error) {
	var (
		t            model.Task
		priority     string
		status       string
		dueDate      sql.NullTime
		completedAt  sql.NullTime
		reminderDate sql.NullTime
		repeatRule   sql.NullString
		projectID    uuid.NullUUID
		parentTaskID uuid.NullUUID
	)

	err := rows.Scan(
		&t.ID, &t.Title, &t.Description, &priority, &status, &dueDate,
		&t.CreatedAt, &completedAt, &reminderDate, &repeatRule,
		&t.RepeatInterval, &projectID, &parentTaskID,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("scanning task row: %w", err)
	}

	t.Priority = model.TaskPriority(priority)
	t.Status = model.TaskStatus(status)
	t.DueDate = timePtr(dueDate)
	t.CompletedAt = timePtr(completedAt)
	t.ReminderDate = timePtr(reminderDate)
	if repeatRule.Valid {
		rule := model.RepeatRule(repeatRule.String)
		t.RepeatRule = &rule
	}
	t.ProjectID = uuidPtr(projectID)
	t.ParentTaskID = uuidPtr(parentTaskID)

	return t, nil
}
