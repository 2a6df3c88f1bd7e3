package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tangsl/personal-affairs/internal/model"
)

// FinancialRecords retrieves all financial records ordered by date descending.
func (s *SQLiteStore) FinancialRecords(ctx context.Context) ([]model.FinancialRecord, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, title, amount, type, category, date, description, tags
		FROM financial_records ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying financial records: %w", err)
	}
	defer rows.Close()

	var records []model.FinancialRecord
	for rows.Next() {
		r, err := scanFinancialRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// FinancialRecordByID retrieves a single record, or nil when none exists.
func (s *SQLiteStore) FinancialRecordByID(ctx context.Context, id uuid.UUID) (*model.FinancialRecord, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, title, amount, type, category, date, description, tags
		FROM financial_records WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("getting financial record %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("getting financial record %s: %w", id, err)
		}
		return nil, nil
	}

	r, err := scanFinancialRecord(rows)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// UpsertFinancialRecords inserts or replaces a batch of records in one
// transaction.
func (s *SQLiteStore) UpsertFinancialRecords(ctx context.Context, records []model.FinancialRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT OR REPLACE INTO financial_records (
			id, title, amount, type, category, date, description, tags
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		tags, err := json.Marshal(r.Tags)
		if err != nil {
			return fmt.Errorf("marshaling tags for record %s: %w", r.ID, err)
		}
		if r.Tags == nil {
			tags = []byte("[]")
		}

		_, err = stmt.ExecContext(ctx,
			r.ID, r.Title, r.Amount, string(r.Type), string(r.Category),
			r.Date.UTC(), r.Description, string(tags),
		)
		if err != nil {
			return fmt.Errorf("upserting financial record %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// DeleteFinancialRecord removes a financial record by identifier.
func (s *SQLiteStore) DeleteFinancialRecord(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM financial_records WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting financial record %s: %w", id, err)
	}
	return nil
}

// Budgets retrieves all budgets ordered by start date.
func (s *SQLiteStore) Budgets(ctx context.Context) ([]model.Budget, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, name, amount, spent, period, start_date, end_date, category
		FROM budgets ORDER BY start_date`)
	if err != nil {
		return nil, fmt.Errorf("querying budgets: %w", err)
	}
	defer rows.Close()

	var budgets []model.Budget
	for rows.Next() {
		var (
			b        model.Budget
			period   string
			category string
		)
		err := rows.Scan(&b.ID, &b.Name, &b.Amount, &b.Spent, &period,
			&b.StartDate, &b.EndDate, &category)
		if err != nil {
			return nil, fmt.Errorf("scanning budget row: %w", err)
		}
		b.Period = model.BudgetPeriod(period)
		b.Category = model.FinancialCategory(category)
		budgets = append(budgets, b)
	}

	return budgets, rows.Err()
}

// BudgetByID retrieves a single budget, or nil when none exists.
func (s *SQLiteStore) BudgetByID(ctx context.Context, id uuid.UUID) (*model.Budget, error) {
	var (
		b        model.Budget
		period   string
		category string
	)
	err := s.db.QueryRowxContext(ctx, `
		SELECT id, name, amount, spent, period, start_date, end_date, category
		FROM budgets WHERE id = ?`, id,
	).Scan(&b.ID, &b.Name, &b.Amount, &b.Spent, &period, &b.StartDate, &b.EndDate, &category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting budget %s: %w", id, err)
	}
	b.Period = model.BudgetPeriod(period)
	b.Category = model.FinancialCategory(category)
	return &b, nil
}

// UpsertBudgets inserts or replaces a batch of budgets in one transaction.
func (s *SQLiteStore) UpsertBudgets(ctx context.Context, budgets []model.Budget) error {
	if len(budgets) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT OR REPLACE INTO budgets (
			id, name, amount, spent, period, start_date, end_date, category
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, b := range budgets {
		_, err := stmt.ExecContext(ctx,
			b.ID, b.Name, b.Amount, b.Spent, string(b.Period),
			b.StartDate.UTC(), b.EndDate.UTC(), string(b.Category),
		)
		if err != nil {
			return fmt.Errorf("upserting budget %s: %w", b.ID, err)
		}
	}

	return tx.Commit()
}

// DeleteBudget removes a budget by identifier.
func (s *SQLiteStore) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM budgets WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting budget %s: %w", id, err)
	}
	return nil
}

// scanFinancialRecord scans a record row from a sqlx.Rows result set.
func scanFinancialRecord(rows *sqlx.Rows) (model.FinancialRecord, error) {
	var (
		r        model.FinancialRecord
		typ      string
		category string
		tags     string
	)

	err := rows.Scan(&r.ID, &r.Title, &r.Amount, &typ, &category,
		&r.Date, &r.Description, &tags)
	if err != nil {
		return model.FinancialRecord{}, fmt.Errorf("scanning financial record row: %w", err)
	}

	r.Type = model.TransactionType(typ)
	r.Category = model.FinancialCategory(category)

	if tags != "" && tags != "[]" {
		if err := json.Unmarshal([]byte(tags), &r.Tags); err != nil {
			return model.FinancialRecord{}, fmt.Errorf("unmarshaling tags: %w", err)
		}
	}

	return r, nil
}
