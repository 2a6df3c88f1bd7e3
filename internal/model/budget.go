package model

import (
	"time"

	"github.com/google/uuid"
)

// BudgetPeriod is the recurring window a budget covers.
type BudgetPeriod string

const (
	PeriodWeekly  BudgetPeriod = "weekly"
	PeriodMonthly BudgetPeriod = "monthly"
	PeriodYearly  BudgetPeriod = "yearly"
)

// EndDate returns the end of the period window that begins at start.
func (p BudgetPeriod) EndDate(start time.Time) time.Time {
	switch p {
	case PeriodWeekly:
		return start.AddDate(0, 0, 7)
	case PeriodMonthly:
		return start.AddDate(0, 1, 0)
	case PeriodYearly:
		return start.AddDate(1, 0, 0)
	}
	return start
}

// Budget is a spending ceiling for a category over a period. Spent is a
// locally cached aggregate, not authoritative. EndDate is always derived
// from Period and StartDate; use SetWindow to change either.
type Budget struct {
	ID        uuid.UUID         `json:"id" db:"id"`
	Name      string            `json:"name" db:"name"`
	Amount    float64           `json:"amount" db:"amount"`
	Spent     float64           `json:"spent" db:"spent"`
	Period    BudgetPeriod      `json:"period" db:"period"`
	StartDate time.Time         `json:"start_date" db:"start_date"`
	EndDate   time.Time         `json:"end_date" db:"end_date"`
	Category  FinancialCategory `json:"category" db:"category"`
}

// NewBudget creates a budget starting now with a fresh identifier.
func NewBudget(name string, amount float64, period BudgetPeriod, category FinancialCategory) Budget {
	start := time.Now()
	return Budget{
		ID:        uuid.New(),
		Name:      name,
		Amount:    amount,
		Period:    period,
		StartDate: start,
		EndDate:   period.EndDate(start),
		Category:  category,
	}
}

// SetWindow updates the period and start date, recomputing EndDate.
func (b *Budget) SetWindow(period BudgetPeriod, start time.Time) {
	b.Period = period
	b.StartDate = start
	b.EndDate = period.EndDate(start)
}

// Remaining is the unspent portion of the budget; negative when over.
func (b Budget) Remaining() float64 {
	return b.Amount - b.Spent
}

// Progress is the spent fraction of the budget, clamped to [0,1].
func (b Budget) Progress() float64 {
	if b.Amount <= 0 {
		return 0
	}
	p := b.Spent / b.Amount
	if p > 1 {
		return 1
	}
	return p
}

// IsOverBudget reports whether spending has exceeded the ceiling.
func (b Budget) IsOverBudget() bool {
	return b.Spent > b.Amount
}

// IsExpired reports whether the budget window has passed at the given time.
func (b Budget) IsExpired(now time.Time) bool {
	return now.After(b.EndDate)
}
