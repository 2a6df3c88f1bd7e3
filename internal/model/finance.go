package model

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// FinancialCategory classifies financial records and budgets.
type FinancialCategory string

const (
	CategoryIncome         FinancialCategory = "income"
	CategoryHousing        FinancialCategory = "housing"
	CategoryTransportation FinancialCategory = "transportation"
	CategoryFood           FinancialCategory = "food"
	CategoryUtilities      FinancialCategory = "utilities"
	CategoryShopping       FinancialCategory = "shopping"
	CategoryEntertainment  FinancialCategory = "entertainment"
	CategoryHealth         FinancialCategory = "health"
	CategoryEducation      FinancialCategory = "education"
	CategoryTravel         FinancialCategory = "travel"
	CategoryOther          FinancialCategory = "other"
)

// FinancialRecord is a single income or expense entry. Amount is a
// non-negative magnitude; the direction is carried by Type. The system
// is single-currency, so no currency code is stored.
type FinancialRecord struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	Title       string            `json:"title" db:"title"`
	Amount      float64           `json:"amount" db:"amount"`
	Type        TransactionType   `json:"type" db:"type"`
	Category    FinancialCategory `json:"category" db:"category"`
	Date        time.Time         `json:"date" db:"date"`
	Description string            `json:"description" db:"description"`
	Tags        []string          `json:"tags,omitempty" db:"-"`
}

// NewFinancialRecord creates a record dated now with a fresh identifier.
func NewFinancialRecord(title string, amount float64, typ TransactionType, category FinancialCategory, description string) FinancialRecord {
	return FinancialRecord{
		ID:          uuid.New(),
		Title:       title,
		Amount:      amount,
		Type:        typ,
		Category:    category,
		Date:        time.Now(),
		Description: description,
	}
}
