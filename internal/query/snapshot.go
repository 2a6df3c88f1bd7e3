package query

import (
	"strings"
	"time"

	"github.com/tangsl/personal-affairs/internal/model"
)

// Snapshot is an immutable, point-in-time copy of all six collections.
// Aggregates and searches are computed over the snapshot, not the store,
// so callers see a consistent view even while the store mutates.
type Snapshot struct {
	Projects    []model.Project
	Tasks       []model.Task
	Records     []model.FinancialRecord
	Budgets     []model.Budget
	Credentials []model.CredentialEntry
	Assets      []model.VirtualAsset

	// CapturedAt is when the snapshot was read from the store.
	CapturedAt time.Time
}

// Counts holds per-collection totals.
type Counts struct {
	Projects    int
	Tasks       int
	Records     int
	Budgets     int
	Credentials int
	Assets      int
}

// Counts returns the number of entities in each collection.
func (s *Snapshot) Counts() Counts {
	return Counts{
		Projects:    len(s.Projects),
		Tasks:       len(s.Tasks),
		Records:     len(s.Records),
		Budgets:     len(s.Budgets),
		Credentials: len(s.Credentials),
		Assets:      len(s.Assets),
	}
}

// TaskCountsByStatus returns how many tasks are in each status.
func (s *Snapshot) TaskCountsByStatus() map[model.TaskStatus]int {
	counts := make(map[model.TaskStatus]int)
	for _, t := range s.Tasks {
		counts[t.Status]++
	}
	return counts
}

// CompletedTasks returns the number of completed tasks.
func (s *Snapshot) CompletedTasks() int {
	return s.TaskCountsByStatus()[model.StatusCompleted]
}

// PendingTasks returns the number of pending tasks.
func (s *Snapshot) PendingTasks() int {
	return s.TaskCountsByStatus()[model.StatusPending]
}

// TotalIncome sums the amounts of all income records.
func (s *Snapshot) TotalIncome() float64 {
	return s.sumRecords(model.TransactionIncome)
}

// TotalExpense sums the amounts of all expense records.
func (s *Snapshot) TotalExpense() float64 {
	return s.sumRecords(model.TransactionExpense)
}

func (s *Snapshot) sumRecords(typ model.TransactionType) float64 {
	var total float64
	for _, r := range s.Records {
		if r.Type == typ {
			total += r.Amount
		}
	}
	return total
}

// SearchTasks returns tasks whose title or description contains the
// query, case-insensitively. An empty query matches everything.
func (s *Snapshot) SearchTasks(query string) []model.Task {
	if query == "" {
		return s.Tasks
	}
	q := strings.ToLower(query)
	var matches []model.Task
	for _, t := range s.Tasks {
		if containsFold(t.Title, q) || containsFold(t.Description, q) {
			matches = append(matches, t)
		}
	}
	return matches
}

// SearchRecords returns financial records whose title or description
// contains the query, case-insensitively.
func (s *Snapshot) SearchRecords(query string) []model.FinancialRecord {
	if query == "" {
		return s.Records
	}
	q := strings.ToLower(query)
	var matches []model.FinancialRecord
	for _, r := range s.Records {
		if containsFold(r.Title, q) || containsFold(r.Description, q) {
			matches = append(matches, r)
		}
	}
	return matches
}

// SearchCredentials returns credential entries whose title, username or
// website contains the query, case-insensitively.
func (s *Snapshot) SearchCredentials(query string) []model.CredentialEntry {
	if query == "" {
		return s.Credentials
	}
	q := strings.ToLower(query)
	var matches []model.CredentialEntry
	for _, c := range s.Credentials {
		website := ""
		if c.Website != nil {
			website = *c.Website
		}
		if containsFold(c.Title, q) || containsFold(c.Username, q) || containsFold(website, q) {
			matches = append(matches, c)
		}
	}
	return matches
}

// containsFold reports whether s contains q; q must already be lowercase.
func containsFold(s, q string) bool {
	return strings.Contains(strings.ToLower(s), q)
}
