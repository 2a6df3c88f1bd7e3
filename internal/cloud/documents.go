package cloud

import (
	"time"

	"github.com/tangsl/personal-affairs/internal/identity"
	"github.com/tangsl/personal-affairs/internal/model"
)

// The document types below are the wire shape of each collection. Each
// carries the entity's remote key in its "id" field, cross-entity
// references as remote keys rather than embedded objects, and an
// "updatedAt" stamp set when the document is built for upload.
//
// The New*Document constructors are pure: they never mutate their input
// and are safe to call concurrently on the same entity.

// ProjectDocument is the wire form of a project.
type ProjectDocument struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ColorHex  string    `json:"colorHex"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewProjectDocument builds the upload document for a project.
func NewProjectDocument(p model.Project, now time.Time) ProjectDocument {
	return ProjectDocument{
		ID:        identity.RemoteKey(p.ID),
		Name:      p.Name,
		ColorHex:  p.Color,
		CreatedAt: p.CreatedAt,
		UpdatedAt: now,
	}
}

// TaskDocument is the wire form of a task. ProjectID and ParentTaskID
// carry the referenced entities' remote keys.
type TaskDocument struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"taskDescription"`
	Priority       string     `json:"priority"`
	Status         string     `json:"status"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	ReminderDate   *time.Time `json:"reminderDate,omitempty"`
	RepeatRule     *string    `json:"repeatRule,omitempty"`
	RepeatInterval int        `json:"repeatInterval"`
	ProjectID      *string    `json:"projectId,omitempty"`
	ParentTaskID   *string    `json:"parentTaskId,omitempty"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// NewTaskDocument builds the upload document for a task.
func NewTaskDocument(t model.Task, now time.Time) TaskDocument {
	doc := TaskDocument{
		ID:             identity.RemoteKey(t.ID),
		Title:          t.Title,
		Description:    t.Description,
		Priority:       string(t.Priority),
		Status:         string(t.Status),
		DueDate:        t.DueDate,
		CreatedAt:      t.CreatedAt,
		CompletedAt:    t.CompletedAt,
		ReminderDate:   t.ReminderDate,
		RepeatInterval: t.RepeatInterval,
		UpdatedAt:      now,
	}
	if t.RepeatRule != nil {
		rule := string(*t.RepeatRule)
		doc.RepeatRule = &rule
	}
	if t.ProjectID != nil {
		key := identity.RemoteKey(*t.ProjectID)
		doc.ProjectID = &key
	}
	if t.ParentTaskID != nil {
		key := identity.RemoteKey(*t.ParentTaskID)
		doc.ParentTaskID = &key
	}
	return doc
}

// FinancialRecordDocument is the wire form of a financial record.
type FinancialRecordDocument struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Amount      float64   `json:"amount"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	Description string    `json:"recordDescription"`
	Tags        []string  `json:"tags"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewFinancialRecordDocument builds the upload document for a record.
func NewFinancialRecordDocument(r model.FinancialRecord, now time.Time) FinancialRecordDocument {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return FinancialRecordDocument{
		ID:          identity.RemoteKey(r.ID),
		Title:       r.Title,
		Amount:      r.Amount,
		Type:        string(r.Type),
		Category:    string(r.Category),
		Date:        r.Date,
		Description: r.Description,
		Tags:        tags,
		UpdatedAt:   now,
	}
}

// BudgetDocument is the wire form of a budget.
type BudgetDocument struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	Spent     float64   `json:"spent"`
	Period    string    `json:"period"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Category  string    `json:"category"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewBudgetDocument builds the upload document for a budget.
func NewBudgetDocument(b model.Budget, now time.Time) BudgetDocument {
	return BudgetDocument{
		ID:        identity.RemoteKey(b.ID),
		Name:      b.Name,
		Amount:    b.Amount,
		Spent:     b.Spent,
		Period:    string(b.Period),
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		Category:  string(b.Category),
		UpdatedAt: now,
	}
}

// CredentialDocument is the wire form of a credential entry. The secret
// travels verbatim; the remote contract has no field-level encryption.
type CredentialDocument struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Website   *string   `json:"website,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Favorite  bool      `json:"isFavorite"`
}

// NewCredentialDocument builds the upload document for a credential entry.
func NewCredentialDocument(e model.CredentialEntry, now time.Time) CredentialDocument {
	return CredentialDocument{
		ID:        identity.RemoteKey(e.ID),
		Title:     e.Title,
		Username:  e.Username,
		Password:  e.Secret,
		Website:   e.Website,
		Notes:     e.Notes,
		Category:  string(e.Category),
		CreatedAt: e.CreatedAt,
		UpdatedAt: now,
		Favorite:  e.Favorite,
	}
}

// VirtualAssetDocument is the wire form of a virtual asset.
type VirtualAssetDocument struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        string     `json:"assetType"`
	Value       float64    `json:"value"`
	Currency    string     `json:"currency"`
	ExpiryDate  *time.Time `json:"expiryDate,omitempty"`
	Description *string    `json:"assetDescription,omitempty"`
	Barcode     *string    `json:"barcode,omitempty"`
	Active      bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewVirtualAssetDocument builds the upload document for a virtual asset.
func NewVirtualAssetDocument(a model.VirtualAsset, now time.Time) VirtualAssetDocument {
	return VirtualAssetDocument{
		ID:          identity.RemoteKey(a.ID),
		Name:        a.Name,
		Type:        string(a.Type),
		Value:       a.Value,
		Currency:    a.Currency,
		ExpiryDate:  a.ExpiryDate,
		Description: a.Description,
		Barcode:     a.Barcode,
		Active:      a.Active,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   now,
	}
}
