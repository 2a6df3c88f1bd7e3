package model

import (
	"time"

	"github.com/google/uuid"
)

// CredentialCategory classifies stored credential entries.
type CredentialCategory string

const (
	CredentialSocial        CredentialCategory = "social"
	CredentialEmail         CredentialCategory = "email"
	CredentialBanking       CredentialCategory = "banking"
	CredentialShopping      CredentialCategory = "shopping"
	CredentialWork          CredentialCategory = "work"
	CredentialEntertainment CredentialCategory = "entertainment"
	CredentialOther         CredentialCategory = "other"
)

// CredentialEntry is a stored account credential. The secret is held and
// synchronized verbatim; field-level encryption is a known gap in the
// current cloud contract.
type CredentialEntry struct {
	ID        uuid.UUID          `json:"id" db:"id"`
	Title     string             `json:"title" db:"title"`
	Username  string             `json:"username" db:"username"`
	Secret    string             `json:"secret" db:"secret"`
	Website   *string            `json:"website,omitempty" db:"website"`
	Notes     *string            `json:"notes,omitempty" db:"notes"`
	Category  CredentialCategory `json:"category" db:"category"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" db:"updated_at"`
	Favorite  bool               `json:"favorite" db:"favorite"`
}

// NewCredentialEntry creates an entry with a fresh identifier.
func NewCredentialEntry(title, username, secret string, category CredentialCategory) CredentialEntry {
	now := time.Now()
	return CredentialEntry{
		ID:        uuid.New(),
		Title:     title,
		Username:  username,
		Secret:    secret,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
