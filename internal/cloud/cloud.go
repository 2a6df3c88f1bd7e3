// Package cloud defines the remote document store contract and the wire
// representations of the six synchronized collections.
package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection names under the per-user remote namespace.
const (
	CollectionProjects         = "projects"
	CollectionTasks            = "tasks"
	CollectionFinancialRecords = "financialRecords"
	CollectionBudgets          = "budgets"
	CollectionPasswords        = "passwords"
	CollectionVirtualAssets    = "virtualAssets"
)

// RawDocument is a single remote document: its remote key and its
// undecoded payload. Consumers decode Data into the per-collection
// document type.
type RawDocument struct {
	ID   string
	Data json.RawMessage
}

// RemoteStore is the remote per-user document store. Every collection is
// scoped under the authenticated user's namespace; implementations are
// responsible for that scoping.
type RemoteStore interface {
	// UpsertDocument writes payload under id in the named collection,
	// creating or replacing the document.
	UpsertDocument(ctx context.Context, collection, id string, payload any) error

	// FetchAllDocuments retrieves the full contents of the named
	// collection in the order the remote store returns them.
	FetchAllDocuments(ctx context.Context, collection string) ([]RawDocument, error)

	// DeleteDocument removes the document stored under id. The sync
	// engine does not call this today; it is part of the contract for
	// user-facing delete flows.
	DeleteDocument(ctx context.Context, collection, id string) error
}

// Session exposes the authenticated user identity. The sync engine
// refuses to run without an authenticated session.
type Session interface {
	// UserID returns the stable identifier of the signed-in user, or ""
	// when signed out.
	UserID() string

	// IsAuthenticated reports whether a user is currently signed in.
	IsAuthenticated() bool
}

// StaticSession is a fixed, always-authenticated session. An empty ID
// behaves as signed out.
type StaticSession struct {
	ID string
}

func (s StaticSession) UserID() string { return s.ID }

func (s StaticSession) IsAuthenticated() bool { return s.ID != "" }

// AuthError indicates that the remote store rejected the caller's
// credentials.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("cloud auth error: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
