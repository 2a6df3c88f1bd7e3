// Package identity converts between local entity identifiers and the
// string keys under which documents are stored in the remote store.
package identity

import (
	"fmt"

	"github.com/google/uuid"
)

// remoteKeyLen is the length of the canonical hyphenated form.
const remoteKeyLen = 36

// ParseError reports a remote key that is not a well-formed identifier.
type ParseError struct {
	Key    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing remote key %q: %s", e.Key, e.Reason)
}

// RemoteKey returns the canonical remote document key for a local
// identifier: lowercase hyphenated hex. It is the inverse of
// ParseRemoteKey for every non-nil identifier.
func RemoteKey(id uuid.UUID) string {
	return id.String()
}

// ParseRemoteKey converts a remote document key back into a local
// identifier. Only the canonical 36-character hyphenated form is
// accepted; anything else yields a *ParseError, never a panic.
func ParseRemoteKey(key string) (uuid.UUID, error) {
	if len(key) != remoteKeyLen {
		return uuid.Nil, &ParseError{Key: key, Reason: fmt.Sprintf("length %d, want %d", len(key), remoteKeyLen)}
	}
	id, err := uuid.Parse(key)
	if err != nil {
		return uuid.Nil, &ParseError{Key: key, Reason: err.Error()}
	}
	return id, nil
}
