package sync

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned when a sync is requested without a
// signed-in user. No I/O is performed in that case.
var ErrNotAuthenticated = errors.New("sync: not authenticated")

// ErrSyncInFlight is returned when a sync is requested while another one
// is already running. The caller retries by invoking the sync again.
var ErrSyncInFlight = errors.New("sync: another sync is already in flight")

// RemoteWriteError reports a failed document write during the upload
// phase. It aborts the named collection's upload and the whole sync.
type RemoteWriteError struct {
	Collection string
	Err        error
}

func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("uploading %s: %v", e.Collection, e.Err)
}

func (e *RemoteWriteError) Unwrap() error { return e.Err }

// RemoteReadError reports a failed collection fetch during the download
// phase.
type RemoteReadError struct {
	Collection string
	Err        error
}

func (e *RemoteReadError) Error() string {
	return fmt.Sprintf("downloading %s: %v", e.Collection, e.Err)
}

func (e *RemoteReadError) Unwrap() error { return e.Err }

// LocalStoreError reports a failed local persistence operation.
type LocalStoreError struct {
	Err error
}

func (e *LocalStoreError) Error() string {
	return fmt.Sprintf("local store: %v", e.Err)
}

func (e *LocalStoreError) Unwrap() error { return e.Err }
