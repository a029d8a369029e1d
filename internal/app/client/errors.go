package client

import (
	"errors"
)

var (
	// ErrStorage marks any local persistence failure. Callers must treat
	// the wrapped operation as not having happened.
	ErrStorage = errors.New("local storage error")

	// ErrStorageUnavailable means the local store could not be opened at all.
	ErrStorageUnavailable = errors.New("local storage unavailable")

	// ErrDuplicateID means the idempotency-key generator produced a
	// collision. Should never happen; surfaced rather than swallowed.
	ErrDuplicateID = errors.New("submission id already queued")

	// ErrSyncInProgress means another sync pass holds the drain loop.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrOffline means a manual sync was requested while the server is
	// unreachable.
	ErrOffline = errors.New("server is offline")
)
