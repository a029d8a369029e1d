package client

import (
	"context"
	"encoding/json"
	"time"

	"fieldsync/internal/domain/submission"
)

// CachedForm is a read-through copy of a form definition. CachedAt and
// LastAccessed feed the eviction policy; both are maintained on every
// read and write.
type CachedForm struct {
	FormID       string          `json:"form_id"`
	Definition   json.RawMessage `json:"definition"`
	CachedAt     time.Time       `json:"cached_at"`
	LastAccessed time.Time       `json:"last_accessed"`
}

// CachedMedia is a locally cached binary asset keyed by its remote URL.
type CachedMedia struct {
	URL         string    `json:"url"`
	Blob        []byte    `json:"blob"`
	ContentType string    `json:"content_type"`
	CachedAt    time.Time `json:"cached_at"`
}

// Queue is the durable local store for records not yet confirmed committed
// to the server, plus the offline caches. A pending submission lives here
// from capture until the sync orchestrator confirms its commit and removes
// it; no other component deletes.
type Queue interface {
	// Append inserts a freshly captured submission. Returns ErrDuplicateID
	// if the id is already queued.
	Append(ctx context.Context, sub *submission.Pending) error

	// ListPending returns every queued submission in unspecified order.
	ListPending(ctx context.Context) ([]submission.Pending, error)

	// Remove deletes a submission. Removing an absent id is not an error,
	// so orchestration retries stay safe.
	Remove(ctx context.Context, id string) error

	CountPending(ctx context.Context) (int, error)

	PutForm(ctx context.Context, f *CachedForm) error
	// GetForm returns the cached definition and touches its last_accessed
	// timestamp. Returns nil when the form is not cached.
	GetForm(ctx context.Context, formID string) (*CachedForm, error)
	ListForms(ctx context.Context) ([]CachedForm, error)

	PutMedia(ctx context.Context, m *CachedMedia) error
	// GetMedia returns nil when the URL has not been cached.
	GetMedia(ctx context.Context, url string) (*CachedMedia, error)

	Close() error
}
