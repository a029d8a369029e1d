package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fieldsync/internal/domain/submission"
)

// MemoryQueue is an in-memory Queue used as a fallback when the on-disk
// store cannot be opened, and as a fake in tests. It honors the same
// contract as SQLiteQueue but survives nothing.
type MemoryQueue struct {
	mu          sync.RWMutex
	submissions map[string]submission.Pending
	forms       map[string]CachedForm
	media       map[string]CachedMedia
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		submissions: make(map[string]submission.Pending),
		forms:       make(map[string]CachedForm),
		media:       make(map[string]CachedMedia),
	}
}

func (q *MemoryQueue) Append(_ context.Context, sub *submission.Pending) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.submissions[sub.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, sub.ID)
	}

	q.submissions[sub.ID] = *sub
	return nil
}

func (q *MemoryQueue) ListPending(_ context.Context) ([]submission.Pending, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	pending := make([]submission.Pending, 0, len(q.submissions))
	for _, sub := range q.submissions {
		pending = append(pending, sub)
	}

	return pending, nil
}

func (q *MemoryQueue) Remove(_ context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.submissions, id)
	return nil
}

func (q *MemoryQueue) CountPending(_ context.Context) (int, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return len(q.submissions), nil
}

func (q *MemoryQueue) PutForm(_ context.Context, f *CachedForm) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := time.Now().UTC()
	stored := *f
	stored.CachedAt = now
	stored.LastAccessed = now
	q.forms[f.FormID] = stored
	return nil
}

func (q *MemoryQueue) GetForm(_ context.Context, formID string) (*CachedForm, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	f, ok := q.forms[formID]
	if !ok {
		return nil, nil
	}

	f.LastAccessed = time.Now().UTC()
	q.forms[formID] = f
	return &f, nil
}

func (q *MemoryQueue) ListForms(_ context.Context) ([]CachedForm, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	forms := make([]CachedForm, 0, len(q.forms))
	for _, f := range q.forms {
		forms = append(forms, f)
	}

	return forms, nil
}

func (q *MemoryQueue) PutMedia(_ context.Context, m *CachedMedia) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	stored := *m
	stored.CachedAt = time.Now().UTC()
	q.media[m.URL] = stored
	return nil
}

func (q *MemoryQueue) GetMedia(_ context.Context, url string) (*CachedMedia, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	m, ok := q.media[url]
	if !ok {
		return nil, nil
	}

	return &m, nil
}

func (q *MemoryQueue) Close() error {
	return nil
}
