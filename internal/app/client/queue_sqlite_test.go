package client

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/submission"
)

func newTestQueue(t *testing.T) (*SQLiteQueue, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "queue.db")
	q, err := NewSQLiteQueue(path, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })

	return q, path
}

func testPending(formID string) *submission.Pending {
	return &submission.Pending{
		ID:             uuid.New().String(),
		FormID:         formID,
		Payload:        json.RawMessage(`{"geometry":{"type":"Point","coordinates":[1,2]},"properties":{"n":1}}`),
		CreatedAtLocal: time.Now().UTC(),
	}
}

func TestSQLiteQueue_AppendAndList(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	sub := testPending("tree-survey")
	require.NoError(t, q.Append(ctx, sub))

	pending, err := q.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, sub.ID, pending[0].ID)
	assert.Equal(t, "tree-survey", pending[0].FormID)
	assert.JSONEq(t, string(sub.Payload), string(pending[0].Payload))
	assert.False(t, pending[0].Synced)
}

func TestSQLiteQueue_DurableAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "queue.db")

	q, err := NewSQLiteQueue(path, slog.Default())
	require.NoError(t, err)

	sub := testPending("tree-survey")
	require.NoError(t, q.Append(ctx, sub))
	require.NoError(t, q.Close())

	// A fresh open of the same file must still list the record.
	reopened, err := NewSQLiteQueue(path, slog.Default())
	require.NoError(t, err)
	defer reopened.Close()

	pending, err := reopened.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, sub.ID, pending[0].ID)
}

func TestSQLiteQueue_DuplicateID(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	sub := testPending("tree-survey")
	require.NoError(t, q.Append(ctx, sub))

	err := q.Append(ctx, sub)
	assert.ErrorIs(t, err, ErrDuplicateID)

	// The original record is untouched.
	count, err := q.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSQLiteQueue_RemoveIsIdempotent(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	sub := testPending("tree-survey")
	require.NoError(t, q.Append(ctx, sub))

	require.NoError(t, q.Remove(ctx, sub.ID))
	require.NoError(t, q.Remove(ctx, sub.ID))
	require.NoError(t, q.Remove(ctx, "never-existed"))

	count, err := q.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSQLiteQueue_FormCacheTouchesAccessTime(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	require.NoError(t, q.PutForm(ctx, &CachedForm{
		FormID:     "tree-survey",
		Definition: json.RawMessage(`{"fields":["species"]}`),
	}))

	first, err := q.GetForm(ctx, "tree-survey")
	require.NoError(t, err)
	require.NotNil(t, first)

	time.Sleep(5 * time.Millisecond)

	second, err := q.GetForm(ctx, "tree-survey")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.True(t, second.LastAccessed.After(first.CachedAt))

	missing, err := q.GetForm(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLiteQueue_FormUpsert(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	require.NoError(t, q.PutForm(ctx, &CachedForm{
		FormID:     "tree-survey",
		Definition: json.RawMessage(`{"version":1}`),
	}))
	require.NoError(t, q.PutForm(ctx, &CachedForm{
		FormID:     "tree-survey",
		Definition: json.RawMessage(`{"version":2}`),
	}))

	f, err := q.GetForm(ctx, "tree-survey")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":2}`, string(f.Definition))

	forms, err := q.ListForms(ctx)
	require.NoError(t, err)
	assert.Len(t, forms, 1)
}

func TestSQLiteQueue_MediaCache(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	blob := []byte{0x89, 0x50, 0x4e, 0x47}
	require.NoError(t, q.PutMedia(ctx, &CachedMedia{
		URL:         "https://fieldsync.example/photos/site-4.png",
		Blob:        blob,
		ContentType: "image/png",
	}))

	m, err := q.GetMedia(ctx, "https://fieldsync.example/photos/site-4.png")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, blob, m.Blob)
	assert.Equal(t, "image/png", m.ContentType)

	missing, err := q.GetMedia(ctx, "https://fieldsync.example/photos/other.png")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLiteQueue_OpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "queue.db")

	first, err := NewSQLiteQueue(path, slog.Default())
	require.NoError(t, err)
	require.NoError(t, first.Append(ctx, testPending("tree-survey")))
	require.NoError(t, first.Close())

	// Re-running initialization against an existing database must not
	// clobber its contents.
	second, err := NewSQLiteQueue(path, slog.Default())
	require.NoError(t, err)
	defer second.Close()

	count, err := second.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSQLiteQueue_ListPendingSurvivesCorruptTimestamp(t *testing.T) {
	// A mangled capture timestamp must not hide the record from the sync
	// pass; it comes back with a zero time instead.
	q, _ := newTestQueue(t)
	ctx := context.Background()

	sub := testPending("tree-survey")
	require.NoError(t, q.Append(ctx, sub))

	_, err := q.db.ExecContext(ctx,
		"UPDATE submissions SET created_at_local = 'not-a-time' WHERE id = ?", sub.ID)
	require.NoError(t, err)

	pending, err := q.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, sub.ID, pending[0].ID)
	assert.True(t, pending[0].CreatedAtLocal.IsZero())
}
