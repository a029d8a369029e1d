package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/submission"
)

// SQLiteQueue is the crash-safe implementation of Queue. Each operation is
// a single sqlite transaction; the engine's per-key locking is the only
// synchronization relied on, so concurrent triggers cannot corrupt the
// store.
type SQLiteQueue struct {
	db  *sql.DB
	log *slog.Logger
}

// NewSQLiteQueue opens (creating on first run) the local queue database.
// Opening an existing database is a no-op on the schema, so repeated
// initialization is safe.
func NewSQLiteQueue(path string, log *slog.Logger) (*SQLiteQueue, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", ErrStorageUnavailable, err)
	}

	q := &SQLiteQueue{
		db:  db,
		log: log.With("component", "local_queue"),
	}

	if err := q.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: init tables: %v", ErrStorageUnavailable, err)
	}

	return q, nil
}

func (q *SQLiteQueue) initTables() error {
	_, err := q.db.Exec(`
		CREATE TABLE IF NOT EXISTS submissions (
			id TEXT PRIMARY KEY,
			form_id TEXT NOT NULL,
			payload BLOB NOT NULL,
			created_at_local DATETIME NOT NULL,
			synced BOOLEAN NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_submissions_form ON submissions(form_id);

		CREATE TABLE IF NOT EXISTS cached_forms (
			form_id TEXT PRIMARY KEY,
			definition BLOB NOT NULL,
			cached_at DATETIME NOT NULL,
			last_accessed DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS cached_media (
			url TEXT PRIMARY KEY,
			blob BLOB NOT NULL,
			content_type TEXT NOT NULL DEFAULT '',
			cached_at DATETIME NOT NULL
		);
	`)

	return err
}

func (q *SQLiteQueue) Append(ctx context.Context, sub *submission.Pending) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO submissions (id, form_id, payload, created_at_local, synced)
		VALUES (?, ?, ?, ?, ?)
	`, sub.ID, sub.FormID, []byte(sub.Payload), sub.CreatedAtLocal.Format(time.RFC3339Nano), sub.Synced)

	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) &&
			(sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
				sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique) {
			return fmt.Errorf("%w: %s", ErrDuplicateID, sub.ID)
		}
		return fmt.Errorf("%w: append submission: %v", ErrStorage, err)
	}

	q.log.Debug("submission queued", "id", sub.ID, "form_id", sub.FormID)
	return nil
}

func (q *SQLiteQueue) ListPending(ctx context.Context) ([]submission.Pending, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, form_id, payload, created_at_local, synced
		FROM submissions
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: list pending: %v", ErrStorage, err)
	}
	defer rows.Close()

	var pending []submission.Pending
	for rows.Next() {
		var sub submission.Pending
		var createdAt string

		if err := rows.Scan(&sub.ID, &sub.FormID, (*[]byte)(&sub.Payload), &createdAt, &sub.Synced); err != nil {
			return nil, fmt.Errorf("%w: scan submission: %v", ErrStorage, err)
		}

		capturedAt, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			// The record is still syncable; only its capture time is gone.
			q.log.Warn("corrupt capture timestamp on queued submission",
				"id", sub.ID, "value", createdAt, "error", err)
		}
		sub.CreatedAtLocal = capturedAt
		pending = append(pending, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list pending: %v", ErrStorage, err)
	}

	return pending, nil
}

func (q *SQLiteQueue) Remove(ctx context.Context, id string) error {
	// Deleting an absent row is deliberately not an error: the orchestrator
	// may retry a remove whose first attempt already landed.
	_, err := q.db.ExecContext(ctx, "DELETE FROM submissions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: remove submission: %v", ErrStorage, err)
	}

	return nil
}

func (q *SQLiteQueue) CountPending(ctx context.Context) (int, error) {
	var count int
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM submissions").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: count pending: %v", ErrStorage, err)
	}

	return count, nil
}

func (q *SQLiteQueue) PutForm(ctx context.Context, f *CachedForm) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := q.db.ExecContext(ctx, `
		INSERT INTO cached_forms (form_id, definition, cached_at, last_accessed)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (form_id) DO UPDATE SET
			definition = excluded.definition,
			cached_at = excluded.cached_at,
			last_accessed = excluded.last_accessed
	`, f.FormID, []byte(f.Definition), now, now)

	if err != nil {
		return fmt.Errorf("%w: put form: %v", ErrStorage, err)
	}

	return nil
}

func (q *SQLiteQueue) GetForm(ctx context.Context, formID string) (*CachedForm, error) {
	var f CachedForm
	var cachedAt, lastAccessed string

	err := q.db.QueryRowContext(ctx, `
		SELECT form_id, definition, cached_at, last_accessed
		FROM cached_forms
		WHERE form_id = ?
	`, formID).Scan(&f.FormID, (*[]byte)(&f.Definition), &cachedAt, &lastAccessed)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get form: %v", ErrStorage, err)
	}

	f.CachedAt, _ = time.Parse(time.RFC3339Nano, cachedAt)

	// Reads feed the LRU policy.
	touched := time.Now().UTC()
	if _, err := q.db.ExecContext(ctx,
		"UPDATE cached_forms SET last_accessed = ? WHERE form_id = ?",
		touched.Format(time.RFC3339Nano), formID); err != nil {
		q.log.Warn("failed to touch form access time", "form_id", formID, "error", err)
	}
	f.LastAccessed = touched

	return &f, nil
}

func (q *SQLiteQueue) ListForms(ctx context.Context) ([]CachedForm, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT form_id, definition, cached_at, last_accessed
		FROM cached_forms
		ORDER BY last_accessed DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: list forms: %v", ErrStorage, err)
	}
	defer rows.Close()

	var forms []CachedForm
	for rows.Next() {
		var f CachedForm
		var cachedAt, lastAccessed string

		if err := rows.Scan(&f.FormID, (*[]byte)(&f.Definition), &cachedAt, &lastAccessed); err != nil {
			return nil, fmt.Errorf("%w: scan form: %v", ErrStorage, err)
		}

		f.CachedAt, _ = time.Parse(time.RFC3339Nano, cachedAt)
		f.LastAccessed, _ = time.Parse(time.RFC3339Nano, lastAccessed)
		forms = append(forms, f)
	}

	return forms, rows.Err()
}

func (q *SQLiteQueue) PutMedia(ctx context.Context, m *CachedMedia) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO cached_media (url, blob, content_type, cached_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			blob = excluded.blob,
			content_type = excluded.content_type,
			cached_at = excluded.cached_at
	`, m.URL, m.Blob, m.ContentType, time.Now().UTC().Format(time.RFC3339Nano))

	if err != nil {
		return fmt.Errorf("%w: put media: %v", ErrStorage, err)
	}

	return nil
}

func (q *SQLiteQueue) GetMedia(ctx context.Context, url string) (*CachedMedia, error) {
	var m CachedMedia
	var cachedAt string

	err := q.db.QueryRowContext(ctx, `
		SELECT url, blob, content_type, cached_at
		FROM cached_media
		WHERE url = ?
	`, url).Scan(&m.URL, &m.Blob, &m.ContentType, &cachedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get media: %v", ErrStorage, err)
	}

	m.CachedAt, _ = time.Parse(time.RFC3339Nano, cachedAt)
	return &m, nil
}

func (q *SQLiteQueue) Close() error {
	return q.db.Close()
}
