package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	gosync "sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"fieldsync/internal/app/client/config"
	"fieldsync/internal/domain/submission"
)

// App wires the offline capture pipeline together: durable queue,
// submission client, sync orchestrator and connectivity triggering.
type App struct {
	config     *config.Config
	log        *slog.Logger
	httpClient *httpClient
	queue      Queue
	sync       *SyncService
	watcher    *ConnectivityWatcher
	assets     *http.Client
	wg         gosync.WaitGroup
	cancel     context.CancelFunc
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	httpCl := NewHTTPClient(cfg, log)

	// SQLite is the durable store; fall back to memory only when the
	// platform denies persistent storage, so capture keeps working for
	// the session.
	var queue Queue
	sqliteQueue, err := NewSQLiteQueue(cfg.QueuePath, log)
	if err != nil {
		log.Warn("persistent queue unavailable, using in-memory queue", "error", err)
		queue = NewMemoryQueue()
	} else {
		queue = sqliteQueue
	}

	app := &App{
		config:     cfg,
		log:        log,
		httpClient: httpCl,
		queue:      queue,
	}

	app.sync = NewSyncService(queue, httpCl, SyncConfig{
		Interval:   cfg.SyncInterval,
		FanOut:     cfg.SyncFanOut,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	}, log)

	interceptor, err := NewAssetInterceptor(queue, httpCl.baseURL, nil, log)
	if err != nil {
		return nil, fmt.Errorf("init asset interceptor: %w", err)
	}
	app.assets = &http.Client{
		Transport: interceptor,
		Timeout:   cfg.RequestTimeout,
	}

	app.watcher = NewConnectivityWatcher(httpCl, cfg.PollInterval, log)
	app.watcher.OnOnline(func(ctx context.Context) {
		if _, err := app.sync.RunSyncPass(ctx); err != nil {
			log.Debug("reconnect sync skipped", "error", err)
		}
	})

	return app, nil
}

// Run starts the background triggers and blocks until Stop.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		a.watcher.Run(ctx)
	}()
	go func() {
		defer a.wg.Done()
		a.sync.StartAutoSync(ctx)
	}()

	a.log.Info("client started",
		"server", a.config.ServerAddress,
		"env", a.config.Env,
	)

	a.wg.Wait()
}

func (a *App) Stop() {
	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()

	if err := a.queue.Close(); err != nil {
		a.log.Warn("failed to close queue", "error", err)
	}
}

// Capture validates and durably queues one record. The id minted here is
// the idempotency key for every future submission attempt.
func (a *App) Capture(ctx context.Context, formID string, payload json.RawMessage) (*submission.Pending, error) {
	if err := submission.ValidatePayload(payload); err != nil {
		return nil, err
	}

	sub := &submission.Pending{
		ID:             uuid.New().String(),
		FormID:         formID,
		Payload:        payload,
		CreatedAtLocal: time.Now().UTC(),
	}

	if err := a.queue.Append(ctx, sub); err != nil {
		return nil, fmt.Errorf("queue submission: %w", err)
	}

	a.log.Info("submission captured", "id", sub.ID, "form_id", formID)
	return sub, nil
}

// SyncNow runs a user-initiated pass. Unlike the background triggers it
// refuses outright when the server is unreachable instead of burning
// retries on a known-dead link.
func (a *App) SyncNow(ctx context.Context) (*SyncSummary, error) {
	if err := a.httpClient.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOffline, err)
	}

	return a.sync.RunSyncPass(ctx)
}

// PullForms refreshes the local form cache from the server.
func (a *App) PullForms(ctx context.Context) (int, error) {
	forms, err := a.httpClient.FetchForms(ctx)
	if err != nil {
		return 0, err
	}

	stored := 0
	for _, def := range forms {
		definition, err := json.Marshal(def)
		if err != nil {
			a.log.Warn("failed to encode form", "form_id", def.ID, "error", err)
			continue
		}

		if err := a.queue.PutForm(ctx, &CachedForm{
			FormID:     def.ID,
			Definition: definition,
		}); err != nil {
			a.log.Warn("failed to cache form", "form_id", def.ID, "error", err)
			continue
		}
		stored++
	}

	return stored, nil
}

// CachedForms lists the locally cached form definitions.
func (a *App) CachedForms(ctx context.Context) ([]CachedForm, error) {
	return a.queue.ListForms(ctx)
}

// PendingCount reports how many records await commit.
func (a *App) PendingCount(ctx context.Context) (int, error) {
	return a.queue.CountPending(ctx)
}

// PendingSubmissions lists the queued records.
func (a *App) PendingSubmissions(ctx context.Context) ([]submission.Pending, error) {
	return a.queue.ListPending(ctx)
}

// Online reports the watcher's last observed connectivity state.
func (a *App) Online() bool {
	return a.watcher.Online()
}

// LastSummary exposes the most recent pass result for status output.
func (a *App) LastSummary() *SyncSummary {
	return a.sync.LastSummary()
}

// LastSync exposes the most recent pass completion time.
func (a *App) LastSync() time.Time {
	return a.sync.LastSync()
}

// CheckConnection probes the server once.
func (a *App) CheckConnection(ctx context.Context) error {
	return a.httpClient.HealthCheck(ctx)
}

// FetchAsset loads a static asset through the caching interceptor, so a
// previously seen asset keeps resolving offline.
func (a *App) FetchAsset(ctx context.Context, assetURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}

	resp, err := a.assets.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch asset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("asset returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read asset: %w", err)
	}

	return body, resp.Header.Get("Content-Type"), nil
}
