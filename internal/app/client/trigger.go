package client

import (
	"context"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

// HealthChecker probes the remote store. Satisfied by httpClient.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// ConnectivityWatcher polls the server and tracks an online/offline flag.
// The offline-to-online transition is edge-triggered: the callback fires
// once per transition, not continuously while online.
type ConnectivityWatcher struct {
	checker  HealthChecker
	log      *slog.Logger
	interval time.Duration
	onOnline func(ctx context.Context)

	mu     sync.RWMutex
	online bool
	known  bool
}

func NewConnectivityWatcher(checker HealthChecker, interval time.Duration, log *slog.Logger) *ConnectivityWatcher {
	if interval <= 0 {
		interval = 10 * time.Second
	}

	return &ConnectivityWatcher{
		checker:  checker,
		log:      log.With("component", "connectivity_watcher"),
		interval: interval,
	}
}

// OnOnline registers the callback fired on each offline-to-online
// transition. Must be called before Run.
func (w *ConnectivityWatcher) OnOnline(fn func(ctx context.Context)) {
	w.onOnline = fn
}

// Run polls until the context is canceled. The first successful probe
// counts as a transition so a client that starts online drains its
// backlog immediately.
func (w *ConnectivityWatcher) Run(ctx context.Context) {
	w.log.Info("connectivity watcher started", "interval", w.interval)

	w.probe(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("connectivity watcher stopped")
			return
		case <-ticker.C:
			w.probe(ctx)
		}
	}
}

func (w *ConnectivityWatcher) probe(ctx context.Context) {
	err := w.checker.HealthCheck(ctx)
	nowOnline := err == nil

	w.mu.Lock()
	wasOnline := w.online
	wasKnown := w.known
	w.online = nowOnline
	w.known = true
	w.mu.Unlock()

	if nowOnline && (!wasOnline || !wasKnown) {
		w.log.Info("server reachable, triggering sync")
		if w.onOnline != nil {
			w.onOnline(ctx)
		}
	} else if !nowOnline && (wasOnline || !wasKnown) {
		w.log.Warn("server unreachable, entering offline mode", "error", err)
	}
}

// Online reports the last observed connectivity state.
func (w *ConnectivityWatcher) Online() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.online
}
