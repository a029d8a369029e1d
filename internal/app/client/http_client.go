package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/exp/slog"

	"fieldsync/internal/app/client/config"
	"fieldsync/internal/domain/form"
	"fieldsync/internal/domain/submission"
)

// Submitter attempts to persist exactly one pending submission to the
// remote store and classifies the result. Implementations never return a
// Go error for a failed commit: every failure mode is an Outcome.
type Submitter interface {
	Submit(ctx context.Context, sub *submission.Pending) submission.Outcome
}

type httpClient struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	userAgent string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) *httpClient {
	client := &http.Client{
		// Bounded timeout: a hung commit call must classify as transient,
		// not stall the pass.
		Timeout: cfg.RequestTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	scheme := "http://"
	if cfg.EnableTLS {
		scheme = "https://"
	}

	return &httpClient{
		client:    client,
		log:       log.With("component", "http_client"),
		baseURL:   scheme + cfg.ServerAddress,
		userAgent: "FieldSync-Client/1.0",
	}
}

// Submit PUTs one record under its idempotency key and maps the response
// onto the outcome taxonomy:
//
//	2xx                    -> Committed
//	409                    -> AlreadyCommitted (lost acknowledgment; success)
//	408, 429, 5xx, network -> Transient
//	remaining 4xx          -> Rejected
func (h *httpClient) Submit(ctx context.Context, sub *submission.Pending) submission.Outcome {
	req := submission.CommitRequest{
		ID:          sub.ID,
		FormID:      sub.FormID,
		Payload:     sub.Payload,
		SubmittedAt: sub.CreatedAtLocal,
	}

	body, err := json.Marshal(req)
	if err != nil {
		// A payload that cannot even be serialized will never commit.
		return submission.Rejected(fmt.Sprintf("marshal request: %v", err))
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPut,
		fmt.Sprintf("%s/api/v1/submissions/%s", h.baseURL, sub.ID), bytes.NewReader(body))
	if err != nil {
		return submission.Rejected(fmt.Sprintf("build request: %v", err))
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("User-Agent", h.userAgent)

	h.log.Debug("submitting record", "id", sub.ID, "form_id", sub.FormID)

	response, err := h.client.Do(request)
	if err != nil {
		// Connection failures and client timeouts are retried later.
		return submission.Transient(err.Error())
	}
	defer response.Body.Close()

	return classifyStatus(response)
}

func classifyStatus(resp *http.Response) submission.Outcome {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return submission.Committed()
	case resp.StatusCode == http.StatusConflict:
		return submission.AlreadyCommitted()
	case resp.StatusCode == http.StatusRequestTimeout,
		resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode >= 500:
		return submission.Transient(fmt.Sprintf("server status %d", resp.StatusCode))
	default:
		return submission.Rejected(rejectionReason(resp))
	}
}

// rejectionReason digs a human-readable message out of the error body,
// falling back to the bare status code.
func rejectionReason(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && len(body) > 0 {
		var problem struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
			Error  string `json:"error"`
		}
		if jsonErr := json.Unmarshal(body, &problem); jsonErr == nil {
			if problem.Detail != "" {
				return fmt.Sprintf("status %d: %s", resp.StatusCode, problem.Detail)
			}
			if problem.Title != "" {
				return fmt.Sprintf("status %d: %s", resp.StatusCode, problem.Title)
			}
			if problem.Error != "" {
				return fmt.Sprintf("status %d: %s", resp.StatusCode, problem.Error)
			}
		}
	}

	return fmt.Sprintf("status %d", resp.StatusCode)
}

// HealthCheck probes the server; the connectivity watcher uses it to
// detect offline/online transitions.
func (h *httpClient) HealthCheck(ctx context.Context) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	request.Header.Set("User-Agent", h.userAgent)

	response, err := h.client.Do(request)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status: %d", response.StatusCode)
	}

	return nil
}

// FetchForms downloads the current form definitions so the client can
// cache them for offline capture.
func (h *httpClient) FetchForms(ctx context.Context) ([]form.Definition, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/api/v1/forms", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	request.Header.Set("User-Agent", h.userAgent)

	response, err := h.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("fetch forms: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status: %d", response.StatusCode)
	}

	var result form.ListResponse
	if err := json.NewDecoder(response.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return result.Forms, nil
}
