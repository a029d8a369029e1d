package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"golang.org/x/exp/slog"
)

// MediaCache is the slice of the queue the interceptor needs.
type MediaCache interface {
	PutMedia(ctx context.Context, m *CachedMedia) error
	GetMedia(ctx context.Context, url string) (*CachedMedia, error)
}

// cacheableExtensions lists the static asset types served cache-first.
// Scripts and workers are deliberately absent: serving stale executable
// code after a deployment is worse than a failed load.
var cacheableExtensions = map[string]bool{
	".css":   true,
	".html":  true,
	".png":   true,
	".jpg":   true,
	".jpeg":  true,
	".gif":   true,
	".svg":   true,
	".webp":  true,
	".ico":   true,
	".woff":  true,
	".woff2": true,
	".ttf":   true,
	".json":  true,
}

// versionedAsset matches build-pipeline fingerprints like app.3f9d2c1a.css.
var versionedAsset = regexp.MustCompile(`\.[0-9a-f]{8,}\.`)

// AssetInterceptor is an http.RoundTripper that serves the application's
// own static assets from the local media cache when possible, so the
// client shell keeps working offline. Only successful same-origin GET
// responses are written back to the cache; everything else passes through
// untouched.
type AssetInterceptor struct {
	cache     MediaCache
	origin    *url.URL
	transport http.RoundTripper
	log       *slog.Logger
}

func NewAssetInterceptor(cache MediaCache, origin string, transport http.RoundTripper, log *slog.Logger) (*AssetInterceptor, error) {
	parsed, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parse origin: %w", err)
	}

	if transport == nil {
		transport = http.DefaultTransport
	}

	return &AssetInterceptor{
		cache:     cache,
		origin:    parsed,
		transport: transport,
		log:       log.With("component", "asset_interceptor"),
	}, nil
}

func (i *AssetInterceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	if !i.cacheable(req) {
		return i.transport.RoundTrip(req)
	}

	key := req.URL.String()

	if m, err := i.cache.GetMedia(req.Context(), key); err == nil && m != nil {
		i.log.Debug("asset served from cache", "url", key)
		return cachedResponse(req, m), nil
	}

	resp, err := i.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, readErr
		}

		if cacheErr := i.cache.PutMedia(req.Context(), &CachedMedia{
			URL:         key,
			Blob:        body,
			ContentType: resp.Header.Get("Content-Type"),
		}); cacheErr != nil {
			i.log.Warn("failed to cache asset", "url", key, "error", cacheErr)
		}

		resp.Body = io.NopCloser(bytes.NewReader(body))
	}

	return resp, nil
}

// cacheable applies the static classification rule: same-origin GET for a
// known asset type that is not a script, worker or fingerprinted build
// artifact.
func (i *AssetInterceptor) cacheable(req *http.Request) bool {
	if req.Method != http.MethodGet {
		return false
	}

	if req.URL.Host != i.origin.Host {
		return false
	}

	p := req.URL.Path
	ext := strings.ToLower(path.Ext(p))

	if ext == ".js" || ext == ".mjs" || ext == ".map" || ext == ".wasm" {
		return false
	}

	if !cacheableExtensions[ext] {
		return false
	}

	if versionedAsset.MatchString(path.Base(p)) {
		return false
	}

	return true
}

func cachedResponse(req *http.Request, m *CachedMedia) *http.Response {
	header := make(http.Header)
	if m.ContentType != "" {
		header.Set("Content-Type", m.ContentType)
	}
	header.Set("X-Served-From", "fieldsync-cache")
	header.Set("Date", time.Now().UTC().Format(http.TimeFormat))

	return &http.Response{
		Status:        "200 OK",
		StatusCode:    http.StatusOK,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(m.Blob)),
		ContentLength: int64(len(m.Blob)),
		Request:       req,
	}
}
