package linkresolve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Resolver maps a possibly shortened link to its final destination.
type Resolver interface {
	Resolve(ctx context.Context, raw string) (string, error)
}

// HTTPResolver follows redirects with a plain GET and reports where it landed.
type HTTPResolver struct {
	http      *http.Client
	userAgent string
}

// New creates an HTTPResolver. The client's default redirect policy applies.
func New(timeout time.Duration, userAgent string) *HTTPResolver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPResolver{
		http:      &http.Client{Timeout: timeout},
		userAgent: strings.TrimSpace(userAgent),
	}
}

// Resolve performs a single request and returns the terminal request URL.
// The response status is not inspected; only the redirect chain matters.
func (r *HTTPResolver) Resolve(ctx context.Context, raw string) (string, error) {
	if r == nil {
		return "", errors.New("nil resolver")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", raw, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	if resp.Request == nil || resp.Request.URL == nil {
		return "", fmt.Errorf("resolve %s: response without request", raw)
	}
	return resp.Request.URL.String(), nil
}

// Cache stores resolved links between runs.
type Cache interface {
	GetResolvedLink(ctx context.Context, raw string) (string, bool, error)
	SetResolvedLink(ctx context.Context, raw, resolved string, ttl time.Duration) error
}

// CachedResolver consults a Cache before hitting the network. Only successful
// resolutions are stored.
type CachedResolver struct {
	Next  Resolver
	Cache Cache
	TTL   time.Duration
}

func (c *CachedResolver) Resolve(ctx context.Context, raw string) (string, error) {
	if c.Cache != nil {
		got, ok, err := c.Cache.GetResolvedLink(ctx, raw)
		if err != nil {
			slog.Warn("linkresolve: cache read failed", "url", raw, "error", err)
		} else if ok {
			return got, nil
		}
	}
	resolved, err := c.Next.Resolve(ctx, raw)
	if err != nil {
		return "", err
	}
	if c.Cache != nil {
		if err := c.Cache.SetResolvedLink(ctx, raw, resolved, c.TTL); err != nil {
			slog.Warn("linkresolve: cache write failed", "url", raw, "error", err)
		}
	}
	return resolved, nil
}
