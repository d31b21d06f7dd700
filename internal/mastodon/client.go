package mastodon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gomastodon "github.com/mattn/go-mastodon"
)

const userAgent = "tweet-to-toot"

// ErrNotAuthenticated is returned by calls made before Login succeeded.
var ErrNotAuthenticated = errors.New("mastodon: not authenticated")

// Client wraps go-mastodon with lazy login, a rate-limit hook and media
// processing waits.
type Client struct {
	server string
	http   *http.Client
	api    *gomastodon.Client
	// onRateLimit receives X-RateLimit-Remaining from every response that carries it.
	onRateLimit func(remaining int)

	pollInterval time.Duration
	pollTimeout  time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithRateLimitHook registers a callback for server-reported remaining quota.
func WithRateLimitHook(fn func(remaining int)) Option {
	return func(c *Client) { c.onRateLimit = fn }
}

// WithHTTPClient replaces the underlying HTTP client. Its transport is still
// wrapped for rate-limit reporting.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			cp := *hc
			c.http = &cp
		}
	}
}

// WithMediaPoll sets how often and how long to wait for an upload to finish
// processing on the server.
func WithMediaPoll(interval, timeout time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
		if timeout > 0 {
			c.pollTimeout = timeout
		}
	}
}

// New creates a new Mastodon client.
// instance may be a bare host ("mastodon.social") or a base URL.
func New(instance string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	server := strings.TrimRight(strings.TrimSpace(instance), "/")
	if !strings.Contains(server, "://") {
		server = "https://" + server
	}
	c := &Client{
		server:       server,
		http:         &http.Client{Timeout: timeout},
		pollInterval: 2 * time.Second,
		pollTimeout:  2 * time.Minute,
	}
	for _, o := range opts {
		o(c)
	}
	next := c.http.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	c.http.Transport = &rateTransport{next: next, hook: c.onRateLimit}
	return c
}

// BaseURL returns the instance root the client talks to.
func (c *Client) BaseURL() string { return c.server }

// Authenticated reports whether an access token is held.
func (c *Client) Authenticated() bool {
	return c.api != nil && c.api.Config.AccessToken != ""
}

// RegisterApp creates an OAuth application on the instance.
func (c *Client) RegisterApp(ctx context.Context, name string) (*gomastodon.Application, error) {
	app, err := gomastodon.RegisterApp(ctx, &gomastodon.AppConfig{
		Client:     *c.http,
		Server:     c.server,
		ClientName: name,
		Scopes:     scopes,
	})
	if err != nil {
		return nil, fmt.Errorf("register app: %w", err)
	}
	return app, nil
}

// Login exchanges account credentials for an access token (password grant).
func (c *Client) Login(ctx context.Context, app *gomastodon.Application, email, password string) error {
	if app == nil {
		return errors.New("login: nil application")
	}
	api := gomastodon.NewClient(&gomastodon.Config{
		Server:       c.server,
		ClientID:     app.ClientID,
		ClientSecret: app.ClientSecret,
	})
	api.Client = *c.http
	api.UserAgent = userAgent
	if err := api.Authenticate(ctx, email, password); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	c.api = api
	return nil
}

// PostStatus creates a status.
func (c *Client) PostStatus(ctx context.Context, p StatusParams) (*gomastodon.Status, error) {
	if !c.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	st, err := c.api.PostStatus(ctx, p.toot())
	if err != nil {
		return nil, fmt.Errorf("post status: %w", err)
	}
	return st, nil
}

// GetStatus fetches a status by id.
func (c *Client) GetStatus(ctx context.Context, id string) (*gomastodon.Status, error) {
	if !c.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	st, err := c.api.GetStatus(ctx, gomastodon.ID(id))
	if err != nil {
		return nil, fmt.Errorf("get status %s: %w", id, err)
	}
	return st, nil
}
