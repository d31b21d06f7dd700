package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tweet-to-toot/internal/ai"
	"tweet-to-toot/internal/mastodon"
)

// MaxAttachments is the number of media items a single status may carry.
const MaxAttachments = 4

// Service is the remote capability the Publisher drives.
type Service interface {
	Authenticate(ctx context.Context, appName, email, password string) error
	UploadMedia(ctx context.Context, path, description string) (string, error)
	CreateStatus(ctx context.Context, text string, vis mastodon.Visibility, mediaIDs []string) (string, error)
	GetStatus(ctx context.Context, id string) error
}

// Preparer rewrites a media file before upload. The returned func releases
// any temporary file.
type Preparer interface {
	Prepare(path string) (string, func(), error)
}

// Credentials identify the destination account.
type Credentials struct {
	AppName  string
	Email    string
	Password string
}

type authState int

const (
	unauthenticated authState = iota
	authenticated
	authFailed
)

// Publisher owns the remote session and turns posts into statuses.
type Publisher struct {
	svc   Service
	creds Credentials
	gov   *Governor

	postDelay time.Duration
	prep      Preparer
	describer ai.Describer
	language  string

	mu      sync.Mutex
	state   authState
	authErr error
	skipped int
}

// Option customizes a Publisher.
type Option func(*Publisher)

// WithPostDelay sets the pause after each successful status.
func WithPostDelay(d time.Duration) Option {
	return func(p *Publisher) {
		if d >= 0 {
			p.postDelay = d
		}
	}
}

// WithPreparer runs every attachment through prep before upload.
func WithPreparer(prep Preparer) Option {
	return func(p *Publisher) { p.prep = prep }
}

// WithDescriber attaches generated alt text to image uploads.
func WithDescriber(d ai.Describer, language string) Option {
	return func(p *Publisher) {
		p.describer = d
		p.language = language
	}
}

// New creates a Publisher. Authentication happens on the first Publish.
func New(svc Service, creds Credentials, gov *Governor, opts ...Option) *Publisher {
	if gov == nil {
		gov = NewGovernor(GovernorOptions{})
	}
	p := &Publisher{
		svc:       svc,
		creds:     creds,
		gov:       gov,
		postDelay: time.Second,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Governor returns the rate governor shared with the upload loop.
func (p *Publisher) Governor() *Governor { return p.gov }

// Skipped reports how many statuses Publish dropped because the budget was
// exhausted. Those calls still returned success.
func (p *Publisher) Skipped() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.skipped
}

// Authenticated reports whether a session has been established.
func (p *Publisher) Authenticated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == authenticated
}

// ensureAuthenticated logs in on first use. A failure is remembered and
// returned on every later call without contacting the service again.
func (p *Publisher) ensureAuthenticated(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.state {
	case authenticated:
		return nil
	case authFailed:
		return p.authErr
	}
	if err := p.svc.Authenticate(ctx, p.creds.AppName, p.creds.Email, p.creds.Password); err != nil {
		p.state = authFailed
		p.authErr = fmt.Errorf("%w: %v", ErrAuth, err)
		return p.authErr
	}
	p.state = authenticated
	slog.Info("publisher: session established", "app", p.creds.AppName)
	return nil
}

// Publish creates one status from text and up to MaxAttachments media files.
// With an exhausted budget it does nothing and still reports success; pacing
// is the caller's job via Governor.CheckAndWait.
func (p *Publisher) Publish(ctx context.Context, text string, media []string, privacy string) (bool, error) {
	if err := p.ensureAuthenticated(ctx); err != nil {
		return false, err
	}
	if p.gov.Remaining() <= 0 {
		slog.Warn("publisher: rate budget exhausted, status skipped", "remaining", p.gov.Remaining())
		p.mu.Lock()
		p.skipped++
		p.mu.Unlock()
		return true, nil
	}
	vis, err := mastodon.ParseVisibility(privacy)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrPublish, err)
	}

	if len(media) > MaxAttachments {
		media = media[:MaxAttachments]
	}
	ids := make([]string, 0, len(media))
	for _, path := range media {
		id, err := p.upload(ctx, path)
		if err != nil {
			return false, fmt.Errorf("%w: %s: %v", ErrUpload, path, err)
		}
		ids = append(ids, id)
	}

	id, err := p.svc.CreateStatus(ctx, text, vis, ids)
	if err != nil {
		return false, fmt.Errorf("%w: create: %v", ErrPublish, err)
	}
	if err := p.svc.GetStatus(ctx, id); err != nil {
		return false, fmt.Errorf("%w: verify %s: %v", ErrPublish, id, err)
	}

	if p.postDelay > 0 {
		t := time.NewTimer(p.postDelay)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
		}
	}
	return true, nil
}

func (p *Publisher) upload(ctx context.Context, path string) (string, error) {
	var desc string
	if p.describer != nil {
		d, err := p.describer.DescribeImage(ctx, path, p.language)
		if err != nil {
			slog.Warn("publisher: alt text unavailable", "path", path, "error", err)
		} else {
			desc = d
		}
	}
	target := path
	if p.prep != nil {
		prepared, cleanup, err := p.prep.Prepare(path)
		if err != nil {
			return "", err
		}
		defer cleanup()
		target = prepared
	}
	return p.svc.UploadMedia(ctx, target, desc)
}
