package curator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"tweet-to-toot/internal/linkresolve"
	"tweet-to-toot/internal/model"
)

// ErrInvalidOption marks a bad window or omission setting.
var ErrInvalidOption = errors.New("invalid curation option")

// LastIndex selects the final post as the window end.
const LastIndex = -1

// DefaultSelfDomains are the source network's own hosts. Links landing there are dropped.
var DefaultSelfDomains = []string{"x.com", "twitter.com", "t.co"}

var linkPattern = regexp.MustCompile(`(?i)http\S+`)

// Options controls ordering, omission, windowing and link rewriting.
type Options struct {
	StartIndex   int
	EndIndex     int    // LastIndex for the final post
	OmitIndices  string // comma separated, e.g. "1,3"
	ResolveLinks bool
	SelfDomains  []string
}

// Curator turns raw archive posts into the publication sequence.
type Curator struct {
	resolver linkresolve.Resolver
	opts     Options
}

// New creates a Curator. resolver may be nil when ResolveLinks is off.
func New(resolver linkresolve.Resolver, opts Options) *Curator {
	if len(opts.SelfDomains) == 0 {
		opts.SelfDomains = DefaultSelfDomains
	}
	return &Curator{resolver: resolver, opts: opts}
}

// Curate sorts posts chronologically, assigns indices over the full set,
// marks omissions and returns the inclusive [StartIndex, EndIndex] window.
// The input slice is not modified.
func (c *Curator) Curate(ctx context.Context, posts []model.Post) ([]model.Post, error) {
	omit, err := ParseOmitIndices(c.opts.OmitIndices)
	if err != nil {
		return nil, err
	}
	if c.opts.StartIndex < 0 {
		return nil, fmt.Errorf("%w: start index %d is negative", ErrInvalidOption, c.opts.StartIndex)
	}
	if c.opts.EndIndex < LastIndex {
		return nil, fmt.Errorf("%w: end index %d (use %d for the last post)", ErrInvalidOption, c.opts.EndIndex, LastIndex)
	}
	if c.opts.ResolveLinks && c.resolver == nil {
		return nil, fmt.Errorf("%w: link resolution requested without a resolver", ErrInvalidOption)
	}

	sorted := make([]model.Post, len(posts))
	for i, p := range posts {
		sorted[i] = p.Clone()
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Created.Before(sorted[j].Created)
	})
	for i := range sorted {
		sorted[i].Index = i
		_, sorted[i].Omit = omit[i]
	}

	start, end := c.window(len(sorted))
	if start > end {
		return []model.Post{}, nil
	}
	out := sorted[start : end+1]

	if c.opts.ResolveLinks {
		slog.Info("curator: resolving shortened links", "posts", len(out))
		for i := range out {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out[i].Text = c.rewriteLinks(ctx, out[i].Text)
		}
	}
	return out, nil
}

// window returns the inclusive bounds. start > end means nothing is selected.
func (c *Curator) window(n int) (int, int) {
	end := c.opts.EndIndex
	if end == LastIndex || end > n-1 {
		end = n - 1
	}
	return c.opts.StartIndex, end
}

// rewriteLinks replaces each link-looking substring with its destination,
// or deletes it when it points back at the source network.
func (c *Curator) rewriteLinks(ctx context.Context, text string) string {
	seen := map[string]string{}
	return linkPattern.ReplaceAllStringFunc(text, func(match string) string {
		if v, ok := seen[match]; ok {
			return v
		}
		v := c.resolveOne(ctx, match)
		seen[match] = v
		return v
	})
}

func (c *Curator) resolveOne(ctx context.Context, match string) string {
	resolved, err := c.resolver.Resolve(ctx, match)
	if err != nil {
		slog.Warn("curator: link left unchanged", "url", match, "error", err)
		return match
	}
	u, err := url.Parse(resolved)
	if err != nil || u.Host == "" {
		slog.Warn("curator: unusable resolution, link left unchanged", "url", match, "resolved", resolved)
		return match
	}
	if isSelfDomain(u.Hostname(), c.opts.SelfDomains) {
		return ""
	}
	return resolved
}

func isSelfDomain(host string, domains []string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// ParseOmitIndices parses a comma separated index list. Blank entries are
// ignored; an empty string omits nothing.
func ParseOmitIndices(s string) (map[int]struct{}, error) {
	out := map[int]struct{}{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: omit index %q is not an integer", ErrInvalidOption, part)
		}
		out[n] = struct{}{}
	}
	return out, nil
}
