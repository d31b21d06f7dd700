package mastodon

import (
	"fmt"
	"strings"

	gomastodon "github.com/mattn/go-mastodon"
)

const scopes = "read write follow"

// Visibility is the audience of a status.
type Visibility string

const (
	VisibilityDirect   Visibility = "direct"
	VisibilityPrivate  Visibility = "private" // followers only
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
)

// ParseVisibility maps a privacy name, in any case, to a Visibility.
func ParseVisibility(s string) (Visibility, error) {
	switch v := Visibility(strings.ToLower(strings.TrimSpace(s))); v {
	case VisibilityDirect, VisibilityPrivate, VisibilityPublic, VisibilityUnlisted:
		return v, nil
	default:
		return "", fmt.Errorf("unknown visibility %q (want direct, private, public or unlisted)", s)
	}
}

// StatusParams describes a status to create.
type StatusParams struct {
	Status     string
	Visibility Visibility
	MediaIDs   []string
}

func (p StatusParams) toot() *gomastodon.Toot {
	ids := make([]gomastodon.ID, len(p.MediaIDs))
	for i, id := range p.MediaIDs {
		ids[i] = gomastodon.ID(id)
	}
	return &gomastodon.Toot{
		Status:     p.Status,
		Visibility: string(p.Visibility),
		MediaIDs:   ids,
	}
}
