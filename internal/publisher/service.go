package publisher

import (
	"context"

	"tweet-to-toot/internal/mastodon"
)

// MastodonService adapts a mastodon.Client to Service.
type MastodonService struct {
	Client *mastodon.Client
}

func (s MastodonService) Authenticate(ctx context.Context, appName, email, password string) error {
	app, err := s.Client.RegisterApp(ctx, appName)
	if err != nil {
		return err
	}
	return s.Client.Login(ctx, app, email, password)
}

func (s MastodonService) UploadMedia(ctx context.Context, path, description string) (string, error) {
	att, err := s.Client.UploadMedia(ctx, path, description)
	if err != nil {
		return "", err
	}
	return string(att.ID), nil
}

func (s MastodonService) CreateStatus(ctx context.Context, text string, vis mastodon.Visibility, mediaIDs []string) (string, error) {
	st, err := s.Client.PostStatus(ctx, mastodon.StatusParams{Status: text, Visibility: vis, MediaIDs: mediaIDs})
	if err != nil {
		return "", err
	}
	return string(st.ID), nil
}

func (s MastodonService) GetStatus(ctx context.Context, id string) error {
	_, err := s.Client.GetStatus(ctx, id)
	return err
}
