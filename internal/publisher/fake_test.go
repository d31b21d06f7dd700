package publisher

import (
	"context"
	"errors"
	"fmt"

	"tweet-to-toot/internal/mastodon"
)

// fakeService records calls and fails on demand.
type fakeService struct {
	authErr   error
	uploadErr map[string]error
	createErr error
	getErr    error

	authCalls int
	uploads   []string
	descs     []string
	created   []createdStatus
	fetched   []string
}

type createdStatus struct {
	text     string
	vis      mastodon.Visibility
	mediaIDs []string
}

func (f *fakeService) Authenticate(context.Context, string, string, string) error {
	f.authCalls++
	return f.authErr
}

func (f *fakeService) UploadMedia(_ context.Context, path, desc string) (string, error) {
	if err := f.uploadErr[path]; err != nil {
		return "", err
	}
	f.uploads = append(f.uploads, path)
	f.descs = append(f.descs, desc)
	return "m-" + path, nil
}

func (f *fakeService) CreateStatus(_ context.Context, text string, vis mastodon.Visibility, ids []string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, createdStatus{text: text, vis: vis, mediaIDs: ids})
	return fmt.Sprintf("s%d", len(f.created)), nil
}

func (f *fakeService) GetStatus(_ context.Context, id string) error {
	f.fetched = append(f.fetched, id)
	return f.getErr
}

var errBoom = errors.New("boom")
