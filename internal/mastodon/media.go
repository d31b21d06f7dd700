package mastodon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	gomastodon "github.com/mattn/go-mastodon"
)

// UploadMedia uploads a local file with an optional description and waits
// until the server finished processing it.
func (c *Client) UploadMedia(ctx context.Context, path, description string) (*gomastodon.Attachment, error) {
	if !c.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open media: %w", err)
	}
	defer f.Close()

	att, err := c.api.UploadMediaFromMedia(ctx, &gomastodon.Media{File: f, Description: description})
	if err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}
	if att.URL != "" {
		return att, nil
	}
	slog.Info("mastodon: media still processing", "path", path, "id", att.ID)
	return c.waitProcessed(ctx, att.ID)
}

// waitProcessed polls GET /api/v1/media/:id until the attachment has a URL.
// The server answers 206 while processing and 200 once done.
func (c *Client) waitProcessed(ctx context.Context, id gomastodon.ID) (*gomastodon.Attachment, error) {
	ctx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()
	for {
		att, done, err := c.mediaStatus(ctx, id)
		if err != nil {
			return nil, err
		}
		if done {
			return att, nil
		}
		t := time.NewTimer(c.pollInterval)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, fmt.Errorf("media %s not processed: %w", id, ctx.Err())
		case <-t.C:
		}
	}
}

func (c *Client) mediaStatus(ctx context.Context, id gomastodon.ID) (*gomastodon.Attachment, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.server+"/api/v1/media/"+string(id), nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Authorization", "Bearer "+c.api.Config.AccessToken)
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("media status: %w", err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusPartialContent:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, false, nil
	case http.StatusOK:
		var att gomastodon.Attachment
		if err := json.NewDecoder(resp.Body).Decode(&att); err != nil {
			return nil, false, fmt.Errorf("decode media: %w", err)
		}
		return &att, att.URL != "", nil
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, false, fmt.Errorf("media status: status=%d body=%s", resp.StatusCode, string(b))
	}
}
