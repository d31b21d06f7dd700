package archive

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tweet-to-toot/internal/model"
)

var (
	// ErrArchiveFormat marks a malformed export or timestamp. It aborts the run.
	ErrArchiveFormat = errors.New("archive format error")
	// ErrURLFormat marks a malformed entity link. Only the link is dropped.
	ErrURLFormat = errors.New("url format error")
)

// CreatedAtLayout is the timestamp format used by the export, e.g. "Wed Oct 10 20:19:24 +0000 2018".
const CreatedAtLayout = "Mon Jan 02 15:04:05 -0700 2006"

const retweetPrefix = "RT @"

// Stats summarizes a single read.
type Stats struct {
	Entries         int
	Replies         int
	Retweets        int
	Posts           int
	MediaAttached   int
	MediaMissing    int
	URLsRejected    int
	MediaDirMissing bool
}

// Reader loads posts from an unpacked export directory.
type Reader struct {
	root       string
	tweetsFile string
	mediaDir   string
}

// Option customizes a Reader.
type Option func(*Reader)

// WithTweetsFile overrides the export file path, relative to the archive root.
func WithTweetsFile(rel string) Option {
	return func(r *Reader) {
		if strings.TrimSpace(rel) != "" {
			r.tweetsFile = rel
		}
	}
}

// WithMediaDir overrides the media directory, relative to the archive root.
func WithMediaDir(rel string) Option {
	return func(r *Reader) {
		if strings.TrimSpace(rel) != "" {
			r.mediaDir = rel
		}
	}
}

// New creates a Reader rooted at the unpacked archive directory.
func New(root string, opts ...Option) *Reader {
	r := &Reader{
		root:       root,
		tweetsFile: filepath.Join("data", "tweets.js"),
		mediaDir:   filepath.Join("data", "tweets_media"),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Parse reads the archive at root with default locations.
func Parse(root string) ([]model.Post, error) {
	posts, _, err := New(root).Read()
	return posts, err
}

// Read decodes the export and returns its eligible posts in encounter order.
// Replies and retweets are dropped entirely.
func (r *Reader) Read() ([]model.Post, Stats, error) {
	var st Stats
	file := filepath.Join(r.root, r.tweetsFile)
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, st, fmt.Errorf("%w: read %s: %v", ErrArchiveFormat, file, err)
	}
	data, err := normalize(raw)
	if err != nil {
		return nil, st, fmt.Errorf("%w: %s: %v", ErrArchiveFormat, file, err)
	}
	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, st, fmt.Errorf("%w: decode %s: %v", ErrArchiveFormat, file, err)
	}

	media, err := r.listMedia()
	if err != nil {
		slog.Warn("archive: media directory unavailable, posts will have no attachments", "dir", r.mediaDir, "error", err)
		st.MediaDirMissing = true
	}

	posts := make([]model.Post, 0, len(entries))
	for i, e := range entries {
		st.Entries++
		tw := e.Tweet
		if tw.isReply() {
			st.Replies++
			continue
		}
		if strings.HasPrefix(tw.FullText, retweetPrefix) {
			st.Retweets++
			continue
		}
		created, err := time.Parse(CreatedAtLayout, tw.CreatedAt)
		if err != nil {
			return nil, st, fmt.Errorf("%w: entry %d (id %s): created_at %q: %v", ErrArchiveFormat, i, tw.ID, tw.CreatedAt, err)
		}
		p := model.Post{Created: created, Text: tw.FullText}

		for _, m := range tw.mediaRefs() {
			name := remoteFileName(m.MediaURL)
			if name == "" {
				continue
			}
			local, ok := media.find(name)
			if !ok {
				st.MediaMissing++
				slog.Debug("archive: media file not found", "entry", i, "name", name)
				continue
			}
			p.Media = append(p.Media, filepath.Join(r.root, r.mediaDir, local))
			st.MediaAttached++
		}

		for _, u := range tw.Entities.URLs {
			parsed, err := parseLink(u.ExpandedURL)
			if err != nil {
				st.URLsRejected++
				slog.Warn("archive: dropping link", "entry", i, "error", err)
				continue
			}
			p.URLs = append(p.URLs, parsed)
		}

		posts = append(posts, p)
	}
	st.Posts = len(posts)
	slog.Info("archive: read complete",
		"entries", st.Entries,
		"posts", st.Posts,
		"replies", st.Replies,
		"retweets", st.Retweets,
	)
	return posts, st, nil
}

// normalize turns the export's "window.YTD.tweets.part0 = [" preamble into
// plain JSON array syntax.
func normalize(raw []byte) ([]byte, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, errors.New("empty export")
	}
	if trimmed[0] == '[' {
		return trimmed, nil
	}
	firstLine := trimmed
	if nl := bytes.IndexByte(trimmed, '\n'); nl >= 0 {
		firstLine = trimmed[:nl]
	}
	eq := bytes.IndexByte(firstLine, '=')
	if eq < 0 {
		return nil, errors.New("missing assignment prefix")
	}
	open := bytes.IndexByte(trimmed[eq:], '[')
	if open < 0 {
		return nil, errors.New("missing array after assignment")
	}
	return trimmed[eq+open:], nil
}

func remoteFileName(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		raw = u.Path
	}
	name := path.Base(raw)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

func parseLink(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrURLFormat, raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrURLFormat, raw)
	}
	return u, nil
}

// mediaIndex holds the media directory listing, sorted by name.
type mediaIndex []string

func (r *Reader) listMedia() (mediaIndex, error) {
	entries, err := os.ReadDir(filepath.Join(r.root, r.mediaDir))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// find returns the first saved file whose name ends with the remote file name.
func (m mediaIndex) find(name string) (string, bool) {
	for _, n := range m {
		if strings.HasSuffix(n, name) {
			return n, true
		}
	}
	return "", false
}
