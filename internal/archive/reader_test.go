package archive

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleExport = `window.YTD.tweets.part0 = [
  {
    "tweet" : {
      "id_str" : "1",
      "full_text" : "first light https://t.co/abc",
      "created_at" : "Wed Oct 10 20:19:24 +0000 2018",
      "in_reply_to_user_id_str" : null,
      "entities" : {
        "urls" : [ { "expanded_url" : "https://example.com/page" } ],
        "media" : [ { "media_url" : "http://pbs.twimg.com/media/AAA.jpg" } ]
      },
      "extended_entities" : {
        "media" : [
          { "media_url" : "http://pbs.twimg.com/media/AAA.jpg" },
          { "media_url" : "http://pbs.twimg.com/media/BBB.png" },
          { "media_url" : "http://pbs.twimg.com/media/GONE.jpg" }
        ]
      }
    }
  },
  {
    "tweet" : {
      "id_str" : "2",
      "full_text" : "@friend agreed",
      "created_at" : "Thu Oct 11 08:00:00 +0000 2018",
      "in_reply_to_user_id_str" : "42",
      "in_reply_to_user_id" : "42",
      "entities" : { }
    }
  },
  {
    "tweet" : {
      "id_str" : "3",
      "full_text" : "RT @someone: boosted",
      "created_at" : "Fri Oct 12 08:00:00 +0000 2018",
      "entities" : { }
    }
  },
  {
    "tweet" : {
      "id_str" : "4",
      "full_text" : "older one",
      "created_at" : "Mon Jan 01 09:30:00 +0000 2018",
      "entities" : { "urls" : [ { "expanded_url" : "not a url" } ] }
    }
  }
]
`

func writeArchive(t *testing.T, export string, media ...string) string {
	t.Helper()
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	mediaDir := filepath.Join(dataDir, "tweets_media")
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, "tweets.js"), []byte(export), 0o644); err != nil {
		t.Fatalf("write export: %v", err)
	}
	for _, m := range media {
		if err := os.WriteFile(filepath.Join(mediaDir, m), []byte("img"), 0o644); err != nil {
			t.Fatalf("write media: %v", err)
		}
	}
	return root
}

func TestReadExcludesRepliesAndRetweets(t *testing.T) {
	root := writeArchive(t, sampleExport, "1-AAA.jpg", "1-BBB.png")
	posts, st, err := New(root).Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2", len(posts))
	}
	for _, p := range posts {
		if strings.HasPrefix(p.Text, "RT @") || strings.HasPrefix(p.Text, "@friend") {
			t.Errorf("excluded entry leaked: %q", p.Text)
		}
	}
	if st.Entries != 4 || st.Replies != 1 || st.Retweets != 1 || st.Posts != 2 {
		t.Errorf("unexpected stats: %+v", st)
	}
}

func TestReadKeepsEncounterOrderAndFields(t *testing.T) {
	root := writeArchive(t, sampleExport, "1-AAA.jpg", "1-BBB.png")
	posts, st, err := New(root).Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	first := posts[0]
	if first.Text != "first light https://t.co/abc" {
		t.Errorf("text = %q", first.Text)
	}
	want := time.Date(2018, time.October, 10, 20, 19, 24, 0, time.UTC)
	if !first.Created.Equal(want) {
		t.Errorf("created = %v, want %v", first.Created, want)
	}
	if len(first.Media) != 2 {
		t.Fatalf("media = %v, want 2 entries", first.Media)
	}
	if filepath.Base(first.Media[0]) != "1-AAA.jpg" || filepath.Base(first.Media[1]) != "1-BBB.png" {
		t.Errorf("media order = %v", first.Media)
	}
	if st.MediaMissing != 1 {
		t.Errorf("media missing = %d, want 1", st.MediaMissing)
	}
	if len(first.URLs) != 1 || first.URLs[0].String() != "https://example.com/page" {
		t.Errorf("urls = %v", first.URLs)
	}
	if posts[1].Text != "older one" {
		t.Errorf("second post = %q, want encounter order", posts[1].Text)
	}
}

func TestReadDropsMalformedURLOnly(t *testing.T) {
	root := writeArchive(t, sampleExport)
	posts, st, err := New(root).Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(posts[1].URLs) != 0 {
		t.Errorf("malformed url kept: %v", posts[1].URLs)
	}
	if st.URLsRejected != 1 {
		t.Errorf("urls rejected = %d, want 1", st.URLsRejected)
	}
}

func TestReadBadTimestampIsFatal(t *testing.T) {
	export := `window.YTD.tweets.part0 = [
{ "tweet" : { "full_text" : "x", "created_at" : "2018-10-10T20:19:24Z", "entities" : {} } }
]`
	root := writeArchive(t, export)
	_, err := Parse(root)
	if !errors.Is(err, ErrArchiveFormat) {
		t.Fatalf("expected ErrArchiveFormat, got %v", err)
	}
}

func TestReadMissingMediaDir(t *testing.T) {
	root := writeArchive(t, sampleExport)
	if err := os.RemoveAll(filepath.Join(root, "data", "tweets_media")); err != nil {
		t.Fatal(err)
	}
	posts, st, err := New(root).Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !st.MediaDirMissing {
		t.Errorf("expected MediaDirMissing")
	}
	if len(posts[0].Media) != 0 {
		t.Errorf("media = %v, want none", posts[0].Media)
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"assignment", "window.YTD.tweets.part0 = [\n{}]", "[\n{}]", false},
		{"single line", "window.YTD.tweets.part0 = [{}]", "[{}]", false},
		{"plain json", "  [ ]", "[ ]", false},
		{"bom", "\xef\xbb\xbf[]", "[]", false},
		{"no prefix", "{}", "", true},
		{"empty", "", "", true},
		{"no array", "window.x = {}", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := normalize([]byte(tc.in))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if string(got) != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestReadMissingExport(t *testing.T) {
	_, err := Parse(t.TempDir())
	if !errors.Is(err, ErrArchiveFormat) {
		t.Fatalf("expected ErrArchiveFormat, got %v", err)
	}
}
