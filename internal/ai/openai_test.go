package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDescribeImage(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  A cat asleep on a keyboard.  "},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c, err := NewOpenAI(Config{APIKey: "k", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "1-cat.jpg")
	if err := os.WriteFile(path, []byte("jpeg bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := c.DescribeImage(context.Background(), path, "")
	if err != nil {
		t.Fatalf("DescribeImage: %v", err)
	}
	if got != "A cat asleep on a keyboard." {
		t.Errorf("got %q", got)
	}
	raw, _ := json.Marshal(gotBody)
	if !strings.Contains(string(raw), "data:image/jpeg;base64,") {
		t.Errorf("request did not inline the image: %s", raw)
	}
}

func TestDescribeImageSkipsNonImages(t *testing.T) {
	c, err := NewOpenAI(Config{APIKey: "k", BaseURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.DescribeImage(context.Background(), "/tmp/clip.mp4", "English")
	if err != nil || got != "" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	if _, err := NewOpenAI(Config{}); err == nil {
		t.Fatal("expected error without api key")
	}
}
