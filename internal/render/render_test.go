package render

import (
	"bytes"
	"net/url"
	"strings"
	"testing"
	"time"

	"tweet-to-toot/internal/model"

	"gopkg.in/yaml.v3"
)

func samplePosts() []model.Post {
	u, _ := url.Parse("https://example.com/page")
	created := time.Date(2018, time.October, 10, 20, 19, 24, 0, time.UTC)
	return []model.Post{
		{Index: 7, Created: created, Text: "hello", Media: []string{"/a/1-AAA.jpg"}, URLs: []*url.URL{u}},
		{Index: 8, Omit: true, Created: created.Add(time.Hour), Text: "skip me"},
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, samplePosts(), "text"); err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "" +
		"--- Index 00007 ---\n" +
		"2018-10-10 20:19:24 +0000\n" +
		"/a/1-AAA.jpg\n" +
		"https://example.com/page\n" +
		"hello\n" +
		"\n" +
		"XXX Index 00008 XXX\n" +
		"2018-10-10 21:19:24 +0000\n" +
		"skip me\n" +
		"\n"
	if got := buf.String(); got != want {
		t.Errorf("text output mismatch.\nwant: %q\n got: %q", want, got)
	}
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, samplePosts(), "YAML"); err != nil {
		t.Fatalf("Render: %v", err)
	}
	var docs []postDoc
	if err := yaml.Unmarshal(buf.Bytes(), &docs); err != nil {
		t.Fatalf("output is not yaml: %v\n%s", err, buf.String())
	}
	if len(docs) != 2 || docs[0].Index != 7 || !docs[1].Omit || docs[0].URLs[0] != "https://example.com/page" {
		t.Errorf("unexpected docs: %+v", docs)
	}
	if docs[0].Created != "2018-10-10T20:19:24Z" {
		t.Errorf("created = %q", docs[0].Created)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, nil, "xml")
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Fatalf("expected unknown format error, got %v", err)
	}
}
