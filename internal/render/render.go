package render

import (
	_ "embed"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"tweet-to-toot/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed posts.tmpl
var postsTpl string

var compiled = template.Must(template.New("posts").Funcs(template.FuncMap{
	"banner": banner,
}).Parse(postsTpl))

// banner marks omitted posts so they stand out in a listing.
func banner(omit bool) string {
	if omit {
		return "XXX"
	}
	return "---"
}

// Formats lists the supported output formats.
var Formats = []string{"text", "yaml"}

// Render writes posts to w in the given format.
func Render(w io.Writer, posts []model.Post, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return compiled.Execute(w, posts)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(toDocs(posts)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want %s)", format, strings.Join(Formats, ", "))
	}
}

type postDoc struct {
	Index   int      `yaml:"index"`
	Omit    bool     `yaml:"omit"`
	Created string   `yaml:"created"`
	Text    string   `yaml:"text"`
	Media   []string `yaml:"media,omitempty"`
	URLs    []string `yaml:"urls,omitempty"`
}

func toDocs(posts []model.Post) []postDoc {
	docs := make([]postDoc, 0, len(posts))
	for _, p := range posts {
		d := postDoc{
			Index:   p.Index,
			Omit:    p.Omit,
			Created: p.Created.Format(time.RFC3339),
			Text:    p.Text,
			Media:   p.Media,
		}
		for _, u := range p.URLs {
			d.URLs = append(d.URLs, u.String())
		}
		docs = append(docs, d)
	}
	return docs
}
