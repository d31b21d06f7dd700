package publisher

import (
	"strings"

	"tweet-to-toot/internal/model"
)

// DateStamp controls the trailing "[date]" line.
type DateStamp struct {
	Enabled bool
	Layout  string // Go time layout, default "2006-01-02"
}

// ComposeText builds the status body: the post text, each entity link on its
// own line, then the optional date stamp.
func ComposeText(p model.Post, stamp DateStamp) string {
	var b strings.Builder
	b.WriteString(p.Text)
	if len(p.URLs) > 0 && p.Text != "" && !strings.HasSuffix(p.Text, "\n") {
		b.WriteByte('\n')
	}
	for _, u := range p.URLs {
		b.WriteString(u.String())
		b.WriteByte('\n')
	}
	if stamp.Enabled {
		layout := stamp.Layout
		if layout == "" {
			layout = "2006-01-02"
		}
		b.WriteString("\n[")
		b.WriteString(p.Created.Format(layout))
		b.WriteString("]")
	}
	return b.String()
}
