package model

import (
	"net/url"
	"time"
)

// Post is a normalized, republishable record derived from one archive entry.
type Post struct {
	Index   int
	Omit    bool
	Created time.Time
	Text    string
	Media   []string   // local attachment paths, archive order
	URLs    []*url.URL // expanded entity links
}

// Clone returns a copy whose slices can be modified independently.
func (p Post) Clone() Post {
	c := p
	if p.Media != nil {
		c.Media = append([]string(nil), p.Media...)
	}
	if p.URLs != nil {
		c.URLs = make([]*url.URL, len(p.URLs))
		for i, u := range p.URLs {
			cp := *u
			c.URLs[i] = &cp
		}
	}
	return c
}
