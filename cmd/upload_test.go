package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"tweet-to-toot/internal/config"
)

func TestClock(t *testing.T) {
	cases := map[time.Duration]string{
		40 * time.Minute: "00:40:00",
		time.Hour + 2*time.Minute + 3*time.Second: "01:02:03",
		1500 * time.Millisecond:                   "00:00:02",
		-time.Second:                              "00:00:00",
	}
	for in, want := range cases {
		if got := clock(in); got != want {
			t.Errorf("clock(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestCountdownEndsLine(t *testing.T) {
	var buf bytes.Buffer
	tick := countdown(&buf)
	tick(2 * time.Second)
	tick(0)
	if got := buf.String(); got != "\rRestarting in 00:00:02\rRestarting in 00:00:00\n" {
		t.Fatalf("countdown output = %q", got)
	}
}

func TestCheckMastodonConfig(t *testing.T) {
	err := checkMastodonConfig(config.MastodonConfig{Instance: "example.social"})
	if err == nil || !strings.Contains(err.Error(), "email, password") {
		t.Fatalf("expected missing email and password, got %v", err)
	}
	if err := checkMastodonConfig(config.MastodonConfig{Instance: "a", Email: "b", Password: "c"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
