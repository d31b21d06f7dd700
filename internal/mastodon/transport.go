package mastodon

import (
	"net/http"
	"strconv"
	"strings"
)

// rateTransport reports X-RateLimit-Remaining from every response that carries it.
type rateTransport struct {
	next http.RoundTripper
	hook func(remaining int)
}

func (t *rateTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil || t.hook == nil {
		return resp, err
	}
	if v := strings.TrimSpace(resp.Header.Get("X-RateLimit-Remaining")); v != "" {
		if n, perr := strconv.Atoi(v); perr == nil {
			t.hook(n)
		}
	}
	return resp, nil
}
