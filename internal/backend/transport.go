package backend

import (
	"net/http"

	"golang.org/x/oauth2"
)

// Transport sets the JSON headers expected by the backend and, when a token is configured, authenticates every
// request with it
type Transport struct {
	Token string
	Base  http.RoundTripper
}

func (t Transport) Client() *http.Client {
	return &http.Client{Transport: t}
}

func (t Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Accept", "application/json")
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return t.base().RoundTrip(req)
}

func (t Transport) base() http.RoundTripper {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	if t.Token == "" {
		return base
	}

	return &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: t.Token, TokenType: "Bearer"}),
		Base:   base,
	}
}
