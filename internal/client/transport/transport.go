// Package transport composes the request-authorization middleware into
// the HTTP client at construction time: every outbound request carries
// the persisted bearer credential, and the client always runs with a
// cookie jar so ambient credentials are included.
package transport

import (
	"net/http"
	"net/http/cookiejar"
	"time"
)

// TokenSource yields the persisted bearer credential. An empty string
// means no credential is stored. *storage.LocalStorage satisfies it.
type TokenSource interface {
	GetToken() string
}

// AuthTransport is a pass-through http.RoundTripper that decorates each
// request with an "Authorization: Token <value>" header when a credential
// is present. It never blocks, never retries, and never inspects the
// response; requests without a stored credential pass unmodified.
type AuthTransport struct {
	// Base performs the actual round trip. nil means http.DefaultTransport.
	Base http.RoundTripper
	// Tokens supplies the credential read on every request.
	Tokens TokenSource
}

// RoundTrip implements http.RoundTripper. The incoming request is never
// mutated: when a header is added, the request is cloned first.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	var token string
	if t.Tokens != nil {
		token = t.Tokens.GetToken()
	}
	if token == "" {
		return base.RoundTrip(req)
	}

	decorated := req.Clone(req.Context())
	decorated.Header.Set("Authorization", "Token "+token)
	return base.RoundTrip(decorated)
}

// NewHTTPClient builds the credentialed client used for all API calls:
// cookie jar attached, auth decoration on every request. A zero timeout
// leaves the transport default in place.
func NewHTTPClient(tokens TokenSource, timeout time.Duration) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &http.Client{
		Transport: &AuthTransport{Tokens: tokens},
		Jar:       jar,
		Timeout:   timeout,
	}, nil
}
