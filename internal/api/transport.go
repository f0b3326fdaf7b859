package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// authTransport attaches the bearer token and a request ID to every API
// request. The token only ever goes to the API host itself: a request routed
// anywhere else (the asset-upload service in particular) must not carry the
// credential.
type authTransport struct {
	next           http.RoundTripper
	tokens         TokenSource
	apiHost        string
	onUnauthorized func()
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {

	req = req.Clone(req.Context())
	req.Header.Set("X-Request-ID", uuid.NewString())

	if token := t.tokens.Token(); token != "" && req.URL.Host == t.apiHost {
		req.Header.Set("Authorization", "Bearer "+token)
	} else {
		req.Header.Del("Authorization")
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && t.onUnauthorized != nil && !isCredentialEndpoint(req.URL.Path) {
		// The token is presumed expired or revoked.
		t.onUnauthorized()
	}

	return resp, nil
}

// isCredentialEndpoint reports whether a 401 means "bad credentials" rather
// than "expired session". Failed logins must not tear down an existing
// session.
func isCredentialEndpoint(path string) bool {
	return strings.HasSuffix(path, "/auth/login") || strings.HasSuffix(path, "/auth/register")
}
