package api

import (
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// bearerTransport decorates every outgoing request with the current access
// token and recovers from 401s with exactly one coalesced refresh-and-retry
// per request. Forcing the logout after a failed recovery belongs here, not
// to the session manager's Refresh.
type bearerTransport struct {
	creds CredentialSource
	base  http.RoundTripper
	log   zerolog.Logger
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	accessToken := t.creds.AccessToken()

	r := req.Clone(req.Context())
	if r.Header.Get("X-Request-ID") == "" {
		r.Header.Set("X-Request-ID", uuid.New().String())
	}

	attached := false
	if accessToken != "" && r.Header.Get("Authorization") == "" {
		r.Header.Set("Authorization", "Bearer "+accessToken)
		attached = true
	}

	resp, err := t.base.RoundTrip(r)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	// The refresh exchange itself must never be intercepted, and a request
	// that carried no session credential has nothing to refresh.
	if !attached || r.URL.Path == routeRefreshToken {
		return resp, nil
	}

	if err := t.creds.RefreshFor(req.Context(), accessToken); err != nil {
		t.log.Warn().Err(err).Str("path", r.URL.Path).Msg("refresh failed, clearing session")
		_ = t.creds.Logout(req.Context())
		return resp, nil
	}

	retry, err := t.retryRequest(req, r.Header.Get("X-Request-ID"))
	if err != nil {
		return resp, nil
	}
	drain(resp)

	resp2, err := t.base.RoundTrip(retry)
	if err != nil {
		return nil, err
	}
	if resp2.StatusCode == http.StatusUnauthorized {
		// Still unauthorized with a fresh credential: the session is gone.
		t.log.Warn().Str("path", r.URL.Path).Msg("retry unauthorized, clearing session")
		_ = t.creds.Logout(req.Context())
	}
	return resp2, nil
}

// retryRequest rebuilds the original request with the refreshed credential.
// The retry keeps the original request ID so the backend sees one logical
// request.
func (t *bearerTransport) retryRequest(req *http.Request, requestID string) (*http.Request, error) {
	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}
	retry.Header.Set("X-Request-ID", requestID)
	retry.Header.Set("Authorization", "Bearer "+t.creds.AccessToken())
	return retry, nil
}

// drain discards an abandoned response body so the connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
