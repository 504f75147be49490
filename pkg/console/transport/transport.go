// Package transport wraps outgoing HTTP calls with bearer-token attachment
// and a single refresh-and-retry on token-expiry failures, so call sites
// never handle token lifecycle themselves.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// Error codes the backend uses to signal token invalidity specifically. A
// plain FORBIDDEN for insufficient role never triggers a refresh.
const (
	codeTokenExpired = "TOKEN_EXPIRED"
	codeTokenInvalid = "TOKEN_INVALID"
)

// TokenSource supplies the current bearer token and the coalesced refresh
// operation. The session manager satisfies this.
type TokenSource interface {
	Token() (string, bool)
	Refresh(ctx context.Context) error
}

// AuthTransport is an http.RoundTripper that attaches the current bearer
// token at send time and retries a request at most once after a refresh.
type AuthTransport struct {
	// Base performs the actual round trips. http.DefaultTransport when nil.
	Base http.RoundTripper
	// Session owns the token and the refresh operation.
	Session TokenSource
}

type retriedKey struct{}

func markRetried(req *http.Request) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), retriedKey{}, true))
}

func alreadyRetried(req *http.Request) bool {
	v, _ := req.Context().Value(retriedKey{}).(bool)
	return v
}

// RoundTrip implements http.RoundTripper.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.send(req)
	if err != nil {
		return nil, err
	}

	if !isAuthFailureStatus(resp.StatusCode) || alreadyRetried(req) {
		return resp, nil
	}
	tokenFailure, restoreErr := classifyTokenFailure(resp)
	if restoreErr != nil {
		return nil, restoreErr
	}
	if !tokenFailure {
		return resp, nil
	}

	retry, ok := rewind(markRetried(req))
	if !ok {
		return resp, nil
	}

	if err := t.Session.Refresh(req.Context()); err != nil {
		// The session is already torn down; the caller sees the failure.
		return resp, nil
	}
	resp.Body.Close()

	// The retry reads the token only after Refresh resolved, so it is
	// guaranteed to carry the post-refresh token.
	return t.send(retry)
}

func (t *AuthTransport) send(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	out := req.Clone(req.Context())
	if out.Header.Get("Authorization") == "" {
		if token, ok := t.Session.Token(); ok {
			out.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return base.RoundTrip(out)
}

// rewind produces a re-sendable copy of the request. Requests with a
// one-shot body and no GetBody cannot be retried.
func rewind(req *http.Request) (*http.Request, bool) {
	if req.Body == nil || req.Body == http.NoBody {
		return req, true
	}
	if req.GetBody == nil {
		return nil, false
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, false
	}
	retry := req.Clone(req.Context())
	retry.Body = body
	return retry, true
}

func isAuthFailureStatus(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

type errorEnvelope struct {
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

// classifyTokenFailure inspects the error payload for a token-invalidity
// code, restoring the body so an untouched response reaches the caller.
func classifyTokenFailure(resp *http.Response) (bool, error) {
	payload, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return false, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(payload))

	var envelope errorEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return false, nil
	}
	code := envelope.Error.Code
	return code == codeTokenExpired || code == codeTokenInvalid, nil
}
