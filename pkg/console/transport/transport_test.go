package transport_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajay-verma30/Neil-admin-sub000/pkg/console/transport"
)

type fakeSession struct {
	token      atomic.Value
	refreshErr error
	refreshed  int32
}

func newFakeSession(token string) *fakeSession {
	s := &fakeSession{}
	s.token.Store(token)
	return s
}

func (s *fakeSession) Token() (string, bool) {
	token := s.token.Load().(string)
	return token, token != ""
}

func (s *fakeSession) Refresh(context.Context) error {
	atomic.AddInt32(&s.refreshed, 1)
	if s.refreshErr != nil {
		return s.refreshErr
	}
	s.token.Store("refreshed-token")
	return nil
}

func writeTokenError(w http.ResponseWriter, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": code, "message": "nope"}})
}

func newClient(sess transport.TokenSource) *http.Client {
	return &http.Client{Transport: &transport.AuthTransport{Session: sess}}
}

func TestAttachesBearerTokenAtSendTime(t *testing.T) {
	var seen string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
	}))
	defer server.Close()

	sess := newFakeSession("current-token")
	client := newClient(sess)

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "Bearer current-token", seen)
}

func TestExplicitAuthorizationHeaderWins(t *testing.T) {
	var seen string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
	}))
	defer server.Close()

	client := newClient(newFakeSession("current-token"))
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer pinned")

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "Bearer pinned", seen)
}

// A token-expiry failure triggers exactly one refresh-and-retry carrying the
// post-refresh token.
func TestRetriesOnceWithRefreshedToken(t *testing.T) {
	var requests int32
	var tokens []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokens = append(tokens, r.Header.Get("Authorization"))
		if atomic.AddInt32(&requests, 1) == 1 {
			writeTokenError(w, "TOKEN_EXPIRED")
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sess := newFakeSession("expired-token")
	client := newClient(sess)

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, int32(1), atomic.LoadInt32(&sess.refreshed))
	require.Equal(t, []string{"Bearer expired-token", "Bearer refreshed-token"}, tokens)
}

// A request that fails twice is surfaced as-is, never retried a third time.
func TestNeverRetriesTwice(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		writeTokenError(w, "TOKEN_EXPIRED")
	}))
	defer server.Close()

	sess := newFakeSession("expired-token")
	client := newClient(sess)

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, int32(2), atomic.LoadInt32(&requests))
	require.Equal(t, int32(1), atomic.LoadInt32(&sess.refreshed))
}

// A role-based 403 is not a refresh trigger.
func TestForbiddenForInsufficientRoleDoesNotRefresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": "FORBIDDEN", "message": "insufficient role"}})
	}))
	defer server.Close()

	sess := newFakeSession("valid-token")
	client := newClient(sess)

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, int32(0), atomic.LoadInt32(&sess.refreshed))

	// The error payload reaches the caller untouched.
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Equal(t, "FORBIDDEN", envelope.Error.Code)
}

func TestRefreshFailureSurfacesOriginalResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeTokenError(w, "TOKEN_EXPIRED")
	}))
	defer server.Close()

	sess := newFakeSession("expired-token")
	sess.refreshErr = errors.New("refresh rejected")
	client := newClient(sess)

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, int32(1), atomic.LoadInt32(&sess.refreshed))
}

func TestPostBodyIsReplayedOnRetry(t *testing.T) {
	var bodies []string
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		if atomic.AddInt32(&requests, 1) == 1 {
			writeTokenError(w, "TOKEN_EXPIRED")
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newClient(newFakeSession("expired-token"))

	resp, err := client.Post(server.URL, "application/json", strings.NewReader(`{"k":"v"}`))
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{`{"k":"v"}`, `{"k":"v"}`}, bodies)
}
