package session_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/ajay-verma30/Neil-admin-sub000/pkg/console/session"
	"github.com/ajay-verma30/Neil-admin-sub000/pkg/console/storage"
)

const tokenStoreKey = "access_token"

func mintToken(t *testing.T, role string, orgID *string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   "user-1",
		"role":  role,
		"email": "admin@example.com",
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	}
	if orgID != nil {
		claims["org_id"] = *orgID
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return token
}

func writeAuthResponse(w http.ResponseWriter, token string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"token": token}})
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": code, "message": message}})
}

func newManager(t *testing.T, baseURL string, durable *storage.MemoryStore) *session.Manager {
	t.Helper()
	mgr, err := session.NewManager(session.Config{
		BaseURL: baseURL,
		Durable: durable,
	})
	require.NoError(t, err)
	return mgr
}

func TestHydrateAbsentStartsUnauthenticated(t *testing.T) {
	mgr := newManager(t, "http://localhost:0", storage.NewMemoryStore())

	require.False(t, mgr.IsAuthenticated())
	require.Equal(t, session.StateUnauthenticated, mgr.State())
}

func TestHydrateDecodableTokenEstablishesSession(t *testing.T) {
	orgID := "org-1"
	token := mintToken(t, "admin", &orgID, time.Now().Add(time.Hour))
	durable := storage.NewMemoryStore()
	require.NoError(t, durable.Set(tokenStoreKey, token))

	mgr := newManager(t, "http://localhost:0", durable)

	require.True(t, mgr.IsAuthenticated())
	claims, ok := mgr.Claims()
	require.True(t, ok)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "admin", claims.Role)
	require.Equal(t, "org-1", *claims.OrganizationID)
}

func TestHydrateCorruptTokenTearsDown(t *testing.T) {
	durable := storage.NewMemoryStore()
	require.NoError(t, durable.Set(tokenStoreKey, "not-a-jwt"))

	mgr := newManager(t, "http://localhost:0", durable)

	require.False(t, mgr.IsAuthenticated())
	_, ok := durable.Get(tokenStoreKey)
	require.False(t, ok, "corrupt token must be purged from durable storage")
}

// Decoding the same stored token always derives identical claims.
func TestClaimsDecodeIsDeterministic(t *testing.T) {
	orgID := "org-1"
	expiresAt := time.Now().Add(time.Hour).Truncate(time.Second)
	token := mintToken(t, "admin", &orgID, expiresAt)

	var previous *session.Claims
	for i := 0; i < 5; i++ {
		durable := storage.NewMemoryStore()
		require.NoError(t, durable.Set(tokenStoreKey, token))
		mgr := newManager(t, "http://localhost:0", durable)

		claims, ok := mgr.Claims()
		require.True(t, ok)
		if previous != nil {
			require.Equal(t, *previous, claims)
		}
		previous = &claims
		require.Equal(t, "admin", claims.Role)
		require.Equal(t, "org-1", *claims.OrganizationID)
		require.True(t, claims.ExpiresAt.Equal(expiresAt))
	}
}

func TestLoginSuccess(t *testing.T) {
	orgID := "org-1"
	token := mintToken(t, "admin", &orgID, time.Now().Add(time.Hour))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "admin@example.com", body["email"])
		writeAuthResponse(w, token)
	}))
	defer server.Close()

	durable := storage.NewMemoryStore()
	mgr := newManager(t, server.URL, durable)

	result := mgr.Login(context.Background(), "admin@example.com", "password123")
	require.True(t, result.Success)
	require.Equal(t, "admin", result.Role)
	require.Equal(t, "org-1", *result.OrganizationID)
	require.Equal(t, session.StateAuthenticated, mgr.State())

	stored, ok := durable.Get(tokenStoreKey)
	require.True(t, ok)
	require.Equal(t, token, stored)
}

func TestLoginBadCredentialsReturnsMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorResponse(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
	}))
	defer server.Close()

	mgr := newManager(t, server.URL, storage.NewMemoryStore())

	result := mgr.Login(context.Background(), "admin@example.com", "wrong")
	require.False(t, result.Success)
	require.Equal(t, "invalid credentials", result.Message)
	require.False(t, mgr.IsAuthenticated())
}

func TestLoginNetworkFailureReturnsGenericMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	mgr := newManager(t, server.URL, storage.NewMemoryStore())

	result := mgr.Login(context.Background(), "admin@example.com", "password123")
	require.False(t, result.Success)
	require.NotEmpty(t, result.Message)
	require.Equal(t, session.StateUnauthenticated, mgr.State())
}

// A failed refresh clears both the in-memory session and the durable token.
func TestRefreshFailureTearsDownCompletely(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorResponse(w, http.StatusUnauthorized, "UNAUTHORIZED", "refresh rejected")
	}))
	defer server.Close()

	orgID := "org-1"
	token := mintToken(t, "admin", &orgID, time.Now().Add(-time.Minute))
	durable := storage.NewMemoryStore()
	require.NoError(t, durable.Set(tokenStoreKey, token))

	mgr := newManager(t, server.URL, durable)
	require.True(t, mgr.IsAuthenticated())

	err := mgr.Refresh(context.Background())
	require.ErrorIs(t, err, session.ErrRefreshFailed)
	require.False(t, mgr.IsAuthenticated())
	require.Equal(t, session.StateUnauthenticated, mgr.State())

	_, ok := durable.Get(tokenStoreKey)
	require.False(t, ok, "durable storage must contain no token after failed refresh")
}

func TestRefreshSuccessReplacesToken(t *testing.T) {
	orgID := "org-1"
	oldToken := mintToken(t, "admin", &orgID, time.Now().Add(-time.Minute))
	newToken := mintToken(t, "admin", &orgID, time.Now().Add(time.Hour))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/refresh", r.URL.Path)
		writeAuthResponse(w, newToken)
	}))
	defer server.Close()

	durable := storage.NewMemoryStore()
	require.NoError(t, durable.Set(tokenStoreKey, oldToken))
	mgr := newManager(t, server.URL, durable)

	require.NoError(t, mgr.Refresh(context.Background()))

	current, ok := mgr.Token()
	require.True(t, ok)
	require.Equal(t, newToken, current)

	stored, ok := durable.Get(tokenStoreKey)
	require.True(t, ok)
	require.Equal(t, newToken, stored)
}

// Concurrent refresh triggers coalesce into a single server call.
func TestConcurrentRefreshCoalesces(t *testing.T) {
	orgID := "org-1"
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(50 * time.Millisecond)
		writeAuthResponse(w, mintToken(t, "admin", &orgID, time.Now().Add(time.Hour)))
	}))
	defer server.Close()

	durable := storage.NewMemoryStore()
	require.NoError(t, durable.Set(tokenStoreKey, mintToken(t, "admin", &orgID, time.Now().Add(-time.Minute))))
	mgr := newManager(t, server.URL, durable)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < len(errs); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = mgr.Refresh(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, fmt.Sprintf("refresh %d", i))
	}
	require.Equal(t, int32(1), atomic.LoadInt32(&calls), "concurrent triggers must share one in-flight refresh")
}

func TestLogoutTearsDownEvenWhenServerFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	orgID := "org-1"
	durable := storage.NewMemoryStore()
	require.NoError(t, durable.Set(tokenStoreKey, mintToken(t, "admin", &orgID, time.Now().Add(time.Hour))))
	mgr := newManager(t, server.URL, durable)
	require.True(t, mgr.IsAuthenticated())

	mgr.Logout(context.Background())

	require.False(t, mgr.IsAuthenticated())
	_, ok := durable.Get(tokenStoreKey)
	require.False(t, ok)
}

func TestModePreference(t *testing.T) {
	mgr := newManager(t, "http://localhost:0", storage.NewMemoryStore())

	_, ok := mgr.Mode()
	require.False(t, ok)

	require.Error(t, mgr.SetMode("warehouse"))
	require.NoError(t, mgr.SetMode(session.ModeShop))

	mode, ok := mgr.Mode()
	require.True(t, ok)
	require.Equal(t, session.ModeShop, mode)
}
