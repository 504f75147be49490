package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ajay-verma30/Neil-admin-sub000/pkg/console/storage"
)

const (
	tokenStoreKey = "access_token"
	modeStoreKey  = "console_mode"
)

// ErrRefreshFailed is returned when a silent refresh is rejected or cannot
// reach the server. The session has already been torn down when callers see it.
var ErrRefreshFailed = errors.New("session refresh failed")

// Mode values a user can choose between after login.
const (
	ModeAdmin = "admin"
	ModeShop  = "shop"
)

// LoginResult reports the outcome of a login attempt. Expected auth failures
// (bad credentials) populate Message instead of producing an error.
type LoginResult struct {
	Success        bool
	Role           string
	OrganizationID *string
	Message        string
}

// Config wires a Manager to its backend and stores.
type Config struct {
	// BaseURL of the API, without a trailing slash.
	BaseURL string
	// Durable survives process restarts and mirrors the access token.
	Durable storage.Store
	// Session holds per-run preferences like the admin/shop mode choice.
	Session storage.Store
	// HTTPClient must carry a cookie jar for the refresh credential. A
	// fresh jar-equipped client is built when nil.
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Manager is the single source of truth for who is logged in and with what
// privileges, and the only component permitted to mutate the token mirror.
type Manager struct {
	baseURL string
	durable storage.Store
	session storage.Store
	client  *http.Client
	logger  *zap.Logger

	mu     sync.RWMutex
	state  State
	token  string
	claims *Claims

	refreshGroup singleflight.Group
}

// NewManager builds a manager and hydrates it from durable storage: a
// decodable stored token yields an authenticated session, a corrupt one is
// torn down, and an absent one starts unauthenticated.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("session: BaseURL required")
	}
	if cfg.Durable == nil {
		return nil, errors.New("session: durable store required")
	}
	if cfg.Session == nil {
		cfg.Session = storage.NewMemoryStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	client := cfg.HTTPClient
	if client == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		client = &http.Client{Jar: jar, Timeout: 30 * time.Second}
	}

	m := &Manager{
		baseURL: cfg.BaseURL,
		durable: cfg.Durable,
		session: cfg.Session,
		client:  client,
		logger:  cfg.Logger,
		state:   StateInitializing,
	}
	m.hydrate()
	return m, nil
}

func (m *Manager) hydrate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, ok := m.durable.Get(tokenStoreKey)
	if !ok || token == "" {
		m.state = StateUnauthenticated
		return
	}

	claims, err := decodeClaims(token)
	if err != nil {
		m.logger.Warn("stored token corrupt, clearing session", zap.Error(err))
		m.teardownLocked()
		return
	}

	m.token = token
	m.claims = claims
	m.state = StateAuthenticated
}

// Login authenticates with the backend. Bad credentials and transport errors
// both come back as an unsuccessful LoginResult, never a raised error.
func (m *Manager) Login(ctx context.Context, email, password string) LoginResult {
	m.setState(StateAuthenticating)

	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := m.post(ctx, "/auth/login", body)
	if err != nil {
		m.setState(StateUnauthenticated)
		m.logger.Warn("login request failed", zap.Error(err))
		return LoginResult{Message: "unable to reach the server, please try again"}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		m.setState(StateUnauthenticated)
		return LoginResult{Message: errorMessage(resp, "login failed")}
	}

	token, err := tokenFromResponse(resp)
	if err != nil {
		m.setState(StateUnauthenticated)
		return LoginResult{Message: "login failed"}
	}

	claims, err := decodeClaims(token)
	if err != nil {
		m.teardown()
		return LoginResult{Message: "login failed"}
	}

	m.install(token, claims)
	m.logger.Info("session established", zap.String("role", claims.Role))
	return LoginResult{Success: true, Role: claims.Role, OrganizationID: claims.OrganizationID}
}

// Refresh exchanges the durable cookie credential for a new access token.
// Concurrent triggers coalesce into a single in-flight attempt; every caller
// observes that attempt's outcome. Failure is terminal: the session is torn
// down before the error propagates.
func (m *Manager) Refresh(ctx context.Context) error {
	_, err, _ := m.refreshGroup.Do("refresh", func() (interface{}, error) {
		return nil, m.doRefresh(ctx)
	})
	return err
}

func (m *Manager) doRefresh(ctx context.Context) error {
	m.setState(StateRefreshing)

	resp, err := m.post(ctx, "/auth/refresh", nil)
	if err != nil {
		m.teardown()
		m.logger.Warn("refresh request failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		m.teardown()
		m.logger.Info("refresh rejected", zap.Int("status", resp.StatusCode))
		return ErrRefreshFailed
	}

	token, err := tokenFromResponse(resp)
	if err != nil {
		m.teardown()
		return fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	claims, err := decodeClaims(token)
	if err != nil {
		m.teardown()
		return fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	m.install(token, claims)
	return nil
}

// Logout performs best-effort server-side invalidation followed by
// unconditional local teardown.
func (m *Manager) Logout(ctx context.Context) {
	resp, err := m.post(ctx, "/auth/logout", nil)
	if err != nil {
		m.logger.Warn("server-side logout failed", zap.Error(err))
	} else {
		resp.Body.Close()
	}
	m.teardown()
}

// Token returns the current access token, read at call time so a token
// refreshed mid-flight is picked up by subsequent requests.
func (m *Manager) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

// Claims returns the decoded identity, when authenticated.
func (m *Manager) Claims() (Claims, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.claims == nil {
		return Claims{}, false
	}
	return *m.claims, true
}

// IsAuthenticated reports whether a session is currently held.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.claims != nil
}

// State returns the lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// SetMode records the admin/shop UI preference for this run.
func (m *Manager) SetMode(mode string) error {
	if mode != ModeAdmin && mode != ModeShop {
		return fmt.Errorf("unknown mode %q", mode)
	}
	return m.session.Set(modeStoreKey, mode)
}

// Mode returns the chosen UI preference, if any.
func (m *Manager) Mode() (string, bool) {
	return m.session.Get(modeStoreKey)
}

func (m *Manager) install(token string, claims *Claims) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.claims = claims
	m.state = StateAuthenticated
	if err := m.durable.Set(tokenStoreKey, token); err != nil {
		m.logger.Warn("failed to persist token", zap.Error(err))
	}
}

func (m *Manager) teardown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownLocked()
}

func (m *Manager) teardownLocked() {
	m.token = ""
	m.claims = nil
	m.state = StateUnauthenticated
	_ = m.durable.Delete(tokenStoreKey)
	_ = m.session.Delete(modeStoreKey)
}

func (m *Manager) setState(state State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
}

func (m *Manager) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return m.client.Do(req)
}

type authEnvelope struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func tokenFromResponse(resp *http.Response) (string, error) {
	var envelope authEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", err
	}
	if envelope.Data.Token == "" {
		return "", errors.New("response missing token")
	}
	return envelope.Data.Token, nil
}

func errorMessage(resp *http.Response, fallback string) string {
	var envelope errorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Error.Message == "" {
		return fallback
	}
	return envelope.Error.Message
}
