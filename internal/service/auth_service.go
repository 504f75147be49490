package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ajay-verma30/Neil-admin-sub000/internal/auth"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/config"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/domain"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/events"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/repository"
)

// ErrInvalidCredentials covers bad email/password pairs without leaking which
// half was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrRefreshRejected covers missing, expired, or already-rotated refresh
// credentials. Any of these ends the session.
var ErrRefreshRejected = errors.New("refresh credential rejected")

// AuthResult bundles the outcome of login and refresh flows.
type AuthResult struct {
	User              *domain.User
	AccessToken       string
	AccessExpiresAt   time.Time
	RefreshCredential *domain.RefreshCredential
}

// AuthService coordinates login, silent refresh, and logout flows.
type AuthService struct {
	users      repository.UserRepository
	refresh    repository.RefreshTokenRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
	refreshTTL time.Duration
}

// AuthDependencies encapsulates repo requirements for the auth service.
type AuthDependencies struct {
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Dispatcher       events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		refresh:    deps.RefreshTokenRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
		refreshTTL: cfg.Auth.RefreshTokenTTL(),
	}
}

// Login authenticates a user and mints both the access token and a fresh
// refresh credential. The previous refresh credential, if any, is revoked so
// exactly one exists per user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Status != domain.UserStatusActive {
		return nil, ErrInvalidCredentials
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserLoggedIn, map[string]any{"user_id": user.ID, "role": string(user.Role)})
	return result, nil
}

// Refresh validates and rotates the durable credential, then mints a new
// access token. Rejection is terminal for the session: the caller must tear
// down local state and redirect to login.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	cred, err := s.refresh.Get(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			s.publish(ctx, events.EventRefreshRejected, map[string]any{"reason": "unknown credential"})
			return nil, ErrRefreshRejected
		}
		return nil, err
	}
	if cred.Expired(time.Now()) {
		_ = s.refresh.Delete(ctx, refreshToken)
		s.publish(ctx, events.EventRefreshRejected, map[string]any{"user_id": cred.UserID, "reason": "expired"})
		return nil, ErrRefreshRejected
	}

	user, err := s.users.GetByID(ctx, cred.UserID)
	if err != nil {
		if err == pgx.ErrNoRows {
			_ = s.refresh.Delete(ctx, refreshToken)
			return nil, ErrRefreshRejected
		}
		return nil, err
	}
	if user.Status != domain.UserStatusActive {
		_ = s.refresh.Delete(ctx, refreshToken)
		return nil, ErrRefreshRejected
	}

	if err := s.refresh.Delete(ctx, refreshToken); err != nil {
		return nil, err
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventSessionRefreshed, map[string]any{"user_id": user.ID})
	return result, nil
}

// Logout revokes the refresh credential. A missing credential is not an
// error; the client tears down regardless.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	cred, err := s.refresh.Get(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil
		}
		return err
	}
	if err := s.refresh.Delete(ctx, refreshToken); err != nil {
		return err
	}
	s.publish(ctx, events.EventUserLoggedOut, map[string]any{"user_id": cred.UserID})
	return nil
}

// ChangePassword verifies the current password before updating to a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	// Changing the password invalidates any outstanding refresh credential.
	return s.refresh.DeleteByUser(ctx, userID)
}

func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, expiresAt, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	if err := s.refresh.DeleteByUser(ctx, user.ID); err != nil {
		return nil, err
	}

	cred := &domain.RefreshCredential{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}
	if err := s.refresh.Save(ctx, cred); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:              user,
		AccessToken:       accessToken,
		AccessExpiresAt:   expiresAt,
		RefreshCredential: cred,
	}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, payload map[string]any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.NewEvent(eventType, payload))
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
