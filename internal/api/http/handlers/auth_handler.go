package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ajay-verma30/Neil-admin-sub000/internal/api/dto"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/auth"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/config"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/domain"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/service"
	apperrors "github.com/ajay-verma30/Neil-admin-sub000/pkg/util"
)

// AuthHandler exposes login, refresh, and logout endpoints. The refresh
// credential travels in an HTTP-only cookie, out of band of the JSON body.
type AuthHandler struct {
	auth *service.AuthService
	cfg  config.AuthConfig
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{auth: authService, cfg: cfg}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	result, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return apperrors.NewUnauthorized("invalid credentials")
		}
		return apperrors.MapError(err)
	}

	h.setRefreshCookie(c, result.RefreshCredential)
	return c.JSON(fiber.Map{"data": authResponse(result)})
}

// Refresh handles POST /auth/refresh. The credential is rotated on every
// successful call; a rejected credential clears the cookie so the client
// lands cleanly on login.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies(h.cfg.RefreshCookieName)
	if refreshToken == "" {
		return apperrors.NewUnauthorized("missing refresh credential")
	}

	result, err := h.auth.Refresh(c.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, service.ErrRefreshRejected) {
			h.clearRefreshCookie(c)
			return apperrors.NewUnauthorized("refresh rejected")
		}
		return apperrors.MapError(err)
	}

	h.setRefreshCookie(c, result.RefreshCredential)
	return c.JSON(fiber.Map{"data": authResponse(result)})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	refreshToken := c.Cookies(h.cfg.RefreshCookieName)
	if err := h.auth.Logout(c.Context(), refreshToken); err != nil {
		return apperrors.MapError(err)
	}
	h.clearRefreshCookie(c)
	return c.SendStatus(http.StatusNoContent)
}

// ChangePassword handles POST /auth/password/change for authenticated users.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("current and new password required", nil)
	}

	if err := h.auth.ChangePassword(c.Context(), principal.User.ID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return apperrors.NewUnauthorized("invalid credentials")
		}
		return apperrors.MapError(err)
	}
	h.clearRefreshCookie(c)
	return c.SendStatus(http.StatusNoContent)
}

func authResponse(result *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		Token:          result.AccessToken,
		ExpiresAt:      result.AccessExpiresAt,
		Role:           string(result.User.Role),
		OrganizationID: result.User.OrganizationID,
	}
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, cred *domain.RefreshCredential) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.RefreshCookieName,
		Value:    cred.Token,
		Expires:  cred.ExpiresAt,
		Path:     "/auth",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.RefreshCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		Path:     "/auth",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
