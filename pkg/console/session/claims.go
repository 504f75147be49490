package session

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded payload of an access token. It is always derived
// from the token string, never set independently; a token that fails to
// decode tears the whole session down.
type Claims struct {
	UserID         string
	Role           string
	OrganizationID *string
	Email          string
	ExpiresAt      time.Time
}

// Expired reports whether the access token is past its expiry.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

type tokenPayload struct {
	UserID         string  `json:"sub"`
	Role           string  `json:"role"`
	OrganizationID *string `json:"org_id,omitempty"`
	Email          string  `json:"email"`
	jwt.RegisteredClaims
}

// decodeClaims parses the token payload without verifying the signature.
// Verification happens server-side; the client only needs the claims.
func decodeClaims(token string) (*Claims, error) {
	var payload tokenPayload
	if _, _, err := jwt.NewParser().ParseUnverified(token, &payload); err != nil {
		return nil, err
	}
	if payload.UserID == "" || payload.Role == "" {
		return nil, errors.New("token missing required claims")
	}

	claims := &Claims{
		UserID:         payload.UserID,
		Role:           payload.Role,
		OrganizationID: payload.OrganizationID,
		Email:          payload.Email,
	}
	if payload.ExpiresAt != nil {
		claims.ExpiresAt = payload.ExpiresAt.Time
	}
	return claims, nil
}
