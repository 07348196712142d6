package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenClaims represents the typed JWT presented by clients. Identity
// is issued by an external provider; the backend only verifies and scopes.
type AccessTokenClaims struct {
	UserID string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// Identity returns the user id used to scope storage, preferring the
// explicit user_id claim over the registered subject.
func (c *AccessTokenClaims) Identity() string {
	if c == nil {
		return ""
	}
	if uid := strings.TrimSpace(c.UserID); uid != "" {
		return uid
	}
	return strings.TrimSpace(c.Subject)
}
