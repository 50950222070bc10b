// Package token extracts identity claims from a forwarded bearer token for
// log annotation. The gateway never verifies signatures; the backend is the
// sole authority on token validity, and nothing here may be used for
// authorization decisions.
package token

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// Identity holds the claims the gateway logs alongside proxied requests.
type Identity struct {
	Subject string
	Email   string
}

// FromAuthHeader parses the claims of a bearer token without verifying it.
// It returns false for a missing, malformed, or claimless token.
func FromAuthHeader(auth string) (Identity, bool) {
	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	if raw == "" {
		return Identity{}, false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return Identity{}, false
	}

	var id Identity
	if sub, ok := claims["sub"].(string); ok {
		id.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		id.Email = email
	}
	if id.Subject == "" && id.Email == "" {
		return Identity{}, false
	}
	return id, true
}

// FromRequest extracts the identity from a request's Authorization header.
func FromRequest(r *http.Request) (Identity, bool) {
	return FromAuthHeader(r.Header.Get("Authorization"))
}
