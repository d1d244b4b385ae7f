// Package jwttest issues HS256 access tokens shaped like Supabase ones, for
// tests that exercise the auth middleware without an identity provider.
package jwttest

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sign returns a token for subject that expires after ttl. A negative ttl
// yields an already expired token.
func Sign(secret, subject, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"role": "authenticated",
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	if subject != "" {
		claims["sub"] = subject
	}
	if email != "" {
		claims["email"] = email
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
