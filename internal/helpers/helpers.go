package helpers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	EventsFolder = "events"
)

type CustomClaims struct {
	Role        string `json:"role"`
	Email       string `json:"email"`
	AppMetadata struct {
		Provider  string   `json:"provider"`
		Providers []string `json:"providers"`
	} `json:"app_metadata"`
	jwt.RegisteredClaims
}

// TokenValidator verifies access tokens either against a remote JWKS (e.g.
// Supabase Auth) or against an HS256 shared secret.
type TokenValidator struct {
	jwks   *keyfunc.JWKS
	secret []byte
}

// NewTokenValidator fetches the JWKS once when jwksURL is set; keys are then
// refreshed in the background until Close is called.
func NewTokenValidator(ctx context.Context, jwksURL, secret string) (*TokenValidator, error) {
	if jwksURL == "" && secret == "" {
		return nil, errors.New("either a JWKS URL or a JWT secret is required")
	}

	tv := &TokenValidator{secret: []byte(secret)}
	if jwksURL == "" {
		return tv, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS from %s: %v", jwksURL, err)
	}
	tv.jwks = jwks
	return tv, nil
}

func (tv *TokenValidator) keyfunc(token *jwt.Token) (any, error) {
	if tv.jwks != nil {
		return tv.jwks.Keyfunc(token)
	}
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return tv.secret, nil
}

func (tv *TokenValidator) ValidateToken(tokenStr string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, tv.keyfunc)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	return claims, nil
}

func (tv *TokenValidator) Close() {
	if tv.jwks != nil {
		tv.jwks.EndBackground()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer ..." value.
func BearerToken(header string) (string, bool) {
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func StringTrim(s string) string {
	return strings.TrimSpace(s)
}
