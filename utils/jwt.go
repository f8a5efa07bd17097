package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zachbush96/TipTracker/config"
	"github.com/zachbush96/TipTracker/models"
)

// SupabaseClaims mirrors the access tokens the identity provider issues:
// HS256-signed JWTs carrying the user's UUID in sub, the email, and the
// display name inside user_metadata.
type SupabaseClaims struct {
	Email        string `json:"email"`
	UserMetadata struct {
		Name string `json:"name"`
	} `json:"user_metadata"`
	jwt.RegisteredClaims
}

var errInvalidToken = errors.New("invalid token claims")

// ParseAccessToken verifies a provider access token with the shared secret
// and returns the asserted identity.
func ParseAccessToken(tokenStr string) (*models.AuthIdentity, *SupabaseClaims, error) {
	cfg := config.Get()
	parsed, err := jwt.ParseWithClaims(tokenStr, &SupabaseClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, nil, err
	}

	claims, ok := parsed.Claims.(*SupabaseClaims)
	if !ok || !parsed.Valid {
		return nil, nil, errInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, nil, errInvalidToken
	}

	return &models.AuthIdentity{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.UserMetadata.Name,
	}, claims, nil
}

// GenerateAccessToken issues a token in the provider's format. Used by tests
// and local tooling; production tokens come from the provider itself.
func GenerateAccessToken(ident models.AuthIdentity, duration time.Duration) (string, error) {
	cfg := config.Get()

	claims := SupabaseClaims{
		Email: ident.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ident.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	claims.UserMetadata.Name = ident.Name

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}
