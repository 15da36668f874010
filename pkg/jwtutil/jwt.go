package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"notes-service/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.JWTConfig

// UserClaims represents the JWT claims for user authentication. The token is
// self-contained: possession of a valid, unexpired token is authentication,
// there is no server-side session store.
type UserClaims struct {
	UserID     uint   `json:"user_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	TenantID   uint   `json:"tenant_id"`
	TenantSlug string `json:"tenant_slug"`
	jwt.RegisteredClaims
}

// Initialize sets the JWT configuration used for signing and validation
func Initialize(jwtConfig *config.JWTConfig) {
	cfg = jwtConfig
}

// GenerateToken creates a signed JWT carrying the user's identity and tenant
// context, expiring after the configured number of hours.
func GenerateToken(userID uint, email, role string, tenantID uint, tenantSlug string) (string, error) {
	if cfg == nil {
		return "", errors.New("JWT configuration not provided")
	}

	claims := UserClaims{
		UserID:     userID,
		Email:      email,
		Role:       role,
		TenantID:   tenantID,
		TenantSlug: tenantSlug,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(cfg.ExpirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.SigningKey))
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	if cfg == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&UserClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(cfg.SigningKey), nil
		},
	)

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
