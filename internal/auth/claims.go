package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed identity carried by every authenticated request.
type Claims struct {
	Name     string `json:"name"`
	Admin    bool   `json:"admin"`
	Disabled bool   `json:"disable"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid token")

// Parse verifies raw (optionally prefixed with "Bearer ") against secret.
func Parse(raw string, secret []byte) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if scheme, token, ok := strings.Cut(raw, " "); ok && strings.EqualFold(scheme, "Bearer") {
		raw = strings.TrimSpace(token)
	}
	if raw == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.Name) == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidToken)
	}
	return claims, nil
}

// Sign issues an HS256 token for c. A zero ttl issues a non-expiring token.
func Sign(c Claims, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	c.Subject = c.Name
	c.IssuedAt = jwt.NewNumericDate(now)
	if ttl != 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, &c).SignedString(secret)
}
