// file: internals/helpers/auth/jwt_token.go
package helper

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var (
	ErrMissingSecret = errors.New("jwt secret is empty")
	ErrInvalidToken  = errors.New("invalid token")
)

// AccessClaims adalah isi credential: {id, role, class_id, name} + exp/iat.
type AccessClaims struct {
	ID      uuid.UUID  `json:"id"`
	Role    string     `json:"role"`
	ClassID *uuid.UUID `json:"class_id"`
	Name    string     `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken menandatangani credential HS256 dengan masa berlaku ttl.
func IssueToken(secret string, id Identity, ttl time.Duration, now time.Time) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", ErrMissingSecret
	}
	claims := AccessClaims{
		ID:      id.UserID,
		Role:    id.Role,
		ClassID: id.ClassID,
		Name:    id.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken memverifikasi signature + exp dan mengembalikan identity.
func ParseToken(secret, raw string) (Identity, error) {
	if strings.TrimSpace(secret) == "" {
		return Identity{}, ErrMissingSecret
	}
	claims := &AccessClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid || claims.ID == uuid.Nil || strings.TrimSpace(claims.Role) == "" {
		return Identity{}, ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return Identity{}, fmt.Errorf("%w: token has no exp", ErrInvalidToken)
	}
	return Identity{
		UserID:  claims.ID,
		Role:    claims.Role,
		ClassID: claims.ClassID,
		Name:    claims.Name,
	}, nil
}
