// Package token mints and verifies the signed identity credential a
// successful login hands back to the client. The decoded Identity is
// produced once per request and threaded through, never re-decoded.
package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avorobev/storefront/internal/role"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the decoded subject of a verified token.
type Identity struct {
	UserID uint
	Role   role.Role
}

// Identity resolves the claims into a value object, normalizing the
// role casing carried by the token.
func (c *Claims) Identity() (Identity, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	r, ok := role.Normalize(c.Role)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: uint(id), Role: r}, nil
}

func Sign(userID uint, userRole string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: userRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func Parse(raw string, secret []byte) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
