package util

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims carries only the user id (as the subject). Role and profile are
// re-read from storage on every request.
type Claims struct {
	UserID uint `json:"-"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 bearer token for userID valid for ttl.
func GenerateToken(userID uint, secret string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken verifies signature and expiry and returns the parsed claims.
func ValidateToken(tokenString, secret string) (*Claims, error) {
	var registered jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &registered, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	id, err := strconv.ParseUint(registered.Subject, 10, 64)
	if err != nil || id == 0 {
		return nil, ErrInvalidToken
	}

	return &Claims{UserID: uint(id), RegisteredClaims: registered}, nil
}

// RemainingLifetime is how long the token stays valid from now; zero if already expired.
func (c *Claims) RemainingLifetime() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	d := time.Until(c.ExpiresAt.Time)
	if d < 0 {
		return 0
	}
	return d
}
