package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim from a JWT without verifying the signature.
// The client is not the token's audience validator; it only needs to know
// whether a stored token is worth presenting at all.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, errors.New("token has no exp claim")
	}
	return exp.Time, nil
}

// TokenExpired reports whether the token's exp claim is in the past. Tokens
// that cannot be parsed are treated as expired.
func TokenExpired(token string) bool {
	exp, err := TokenExpiry(token)
	if err != nil {
		return true
	}
	return time.Now().After(exp)
}
