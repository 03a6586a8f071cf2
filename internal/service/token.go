package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and checks the stateless bearer tokens used by the
// auth gate. There is no revocation: a token stays valid until its expiry.
type TokenService struct {
	Secret []byte
	TTL    time.Duration
}

func hs256Key(secret []byte) jwt.Keyfunc {
	return func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	}
}

func (s *TokenService) Issue(username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// ExtractSubject verifies the signature and returns the subject claim
// without validating expiry, so callers can name the identity before the
// full check runs.
func (s *TokenService) ExtractSubject(tokenStr string) (string, error) {
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	tkn, err := parser.ParseWithClaims(tokenStr, &claims, hs256Key(s.Secret))
	if err != nil {
		return "", err
	}
	if !tkn.Valid || claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

// Validate fails closed: false on a bad signature, malformed token,
// subject mismatch, or expiry.
func (s *TokenService) Validate(tokenStr, expectedUsername string) bool {
	var claims jwt.RegisteredClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, hs256Key(s.Secret))
	if err != nil || !tkn.Valid {
		return false
	}
	return claims.Subject == expectedUsername
}
