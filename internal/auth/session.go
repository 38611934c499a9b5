// Package auth mints and verifies the signed session cookie. The app is
// single-user, so a valid signature with the expected issuer and subject is
// the whole session model.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer          = "guitar-harmony-api"
	sessionSubject  = "owner"
	minSecretLength = 16
	SessionTTL      = 30 * 24 * time.Hour
	SessionCookie   = "auth"
)

type Sessions struct {
	secret []byte
}

func NewSessions(secret string) (*Sessions, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("session secret is required")
	}
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("session secret must be at least %d characters", minSecretLength)
	}
	return &Sessions{secret: []byte(secret)}, nil
}

// Mint creates a signed session token valid for SessionTTL.
func (s *Sessions) Mint() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionSubject,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the signature, algorithm, expiry, issuer, and subject.
func (s *Sessions) Verify(tokenString string) error {
	if strings.TrimSpace(tokenString) == "" {
		return errors.New("token is empty")
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method == nil || token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	if claims.Issuer != issuer {
		return errors.New("invalid token issuer")
	}
	if claims.Subject != sessionSubject {
		return errors.New("invalid token subject")
	}
	return nil
}
