// Package auth issues and verifies the nonces that guard the generation endpoint. A nonce is
// an HS256 JWT bound to an action and a subject, with a fixed lifetime.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Actions a nonce can be issued for.
const (
	ActionREST     = "wp_rest"
	ActionPublicAI = "gmkb_public_ai"
)

var (
	ErrInvalidNonce = errors.New("invalid nonce")
	ErrExpiredNonce = errors.New("nonce expired")
	ErrWrongAction  = errors.New("nonce was issued for another action")
)

type nonceClaims struct {
	Action string `json:"act"`
	jwt.RegisteredClaims
}

// NonceManager signs and checks nonces with a shared secret.
type NonceManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewNonceManager(secret string, ttl time.Duration) *NonceManager {
	return &NonceManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (m *NonceManager) WithClock(now func() time.Time) *NonceManager {
	m.now = now
	return m
}

// Issue returns a nonce for action and subject (a user id or a client address).
func (m *NonceManager) Issue(action, subject string) (string, error) {
	now := m.now()
	claims := nonceClaims{
		Action: action,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks the signature, lifetime and action of a nonce and returns its subject.
func (m *NonceManager) Verify(tokenString, action string) (string, error) {
	if tokenString == "" {
		return "", ErrInvalidNonce
	}

	var claims nonceClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredNonce
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidNonce, err)
	}
	if !token.Valid {
		return "", ErrInvalidNonce
	}
	if claims.Action != action {
		return "", ErrWrongAction
	}
	return claims.Subject, nil
}
