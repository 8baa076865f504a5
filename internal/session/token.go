// Package session implements the signed session credential: a compact,
// self-contained proof of payment held by the client as a cookie. The server
// keeps no session store; the credential is the full authority.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie carrying the session credential.
const CookieName = "session_token"

// MinSecretLen guards against trivially brute-forceable HMAC keys.
const MinSecretLen = 32

var (
	ErrSecretTooShort   = fmt.Errorf("session secret must be at least %d bytes", MinSecretLen)
	ErrMalformed        = errors.New("malformed session token")
	ErrInvalidSignature = errors.New("invalid session token signature")
	ErrExpired          = errors.New("session token expired")
	ErrNotPaid          = errors.New("session token not marked paid")
)

// Claims is the minimal claim set bound into a session credential. SessionID
// carries the checkout correlation id; Paid must be true for the credential
// to grant access.
type Claims struct {
	SessionID string `json:"sessionId"`
	Paid      bool   `json:"paid"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session credentials with a process-wide secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec builds a codec. There is deliberately no default secret: a missing
// or short secret is a configuration error, never a silent fallback.
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrSecretTooShort
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &Codec{secret: []byte(secret), ttl: ttl}, nil
}

// TTL reports the credential lifetime, which also sizes the cookie max-age.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue mints a paid credential bound to the given correlation id.
func (c *Codec) Issue(correlationID string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		SessionID: correlationID,
		Paid:      true,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify decodes and validates a credential. It is purely local: signature,
// expiry, and the paid flag are checked with no network or store lookup.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrMalformed
		}
	}

	if !claims.Paid {
		return nil, ErrNotPaid
	}

	return claims, nil
}
