package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := NewCodec(testSecret, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewCodec err: %v", err)
	}
	return codec
}

func TestNewCodecRejectsShortSecret(t *testing.T) {
	if _, err := NewCodec("short", time.Hour); !errors.Is(err, ErrSecretTooShort) {
		t.Fatalf("expected ErrSecretTooShort, got %v", err)
	}
	if _, err := NewCodec("", time.Hour); !errors.Is(err, ErrSecretTooShort) {
		t.Fatalf("expected ErrSecretTooShort for empty secret, got %v", err)
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Issue("corr-123")
	if err != nil {
		t.Fatalf("Issue err: %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify err: %v", err)
	}
	if claims.SessionID != "corr-123" {
		t.Fatalf("unexpected session id: %s", claims.SessionID)
	}
	if !claims.Paid {
		t.Fatal("expected paid claim to be true")
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < 23*time.Hour || remaining > 24*time.Hour {
		t.Fatalf("expected ~24h expiry, got %v", remaining)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Issue("corr-123")
	if err != nil {
		t.Fatalf("Issue err: %v", err)
	}

	// Flip one character in the payload segment.
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := codec.Verify(tampered); err == nil {
		t.Fatal("expected tampered token to be rejected")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	codec := newTestCodec(t)
	other, err := NewCodec("ffffffffffffffffffffffffffffffff", 24*time.Hour)
	if err != nil {
		t.Fatalf("NewCodec err: %v", err)
	}

	token, err := other.Issue("corr-123")
	if err != nil {
		t.Fatalf("Issue err: %v", err)
	}

	if _, err := codec.Verify(token); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	codec := newTestCodec(t)

	// Back-date a token signed with the same secret.
	issued := time.Now().UTC().Add(-48 * time.Hour)
	claims := Claims{
		SessionID: "corr-123",
		Paid:      true,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(24 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	if _, err := codec.Verify(token); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestVerifyRejectsUnpaidClaims(t *testing.T) {
	codec := newTestCodec(t)

	now := time.Now().UTC()
	claims := Claims{
		SessionID: "corr-123",
		Paid:      false,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	if _, err := codec.Verify(token); !errors.Is(err, ErrNotPaid) {
		t.Fatalf("expected ErrNotPaid, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	codec := newTestCodec(t)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := codec.Verify(token); !errors.Is(err, ErrMalformed) {
			t.Fatalf("expected ErrMalformed for %q, got %v", token, err)
		}
	}
}
