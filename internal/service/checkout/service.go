// Package checkout turns a verified payment into a session credential.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/amandalabs/amanda-chat/backend/internal/payment"
	"github.com/amandalabs/amanda-chat/backend/internal/session"
)

var (
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrCorrelationMismatch = errors.New("correlation id mismatch")
)

// Service orchestrates the payment gateway and the credential codec.
type Service struct {
	gateway payment.Gateway
	codec   *session.Codec
}

// NewService wires the issuer to its gateway and codec.
func NewService(gateway payment.Gateway, codec *session.Codec) *Service {
	return &Service{gateway: gateway, codec: codec}
}

// StartCheckout opens a hosted payment page and returns its URL.
func (s *Service) StartCheckout(ctx context.Context) (string, error) {
	checkout, err := s.gateway.CreateCheckout(ctx)
	if err != nil {
		return "", fmt.Errorf("create checkout: %w", err)
	}

	log.Printf("[checkout] created transaction=%s", checkout.TransactionID)
	return checkout.URL, nil
}

// CompleteSession verifies a finished checkout and mints the session
// credential. The presented correlation id arrives via the success redirect;
// it must match the id stored in the transaction metadata, otherwise a caller
// could mint a credential from any unrelated paid transaction.
func (s *Service) CompleteSession(ctx context.Context, transactionID, presentedCorrelationID string) (string, error) {
	tx, err := s.gateway.RetrieveTransaction(ctx, transactionID)
	if err != nil {
		return "", fmt.Errorf("retrieve transaction: %w", err)
	}

	if tx.Status != payment.StatusPaid {
		log.Printf("[checkout] transaction=%s rejected: status=%s", transactionID, tx.Status)
		return "", ErrPaymentNotCompleted
	}

	if tx.Metadata[payment.MetadataCorrelationKey] != presentedCorrelationID {
		log.Printf("[checkout] transaction=%s rejected: correlation mismatch", transactionID)
		return "", ErrCorrelationMismatch
	}

	token, err := s.codec.Issue(presentedCorrelationID)
	if err != nil {
		return "", fmt.Errorf("issue credential: %w", err)
	}

	log.Printf("[checkout] transaction=%s verified, credential issued", transactionID)
	return token, nil
}

// CookieTTL exposes the credential lifetime for the HTTP cookie.
func (s *Service) CookieTTL() int {
	return int(s.codec.TTL().Seconds())
}
