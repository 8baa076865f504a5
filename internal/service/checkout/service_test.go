package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amandalabs/amanda-chat/backend/internal/payment"
	"github.com/amandalabs/amanda-chat/backend/internal/session"
)

type fakeGateway struct {
	checkout payment.Checkout
	tx       payment.Transaction
	err      error
}

func (g *fakeGateway) CreateCheckout(context.Context) (payment.Checkout, error) {
	return g.checkout, g.err
}

func (g *fakeGateway) RetrieveTransaction(context.Context, string) (payment.Transaction, error) {
	return g.tx, g.err
}

func newTestService(t *testing.T, gateway payment.Gateway) (*Service, *session.Codec) {
	t.Helper()
	codec, err := session.NewCodec("0123456789abcdef0123456789abcdef", 24*time.Hour)
	if err != nil {
		t.Fatalf("NewCodec err: %v", err)
	}
	return NewService(gateway, codec), codec
}

func paidTransaction(correlationID string) payment.Transaction {
	return payment.Transaction{
		ID:       "cs_test_123",
		Status:   payment.StatusPaid,
		Metadata: map[string]string{payment.MetadataCorrelationKey: correlationID},
	}
}

func TestCompleteSessionIssuesCredential(t *testing.T) {
	gateway := &fakeGateway{tx: paidTransaction("corr-1")}
	svc, codec := newTestService(t, gateway)

	token, err := svc.CompleteSession(context.Background(), "cs_test_123", "corr-1")
	if err != nil {
		t.Fatalf("CompleteSession err: %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify err: %v", err)
	}
	if claims.SessionID != "corr-1" || !claims.Paid {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestCompleteSessionRejectsUnpaid(t *testing.T) {
	for _, status := range []payment.Status{payment.StatusPending, payment.StatusFailed} {
		tx := paidTransaction("corr-1")
		tx.Status = status
		svc, _ := newTestService(t, &fakeGateway{tx: tx})

		_, err := svc.CompleteSession(context.Background(), "cs_test_123", "corr-1")
		if !errors.Is(err, ErrPaymentNotCompleted) {
			t.Fatalf("status=%s: expected ErrPaymentNotCompleted, got %v", status, err)
		}
	}
}

func TestCompleteSessionRejectsCorrelationMismatch(t *testing.T) {
	// Paid transaction, but the presented id belongs to another checkout.
	svc, _ := newTestService(t, &fakeGateway{tx: paidTransaction("corr-1")})

	_, err := svc.CompleteSession(context.Background(), "cs_test_123", "corr-other")
	if !errors.Is(err, ErrCorrelationMismatch) {
		t.Fatalf("expected ErrCorrelationMismatch, got %v", err)
	}
}

func TestCompleteSessionPropagatesGatewayErrors(t *testing.T) {
	svc, _ := newTestService(t, &fakeGateway{err: payment.ErrGatewayUnavailable})

	_, err := svc.CompleteSession(context.Background(), "cs_test_123", "corr-1")
	if !errors.Is(err, payment.ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
}

func TestStartCheckoutReturnsHostedURL(t *testing.T) {
	gateway := &fakeGateway{checkout: payment.Checkout{
		TransactionID: "cs_test_123",
		URL:           "https://pay.example/cs_test_123",
		CorrelationID: "corr-1",
	}}
	svc, _ := newTestService(t, gateway)

	url, err := svc.StartCheckout(context.Background())
	if err != nil {
		t.Fatalf("StartCheckout err: %v", err)
	}
	if url != "https://pay.example/cs_test_123" {
		t.Fatalf("unexpected url: %s", url)
	}
}
