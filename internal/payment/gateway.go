// Package payment wraps the external payment processor behind a small
// gateway interface so the session issuer never sees processor types.
package payment

import (
	"context"
	"errors"
)

// Status is the normalized payment state of a checkout transaction.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
	StatusFailed  Status = "failed"
)

// MetadataCorrelationKey is the metadata field binding a checkout transaction
// to the session credential later minted for it.
const MetadataCorrelationKey = "correlationId"

var (
	ErrTransactionNotFound = errors.New("checkout transaction not found")
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")
)

// Checkout is the result of initiating a hosted checkout.
type Checkout struct {
	TransactionID string
	URL           string
	CorrelationID string
}

// Transaction is the processor-side record of one payment attempt.
type Transaction struct {
	ID       string
	Status   Status
	Metadata map[string]string
}

// Gateway creates hosted checkout transactions and retrieves their state.
// Creation is remote and billable; callers must not retry it blindly.
type Gateway interface {
	CreateCheckout(ctx context.Context) (Checkout, error)
	RetrieveTransaction(ctx context.Context, transactionID string) (Transaction, error)
}
