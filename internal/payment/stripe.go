package payment

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/amandalabs/amanda-chat/backend/internal/config"
)

// StripeGateway implements Gateway on top of Stripe hosted checkout sessions.
type StripeGateway struct {
	api *client.API
	cfg config.PaymentConfig
}

// NewStripeGateway builds a client-scoped Stripe gateway.
func NewStripeGateway(cfg config.PaymentConfig) *StripeGateway {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &StripeGateway{api: api, cfg: cfg}
}

// NewStripeGatewayWithBackends is used by tests to point the SDK at a local
// stand-in server.
func NewStripeGatewayWithBackends(cfg config.PaymentConfig, backends *stripe.Backends) *StripeGateway {
	api := &client.API{}
	api.Init(cfg.SecretKey, backends)
	return &StripeGateway{api: api, cfg: cfg}
}

// CreateCheckout generates a fresh correlation id and opens a hosted payment
// page for the configured product. The correlation id travels twice: embedded
// in the transaction metadata and as a query parameter on the success URL,
// so the callback can prove the two belong together.
func (g *StripeGateway) CreateCheckout(ctx context.Context) (Checkout, error) {
	correlationID := uuid.NewString()

	// {CHECKOUT_SESSION_ID} is substituted by Stripe on redirect.
	successURL := fmt.Sprintf("%s/api/checkout/callback?transaction_id={CHECKOUT_SESSION_ID}&correlation_id=%s",
		g.cfg.BaseURL, correlationID)

	params := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(g.cfg.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(g.cfg.ProductName),
						Description: stripe.String(g.cfg.ProductDescription),
					},
					UnitAmount: stripe.Int64(g.cfg.AmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(g.cfg.BaseURL),
	}
	params.AddMetadata(MetadataCorrelationKey, correlationID)

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		log.Printf("[payment] checkout creation failed: %v", err)
		return Checkout{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	return Checkout{
		TransactionID: sess.ID,
		URL:           sess.URL,
		CorrelationID: correlationID,
	}, nil
}

// RetrieveTransaction fetches the current state of a checkout session.
func (g *StripeGateway) RetrieveTransaction(ctx context.Context, transactionID string) (Transaction, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
	}

	sess, err := g.api.CheckoutSessions.Get(transactionID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && (stripeErr.HTTPStatusCode == 404 || stripeErr.Code == stripe.ErrorCodeResourceMissing) {
			return Transaction{}, ErrTransactionNotFound
		}
		log.Printf("[payment] transaction retrieval failed: %v", err)
		return Transaction{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	return Transaction{
		ID:       sess.ID,
		Status:   mapPaymentStatus(sess.PaymentStatus),
		Metadata: sess.Metadata,
	}, nil
}

// mapPaymentStatus normalizes Stripe's payment_status. Only "paid" mints a
// credential; "unpaid" means the buyer may still complete an async method.
func mapPaymentStatus(status stripe.CheckoutSessionPaymentStatus) Status {
	switch status {
	case stripe.CheckoutSessionPaymentStatusPaid:
		return StatusPaid
	case stripe.CheckoutSessionPaymentStatusUnpaid:
		return StatusPending
	default:
		return StatusFailed
	}
}
