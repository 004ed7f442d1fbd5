package adapter

import "context"

// OrderGateway is the hex port for the external payment provider.
//
// CreateOrder registers a payable order on the provider side and returns its
// id. The core calls it only for non-zero amounts, exactly once per purchase
// initiation, and persists the returned id before answering the caller.
// Amounts are in minor units (paise for INR).
type OrderGateway interface {
	Name() string
	// KeyID is the public key the browser checkout widget needs.
	KeyID() string
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (orderID string, err error)
	// VerifyWebhookSignature authenticates a provider callback against the
	// exact raw request body. It must be consulted before any payload field
	// is parsed or trusted.
	VerifyWebhookSignature(payload []byte, signature string) bool
}
