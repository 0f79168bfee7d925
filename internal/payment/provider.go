package payment

import "context"

// Charge statuses reported by providers.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// ChargeInput holds the parameters for charging a payment. Amount is in the
// currency's minor unit (paise for INR). IdempotencyKey lets the provider
// deduplicate retried charges; the order pipeline passes the order ID.
type ChargeInput struct {
	Amount         int64
	Currency       string
	Description    string
	IdempotencyKey string
}

// ChargeResult holds the result of a charge operation from the provider.
type ChargeResult struct {
	ChargeID      string
	Status        string
	FailureReason string
}

// Provider defines the interface for payment provider integrations.
type Provider interface {
	// Name returns the provider name (e.g., "mock", "gateway").
	Name() string

	// Charge processes a payment charge through the provider.
	Charge(ctx context.Context, input *ChargeInput) (*ChargeResult, error)
}
