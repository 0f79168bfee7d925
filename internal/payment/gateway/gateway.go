package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/angkushsahu/pacifio-server/internal/payment"
	"github.com/angkushsahu/pacifio-server/pkg/httpclient"
)

// Provider charges payments through an external HTTP payment gateway. Calls
// run behind a retrying client and a circuit breaker, so a flapping gateway
// fails fast instead of piling up requests.
type Provider struct {
	client  *httpclient.CircuitBreakerClient
	baseURL string
	logger  *slog.Logger
}

// NewProvider creates a gateway-backed payment provider.
func NewProvider(baseURL string, logger *slog.Logger) *Provider {
	client := httpclient.New(httpclient.DefaultConfig())
	cb := httpclient.NewCircuitBreakerClient(
		client,
		httpclient.DefaultCircuitBreakerConfig("payment-gateway"),
		logger,
	)

	return &Provider{
		client:  cb,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "gateway"
}

type chargeRequest struct {
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
}

type chargeResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	FailureReason string `json:"failureReason"`
}

// Charge posts a charge to the gateway. The idempotency key travels as the
// Idempotency-Key header so retried charges of the same order collapse into
// one capture.
func (p *Provider) Charge(ctx context.Context, input *payment.ChargeInput) (*payment.ChargeResult, error) {
	body, err := json.Marshal(chargeRequest{
		Amount:      input.Amount,
		Currency:    input.Currency,
		Description: input.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal charge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/charges", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create charge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if input.IdempotencyKey != "" {
		req.Header.Set("Idempotency-Key", input.IdempotencyKey)
	}

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("charge via gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpclient.ParseResponseError(resp, "payment-gateway")
	}

	var cr chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("decode charge response: %w", err)
	}

	p.logger.DebugContext(ctx, "gateway charge completed",
		slog.String("charge_id", cr.ID),
		slog.String("status", cr.Status),
	)

	return &payment.ChargeResult{
		ChargeID:      cr.ID,
		Status:        cr.Status,
		FailureReason: cr.FailureReason,
	}, nil
}
