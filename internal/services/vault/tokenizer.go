package vault

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cardfields/internal/card"
	apperrors "cardfields/internal/errors"
	"cardfields/internal/metrics"
	"cardfields/internal/restapi"
)

// Tokenizer exchanges card details for a reusable payment method token.
type Tokenizer interface {
	TokenizeCard(ctx context.Context, accessToken string, c card.Card) (string, error)
}

type paymentTokenResponse struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
}

type restTokenizer struct {
	client  *restapi.Client
	metrics metrics.MetricsCollector
}

// NewTokenizer creates a tokenizer backed by the payment tokens endpoint.
func NewTokenizer(client *restapi.Client, m metrics.MetricsCollector) Tokenizer {
	if m == nil {
		m = &metrics.NoopMetricsCollector{}
	}
	return &restTokenizer{client: client, metrics: m}
}

func (t *restTokenizer) TokenizeCard(ctx context.Context, accessToken string, c card.Card) (string, error) {
	start := time.Now()
	defer func() { t.metrics.RecordGatewayDuration("tokenize", time.Since(start)) }()

	vc := card.NewVaultCard(c)
	vc.Expiry = card.ReformatExpiry(c.Expiry)

	var resp paymentTokenResponse
	_, err := t.client.Do(ctx, restapi.Request{
		Method: http.MethodPost,
		Path:   "/v3/vault/payment-tokens",
		Body:   updateRequest{PaymentSource: PaymentSource{Card: &vc}},
		Auth:   restapi.Bearer(accessToken),
	}, &resp)
	if err != nil {
		t.metrics.RecordError("tokenize", apperrors.CodeUpstreamRejection)
		return "", apperrors.Upstream(fmt.Errorf("tokenize card: %w", err))
	}
	if resp.ID == "" {
		return "", apperrors.Upstream(errors.New("tokenize card: response did not include a payment token"))
	}
	return resp.ID, nil
}
