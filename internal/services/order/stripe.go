package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cardfields/internal/card"
	apperrors "cardfields/internal/errors"
	"cardfields/internal/metrics"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

// PaymentsAPI is the subset of the Stripe API used to confirm an order. The
// order ID is the PaymentIntent ID.
type PaymentsAPI interface {
	NewPaymentMethod(params *stripe.PaymentMethodParams) (*stripe.PaymentMethod, error)
	ConfirmPaymentIntent(id string, params *stripe.PaymentIntentConfirmParams) (*stripe.PaymentIntent, error)
}

type stripeClient struct {
	api *client.API
}

// NewStripeAPI wraps a Stripe client for the given secret key.
func NewStripeAPI(secretKey string) PaymentsAPI {
	return &stripeClient{api: client.New(secretKey, nil)}
}

func (c *stripeClient) NewPaymentMethod(params *stripe.PaymentMethodParams) (*stripe.PaymentMethod, error) {
	return c.api.PaymentMethods.New(params)
}

func (c *stripeClient) ConfirmPaymentIntent(id string, params *stripe.PaymentIntentConfirmParams) (*stripe.PaymentIntent, error) {
	return c.api.PaymentIntents.Confirm(id, params)
}

type stripeGateway struct {
	api     PaymentsAPI
	metrics metrics.MetricsCollector
}

// NewStripeGateway confirms orders as Stripe PaymentIntents.
func NewStripeGateway(api PaymentsAPI, m metrics.MetricsCollector) Gateway {
	if m == nil {
		m = &metrics.NoopMetricsCollector{}
	}
	return &stripeGateway{api: api, metrics: m}
}

func (g *stripeGateway) ConfirmOrder(ctx context.Context, orderID string, req ConfirmRequest, opts ConfirmOptions) (*OrderData, error) {
	start := time.Now()
	defer func() { g.metrics.RecordGatewayDuration("order_confirm_stripe", time.Since(start)) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pmParams, err := paymentMethodParams(req.PaymentSource.Card)
	if err != nil {
		return nil, err
	}
	pmParams.Context = ctx

	pm, err := g.api.NewPaymentMethod(pmParams)
	if err != nil {
		g.metrics.RecordError("order_confirm_stripe", apperrors.CodeUpstreamRejection)
		return nil, apperrors.Upstream(fmt.Errorf("create payment method: %w", err))
	}

	confirm := &stripe.PaymentIntentConfirmParams{PaymentMethod: stripe.String(pm.ID)}
	confirm.Context = ctx
	if opts.PartnerAttributionID != "" {
		confirm.AddMetadata("partner_attribution_id", opts.PartnerAttributionID)
	}

	pi, err := g.api.ConfirmPaymentIntent(orderID, confirm)
	if err != nil {
		g.metrics.RecordError("order_confirm_stripe", apperrors.CodeUpstreamRejection)
		return nil, apperrors.Upstream(fmt.Errorf("confirm payment intent %s: %w", orderID, err))
	}

	return &OrderData{
		ID:     pi.ID,
		Status: string(pi.Status),
		Raw: map[string]interface{}{
			"id":             pi.ID,
			"status":         string(pi.Status),
			"payment_method": pm.ID,
		},
	}, nil
}

// paymentMethodParams converts the order card values (expiry YYYY-MM) to
// Stripe card params.
func paymentMethodParams(v card.Values) (*stripe.PaymentMethodParams, error) {
	year, month, ok := strings.Cut(v.Expiry, "-")
	if !ok || year == "" || month == "" {
		return nil, apperrors.FieldsUnavailable("Card expiry is not in YYYY-MM form")
	}

	params := &stripe.PaymentMethodParams{
		Type: stripe.String("card"),
		Card: &stripe.PaymentMethodCardParams{
			Number:   stripe.String(v.Number),
			ExpMonth: stripe.String(month),
			ExpYear:  stripe.String(year),
			CVC:      stripe.String(v.SecurityCode),
		},
	}
	if v.Name != "" {
		params.BillingDetails = &stripe.BillingDetailsParams{Name: stripe.String(v.Name)}
	}
	return params, nil
}
