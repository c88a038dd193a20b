package order

import (
	"context"

	"cardfields/internal/card"
)

// Processors selectable with ORDER_PROCESSOR.
const (
	ProcessorREST   = "rest"
	ProcessorStripe = "stripe"
)

// PaymentSource is the confirm-order payment source. Only cards are sent from
// card fields.
type PaymentSource struct {
	Card card.Values `json:"card"`
}

// ConfirmRequest is the body of a confirm-payment-source call.
type ConfirmRequest struct {
	PaymentSource PaymentSource `json:"payment_source"`
}

// ConfirmOptions carries per-call credentials.
type ConfirmOptions struct {
	FacilitatorAccessToken string
	PartnerAttributionID   string
}

// OrderData is the confirmed order. Raw keeps every field of the response so
// it can be passed on to onApprove.
type OrderData struct {
	ID     string                 `json:"id"`
	Status string                 `json:"status"`
	Raw    map[string]interface{} `json:"-"`
}

// Gateway confirms an order with a card payment source.
type Gateway interface {
	ConfirmOrder(ctx context.Context, orderID string, req ConfirmRequest, opts ConfirmOptions) (*OrderData, error)
}
