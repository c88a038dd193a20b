// Package order confirms orders with the card collected by card fields.
package order

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	apperrors "cardfields/internal/errors"
	"cardfields/internal/metrics"
	"cardfields/internal/restapi"
)

type restGateway struct {
	client  *restapi.Client
	metrics metrics.MetricsCollector
}

// NewRESTGateway confirms orders through the orders API.
func NewRESTGateway(client *restapi.Client, m metrics.MetricsCollector) Gateway {
	if m == nil {
		m = &metrics.NoopMetricsCollector{}
	}
	return &restGateway{client: client, metrics: m}
}

func (g *restGateway) ConfirmOrder(ctx context.Context, orderID string, req ConfirmRequest, opts ConfirmOptions) (*OrderData, error) {
	start := time.Now()
	defer func() { g.metrics.RecordGatewayDuration("order_confirm", time.Since(start)) }()

	body, err := g.client.Do(ctx, restapi.Request{
		Method:               http.MethodPost,
		Path:                 "/v2/checkout/orders/" + url.PathEscape(orderID) + "/confirm-payment-source",
		Body:                 req,
		Auth:                 restapi.Bearer(opts.FacilitatorAccessToken),
		PartnerAttributionID: opts.PartnerAttributionID,
	}, nil)
	if err != nil {
		g.metrics.RecordError("order_confirm", apperrors.CodeUpstreamRejection)
		return nil, apperrors.Upstream(fmt.Errorf("confirm order %s: %w", orderID, err))
	}

	data := &OrderData{Raw: map[string]interface{}{}}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &data.Raw); err != nil {
			return nil, apperrors.Upstream(fmt.Errorf("decode confirmed order: %w", err))
		}
	}
	data.ID, _ = data.Raw["id"].(string)
	data.Status, _ = data.Raw["status"].(string)
	return data, nil
}
