// Package vault adapts the vault setup token endpoints. Every call is made at
// most once; a failing stage aborts the chain.
package vault

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"cardfields/internal/card"
	apperrors "cardfields/internal/errors"
	"cardfields/internal/metrics"
	"cardfields/internal/restapi"
	"cardfields/internal/services/action"
)

// ErrNotApproved is returned by the legacy update when the response does not
// pass the approval check.
var ErrNotApproved = errors.New("request was not approved")

// Config tunes the gateway.
type Config struct {
	// StrictApproval requires status APPROVED on the legacy update. When false
	// only an empty response body is rejected.
	StrictApproval bool
	// ClientID and ClientSecret authorize calls made without an access token.
	ClientID     string
	ClientSecret string
}

type gateway struct {
	client  *restapi.Client
	metrics metrics.MetricsCollector
	config  Config
}

// NewGateway creates a vault gateway.
func NewGateway(client *restapi.Client, m metrics.MetricsCollector, cfg Config) Gateway {
	if m == nil {
		m = &metrics.NoopMetricsCollector{}
	}
	return &gateway{client: client, metrics: m, config: cfg}
}

// Create obtains a setup token from the action, attaches the payment source
// to it, then hands the token to the action's onApprove.
func (g *gateway) Create(ctx context.Context, p CreateParams) (*CreateResult, error) {
	if p.Action == nil {
		return nil, apperrors.Configuration("a save action is required to vault a payment source")
	}

	token, err := p.Action.CreateVaultSetupToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := g.UpdateSetupToken(ctx, UpdateParams{
		VaultSetupToken:        token,
		FacilitatorAccessToken: p.FacilitatorAccessToken,
		PaymentSource:          p.PaymentSource,
		PartnerAttributionID:   "",
	})
	if err != nil {
		return nil, err
	}

	approval := p.Action.OnApprove(ctx, action.VaultApproval{VaultSetupToken: token})

	return &CreateResult{
		VaultSetupToken: token,
		SetupToken:      resp,
		Approval:        approval,
	}, nil
}

func (g *gateway) UpdateSetupToken(ctx context.Context, p UpdateParams) (*SetupTokenResponse, error) {
	start := time.Now()
	defer func() { g.metrics.RecordGatewayDuration("vault_update", time.Since(start)) }()

	var resp SetupTokenResponse
	_, err := g.client.Do(ctx, restapi.Request{
		Method:               http.MethodPost,
		Path:                 updatePath(p.VaultSetupToken),
		Body:                 updateRequest{PaymentSource: p.PaymentSource},
		Auth:                 g.auth(p.FacilitatorAccessToken),
		PartnerAttributionID: p.PartnerAttributionID,
	}, &resp)
	if err != nil {
		g.metrics.RecordError("vault_update", apperrors.CodeUpstreamRejection)
		return nil, apperrors.Upstream(fmt.Errorf("update vault setup token: %w", err))
	}
	return &resp, nil
}

// UpdateSetupTokenLegacy attaches a flattened card using a pre-scoped access
// token.
func (g *gateway) UpdateSetupTokenLegacy(ctx context.Context, p LegacyUpdateParams) (*SetupTokenResponse, error) {
	start := time.Now()
	defer func() { g.metrics.RecordGatewayDuration("vault_update_legacy", time.Since(start)) }()

	details := p.PaymentSourceDetails
	vc := &card.VaultCard{
		Name:         details.Name,
		Number:       details.Number,
		Expiry:       details.Expiry,
		SecurityCode: details.SecurityCode,
	}
	if details.PostalCode != "" {
		vc.BillingAddress = &card.BillingAddress{PostalCode: details.PostalCode}
	}

	var resp SetupTokenResponse
	body, err := g.client.Do(ctx, restapi.Request{
		Method:               http.MethodPost,
		Path:                 updatePath(p.VaultSetupToken),
		Body:                 updateRequest{PaymentSource: PaymentSource{Card: vc}},
		Auth:                 g.auth(p.ClientAccessToken),
		PartnerAttributionID: p.PartnerAttributionID,
	}, &resp)
	if err != nil {
		g.metrics.RecordError("vault_update_legacy", apperrors.CodeUpstreamRejection)
		return nil, apperrors.Upstream(fmt.Errorf("update vault setup token: %w", err))
	}

	if !g.approved(body, &resp) {
		g.metrics.RecordError("vault_update_legacy", "not_approved")
		return nil, apperrors.Upstream(ErrNotApproved)
	}
	return &resp, nil
}

func (g *gateway) approved(body []byte, resp *SetupTokenResponse) bool {
	if len(body) == 0 {
		return false
	}
	if g.config.StrictApproval {
		return resp.Status == StatusApproved
	}
	return true
}

func (g *gateway) GetSetupToken(ctx context.Context, id, accessToken string) (*SetupTokenResponse, error) {
	start := time.Now()
	defer func() { g.metrics.RecordGatewayDuration("vault_get", time.Since(start)) }()

	var resp SetupTokenResponse
	if err := g.client.Get(ctx, "/v3/vault/setup-tokens/"+url.PathEscape(id), g.auth(accessToken), &resp); err != nil {
		g.metrics.RecordError("vault_get", apperrors.CodeUpstreamRejection)
		return nil, apperrors.Upstream(fmt.Errorf("get vault setup token: %w", err))
	}
	return &resp, nil
}

// auth prefers the caller's access token and falls back to the client
// credentials when none was supplied.
func (g *gateway) auth(accessToken string) restapi.Auth {
	if accessToken == "" && g.config.ClientID != "" {
		return restapi.Basic{ClientID: g.config.ClientID, ClientSecret: g.config.ClientSecret}
	}
	return restapi.Bearer(accessToken)
}

func updatePath(id string) string {
	return "/v3/vault/setup-tokens/" + url.PathEscape(id) + "/update"
}
