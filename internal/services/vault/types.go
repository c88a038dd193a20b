package vault

import (
	"context"

	"cardfields/internal/card"
	"cardfields/internal/services/action"
)

// Setup token statuses
const (
	StatusApproved            = "APPROVED"
	StatusCreated             = "CREATED"
	StatusPayerActionRequired = "PAYER_ACTION_REQUIRED"
	StatusTokenized           = "TOKENIZED"
	StatusVaulted             = "VAULTED"
)

// PayPalSource is a PayPal wallet payment source.
type PayPalSource struct {
	Description        string `json:"description,omitempty"`
	UsageType          string `json:"usage_type,omitempty"`
	CustomerType       string `json:"customer_type,omitempty"`
	PermitMultipleUses bool   `json:"permit_multiple_payment_tokens,omitempty"`
}

// PaymentSource is what gets attached to a setup token. Exactly one of the
// fields is set.
type PaymentSource struct {
	Card   *card.VaultCard `json:"card,omitempty"`
	PayPal *PayPalSource   `json:"paypal,omitempty"`
}

// Link is a hypermedia link from the API.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method,omitempty"`
}

// Customer identifies the vault customer.
type Customer struct {
	ID string `json:"id"`
}

// SetupTokenResponse is the vault setup token resource.
type SetupTokenResponse struct {
	ID            string                 `json:"id"`
	Customer      *Customer              `json:"customer,omitempty"`
	Status        string                 `json:"status"`
	PaymentSource map[string]interface{} `json:"payment_source,omitempty"`
	Links         []Link                 `json:"links,omitempty"`
}

type updateRequest struct {
	PaymentSource PaymentSource `json:"payment_source"`
}

// SaveFlow is the save action the gateway drives.
type SaveFlow interface {
	CreateVaultSetupToken(ctx context.Context) (string, error)
	OnApprove(ctx context.Context, data action.VaultApproval) action.ApprovalResult
}

// CreateParams are the inputs of Create.
type CreateParams struct {
	Action                 SaveFlow
	FacilitatorAccessToken string
	PaymentSource          PaymentSource
}

// CreateResult reports what Create did.
type CreateResult struct {
	VaultSetupToken string
	SetupToken      *SetupTokenResponse
	Approval        action.ApprovalResult
}

// UpdateParams are the inputs of UpdateSetupToken.
type UpdateParams struct {
	VaultSetupToken        string
	FacilitatorAccessToken string
	PaymentSource          PaymentSource
	PartnerAttributionID   string
}

// PaymentSourceDetails is the flattened card of the legacy update.
type PaymentSourceDetails struct {
	Number       string `json:"number"`
	Expiry       string `json:"expiry"`
	SecurityCode string `json:"security_code"`
	Name         string `json:"name,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
}

// LegacyUpdateParams are the inputs of UpdateSetupTokenLegacy.
type LegacyUpdateParams struct {
	VaultSetupToken      string
	ClientAccessToken    string
	PaymentSourceDetails PaymentSourceDetails
	PartnerAttributionID string
}

// Gateway is the vault API.
type Gateway interface {
	Create(ctx context.Context, p CreateParams) (*CreateResult, error)
	UpdateSetupToken(ctx context.Context, p UpdateParams) (*SetupTokenResponse, error)
	UpdateSetupTokenLegacy(ctx context.Context, p LegacyUpdateParams) (*SetupTokenResponse, error)
	GetSetupToken(ctx context.Context, id, accessToken string) (*SetupTokenResponse, error)
}
