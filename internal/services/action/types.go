package action

import (
	"context"
	"encoding/json"
	"strings"
)

// Intent is the legacy checkout intent declared by the caller.
type Intent string

const (
	IntentCapture      Intent = "capture"
	IntentAuthorize    Intent = "authorize"
	IntentTokenize     Intent = "tokenize"
	IntentSubscription Intent = "subscription"
)

// ParseIntent normalizes an intent string. Unknown values are kept lowercased
// so the resolver can still reject or pass them through.
func ParseIntent(s string) Intent {
	return Intent(strings.ToLower(strings.TrimSpace(s)))
}

// CreateVaultSetupTokenParams is passed to createVaultSetupToken. It is
// currently always empty.
type CreateVaultSetupTokenParams struct{}

// VaultApproval is passed to a save action's onApprove.
type VaultApproval struct {
	VaultSetupToken string `json:"vaultSetupToken"`
}

// ApproveData is passed to the legacy onApprove once an order is confirmed.
// Order carries the remaining fields of the confirmed order.
type ApproveData struct {
	PayerID          string
	BuyerAccessToken string
	ID               string
	Status           string
	PaymentToken     string
	Order            map[string]interface{}
}

func (d ApproveData) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(d.Order)+5)
	for k, v := range d.Order {
		out[k] = v
	}
	out["payerID"] = d.PayerID
	out["buyerAccessToken"] = d.BuyerAccessToken
	if d.ID != "" {
		out["id"] = d.ID
		out["orderID"] = d.ID
	}
	if d.Status != "" {
		out["status"] = d.Status
	}
	if d.PaymentToken != "" {
		out["paymentToken"] = d.PaymentToken
	}
	return json.Marshal(out)
}

// ApproveActions is the context handed to the legacy onApprove.
type ApproveActions struct {
	Restart func(ctx context.Context) error
}

// Caller callbacks
type (
	CreateOrderFunc            func(ctx context.Context) (string, error)
	CreateBillingAgreementFunc func(ctx context.Context) (string, error)
	CreateSubscriptionFunc     func(ctx context.Context) (string, error)
	OnApproveFunc              func(ctx context.Context, data ApproveData, actions ApproveActions) error
	OnCancelFunc               func(ctx context.Context) error
	OnCompleteFunc             func(ctx context.Context) error
	OnErrorFunc                func(ctx context.Context, err error)

	// CreateVaultSetupTokenFunc returns an untyped value because callers may
	// be external; the resolver validates it is a non-empty string.
	CreateVaultSetupTokenFunc func(ctx context.Context, params CreateVaultSetupTokenParams) (interface{}, error)
	SaveOnApproveFunc         func(ctx context.Context, data VaultApproval) error
)

// ActionConfig is the caller-declared action object.
type ActionConfig struct {
	Type                  string
	CreateVaultSetupToken CreateVaultSetupTokenFunc
	OnApprove             SaveOnApproveFunc
}

// Config is the caller configuration for one submission. It is read fresh on
// every submit.
type Config struct {
	Intent Intent
	Vault  bool
	Action *ActionConfig

	CreateOrder            CreateOrderFunc
	CreateBillingAgreement CreateBillingAgreementFunc
	CreateSubscription     CreateSubscriptionFunc
	OnApprove              OnApproveFunc
	OnCancel               OnCancelFunc
	OnComplete             OnCompleteFunc
	OnError                OnErrorFunc

	FacilitatorAccessToken string
	ExtraFields            map[string]interface{}
}

// CardProps is the resolved configuration. Action is set on the action path
// and nil on the legacy path.
type CardProps struct {
	Action Action
	Intent Intent
	Vault  bool

	CreateOrder            CreateOrderFunc
	CreateBillingAgreement CreateBillingAgreementFunc
	CreateSubscription     CreateSubscriptionFunc
	OnApprove              OnApproveFunc
	OnCancel               OnCancelFunc
	OnComplete             OnCompleteFunc
	OnError                OnErrorFunc

	FacilitatorAccessToken string
	ExtraFields            map[string]interface{}
}
