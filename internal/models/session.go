package models

import "time"

// CallbackURLs are the merchant endpoints standing in for the caller
// callbacks of a session. Empty URLs leave the callback unset.
type CallbackURLs struct {
	CreateOrder            string `json:"create_order,omitempty"`
	CreateBillingAgreement string `json:"create_billing_agreement,omitempty"`
	CreateSubscription     string `json:"create_subscription,omitempty"`
	OnApprove              string `json:"on_approve,omitempty"`
	OnCancel               string `json:"on_cancel,omitempty"`
	OnComplete             string `json:"on_complete,omitempty"`
	OnError                string `json:"on_error,omitempty"`
}

// ActionCallbacks configures a session's action object.
type ActionCallbacks struct {
	Type                  string `json:"type"`
	CreateVaultSetupToken string `json:"create_vault_setup_token,omitempty"`
	OnApprove             string `json:"on_approve,omitempty"`
}

// SessionConfig is the caller configuration a merchant registers for a
// card fields session.
type SessionConfig struct {
	Intent                 string                 `json:"intent,omitempty"`
	Vault                  bool                   `json:"vault,omitempty"`
	Action                 *ActionCallbacks       `json:"action,omitempty"`
	Callbacks              CallbackURLs           `json:"callbacks"`
	FacilitatorAccessToken string                 `json:"facilitator_access_token,omitempty"`
	ExtraFields            map[string]interface{} `json:"extra_fields,omitempty"`
}

// Session is a card fields session held in the cache.
type Session struct {
	ID         string        `json:"id"`
	MerchantID string        `json:"merchant_id"`
	Config     SessionConfig `json:"config"`
	CreatedAt  time.Time     `json:"created_at"`
}

// CreateSessionInput is the body of a create session request.
type CreateSessionInput struct {
	SessionConfig
}
