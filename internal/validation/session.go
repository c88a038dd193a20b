package validation

import "cardfields/internal/models"

const maxTokenLength = 4096

var intents = []string{"capture", "authorize", "tokenize", "subscription"}

// SessionConfig validates the shape of a create session request. Callback
// combinations are left to the action resolver.
func SessionConfig(cfg models.SessionConfig) *Validator {
	v := New()

	if cfg.Intent != "" {
		v.OneOf("intent", cfg.Intent, intents...)
	}
	v.MaxLength("facilitator_access_token", cfg.FacilitatorAccessToken, maxTokenLength)

	cb := cfg.Callbacks
	v.CallbackURL("callbacks.create_order", cb.CreateOrder)
	v.CallbackURL("callbacks.create_billing_agreement", cb.CreateBillingAgreement)
	v.CallbackURL("callbacks.create_subscription", cb.CreateSubscription)
	v.CallbackURL("callbacks.on_approve", cb.OnApprove)
	v.CallbackURL("callbacks.on_cancel", cb.OnCancel)
	v.CallbackURL("callbacks.on_complete", cb.OnComplete)
	v.CallbackURL("callbacks.on_error", cb.OnError)

	if a := cfg.Action; a != nil {
		v.Required("action.type", a.Type)
		v.CallbackURL("action.create_vault_setup_token", a.CreateVaultSetupToken)
		v.CallbackURL("action.on_approve", a.OnApprove)
	}
	return v
}
