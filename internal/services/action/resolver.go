// Package action resolves the caller configuration into the single submission
// path that applies, and wraps the caller's action callbacks.
package action

import (
	"fmt"
	"strings"

	apperrors "cardfields/internal/errors"
)

// Resolver turns caller configuration into CardProps. It keeps no state.
type Resolver interface {
	Resolve(cfg Config) (*CardProps, error)
}

type resolver struct{}

// NewResolver creates a configuration resolver.
func NewResolver() Resolver {
	return &resolver{}
}

// Resolve applies the legality rules in order and returns the props for the
// legacy path, or for the action path when an action object is supplied.
func (r *resolver) Resolve(cfg Config) (*CardProps, error) {
	if err := validateCallbacks(cfg); err != nil {
		return nil, err
	}

	if cfg.Action != nil {
		return resolveAction(cfg)
	}

	intent := cfg.Intent
	if intent == "" {
		intent = IntentCapture
	}

	return &CardProps{
		Intent:                 intent,
		Vault:                  cfg.Vault,
		CreateOrder:            cfg.CreateOrder,
		CreateBillingAgreement: cfg.CreateBillingAgreement,
		CreateSubscription:     cfg.CreateSubscription,
		OnApprove:              cfg.OnApprove,
		OnCancel:               cfg.OnCancel,
		OnComplete:             cfg.OnComplete,
		OnError:                cfg.OnError,
		FacilitatorAccessToken: cfg.FacilitatorAccessToken,
		ExtraFields:            cfg.ExtraFields,
	}, nil
}

func validateCallbacks(cfg Config) error {
	if cfg.CreateBillingAgreement != nil && cfg.CreateOrder != nil {
		return apperrors.ConflictingCallbacks("Do not pass both createBillingAgreement and createOrder")
	}
	if cfg.CreateBillingAgreement != nil && !cfg.Vault {
		return apperrors.Configuration("Must pass vault=true to sdk to use createBillingAgreement")
	}
	if cfg.CreateSubscription != nil && cfg.CreateOrder != nil {
		return apperrors.ConflictingCallbacks("Do not pass both createSubscription and createOrder")
	}
	if cfg.CreateSubscription != nil && !cfg.Vault {
		return apperrors.Configuration("Must pass vault=true to sdk to use createSubscription")
	}
	if cfg.Intent == IntentTokenize && cfg.CreateBillingAgreement == nil {
		return apperrors.Configuration("Must pass createBillingAgreement with intent=tokenize")
	}
	if cfg.Intent == IntentSubscription && cfg.CreateSubscription == nil {
		return apperrors.Configuration("Must pass createSubscription with intent=subscription")
	}
	return nil
}

func resolveAction(cfg Config) (*CardProps, error) {
	conflicts := []struct {
		name    string
		present bool
	}{
		{"onApprove", cfg.OnApprove != nil},
		{"onCancel", cfg.OnCancel != nil},
		{"onComplete", cfg.OnComplete != nil},
		{"createOrder", cfg.CreateOrder != nil},
		{"intent", cfg.Intent != ""},
	}
	for _, c := range conflicts {
		if c.present {
			return nil, apperrors.ConflictingCallbacks(fmt.Sprintf("Do not pass %s with an action.", c.name))
		}
	}

	var a Action
	switch ActionType(strings.ToLower(strings.TrimSpace(cfg.Action.Type))) {
	case ActionTypeSave:
		a = NewSaveAction(cfg.Action.CreateVaultSetupToken, cfg.Action.OnApprove, cfg.OnError)
	default:
		return nil, apperrors.Configuration(fmt.Sprintf("Unsupported type for action: %s", cfg.Action.Type))
	}

	return &CardProps{
		Action:                 a,
		Vault:                  cfg.Vault,
		OnError:                cfg.OnError,
		FacilitatorAccessToken: cfg.FacilitatorAccessToken,
		ExtraFields:            cfg.ExtraFields,
	}, nil
}
