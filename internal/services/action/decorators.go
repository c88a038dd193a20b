package action

import (
	"context"
	"fmt"

	apperrors "cardfields/internal/errors"
)

// Channel tells which path an onApprove outcome took.
type Channel int

const (
	ChannelApproved Channel = iota
	ChannelOnError
)

func (c Channel) String() string {
	if c == ChannelOnError {
		return "on_error"
	}
	return "approved"
}

// ApprovalResult is the outcome of a decorated save onApprove: either approved,
// or failed with the error routed to onError.
type ApprovalResult struct {
	Channel Channel
	Err     error
}

func (r ApprovalResult) Approved() bool {
	return r.Channel == ChannelApproved
}

// DecorateCreateVaultSetupToken calls fn with empty params and requires a
// non-empty string token. Errors from fn pass through unchanged.
func DecorateCreateVaultSetupToken(fn CreateVaultSetupTokenFunc) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		if fn == nil {
			return "", apperrors.Configuration("Must pass createVaultSetupToken with a save action")
		}

		v, err := fn(ctx, CreateVaultSetupTokenParams{})
		if err != nil {
			return "", err
		}

		token, ok := v.(string)
		if !ok || token == "" {
			return "", apperrors.InvalidVaultToken("Expected a vault setup token to be passed to createVaultSetupToken")
		}
		return token, nil
	}
}

// DecorateSaveOnApprove calls fn and routes any error or panic to onError.
// It never fails; the returned result tells which channel fired.
func DecorateSaveOnApprove(fn SaveOnApproveFunc, onError OnErrorFunc) func(ctx context.Context, data VaultApproval) ApprovalResult {
	return func(ctx context.Context, data VaultApproval) (result ApprovalResult) {
		defer func() {
			if r := recover(); r != nil {
				err, ok := r.(error)
				if !ok {
					err = fmt.Errorf("onApprove panicked: %v", r)
				}
				result = routeToOnError(ctx, onError, err)
			}
		}()

		if fn == nil {
			return ApprovalResult{Channel: ChannelApproved}
		}
		if err := fn(ctx, data); err != nil {
			return routeToOnError(ctx, onError, err)
		}
		return ApprovalResult{Channel: ChannelApproved}
	}
}

func routeToOnError(ctx context.Context, onError OnErrorFunc, err error) ApprovalResult {
	if onError != nil {
		onError(ctx, err)
	}
	return ApprovalResult{Channel: ChannelOnError, Err: err}
}
