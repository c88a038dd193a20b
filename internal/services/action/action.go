package action

import (
	"context"
	"strings"
)

// ActionType names a supported action kind.
type ActionType string

const (
	ActionTypeSave ActionType = "save"
)

// Action is the closed set of action kinds. Only this package can add
// implementations.
type Action interface {
	Type() ActionType
	sealed()
}

// SaveAction vaults the card without charging it. Both callbacks are the
// validating decorators built by the resolver.
type SaveAction struct {
	createVaultSetupToken func(ctx context.Context) (string, error)
	onApprove             func(ctx context.Context, data VaultApproval) ApprovalResult
}

// NewSaveAction decorates the caller's callbacks. onError receives failures
// from onApprove.
func NewSaveAction(createToken CreateVaultSetupTokenFunc, onApprove SaveOnApproveFunc, onError OnErrorFunc) *SaveAction {
	return &SaveAction{
		createVaultSetupToken: DecorateCreateVaultSetupToken(createToken),
		onApprove:             DecorateSaveOnApprove(onApprove, onError),
	}
}

func (a *SaveAction) Type() ActionType { return ActionTypeSave }
func (a *SaveAction) sealed()          {}

func (a *SaveAction) CreateVaultSetupToken(ctx context.Context) (string, error) {
	return a.createVaultSetupToken(ctx)
}

func (a *SaveAction) OnApprove(ctx context.Context, data VaultApproval) ApprovalResult {
	return a.onApprove(ctx, data)
}

// UnrecognizedAction stands in for an action kind this version does not know,
// e.g. from stored or externally supplied data.
type UnrecognizedAction struct {
	typ ActionType
}

// Unrecognized wraps an unknown action type.
func Unrecognized(t string) Action {
	return &UnrecognizedAction{typ: ActionType(strings.ToLower(strings.TrimSpace(t)))}
}

func (a *UnrecognizedAction) Type() ActionType { return a.typ }
func (a *UnrecognizedAction) sealed()          {}
