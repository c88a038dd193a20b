package session

import (
	"context"

	"cardfields/internal/frames"
	"cardfields/internal/models"
	"cardfields/internal/services/fieldstate"
	"cardfields/internal/services/submit"
	"cardfields/internal/services/validation"
)

// State is what a frame host renders: aggregated field state, the
// validation errors derived from it and any remote errors per frame.
type State struct {
	fieldstate.CardFieldsState
	Errors       []validation.ErrorCode           `json:"errors"`
	RemoteErrors map[string][]frames.RemoteError `json:"remote_errors,omitempty"`
	HasFields    bool                             `json:"has_card_fields"`
}

// Service hosts card fields sessions.
type Service interface {
	Create(ctx context.Context, merchantID string, cfg models.SessionConfig) (*models.Session, error)
	Get(ctx context.Context, merchantID, id string) (*models.Session, error)
	Delete(ctx context.Context, merchantID, id string) error

	UpdateFrame(ctx context.Context, id, frame string, snap frames.Snapshot) error
	RemoveFrame(ctx context.Context, id, frame string) error
	State(ctx context.Context, id string) (*State, error)

	Submit(ctx context.Context, id string) (*submit.Result, error)
}
