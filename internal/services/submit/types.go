package submit

import (
	"context"

	"cardfields/internal/card"
	"cardfields/internal/frames"
	"cardfields/internal/services/action"
	"cardfields/internal/services/vault"
)

// Submission paths
const (
	PathSave         = "save"
	PathCapture      = "capture"
	PathAuthorize    = "authorize"
	PathTokenize     = "tokenize"
	PathSubscription = "subscription"
	PathUnresolved   = "unresolved"
)

// Submission results
const (
	ResultSuccess = "success"
	ResultOnError = "on_error"
	ResultError   = "error"
)

// Service submits the card held by the mounted frames.
type Service interface {
	Submit(ctx context.Context, registry frames.Registry, cfg action.Config) (*Result, error)
}

// Result describes a completed submission.
type Result struct {
	Path            string `json:"path"`
	OrderID         string `json:"order_id,omitempty"`
	OrderStatus     string `json:"order_status,omitempty"`
	VaultSetupToken string `json:"vault_setup_token,omitempty"`
	PaymentToken    string `json:"payment_token,omitempty"`
	// Approval is "approved" or "on_error" for the save path.
	Approval string `json:"approval,omitempty"`
}

// Outcome is handed to the Recorder after every submission, failed or not.
type Outcome struct {
	Path            string
	Result          string
	OrderID         string
	VaultSetupToken string
	Card            *card.Card
	Err             error
}

// Recorder persists submission outcomes.
type Recorder interface {
	RecordSubmission(ctx context.Context, o Outcome) error
}

// Config holds the optional collaborators of the pipeline.
type Config struct {
	// Tokenizer serves intent=tokenize. Without it tokenize is unsupported.
	Tokenizer vault.Tokenizer
	// Recorder receives every outcome. Optional.
	Recorder Recorder
	// NewID generates payerID and buyerAccessToken. Defaults to uuid v4.
	NewID func() string
}
