// Package audit writes one Submission row per card fields submit.
package audit

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"cardfields/internal/card"
	apperrors "cardfields/internal/errors"
	"cardfields/internal/models"
	"cardfields/internal/repositories"
	"cardfields/internal/services/submit"

	"golang.org/x/crypto/blake2b"
)

type scopeKey struct{}

// Scope identifies the session a submission belongs to.
type Scope struct {
	SessionID  string
	MerchantID string
}

// WithScope attaches the session scope to ctx.
func WithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// ScopeFrom returns the scope attached to ctx, or the zero Scope.
func ScopeFrom(ctx context.Context) Scope {
	s, _ := ctx.Value(scopeKey{}).(Scope)
	return s
}

// Recorder implements submit.Recorder on top of the submission repository.
type Recorder struct {
	repo repositories.SubmissionRepository
	key  []byte
}

// ErrMissingFingerprintKey is returned when no key is configured for the card
// fingerprint. An unkeyed hash of a card number is not stored.
var ErrMissingFingerprintKey = errors.New("card fingerprint key is required")

// NewRecorder creates a recorder. fingerprintKey keys the card fingerprint; keys
// longer than 64 bytes are hashed down first.
func NewRecorder(repo repositories.SubmissionRepository, fingerprintKey string) (*Recorder, error) {
	if fingerprintKey == "" {
		return nil, ErrMissingFingerprintKey
	}
	key := []byte(fingerprintKey)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum512(key)
		key = sum[:]
	}
	return &Recorder{repo: repo, key: key}, nil
}

var _ submit.Recorder = (*Recorder)(nil)

func (r *Recorder) RecordSubmission(ctx context.Context, o submit.Outcome) error {
	scope := ScopeFrom(ctx)
	s := &models.Submission{
		SessionID:       scope.SessionID,
		MerchantID:      scope.MerchantID,
		Path:            o.Path,
		Result:          o.Result,
		OrderID:         o.OrderID,
		VaultSetupToken: o.VaultSetupToken,
	}

	if o.Card != nil && o.Card.Number != "" {
		fp, err := Fingerprint(r.key, o.Card.Number)
		if err != nil {
			return err
		}
		s.Fingerprint = fp
		s.CardLastFour = o.Card.LastFour()
		if types := card.DetectCardTypes(o.Card.Number); len(types) > 0 {
			s.CardBrand = types[0].Type
		}
	}

	if o.Err != nil {
		s.ErrorCode = apperrors.CodeOf(o.Err)
		s.ErrorMessage = o.Err.Error()
	}

	return r.repo.Create(ctx, s)
}

// Fingerprint is the hex keyed BLAKE2b-256 of the card number digits. The same
// number always yields the same fingerprint under one key.
func Fingerprint(key []byte, number string) (string, error) {
	if len(key) == 0 {
		return "", ErrMissingFingerprintKey
	}
	h, err := blake2b.New256(key)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	for _, r := range number {
		if r >= '0' && r <= '9' {
			h.Write([]byte{byte(r)})
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
