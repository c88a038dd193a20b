// Package fieldstate aggregates the per-frame field state into one snapshot
// and extracts the card payload at submit time.
package fieldstate

import (
	"cardfields/internal/card"
	apperrors "cardfields/internal/errors"
	"cardfields/internal/frames"
)

// Aggregator reads the mounted frames through the registry.
type Aggregator interface {
	GetFieldState() CardFieldsState
	GetCardFields() (card.Card, error)
}

type aggregator struct {
	registry frames.Registry
}

// NewAggregator creates an aggregator over the given registry.
func NewAggregator(registry frames.Registry) Aggregator {
	return &aggregator{registry: registry}
}

func (a *aggregator) GetFieldState() CardFieldsState {
	cf := a.registry.ListCardFrames()

	state := CardFieldsState{
		CardTypes: []card.CardType{},
		Fields:    make(map[string]FieldState, 5),
	}

	if cf.Number != nil {
		state.CardTypes = card.ParseCardTypes(cf.Number.PotentialCardTypes())
	}

	// mandatory keys are always reported, even when the frame is missing
	state.Fields[FieldNumber] = readField(cf.Number)
	state.Fields[FieldCVV] = readField(cf.CVV)
	state.Fields[FieldExpiry] = readField(cf.Expiry)

	if cf.Name != nil {
		state.Fields[frames.KindName.FieldKey()] = readField(cf.Name)
	}
	if cf.Postal != nil {
		state.Fields[frames.KindPostal.FieldKey()] = readField(cf.Postal)
	}
	return state
}

func readField(f frames.FieldFrame) FieldState {
	if f == nil {
		return FieldState{IsEmpty: true}
	}
	return FieldState{
		IsEmpty:            f.FieldValue() == "",
		IsValid:            f.IsFieldValid(),
		IsPotentiallyValid: f.IsFieldPotentiallyValid(),
		IsFocused:          f.IsFieldFocused(),
	}
}

// GetCardFields returns the card payload once every mounted frame is valid.
// A valid composite frame takes precedence over atomic frames.
func (a *aggregator) GetCardFields() (card.Card, error) {
	cf := a.registry.ListCardFrames()

	if cf.Composite == nil && !cf.HasAtomicFields() {
		return card.Card{}, apperrors.FieldsUnavailable("card fields are not mounted")
	}

	if cf.Composite != nil && cf.Composite.IsFieldValid() {
		return cf.Composite.CardValue(), nil
	}

	if !cf.HasAtomicFields() {
		return card.Card{}, apperrors.FieldsUnavailable("card fields are not valid")
	}

	if !cf.Number.IsFieldValid() || !cf.CVV.IsFieldValid() || !cf.Expiry.IsFieldValid() {
		return card.Card{}, apperrors.FieldsUnavailable("card fields are not valid")
	}
	if cf.Name != nil && !cf.Name.IsFieldValid() {
		return card.Card{}, apperrors.FieldsUnavailable("card name is not valid")
	}
	if cf.Postal != nil && !cf.Postal.IsFieldValid() {
		return card.Card{}, apperrors.FieldsUnavailable("postal code is not valid")
	}

	c := card.Card{
		Number: cf.Number.FieldValue(),
		CVV:    cf.CVV.FieldValue(),
		Expiry: cf.Expiry.FieldValue(),
	}
	if cf.Name != nil {
		c.Name = cf.Name.FieldValue()
	}
	if cf.Postal != nil {
		c.PostalCode = cf.Postal.FieldValue()
	}
	return c, nil
}
