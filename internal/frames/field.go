package frames

import (
	"sync"

	"cardfields/internal/card"
)

// Snapshot is the state a rendering context reports for one frame.
type Snapshot struct {
	Value              string          `json:"value,omitempty"`
	Card               *card.Card      `json:"card,omitempty"`
	Valid              bool            `json:"is_valid"`
	PotentiallyValid   bool            `json:"is_potentially_valid"`
	Focused            bool            `json:"is_focused"`
	PotentialCardTypes []card.CardType `json:"potential_card_types,omitempty"`
	RemoteErrors       []RemoteError   `json:"remote_errors,omitempty"`
}

// RemoteErrorSink is notified when remote errors on a frame change.
type RemoteErrorSink func(kind Kind, errs []RemoteError)

// Field is an in-memory frame export. It implements NumberFrame for the number
// kind, FieldFrame for the other atomic kinds and CompositeFrame for the
// composite kind. Writes come from the rendering side through Update.
type Field struct {
	mu    sync.RWMutex
	kind  Kind
	state Snapshot
	sink  RemoteErrorSink
}

// NewField creates a frame export of the given kind.
func NewField(kind Kind, state Snapshot) *Field {
	return &Field{kind: kind, state: state}
}

// WithRemoteErrorSink registers a callback for remote error changes.
func (f *Field) WithRemoteErrorSink(sink RemoteErrorSink) *Field {
	f.mu.Lock()
	f.sink = sink
	f.mu.Unlock()
	return f
}

// Update replaces the reported state, keeping any remote errors already set.
func (f *Field) Update(state Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state.RemoteErrors = f.state.RemoteErrors
	f.state = state
}

// Snapshot returns a copy of the current state.
func (f *Field) Snapshot() Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	s := f.state
	s.PotentialCardTypes = append([]card.CardType(nil), f.state.PotentialCardTypes...)
	s.RemoteErrors = append([]RemoteError(nil), f.state.RemoteErrors...)
	return s
}

func (f *Field) Kind() Kind { return f.kind }

func (f *Field) FieldValue() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state.Value
}

func (f *Field) IsFieldValid() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state.Valid
}

func (f *Field) IsFieldPotentiallyValid() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state.PotentiallyValid
}

func (f *Field) IsFieldFocused() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state.Focused
}

// PotentialCardTypes returns the brands reported by the frame, or the brands
// detected from its value when none were reported.
func (f *Field) PotentialCardTypes() []card.CardType {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if len(f.state.PotentialCardTypes) > 0 {
		return append([]card.CardType(nil), f.state.PotentialCardTypes...)
	}
	return card.DetectCardTypes(f.state.Value)
}

// CardValue returns the composite card value.
func (f *Field) CardValue() card.Card {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.state.Card == nil {
		return card.Card{}
	}
	return *f.state.Card
}

func (f *Field) SetRemoteErrors(errs []RemoteError) {
	f.mu.Lock()
	f.state.RemoteErrors = append([]RemoteError(nil), errs...)
	sink := f.sink
	f.mu.Unlock()

	if sink != nil {
		sink(f.kind, errs)
	}
}

func (f *Field) ResetRemoteErrors() {
	f.mu.Lock()
	f.state.RemoteErrors = nil
	sink := f.sink
	f.mu.Unlock()

	if sink != nil {
		sink(f.kind, nil)
	}
}
