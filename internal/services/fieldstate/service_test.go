package fieldstate

import (
	"testing"

	"cardfields/internal/card"
	apperrors "cardfields/internal/errors"
	"cardfields/internal/frames"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAtomic() frames.StaticEnumerator {
	return frames.StaticEnumerator{
		frames.NewField(frames.KindNumber, frames.Snapshot{Value: "4111111111111111", Valid: true, PotentiallyValid: true}),
		frames.NewField(frames.KindCVV, frames.Snapshot{Value: "123", Valid: true, PotentiallyValid: true}),
		frames.NewField(frames.KindExpiry, frames.Snapshot{Value: "02/2030", Valid: true, PotentiallyValid: true}),
	}
}

func TestAggregator_GetFieldState(t *testing.T) {
	enum := frames.StaticEnumerator{
		frames.NewField(frames.KindNumber, frames.Snapshot{
			Value:            "5",
			PotentiallyValid: true,
			Focused:          true,
			PotentialCardTypes: []card.CardType{
				{Type: "mastercard"}, {Type: "maestro"}, {Type: "mastercard"},
			},
		}),
		frames.NewField(frames.KindCVV, frames.Snapshot{}),
		frames.NewField(frames.KindPostal, frames.Snapshot{Value: "94107", Valid: true, PotentiallyValid: true}),
	}

	state := NewAggregator(frames.NewRegistry(enum)).GetFieldState()

	require.Len(t, state.CardTypes, 2)
	assert.Equal(t, "mastercard", state.CardTypes[0].Type)
	assert.Equal(t, "maestro", state.CardTypes[1].Type)

	assert.Equal(t, FieldState{IsEmpty: false, IsPotentiallyValid: true, IsFocused: true}, state.Fields[FieldNumber])
	assert.Equal(t, FieldState{IsEmpty: true}, state.Fields[FieldCVV])
	assert.Equal(t, FieldState{IsEmpty: true}, state.Fields[FieldExpiry], "missing mandatory frame still reported")
	assert.Equal(t, FieldState{IsValid: true, IsPotentiallyValid: true}, state.Fields[FieldPostalCode])
	assert.NotContains(t, state.Fields, FieldName)
}

func TestAggregator_GetCardFields(t *testing.T) {
	tests := []struct {
		name    string
		enum    frames.StaticEnumerator
		want    card.Card
		wantErr bool
	}{
		{
			name: "valid mandatory fields",
			enum: validAtomic(),
			want: card.Card{Number: "4111111111111111", CVV: "123", Expiry: "02/2030"},
		},
		{
			name: "valid optional fields",
			enum: append(validAtomic(),
				frames.NewField(frames.KindName, frames.Snapshot{Value: "Ada Lovelace", Valid: true}),
				frames.NewField(frames.KindPostal, frames.Snapshot{Value: "94107", Valid: true}),
			),
			want: card.Card{Number: "4111111111111111", CVV: "123", Expiry: "02/2030", Name: "Ada Lovelace", PostalCode: "94107"},
		},
		{
			name: "invalid optional name",
			enum: append(validAtomic(),
				frames.NewField(frames.KindName, frames.Snapshot{Value: "", Valid: false}),
			),
			wantErr: true,
		},
		{
			name: "invalid cvv",
			enum: frames.StaticEnumerator{
				frames.NewField(frames.KindNumber, frames.Snapshot{Value: "4111111111111111", Valid: true}),
				frames.NewField(frames.KindCVV, frames.Snapshot{Value: "1", Valid: false}),
				frames.NewField(frames.KindExpiry, frames.Snapshot{Value: "02/2030", Valid: true}),
			},
			wantErr: true,
		},
		{
			name: "valid composite",
			enum: frames.StaticEnumerator{
				frames.NewField(frames.KindComposite, frames.Snapshot{
					Valid: true,
					Card:  &card.Card{Number: "4111111111111111", CVV: "123", Expiry: "02/2030", PostalCode: "94107"},
				}),
			},
			want: card.Card{Number: "4111111111111111", CVV: "123", Expiry: "02/2030", PostalCode: "94107"},
		},
		{
			name: "invalid composite without atomic frames",
			enum: frames.StaticEnumerator{
				frames.NewField(frames.KindComposite, frames.Snapshot{Card: &card.Card{Number: "4"}}),
			},
			wantErr: true,
		},
		{
			name:    "nothing mounted",
			enum:    frames.StaticEnumerator{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewAggregator(frames.NewRegistry(tt.enum)).GetCardFields()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrFieldsUnavailable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
