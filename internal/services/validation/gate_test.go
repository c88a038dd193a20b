package validation

import (
	"testing"

	"cardfields/internal/services/fieldstate"

	"github.com/stretchr/testify/assert"
)

func TestGetFieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]fieldstate.FieldState
		want   []ErrorCode
	}{
		{
			name: "every field invalid",
			fields: map[string]fieldstate.FieldState{
				"number":     {},
				"cvv":        {},
				"expiry":     {},
				"name":       {},
				"postalCode": {},
			},
			want: []ErrorCode{InvalidName, InvalidNumber, InvalidExpiry, InvalidCVV, InvalidPostal},
		},
		{
			name: "every field valid",
			fields: map[string]fieldstate.FieldState{
				"number":     {IsValid: true},
				"cvv":        {IsValid: true},
				"expiry":     {IsValid: true},
				"postalCode": {IsValid: true},
			},
			want: []ErrorCode{},
		},
		{
			name: "absent optional fields are never inferred",
			fields: map[string]fieldstate.FieldState{
				"number": {IsValid: true},
				"cvv":    {IsValid: false},
				"expiry": {IsValid: true},
			},
			want: []ErrorCode{InvalidCVV},
		},
		{
			name:   "unknown keys are ignored",
			fields: map[string]fieldstate.FieldState{"iban": {}},
			want:   []ErrorCode{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetFieldErrors(fieldstate.CardFieldsState{Fields: tt.fields})
			assert.ElementsMatch(t, tt.want, got)
			assert.Len(t, got, len(tt.want))
		})
	}
}
