package fieldstate

import "cardfields/internal/card"

// FieldState is the reported state of one field.
type FieldState struct {
	IsEmpty            bool `json:"isEmpty"`
	IsValid            bool `json:"isValid"`
	IsPotentiallyValid bool `json:"isPotentiallyValid"`
	IsFocused          bool `json:"isFocused"`
}

// CardFieldsState is the unified snapshot across the mounted frames.
// Fields always contains number, cvv and expiry; name and postalCode are
// present only when their frame is mounted.
type CardFieldsState struct {
	CardTypes []card.CardType       `json:"cards"`
	Fields    map[string]FieldState `json:"fields"`
}

// Field keys
const (
	FieldNumber     = "number"
	FieldCVV        = "cvv"
	FieldExpiry     = "expiry"
	FieldName       = "name"
	FieldPostalCode = "postalCode"
)

// FieldOrder is the order fields are reported in.
var FieldOrder = []string{FieldName, FieldNumber, FieldExpiry, FieldCVV, FieldPostalCode}
