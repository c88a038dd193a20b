// Package frames discovers the mounted card field frames and exposes their
// capability interfaces. A frame is owned by its rendering context; the
// registry only holds references, re-resolved on every query.
package frames

import (
	"strings"

	"cardfields/internal/card"
)

// Kind identifies which field a frame renders.
type Kind int

const (
	KindComposite Kind = iota
	KindNumber
	KindCVV
	KindExpiry
	KindName
	KindPostal
)

var kindNames = map[Kind]string{
	KindComposite: "card",
	KindNumber:    "number",
	KindCVV:       "cvv",
	KindExpiry:    "expiry",
	KindName:      "name",
	KindPostal:    "postal-code",
}

// String returns the name a frame advertises in its export.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// FieldKey is the normalized (camel case) key used in field state maps.
func (k Kind) FieldKey() string {
	return camelCase(k.String())
}

// Mandatory reports whether the field must be mounted for atomic card fields.
func (k Kind) Mandatory() bool {
	return k == KindNumber || k == KindCVV || k == KindExpiry
}

// ParseKind resolves an advertised field name. Both kebab and camel case
// spellings are accepted.
func ParseKind(name string) (Kind, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for k, s := range kindNames {
		if n == s || n == strings.ToLower(camelCase(s)) {
			return k, true
		}
	}
	switch n {
	case "postal":
		return KindPostal, true
	case "composite":
		return KindComposite, true
	}
	return 0, false
}

// RemoteError is a server-side field error rendered by a frame.
type RemoteError struct {
	Field   string `json:"field"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// Frame is the capability every field frame exports.
type Frame interface {
	Kind() Kind
	IsFieldValid() bool
	IsFieldPotentiallyValid() bool
	IsFieldFocused() bool
	SetRemoteErrors(errs []RemoteError)
	ResetRemoteErrors()
}

// FieldFrame is an atomic frame holding a single string value.
type FieldFrame interface {
	Frame
	FieldValue() string
}

// NumberFrame is the card number frame; it also reports candidate brands.
type NumberFrame interface {
	FieldFrame
	PotentialCardTypes() []card.CardType
}

// CompositeFrame renders every card field in a single frame.
type CompositeFrame interface {
	Frame
	CardValue() card.Card
}

func camelCase(s string) string {
	parts := strings.Split(s, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	return strings.Join(parts, "")
}
