// Package card holds the card payload collected from the card fields and the
// helpers that normalize it for the vault and order endpoints.
package card

import (
	"encoding/json"
	"strings"
)

// Card is the submission payload read from the mounted frames.
type Card struct {
	Number     string `json:"number"`
	CVV        string `json:"cvv"`
	Expiry     string `json:"expiry"`
	Name       string `json:"name,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

// Values is the normalized card object sent to the order confirm endpoint.
// Extra fields supplied by the caller are merged into the same JSON object
// after the card keys, so a colliding extra field replaces the card value.
type Values struct {
	Name         string
	Number       string
	Expiry       string
	SecurityCode string
	Extra        map[string]interface{}
}

// NewValues builds the order-confirm card object. Expiry is converted to the
// transport form YYYY-MM.
func NewValues(c Card, extra map[string]interface{}) Values {
	return Values{
		Name:         c.Name,
		Number:       c.Number,
		Expiry:       ReformatExpiry(c.Expiry),
		SecurityCode: c.CVV,
		Extra:        extra,
	}
}

func (v Values) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"name":          v.Name,
		"number":        v.Number,
		"expiry":        v.Expiry,
		"security_code": v.SecurityCode,
	}
	for k, val := range v.Extra {
		out[k] = val
	}
	return json.Marshal(out)
}

// BillingAddress is the billing address attached to a vaulted card.
type BillingAddress struct {
	PostalCode string `json:"postal_code"`
}

// VaultCard is the card shape of a vault payment source.
type VaultCard struct {
	Name           string          `json:"name"`
	Number         string          `json:"number"`
	Expiry         string          `json:"expiry"`
	SecurityCode   string          `json:"security_code"`
	BillingAddress *BillingAddress `json:"billing_address,omitempty"`
}

// NewVaultCard builds the vault card from the raw payload. Expiry keeps the
// display form it was collected in.
func NewVaultCard(c Card) VaultCard {
	return VaultCard{
		Name:           c.Name,
		Number:         c.Number,
		Expiry:         c.Expiry,
		SecurityCode:   c.CVV,
		BillingAddress: &BillingAddress{PostalCode: c.PostalCode},
	}
}

// ReformatExpiry converts a display expiry "MM/YYYY" into "YYYY-MM".
// An empty expiry stays empty; values not in display form are returned as is.
func ReformatExpiry(expiry string) string {
	if expiry == "" {
		return ""
	}
	parts := strings.Split(expiry, "/")
	if len(parts) != 2 {
		return expiry
	}
	month := strings.TrimSpace(parts[0])
	year := strings.TrimSpace(parts[1])
	return year + "-" + month
}

// LastFour returns the last four digits of the number, or "" if it is shorter.
func (c Card) LastFour() string {
	digits := stripSpaces(c.Number)
	if len(digits) < 4 {
		return ""
	}
	return digits[len(digits)-4:]
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, s)
}
