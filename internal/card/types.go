package card

import "strings"

// SecurityCode describes the security code a card brand uses.
type SecurityCode struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// CardType is a classified card brand.
type CardType struct {
	Type     string       `json:"type"`
	NiceType string       `json:"niceType"`
	Code     SecurityCode `json:"code"`
}

// Card brand identifiers
const (
	TypeVisa       = "visa"
	TypeMastercard = "mastercard"
	TypeAmex       = "american-express"
	TypeDiners     = "diners-club"
	TypeDiscover   = "discover"
	TypeJCB        = "jcb"
	TypeUnionPay   = "unionpay"
	TypeMaestro    = "maestro"
	TypeElo        = "elo"
	TypeMir        = "mir"
	TypeHiper      = "hiper"
	TypeHipercard  = "hipercard"
)

var knownTypes = map[string]CardType{
	TypeVisa:       {Type: TypeVisa, NiceType: "Visa", Code: SecurityCode{Name: "CVV", Size: 3}},
	TypeMastercard: {Type: TypeMastercard, NiceType: "Mastercard", Code: SecurityCode{Name: "CVC", Size: 3}},
	TypeAmex:       {Type: TypeAmex, NiceType: "American Express", Code: SecurityCode{Name: "CID", Size: 4}},
	TypeDiners:     {Type: TypeDiners, NiceType: "Diners Club", Code: SecurityCode{Name: "CVV", Size: 3}},
	TypeDiscover:   {Type: TypeDiscover, NiceType: "Discover", Code: SecurityCode{Name: "CID", Size: 3}},
	TypeJCB:        {Type: TypeJCB, NiceType: "JCB", Code: SecurityCode{Name: "CVV", Size: 3}},
	TypeUnionPay:   {Type: TypeUnionPay, NiceType: "UnionPay", Code: SecurityCode{Name: "CVN", Size: 3}},
	TypeMaestro:    {Type: TypeMaestro, NiceType: "Maestro", Code: SecurityCode{Name: "CVC", Size: 3}},
	TypeElo:        {Type: TypeElo, NiceType: "Elo", Code: SecurityCode{Name: "CVE", Size: 3}},
	TypeMir:        {Type: TypeMir, NiceType: "Mir", Code: SecurityCode{Name: "CVP2", Size: 3}},
	TypeHiper:      {Type: TypeHiper, NiceType: "Hiper", Code: SecurityCode{Name: "CVC", Size: 3}},
	TypeHipercard:  {Type: TypeHipercard, NiceType: "Hipercard", Code: SecurityCode{Name: "CVC", Size: 3}},
}

// Lookup returns the canonical description of a brand.
func Lookup(cardType string) (CardType, bool) {
	t, ok := knownTypes[normalizeType(cardType)]
	return t, ok
}

// ParseCardTypes normalizes the potential brands reported by a number frame.
// Order is preserved, duplicates and blank entries are dropped, and missing
// display names or security codes are filled from the known brand table.
func ParseCardTypes(potential []CardType) []CardType {
	out := make([]CardType, 0, len(potential))
	seen := make(map[string]bool, len(potential))

	for _, p := range potential {
		key := normalizeType(p.Type)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		t := CardType{Type: key, NiceType: p.NiceType, Code: p.Code}
		if known, ok := knownTypes[key]; ok {
			if t.NiceType == "" {
				t.NiceType = known.NiceType
			}
			if t.Code.Name == "" {
				t.Code = known.Code
			}
		}
		out = append(out, t)
	}
	return out
}

func normalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "-")
	switch t {
	case "amex":
		return TypeAmex
	case "diners":
		return TypeDiners
	case "master-card":
		return TypeMastercard
	}
	return t
}
