package card

type prefixRange struct {
	lo, hi string
}

// matches reports whether digits start inside the range. A number shorter
// than the range bounds matches when it is still a possible prefix.
func (r prefixRange) matches(digits string) bool {
	n := len(r.lo)
	if len(digits) >= n {
		p := digits[:n]
		return p >= r.lo && p <= r.hi
	}
	return digits >= r.lo[:len(digits)] && digits <= r.hi[:len(digits)]
}

type brandRule struct {
	cardType string
	prefixes []prefixRange
	lengths  []int
}

func single(p string) prefixRange { return prefixRange{lo: p, hi: p} }

// Ordered by how commonly each brand is seen; the order is the plausibility
// order reported for ambiguous prefixes.
var brandRules = []brandRule{
	{TypeVisa, []prefixRange{single("4")}, []int{16, 18, 19}},
	{TypeMastercard, []prefixRange{{"51", "55"}, {"2221", "2720"}}, []int{16}},
	{TypeAmex, []prefixRange{single("34"), single("37")}, []int{15}},
	{TypeDiners, []prefixRange{{"300", "305"}, single("36"), single("38"), single("39")}, []int{14, 16, 19}},
	{TypeDiscover, []prefixRange{single("6011"), {"644", "649"}, single("65")}, []int{16, 19}},
	{TypeJCB, []prefixRange{single("2131"), single("1800"), {"3528", "3589"}}, []int{16, 17, 18, 19}},
	{TypeUnionPay, []prefixRange{single("62"), single("81")}, []int{14, 15, 16, 17, 18, 19}},
	{TypeMaestro, []prefixRange{single("5018"), single("5020"), single("5038"), {"56", "59"}, single("63"), single("67")}, []int{12, 13, 14, 15, 16, 17, 18, 19}},
	{TypeMir, []prefixRange{{"2200", "2204"}}, []int{16, 17, 18, 19}},
	{TypeHipercard, []prefixRange{single("606282")}, []int{16}},
}

// DetectCardTypes classifies a (possibly partial) card number into the brands
// it could still belong to. An empty number matches every brand.
func DetectCardTypes(number string) []CardType {
	digits := stripSpaces(number)
	if !allDigits(digits) {
		return []CardType{}
	}

	out := make([]CardType, 0, 2)
	for _, rule := range brandRules {
		for _, p := range rule.prefixes {
			if p.matches(digits) {
				out = append(out, knownTypes[rule.cardType])
				break
			}
		}
	}
	return out
}

// IsValidNumber reports whether number passes the Luhn check and has a length
// accepted by at least one of its detected brands.
func IsValidNumber(number string) bool {
	digits := stripSpaces(number)
	if len(digits) < 12 || len(digits) > 19 || !allDigits(digits) {
		return false
	}
	if !luhn(digits) {
		return false
	}
	for _, rule := range brandRules {
		if !hasLength(rule.lengths, len(digits)) {
			continue
		}
		for _, p := range rule.prefixes {
			if len(digits) >= len(p.lo) && p.matches(digits) {
				return true
			}
		}
	}
	return false
}

// Luhn Algorithm: Used to validate credit card numbers
func luhn(cardNumber string) bool {
	var sum int
	shouldDouble := false

	for i := len(cardNumber) - 1; i >= 0; i-- {
		digit := int(cardNumber[i] - '0')
		if shouldDouble {
			digit = digit * 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		shouldDouble = !shouldDouble
	}

	return sum%10 == 0
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func hasLength(lengths []int, n int) bool {
	for _, l := range lengths {
		if l == n {
			return true
		}
	}
	return false
}
