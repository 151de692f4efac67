package participant

import "strings"

// Variant is the A/B test arm assigned to a session.
type Variant string

const (
	// VariantA shows the trolley.
	VariantA Variant = "A"
	// VariantB hides the trolley. It is the default arm.
	VariantB Variant = "B"
)

// ParseVariant maps a raw bootstrap value to a variant. Matching ignores
// case and surrounding whitespace; anything other than "A" resolves to B.
func ParseVariant(raw string) Variant {
	if strings.EqualFold(strings.TrimSpace(raw), string(VariantA)) {
		return VariantA
	}
	return VariantB
}

// ShowsTrolley reports whether the variant presents the trolley.
func (v Variant) ShowsTrolley() bool {
	return v == VariantA
}

// Label returns the name the analytics pipeline reports the arm under.
func (v Variant) Label() string {
	if v == VariantA {
		return "A_Trolley"
	}
	return "B_NoTrolley"
}

func (v Variant) String() string {
	return string(v)
}
