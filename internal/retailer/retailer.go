// Package retailer holds the built-in retailer profiles and detects which one
// a routing guide belongs to.
package retailer

import (
	"fmt"
	"strings"
)

// GenericName is the name of the fallback profile.
const GenericName = "generic"

// Profile biases extraction toward one retailer's rule vocabulary.
type Profile struct {
	Name string

	// Keywords are matched case-insensitively as substrings of the document.
	Keywords       []string
	KnownCodes     []string
	ViolationFocus string
	FineStructure  string
}

// registry lists detectable profiles in match priority order.
var registry = []func() *Profile{
	walmart,
	target,
	amazon,
	costco,
	kroger,
	homeDepot,
}

// Names returns every profile name in registry order, generic last.
func Names() []string {
	names := make([]string, 0, len(registry)+1)
	for _, build := range registry {
		names = append(names, build().Name)
	}
	return append(names, GenericName)
}

// Get returns the built-in profile for the given name.
func Get(name string) (*Profile, error) {
	if name == "" || name == GenericName {
		return generic(), nil
	}
	for _, build := range registry {
		if p := build(); p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unknown retailer %q: valid retailers are %s", name, strings.Join(Names(), ", "))
}

// Detect returns the first profile in registry order with at least one
// keyword present in text, or the generic profile when none match.
// Substring matching means a keyword in an unrelated context still counts.
func Detect(text string) *Profile {
	lower := strings.ToLower(text)
	for _, build := range registry {
		p := build()
		for _, kw := range p.Keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				return p
			}
		}
	}
	return generic()
}

// IsGeneric reports whether p is the fallback profile.
func (p *Profile) IsGeneric() bool {
	return p == nil || p.Name == GenericName
}

// FormatHintsForPrompt returns a string suitable for injection into the extraction prompt.
func (p *Profile) FormatHintsForPrompt() string {
	var sb strings.Builder
	if p.IsGeneric() {
		sb.WriteString("Retailer: unknown (generic routing guide)\n")
	} else {
		sb.WriteString(fmt.Sprintf("Retailer: %s\n", p.Name))
	}

	if p != nil && p.ViolationFocus != "" {
		sb.WriteString(fmt.Sprintf("\nViolation focus: %s\n", p.ViolationFocus))
	}
	if p != nil && p.FineStructure != "" {
		sb.WriteString(fmt.Sprintf("\nFine structure: %s\n", p.FineStructure))
	}

	if p != nil && len(p.KnownCodes) > 0 {
		sb.WriteString("\nKnown violation codes (set violation_code when one applies):\n")
		for _, c := range p.KnownCodes {
			sb.WriteString(fmt.Sprintf("- %s\n", c))
		}
	} else {
		sb.WriteString("\nNo known violation codes: look for any violation or chargeback codes in the document and record them in violation_code.\n")
	}

	return sb.String()
}
