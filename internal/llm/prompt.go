package llm

import (
	"strings"

	"github.com/dshills/routeguard/internal/retailer"
)

// DefaultMaxDocumentChars bounds how much routing guide text is sent upstream.
const DefaultMaxDocumentChars = 15000

const systemPrompt = `You are a retail vendor compliance analyst. Your job is to extract every rule from a
routing guide that carries a fine, chargeback, or deduction when violated.

For each rule extract:
- requirement: what the vendor must do
- violation: what counts as breaking the rule
- fine: the penalty exactly as written, including every clause (e.g. "$2/carton + $250 processing fee")
- category: one of Labeling, Packaging, Delivery, ASN, Documentation, Pallet, Other
- severity: High, Medium, or Low
- fine_amount: the primary dollar amount as a number, or null
- fine_unit: what the amount is charged per (carton, item, occurrence, hour), or ""
- additional_fees: any extra flat fees, or ""
- prevention_method: how a warehouse can prevent the violation
- responsible_party: the warehouse role that owns prevention
- violation_code: the retailer's code for the violation, or ""

Anti-hallucination rules:
- Only extract rules stated in the document
- Do not invent fine amounts; copy the fine text verbatim
- Omit rules that carry no penalty

Output rules:
- Return JSON only: no prose, no markdown fences, no explanation
- JSON must match the provided structure exactly`

const outputExample = `{
  "requirements": [
    {
      "requirement": "Every carton must carry a GS1-128 shipping label",
      "violation": "Carton label missing or unscannable",
      "fine": "$2/carton + $250 processing fee",
      "category": "Labeling",
      "severity": "High",
      "fine_amount": 2,
      "fine_unit": "carton",
      "additional_fees": "$250 processing fee",
      "prevention_method": "Scan-verify every label before loading",
      "responsible_party": "Warehouse Worker",
      "violation_code": ""
    }
  ]
}`

// BuildSystemPrompt returns the fixed extraction instructions.
func BuildSystemPrompt() string {
	return systemPrompt
}

// BuildPrompt constructs the user prompt for one document: the profile's
// hints, the expected output shape, and the document text truncated to
// maxChars runes. maxChars <= 0 uses DefaultMaxDocumentChars.
func BuildPrompt(p *retailer.Profile, text string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxDocumentChars
	}
	if p == nil {
		p, _ = retailer.Get(retailer.GenericName)
	}

	var sb strings.Builder
	sb.WriteString("Extract the fined compliance requirements from the following routing guide.\n\n")
	sb.WriteString(p.FormatHintsForPrompt())

	sb.WriteString("\nReturn your findings as JSON with this structure:\n")
	sb.WriteString(outputExample)
	sb.WriteString("\n\n<document>\n")

	doc, truncated := Truncate(text, maxChars)
	sb.WriteString(doc)
	if !strings.HasSuffix(doc, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString("</document>\n")
	if truncated {
		sb.WriteString("\nThe document was truncated; extract only what is shown.\n")
	}

	return sb.String()
}

// Truncate limits s to maxLen runes and reports whether anything was cut.
func Truncate(s string, maxLen int) (string, bool) {
	if maxLen < 0 {
		maxLen = 0
	}
	n := 0
	for i := range s {
		if n == maxLen {
			return s[:i], true
		}
		n++
	}
	return s, false
}

// truncate limits a string to maxLen runes, appending "..." if truncated.
func truncate(s string, maxLen int) string {
	out, cut := Truncate(s, maxLen)
	if cut {
		return out + "..."
	}
	return out
}
