// Package fine turns free-form fine descriptions such as "$2/carton + $250"
// into a dollar estimate for a given unit count.
package fine

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// amount matches a dollar figure and captures its numeric part.
const amount = `\$\s*(\d[\d,]*(?:\.\d+)?)`

// Rule recognises one kind of fine clause. The first non-empty capture group
// of Pattern is the dollar amount.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	// PerUnit multiplies the amount by the unit count; otherwise it is added once.
	PerUnit bool
}

// Contribution is one recognised clause and what it added to the total.
type Contribution struct {
	Rule     string  `json:"rule"`
	Amount   float64 `json:"amount"`
	Units    int     `json:"units"` // 1 for flat clauses
	Subtotal float64 `json:"subtotal"`
}

// FallbackRule names the contribution made when no rule matched.
const FallbackRule = "fallback"

// DefaultRules returns the standard clause rules in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "per-carton", PerUnit: true, Pattern: regexp.MustCompile(amount + `\s*(?:per\s*|/\s*)cartons?\b`)},
		{Name: "per-item", PerUnit: true, Pattern: regexp.MustCompile(amount + `\s*(?:per\s*|/\s*)items?\b`)},
		{Name: "per-occurrence", Pattern: regexp.MustCompile(amount + `\s*per\s*occurrences?\b`)},
		{Name: "per-hour", Pattern: regexp.MustCompile(amount + `\s*(?:per\s*|/\s*)(?:hour|hr)s?\b`)},
		{Name: "per-defect", PerUnit: true, Pattern: regexp.MustCompile(amount + `\s*per\s*(?:missing|incorrect|non-compliant|noncompliant)\b`)},
		{Name: "per-violation", Pattern: regexp.MustCompile(amount + `\s*per\s*(?:violation|incident)s?\b`)},
		{Name: "processing-fee", Pattern: regexp.MustCompile(amount + `\s*(?:processing|inspection)\s+fees?\b|(?:processing|inspection)\s+fees?\s*(?:of\s*)?:?\s*` + amount)},
		{Name: "fee", Pattern: regexp.MustCompile(amount + `\s*(?:[a-z\-]+\s+){0,2}fees?\b|\bfees?\s*(?:of\s*)?:?\s*` + amount)},
		{Name: "add-on", Pattern: regexp.MustCompile(`(?:\+|\bplus)\s*` + amount)},
		// Left operand of "+" or "plus", so "$250 + $2/carton" sums like "$2/carton + $250".
		{Name: "add-on", Pattern: regexp.MustCompile(amount + `\s*(?:\+|\bplus\b)`)},
	}
}

var defaultPerUnitWords = regexp.MustCompile(`\b(?:per|missing|incorrect)\b`)

// Interpreter applies an immutable, ordered rule set to fine text.
// It is safe for concurrent use.
type Interpreter struct {
	rules        []Rule
	perUnitWords *regexp.Regexp
	firstAmount  *regexp.Regexp
}

// New returns an Interpreter over rules. perUnitWords decides whether the
// fallback amount is multiplied by units; nil uses per/missing/incorrect.
func New(rules []Rule, perUnitWords *regexp.Regexp) *Interpreter {
	if perUnitWords == nil {
		perUnitWords = defaultPerUnitWords
	}
	return &Interpreter{
		rules:        append([]Rule(nil), rules...),
		perUnitWords: perUnitWords,
		firstAmount:  regexp.MustCompile(amount),
	}
}

var std = New(DefaultRules(), nil)

// Default returns the standard Interpreter.
func Default() *Interpreter { return std }

// Estimate interprets text using the standard rules.
func Estimate(text string, units int) float64 {
	return std.Estimate(text, units)
}

// Estimate returns the dollar estimate of text for units. Empty text or a
// non-positive unit count yields 0.
func (in *Interpreter) Estimate(text string, units int) float64 {
	total, _ := in.Explain(text, units)
	return total
}

// Explain returns the estimate together with the clauses that produced it.
// Every matching rule contributes; a dollar figure is counted at most once
// even when several rules match it. When nothing matched, the first dollar
// figure in the text is used, per unit if the text says per, missing, or incorrect.
func (in *Interpreter) Explain(text string, units int) (float64, []Contribution) {
	if strings.TrimSpace(text) == "" || units <= 0 {
		return 0, nil
	}
	lower := strings.ToLower(text)

	var (
		total    float64
		parts    []Contribution
		consumed [][2]int
	)
	for _, r := range in.rules {
		for _, m := range r.Pattern.FindAllStringSubmatchIndex(lower, -1) {
			start, end, ok := amountSpan(m)
			if !ok || overlaps(consumed, start, end) {
				continue
			}
			v, ok := parseAmount(lower[start:end])
			if !ok {
				continue
			}
			consumed = append(consumed, [2]int{start, end})
			c := contribution(r.Name, v, r.PerUnit, units)
			total += c.Subtotal
			parts = append(parts, c)
		}
	}

	if total == 0 {
		if m := in.firstAmount.FindStringSubmatch(lower); m != nil {
			if v, ok := parseAmount(m[1]); ok {
				c := contribution(FallbackRule, v, in.perUnitWords.MatchString(lower), units)
				total += c.Subtotal
				parts = append(parts, c)
			}
		}
	}

	return roundCents(total), parts
}

func contribution(rule string, v float64, perUnit bool, units int) Contribution {
	n := 1
	if perUnit {
		n = units
	}
	return Contribution{Rule: rule, Amount: v, Units: n, Subtotal: v * float64(n)}
}

// amountSpan returns the byte span of the first participating capture group.
func amountSpan(m []int) (int, int, bool) {
	for g := 2; g+1 < len(m); g += 2 {
		if m[g] >= 0 {
			return m[g], m[g+1], true
		}
	}
	return 0, 0, false
}

func overlaps(spans [][2]int, start, end int) bool {
	for _, s := range spans {
		if start < s[1] && s[0] < end {
			return true
		}
	}
	return false
}

func parseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
