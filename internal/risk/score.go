// Package risk converts normalized requirements into dollar risk assessments.
package risk

import (
	"fmt"
	"math"
	"strings"

	"github.com/dshills/routeguard/internal/fine"
	"github.com/dshills/routeguard/internal/schema"
)

// Scorer computes risk assessments. It holds no mutable state and is safe
// for concurrent use.
type Scorer struct {
	cfg    Config
	interp *fine.Interpreter
}

// NewScorer returns a Scorer for cfg. A nil interp uses the standard fine rules.
func NewScorer(cfg Config, interp *fine.Interpreter) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("risk config: %w", err)
	}
	if interp == nil {
		interp = fine.Default()
	}
	return &Scorer{cfg: cfg.clone(), interp: interp}, nil
}

var defaultScorer = &Scorer{cfg: DefaultConfig(), interp: fine.Default()}

// Default returns a Scorer using DefaultConfig.
func Default() *Scorer { return defaultScorer }

// Config returns a copy of the scorer's configuration.
func (s *Scorer) Config() Config { return s.cfg.clone() }

// Assess estimates the fine for req at units with no known shipment value.
func (s *Scorer) Assess(req *schema.Requirement, units int) (*schema.RiskAssessment, error) {
	return s.AssessWithShipmentValue(req, units, 0)
}

// AssessWithShipmentValue estimates the fine for req at units. A
// shipmentValue <= 0 means unknown, in which case the risk percentage falls
// back to the placeholder ShipmentValueFactor times the estimated fine.
func (s *Scorer) AssessWithShipmentValue(req *schema.Requirement, units int, shipmentValue float64) (*schema.RiskAssessment, error) {
	if req == nil {
		return nil, &schema.InvalidInputError{Reason: "requirement is required"}
	}
	if units <= 0 {
		return nil, &schema.InvalidInputError{Reason: fmt.Sprintf("units must be > 0, got %d", units)}
	}

	base := s.interp.Estimate(req.Fine, units)
	estimated := math.Round(base * s.multiplier(req.Severity))

	a := &schema.RiskAssessment{
		Requirement:   *req,
		Units:         units,
		BaseFine:      base,
		EstimatedFine: estimated,
		RiskTier:      s.Tier(estimated),
	}

	if estimated > 0 {
		value := shipmentValue
		if value <= 0 {
			value = estimated * s.cfg.ShipmentValueFactor
			a.ShipmentValueAssumed = true
		}
		a.ShipmentValue = value
		a.RiskPercentage = math.Round(math.Min(estimated/value*100, 100)*100) / 100
	}

	a.RiskFactors = s.factors(req, units, estimated)
	return a, nil
}

// Tier classifies an estimated fine. It depends on the fine only.
func (s *Scorer) Tier(estimated float64) schema.RiskTier {
	switch {
	case estimated >= s.cfg.HighThreshold:
		return schema.TierHigh
	case estimated >= s.cfg.MediumThreshold:
		return schema.TierMedium
	default:
		return schema.TierLow
	}
}

func (s *Scorer) multiplier(sev schema.Severity) float64 {
	if m, ok := s.cfg.Multipliers[sev]; ok {
		return m
	}
	return 1.0
}

// categoryFactors maps a lower-case category fragment to its risk factor.
var categoryFactors = []struct {
	fragment string
	factor   string
}{
	{"label", "Labeling non-compliance may trigger chargebacks"},
	{"deliver", "Delivery window violations affect vendor scorecard"},
	{"packag", "Packaging defects may cause receiving rejections"},
}

func (s *Scorer) factors(req *schema.Requirement, units int, estimated float64) []string {
	out := []string{}
	if req.Severity == schema.SeverityHigh {
		out = append(out, "High severity violation")
	}

	switch {
	case units > s.cfg.LargeQuantity:
		out = append(out, "Large quantity affected")
	case units > s.cfg.ModerateQuantity:
		out = append(out, "Moderate quantity affected")
	}

	switch {
	case estimated > s.cfg.HighImpact:
		out = append(out, "High financial impact")
	case estimated > s.cfg.ModerateImpact:
		out = append(out, "Moderate financial impact")
	}

	category := strings.ToLower(req.Category)
	for _, cf := range categoryFactors {
		if strings.Contains(category, cf.fragment) {
			out = append(out, cf.factor)
		}
	}
	return out
}

// Assess scores req with the default Scorer.
func Assess(req *schema.Requirement, units int) (*schema.RiskAssessment, error) {
	return defaultScorer.Assess(req, units)
}
