package risk

import (
	"fmt"
	"math"

	"github.com/dshills/routeguard/internal/schema"
)

// AssessAll scores every requirement in input order. The first failure is
// returned with the element index; no element is skipped.
func (s *Scorer) AssessAll(reqs []schema.Requirement, units int, shipmentValue float64) ([]schema.RiskAssessment, error) {
	out := make([]schema.RiskAssessment, 0, len(reqs))
	for i := range reqs {
		a, err := s.AssessWithShipmentValue(&reqs[i], units, shipmentValue)
		if err != nil {
			return nil, fmt.Errorf("requirement[%d]: %w", i, err)
		}
		out = append(out, *a)
	}
	return out, nil
}

// Summarize scores reqs at units and aggregates the results. Empty input
// yields zeroed Stats with a nil HighestRisk.
func (s *Scorer) Summarize(reqs []schema.Requirement, units int) (*schema.Stats, error) {
	if len(reqs) == 0 {
		return &schema.Stats{}, nil
	}
	assessments, err := s.AssessAll(reqs, units, 0)
	if err != nil {
		return nil, err
	}
	return Aggregate(assessments), nil
}

// Aggregate builds Stats over already computed assessments. Ties for the
// highest fine go to the earliest assessment.
func Aggregate(assessments []schema.RiskAssessment) *schema.Stats {
	stats := &schema.Stats{}
	for i := range assessments {
		a := &assessments[i]
		stats.Count++
		stats.TotalEstimatedFine += a.EstimatedFine
		stats.Distribution.Add(a.RiskTier)
		if stats.HighestRisk == nil || a.EstimatedFine > stats.HighestRisk.EstimatedFine {
			stats.HighestRisk = a
		}
	}
	if stats.Count > 0 {
		stats.AverageFine = math.Round(stats.TotalEstimatedFine / float64(stats.Count))
	}
	return stats
}

// Summarize aggregates reqs with the default Scorer.
func Summarize(reqs []schema.Requirement, units int) (*schema.Stats, error) {
	return defaultScorer.Summarize(reqs, units)
}
