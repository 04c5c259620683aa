package risk

import (
	"fmt"

	"github.com/dshills/routeguard/internal/schema"
)

// Config holds the fixed thresholds and multipliers used by a Scorer.
type Config struct {
	// HighThreshold and MediumThreshold select the tier from the estimated fine (inclusive).
	HighThreshold   float64 `yaml:"high_threshold" json:"high_threshold"`
	MediumThreshold float64 `yaml:"medium_threshold" json:"medium_threshold"`

	Multipliers map[schema.Severity]float64 `yaml:"multipliers" json:"multipliers"`

	// ShipmentValueFactor is the placeholder shipment value, as a multiple of
	// the estimated fine, used when the caller supplies none.
	ShipmentValueFactor float64 `yaml:"shipment_value_factor" json:"shipment_value_factor"`

	LargeQuantity    int     `yaml:"large_quantity" json:"large_quantity"`
	ModerateQuantity int     `yaml:"moderate_quantity" json:"moderate_quantity"`
	HighImpact       float64 `yaml:"high_impact" json:"high_impact"`
	ModerateImpact   float64 `yaml:"moderate_impact" json:"moderate_impact"`
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		HighThreshold:   1000,
		MediumThreshold: 500,
		Multipliers: map[schema.Severity]float64{
			schema.SeverityHigh:   1.5,
			schema.SeverityMedium: 1.0,
			schema.SeverityLow:    0.5,
		},
		ShipmentValueFactor: 10,
		LargeQuantity:       100,
		ModerateQuantity:    50,
		HighImpact:          1000,
		ModerateImpact:      500,
	}
}

// Validate returns an error if any threshold is non-positive or inverted.
func (c Config) Validate() error {
	if c.MediumThreshold <= 0 || c.HighThreshold <= c.MediumThreshold {
		return fmt.Errorf("tier thresholds must satisfy 0 < medium (%g) < high (%g)", c.MediumThreshold, c.HighThreshold)
	}
	for sev, m := range c.Multipliers {
		if !schema.IsValidSeverity(sev) {
			return fmt.Errorf("multiplier for unknown severity %q", sev)
		}
		if m < 0 {
			return fmt.Errorf("multiplier for %s must be >= 0, got %g", sev, m)
		}
	}
	if c.ShipmentValueFactor <= 0 {
		return fmt.Errorf("shipment_value_factor must be > 0, got %g", c.ShipmentValueFactor)
	}
	if c.ModerateQuantity <= 0 || c.LargeQuantity <= c.ModerateQuantity {
		return fmt.Errorf("quantity thresholds must satisfy 0 < moderate (%d) < large (%d)", c.ModerateQuantity, c.LargeQuantity)
	}
	if c.ModerateImpact <= 0 || c.HighImpact <= c.ModerateImpact {
		return fmt.Errorf("impact thresholds must satisfy 0 < moderate (%g) < high (%g)", c.ModerateImpact, c.HighImpact)
	}
	return nil
}

// clone copies the multiplier map so a Scorer never shares it with its caller.
func (c Config) clone() Config {
	m := make(map[schema.Severity]float64, len(c.Multipliers))
	for k, v := range c.Multipliers {
		m[k] = v
	}
	c.Multipliers = m
	return c
}
