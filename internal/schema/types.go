package schema

// Severity is the editorial importance of a requirement. It only scales the
// computed fine; it never selects a risk tier directly.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// IsValidSeverity reports whether s is one of the three canonical severities.
func IsValidSeverity(s Severity) bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// RiskTier classifies an estimated fine against fixed dollar thresholds.
type RiskTier string

const (
	TierHigh   RiskTier = "High"
	TierMedium RiskTier = "Medium"
	TierLow    RiskTier = "Low"
)

// Default values applied by the normalizer when the extraction omits them.
const (
	DefaultPreventionMethod = "Manual verification"
	DefaultResponsibleParty = "Warehouse Worker"
)

// RawRequirement is one untrusted record as returned by the extraction model.
// Every field is optional at this stage; validate.Normalize decides what survives.
type RawRequirement struct {
	Requirement      any `json:"requirement,omitempty"`
	Violation        any `json:"violation,omitempty"`
	Fine             any `json:"fine,omitempty"`
	Category         any `json:"category,omitempty"`
	Severity         any `json:"severity,omitempty"`
	FineAmount       any `json:"fine_amount,omitempty"`
	FineUnit         any `json:"fine_unit,omitempty"`
	AdditionalFees   any `json:"additional_fees,omitempty"`
	PreventionMethod any `json:"prevention_method,omitempty"`
	ResponsibleParty any `json:"responsible_party,omitempty"`
	ViolationCode    any `json:"violation_code,omitempty"`
}

// RawPayload is the top-level extraction reply in typed form. It is accepted
// by validate.Normalize alongside decoded JSON and raw bytes.
type RawPayload struct {
	Requirements []RawRequirement `json:"requirements"`
}

// Requirement is a normalized compliance rule. Requirement, Violation, Fine and
// Category are always non-empty and Severity is always canonical.
type Requirement struct {
	Requirement      string   `json:"requirement"`
	Violation        string   `json:"violation"`
	Fine             string   `json:"fine"`
	Category         string   `json:"category"`
	Severity         Severity `json:"severity"`
	FineAmount       *float64 `json:"fine_amount"`
	FineUnit         string   `json:"fine_unit"`
	AdditionalFees   string   `json:"additional_fees"`
	PreventionMethod string   `json:"prevention_method"`
	ResponsibleParty string   `json:"responsible_party"`
	ViolationCode    string   `json:"violation_code"`
}

// RiskAssessment is derived on every request and never persisted here.
type RiskAssessment struct {
	Requirement   Requirement `json:"requirement"`
	Units         int         `json:"units"`
	BaseFine      float64     `json:"base_fine"`
	EstimatedFine float64     `json:"estimated_fine"`
	RiskTier      RiskTier    `json:"risk_tier"`
	// RiskPercentage is estimated fine over shipment value, 0-100.
	RiskPercentage float64 `json:"risk_percentage"`
	ShipmentValue  float64 `json:"shipment_value"`
	// ShipmentValueAssumed is true when no shipment value was supplied and the
	// placeholder multiple of the fine was used instead.
	ShipmentValueAssumed bool     `json:"shipment_value_assumed"`
	RiskFactors          []string `json:"risk_factors"`
}

// Distribution counts assessments per risk tier.
type Distribution struct {
	High   int `json:"High"`
	Medium int `json:"Medium"`
	Low    int `json:"Low"`
}

// Add increments the counter for tier.
func (d *Distribution) Add(tier RiskTier) {
	switch tier {
	case TierHigh:
		d.High++
	case TierMedium:
		d.Medium++
	case TierLow:
		d.Low++
	}
}

// Stats aggregates assessments over a batch of requirements.
type Stats struct {
	Count              int             `json:"count"`
	TotalEstimatedFine float64         `json:"total_estimated_fine"`
	AverageFine        float64         `json:"average_fine"`
	Distribution       Distribution    `json:"distribution"`
	HighestRisk        *RiskAssessment `json:"highest_risk"`
}

// Document identifies the routing guide an extraction came from.
type Document struct {
	Path string `json:"path"`
	Hash string `json:"hash"` // SHA-256 of the original file, computed before redaction
}

// ExtractionMeta holds runtime metadata about the extraction call.
type ExtractionMeta struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	Attempts    int     `json:"attempts"`
}

// ExtractionResult is the output of one extraction batch.
type ExtractionResult struct {
	Tool         string         `json:"tool"`
	Version      string         `json:"version"`
	BatchID      string         `json:"batch_id"`
	Retailer     string         `json:"retailer"`
	Document     Document       `json:"document"`
	Requirements []Requirement  `json:"requirements"`
	Meta         ExtractionMeta `json:"meta"`
}

// ReportInput captures the parameters of an assess run.
type ReportInput struct {
	RequirementsFile string  `json:"requirements_file"`
	Retailer         string  `json:"retailer"`
	Units            int     `json:"units"`
	ShipmentValue    float64 `json:"shipment_value,omitempty"`
}

// RiskReport is the rendered output of an assess run.
type RiskReport struct {
	Tool        string           `json:"tool"`
	Version     string           `json:"version"`
	Input       ReportInput      `json:"input"`
	Summary     Stats            `json:"summary"`
	Assessments []RiskAssessment `json:"assessments"`
}
