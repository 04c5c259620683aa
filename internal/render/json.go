package render

import (
	"encoding/json"

	"github.com/dshills/routeguard/internal/schema"
)

type jsonRenderer struct{}

func (r *jsonRenderer) Render(report *schema.RiskReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}
