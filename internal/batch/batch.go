// Package batch loads previously extracted requirement batches from disk.
package batch

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dshills/routeguard/internal/schema"
	"github.com/dshills/routeguard/internal/schema/validate"
)

// Batch is a validated set of requirements read from a file.
type Batch struct {
	Path         string
	Retailer     string // empty when the file does not name one
	Requirements []schema.Requirement
}

// Load reads an extraction result, or any JSON object with a requirements
// array, and re-validates every requirement. Files written by hand get the
// same checks and defaults as a fresh extraction.
func Load(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch %q: %w", path, err)
	}

	reqs, err := validate.Normalize(data)
	if err != nil {
		return nil, fmt.Errorf("batch %q: %w", path, err)
	}

	var head struct {
		Retailer string `json:"retailer"`
	}
	// Shape was already checked; a non-string retailer is simply ignored.
	_ = json.Unmarshal(data, &head)

	return &Batch{
		Path:         path,
		Retailer:     head.Retailer,
		Requirements: reqs,
	}, nil
}
