package render

import (
	"fmt"

	"github.com/dshills/routeguard/internal/schema"
)

// Renderer formats a RiskReport into bytes for output.
type Renderer interface {
	Render(report *schema.RiskReport) ([]byte, error)
}

// NewRenderer returns a Renderer for the given format string.
// Supported formats: "json" (default), "md", "xlsx".
func NewRenderer(format string) (Renderer, error) {
	switch format {
	case "json":
		return &jsonRenderer{}, nil
	case "md":
		return &markdownRenderer{}, nil
	case "xlsx":
		return &xlsxRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q: supported formats are json, md, xlsx", format)
	}
}
