package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/dshills/routeguard/internal/schema"
)

type markdownRenderer struct{}

var mdFuncs = template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
	"join":  strings.Join,
	"inc":   func(i int) int { return i + 1 },
	"cell":  func(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ") },
}

var mdTemplate = template.Must(template.New("report").Funcs(mdFuncs).Parse(`# Routing Guide Risk Report

**Retailer:** {{ if .Input.Retailer }}{{ .Input.Retailer }}{{ else }}unknown{{ end }}
**Units:** {{ .Input.Units }}{{ if .Input.ShipmentValue }} | **Shipment value:** {{ money .Input.ShipmentValue }}{{ end }}

## Summary

**Requirements:** {{ .Summary.Count }}
**Total estimated fines:** {{ money .Summary.TotalEstimatedFine }}
**Average fine:** {{ money .Summary.AverageFine }}
**High:** {{ .Summary.Distribution.High }} | **Medium:** {{ .Summary.Distribution.Medium }} | **Low:** {{ .Summary.Distribution.Low }}
{{ with .Summary.HighestRisk }}
**Highest risk:** {{ .Requirement.Requirement }} ({{ money .EstimatedFine }}, {{ .RiskTier }})
{{ end }}{{ if .Assessments }}
---

## Assessments

| # | Requirement | Category | Severity | Fine | Estimated | Tier | Risk % |
|---|-------------|----------|----------|------|-----------|------|--------|
{{ range $i, $a := .Assessments }}| {{ inc $i }} | {{ cell $a.Requirement.Requirement }} | {{ cell $a.Requirement.Category }} | {{ $a.Requirement.Severity }} | {{ cell $a.Requirement.Fine }} | {{ money $a.EstimatedFine }} | {{ $a.RiskTier }} | {{ printf "%.2f" $a.RiskPercentage }} |
{{ end }}
### Risk factors
{{ range $i, $a := .Assessments }}{{ if $a.RiskFactors }}
- **{{ inc $i }}** {{ join $a.RiskFactors "; " }}{{ end }}{{ end }}
{{ end }}
---
*{{ .Tool }} {{ .Version }}*
`))

func (r *markdownRenderer) Render(report *schema.RiskReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := mdTemplate.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.Bytes(), nil
}
