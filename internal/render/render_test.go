package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/dshills/routeguard/internal/schema"
)

func sampleReport() *schema.RiskReport {
	high := schema.RiskAssessment{
		Requirement: schema.Requirement{
			Requirement:      "Every carton must carry a GS1-128 label",
			Violation:        "Missing or unreadable carton label",
			Fine:             "$5 per carton",
			Category:         "Labeling",
			Severity:         schema.SeverityHigh,
			PreventionMethod: "Scan labels before dispatch",
			ResponsibleParty: "Shipping Lead",
			ViolationCode:    "LBL-01",
		},
		Units:                300,
		BaseFine:             1500,
		EstimatedFine:        2250,
		RiskTier:             schema.TierHigh,
		RiskPercentage:       10,
		ShipmentValue:        22500,
		ShipmentValueAssumed: true,
		RiskFactors:          []string{"High severity violation", "Labeling non-compliance may trigger chargebacks"},
	}
	low := schema.RiskAssessment{
		Requirement: schema.Requirement{
			Requirement:      "Pallets | no overhang",
			Violation:        "Overhang",
			Fine:             "$50",
			Category:         "Packaging",
			Severity:         schema.SeverityLow,
			PreventionMethod: schema.DefaultPreventionMethod,
			ResponsibleParty: schema.DefaultResponsibleParty,
		},
		Units:          300,
		BaseFine:       50,
		EstimatedFine:  25,
		RiskTier:       schema.TierLow,
		RiskPercentage: 10,
		ShipmentValue:  250,
		RiskFactors:    []string{},
	}
	return &schema.RiskReport{
		Tool:    "routeguard",
		Version: "1.0",
		Input:   schema.ReportInput{RequirementsFile: "walmart.json", Retailer: "walmart", Units: 300},
		Summary: schema.Stats{
			Count:              2,
			TotalEstimatedFine: 2275,
			AverageFine:        1137.5,
			Distribution:       schema.Distribution{High: 1, Low: 1},
			HighestRisk:        &high,
		},
		Assessments: []schema.RiskAssessment{high, low},
	}
}

func TestNewRenderer_JSON(t *testing.T) {
	r, err := NewRenderer("json")
	if err != nil {
		t.Fatalf("NewRenderer json: %v", err)
	}
	out, err := r.Render(sampleReport())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	var decoded schema.RiskReport
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, out)
	}
	if decoded.Summary.TotalEstimatedFine != 2275 {
		t.Errorf("total mismatch: got %v", decoded.Summary.TotalEstimatedFine)
	}
	if decoded.Summary.HighestRisk == nil || decoded.Summary.HighestRisk.RiskTier != schema.TierHigh {
		t.Errorf("highest risk not preserved: %+v", decoded.Summary.HighestRisk)
	}
}

func TestNewRenderer_JSONEmptyReport(t *testing.T) {
	r, _ := NewRenderer("json")
	out, err := r.Render(&schema.RiskReport{Tool: "routeguard", Assessments: []schema.RiskAssessment{}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `"highest_risk": null`) {
		t.Errorf("empty report should carry null highest_risk: %s", out)
	}
}

func TestNewRenderer_Markdown(t *testing.T) {
	r, err := NewRenderer("md")
	if err != nil {
		t.Fatalf("NewRenderer md: %v", err)
	}
	out, err := r.Render(sampleReport())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	s := string(out)
	for _, want := range []string{
		"# Routing Guide Risk Report",
		"**Retailer:** walmart",
		"**Total estimated fines:** $2275.00",
		"**Highest risk:** Every carton must carry a GS1-128 label ($2250.00, High)",
		`Pallets \| no overhang`,
		"Labeling non-compliance may trigger chargebacks",
		"| 1 | Every carton must carry a GS1-128 label |",
		"| 2 | Pallets \\| no overhang |",
		"- **1** High severity violation",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("markdown missing %q:\n%s", want, s)
		}
	}
}

func TestNewRenderer_MarkdownEmptyReport(t *testing.T) {
	r, _ := NewRenderer("md")
	out, err := r.Render(&schema.RiskReport{Tool: "routeguard"})
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	if strings.Contains(s, "## Assessments") || strings.Contains(s, "Highest risk") {
		t.Errorf("empty report should omit assessments and highest risk:\n%s", s)
	}
	if !strings.Contains(s, "**Retailer:** unknown") {
		t.Errorf("empty retailer should render as unknown:\n%s", s)
	}
}

func TestNewRenderer_XLSX(t *testing.T) {
	r, err := NewRenderer("xlsx")
	if err != nil {
		t.Fatalf("NewRenderer xlsx: %v", err)
	}
	out, err := r.Render(sampleReport())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Assessments" || sheets[1] != "Summary" {
		t.Fatalf("sheets = %v, want [Assessments Summary]", sheets)
	}

	if v, _ := f.GetCellValue("Assessments", "A1"); v != "Requirement" {
		t.Errorf("A1 = %q, want header", v)
	}
	if v, _ := f.GetCellValue("Assessments", "A2"); v != "Every carton must carry a GS1-128 label" {
		t.Errorf("A2 = %q", v)
	}
	if v, _ := f.GetCellValue("Assessments", "J3"); v != "Low" {
		t.Errorf("J3 tier = %q, want Low", v)
	}
	rows, err := f.GetRows("Assessments")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Errorf("expected header plus 2 rows, got %d", len(rows))
	}

	if v, _ := f.GetCellValue("Summary", "B1"); v != "walmart" {
		t.Errorf("Summary B1 = %q, want walmart", v)
	}
	if v, _ := f.GetCellValue("Summary", "B10"); v != "Every carton must carry a GS1-128 label" {
		t.Errorf("Summary highest = %q", v)
	}
}

func TestNewRenderer_UnknownFormat(t *testing.T) {
	_, err := NewRenderer("xml")
	if err == nil {
		t.Error("expected error for unknown format, got nil")
	}
}
