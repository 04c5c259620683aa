package render

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dshills/routeguard/internal/schema"
)

const (
	assessmentsSheet = "Assessments"
	summarySheet     = "Summary"
)

type xlsxRenderer struct{}

var assessmentHeaders = []string{
	"Requirement",
	"Violation",
	"Category",
	"Severity",
	"Fine Text",
	"Violation Code",
	"Units",
	"Base Fine",
	"Estimated Fine",
	"Risk Tier",
	"Risk %",
	"Risk Factors",
	"Prevention Method",
	"Responsible Party",
}

func (r *xlsxRenderer) Render(report *schema.RiskReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// The default workbook starts with one sheet; reuse it for assessments.
	if err := f.SetSheetName(f.GetSheetName(0), assessmentsSheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	for i, h := range assessmentHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(assessmentsSheet, cell, h)
	}
	for i, a := range report.Assessments {
		row := i + 2
		vals := []any{
			a.Requirement.Requirement,
			a.Requirement.Violation,
			a.Requirement.Category,
			string(a.Requirement.Severity),
			a.Requirement.Fine,
			a.Requirement.ViolationCode,
			a.Units,
			a.BaseFine,
			a.EstimatedFine,
			string(a.RiskTier),
			a.RiskPercentage,
			strings.Join(a.RiskFactors, "; "),
			a.Requirement.PreventionMethod,
			a.Requirement.ResponsibleParty,
		}
		for col, v := range vals {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(assessmentsSheet, cell, v)
		}
	}
	_ = f.SetColWidth(assessmentsSheet, "A", "B", 40) // requirement, violation
	_ = f.SetColWidth(assessmentsSheet, "C", "D", 14)
	_ = f.SetColWidth(assessmentsSheet, "E", "E", 32) // fine text
	_ = f.SetColWidth(assessmentsSheet, "F", "K", 14)
	_ = f.SetColWidth(assessmentsSheet, "L", "L", 60) // factors
	_ = f.SetColWidth(assessmentsSheet, "M", "N", 22)

	s := report.Summary
	highest := ""
	if s.HighestRisk != nil {
		highest = s.HighestRisk.Requirement.Requirement
	}
	rows := [][]any{
		{"Retailer", report.Input.Retailer},
		{"Units", report.Input.Units},
		{"Shipment Value", report.Input.ShipmentValue},
		{"Requirements", s.Count},
		{"Total Estimated Fine", s.TotalEstimatedFine},
		{"Average Fine", s.AverageFine},
		{"High", s.Distribution.High},
		{"Medium", s.Distribution.Medium},
		{"Low", s.Distribution.Low},
		{"Highest Risk", highest},
	}
	for i, kv := range rows {
		for col, v := range kv {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+1)
			_ = f.SetCellValue(summarySheet, cell, v)
		}
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 24)
	_ = f.SetColWidth(summarySheet, "B", "B", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
