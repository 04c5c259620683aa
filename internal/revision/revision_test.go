package revision

import (
	"strings"
	"testing"

	"github.com/dshills/routeguard/internal/schema"
)

func req(code, text, fine string, sev schema.Severity) schema.Requirement {
	return schema.Requirement{
		Requirement:   text,
		Violation:     "violation",
		Fine:          fine,
		Category:      "Labeling",
		Severity:      sev,
		ViolationCode: code,
	}
}

func TestCompare_Identical(t *testing.T) {
	a := []schema.Requirement{req("LBL-1", "Label cartons", "$5 per carton", schema.SeverityHigh)}
	if got := Compare(a, a); len(got) != 0 {
		t.Errorf("expected no changes, got %+v", got)
	}
}

func TestCompare_AddedRemovedChanged(t *testing.T) {
	prev := []schema.Requirement{
		req("LBL-1", "Label cartons", "$5 per carton", schema.SeverityHigh),
		req("", "Ship on time", "$100 per occurrence", schema.SeverityMedium),
	}
	next := []schema.Requirement{
		req("LBL-1", "Label every carton", "$10 per carton", schema.SeverityHigh),
		req("ASN-1", "Send ASN", "$250 flat", schema.SeverityLow),
	}

	got := Compare(prev, next)
	if len(got) != 3 {
		t.Fatalf("expected 3 changes, got %d: %+v", len(got), got)
	}

	if got[0].Kind != Changed || got[0].Key != "LBL-1" {
		t.Errorf("change[0] = %s %s, want changed LBL-1", got[0].Kind, got[0].Key)
	}
	if len(got[0].Fields) != 1 || got[0].Fields[0] != "fine" {
		t.Errorf("changed fields = %v, want [fine]", got[0].Fields)
	}
	if got[1].Kind != Removed || got[1].Key != "Ship on time" || got[1].New != nil {
		t.Errorf("change[1] = %+v, want removed Ship on time", got[1])
	}
	if got[2].Kind != Added || got[2].Key != "ASN-1" || got[2].Old != nil {
		t.Errorf("change[2] = %+v, want added ASN-1", got[2])
	}
}

func TestCompare_RequirementTextOnlyIsNotAChange(t *testing.T) {
	prev := []schema.Requirement{req("LBL-1", "Label cartons", "$5 per carton", schema.SeverityHigh)}
	next := []schema.Requirement{req("LBL-1", "Label all cartons", "$5 per carton", schema.SeverityHigh)}
	if got := Compare(prev, next); len(got) != 0 {
		t.Errorf("expected no changes, got %+v", got)
	}
}

func TestCompare_DuplicateKeys(t *testing.T) {
	prev := []schema.Requirement{
		req("", "Label cartons", "$5 per carton", schema.SeverityHigh),
		req("", "Label cartons", "$5 per carton", schema.SeverityHigh),
	}
	next := prev[:1]
	got := Compare(prev, next)
	if len(got) != 1 || got[0].Kind != Removed || got[0].Key != "Label cartons #2" {
		t.Errorf("expected second duplicate removed, got %+v", got)
	}
}

func TestCompare_SeverityChange(t *testing.T) {
	prev := []schema.Requirement{req("X", "a", "$1", schema.SeverityLow)}
	next := []schema.Requirement{req("X", "a", "$1", schema.SeverityHigh)}
	got := Compare(prev, next)
	if len(got) != 1 || got[0].Fields[0] != "severity" {
		t.Errorf("expected severity change, got %+v", got)
	}
}

func TestGenerateDiff_Changed(t *testing.T) {
	prev := []schema.Requirement{req("LBL-1", "Label cartons", "$5 per carton", schema.SeverityHigh)}
	next := []schema.Requirement{req("LBL-1", "Label cartons", "$10 per carton", schema.SeverityHigh)}

	var sb strings.Builder
	if err := GenerateDiff(Compare(prev, next), &sb); err != nil {
		t.Fatalf("GenerateDiff: %v", err)
	}
	out := sb.String()
	if !strings.HasPrefix(out, "# LBL-1\n") {
		t.Errorf("diff missing key header: %q", out)
	}
	if !strings.Contains(out, "@@") {
		t.Errorf("diff missing patch hunk: %q", out)
	}
}

func TestGenerateDiff_SkipsAddedAndRemoved(t *testing.T) {
	prev := []schema.Requirement{req("A", "a", "$1", schema.SeverityLow)}
	next := []schema.Requirement{req("B", "b", "$2", schema.SeverityLow)}

	var sb strings.Builder
	if err := GenerateDiff(Compare(prev, next), &sb); err != nil {
		t.Fatalf("GenerateDiff: %v", err)
	}
	if sb.Len() != 0 {
		t.Errorf("expected no patch text, got %q", sb.String())
	}
}
