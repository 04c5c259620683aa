package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/dshills/routeguard/internal/schema"
)

// payloadSchema constrains only the top-level shape. Per-element checks are
// done by hand so that failures carry the element index and severity can be
// repaired instead of rejected.
const payloadSchema = `{
  "type": "object",
  "required": ["requirements"],
  "properties": {
    "requirements": {"type": "array"}
  }
}`

var compiledPayload = jsonschema.MustCompileString("requirements.schema.json", payloadSchema)

// mandatory lists the string fields every requirement must carry.
var mandatory = []string{"requirement", "violation", "fine", "category"}

// Parse strips markdown fences from an extraction reply, decodes it, and
// normalizes the requirements it contains.
func Parse(content string) ([]schema.Requirement, error) {
	cleaned := stripFences(content)
	if cleaned == "" {
		return nil, &schema.UpstreamFormatError{Reason: "empty response"}
	}

	raw, err := decode([]byte(cleaned))
	if err != nil {
		// Models sometimes wrap the object in prose; retry on the outermost braces.
		start, end := strings.Index(cleaned, "{"), strings.LastIndex(cleaned, "}")
		if start < 0 || end <= start {
			return nil, &schema.UpstreamFormatError{Reason: "JSON parse failed", Err: err}
		}
		if raw, err = decode([]byte(cleaned[start : end+1])); err != nil {
			return nil, &schema.UpstreamFormatError{Reason: "JSON parse failed", Err: err}
		}
	}

	return Normalize(raw)
}

// Normalize validates an untrusted extraction payload and returns freshly
// allocated requirements. raw may be decoded JSON, a []byte document, or a
// schema.RawPayload; it is never modified.
//
// A payload without a requirements array fails with *schema.SchemaError. An
// element that is not an object, lacks one of requirement, violation, fine,
// or category, or has no severity at all fails with
// *schema.InvalidRequirementError and rejects the whole batch. A severity
// that is present but not High, Medium, or Low is repaired to Medium.
// An empty requirements array is valid and yields an empty slice.
func Normalize(raw any) ([]schema.Requirement, error) {
	doc, err := canonical(raw)
	if err != nil {
		return nil, &schema.SchemaError{Reason: err.Error()}
	}
	if err := compiledPayload.Validate(doc); err != nil {
		return nil, &schema.SchemaError{Reason: fmt.Sprintf("expected an object with a requirements array: %v", err)}
	}

	items := doc.(map[string]any)["requirements"].([]any)
	out := make([]schema.Requirement, 0, len(items))
	for i, item := range items {
		req, err := normalizeOne(item, i)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

func normalizeOne(item any, idx int) (schema.Requirement, error) {
	m, ok := item.(map[string]any)
	if !ok {
		return schema.Requirement{}, &schema.InvalidRequirementError{Index: idx}
	}

	for _, field := range mandatory {
		if stringField(m, field) == "" {
			return schema.Requirement{}, &schema.InvalidRequirementError{Index: idx, Field: field}
		}
	}
	if v, ok := m["severity"]; !ok || v == nil {
		return schema.Requirement{}, &schema.InvalidRequirementError{Index: idx, Field: "severity"}
	}

	return schema.Requirement{
		Requirement:      stringField(m, "requirement"),
		Violation:        stringField(m, "violation"),
		Fine:             stringField(m, "fine"),
		Category:         stringField(m, "category"),
		Severity:         normalizeSeverity(m["severity"]),
		FineAmount:       amountField(m["fine_amount"]),
		FineUnit:         stringField(m, "fine_unit"),
		AdditionalFees:   stringField(m, "additional_fees"),
		PreventionMethod: withDefault(stringField(m, "prevention_method"), schema.DefaultPreventionMethod),
		ResponsibleParty: withDefault(stringField(m, "responsible_party"), schema.DefaultResponsibleParty),
		ViolationCode:    stringField(m, "violation_code"),
	}, nil
}

// normalizeSeverity canonicalises v, matching case-insensitively. Anything
// else, including non-strings, becomes Medium.
func normalizeSeverity(v any) schema.Severity {
	s, ok := v.(string)
	if !ok {
		return schema.SeverityMedium
	}
	s = strings.TrimSpace(s)
	for _, sev := range []schema.Severity{schema.SeverityHigh, schema.SeverityMedium, schema.SeverityLow} {
		if strings.EqualFold(s, string(sev)) {
			return sev
		}
	}
	return schema.SeverityMedium
}

// stringField returns the trimmed string at key, or "" when absent or not a string.
func stringField(m map[string]any, key string) string {
	s, ok := m[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// amountField accepts a JSON number or a numeric string such as "$1,250.00".
// Anything else, including negative values, yields nil.
func amountField(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return nil
		}
		f = n
	case string:
		s := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(t))
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = n
	default:
		return nil
	}
	if f < 0 {
		return nil
	}
	return &f
}

func withDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// canonical re-encodes raw so that validation works on plain JSON values and
// never aliases the caller's maps or slices.
func canonical(raw any) (any, error) {
	if b, ok := raw.([]byte); ok {
		return decode(b)
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("payload is not JSON-encodable: %w", err)
	}
	return decode(b)
}

func decode(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return v, nil
}

// stripFences removes leading/trailing markdown code fences (```json ... ``` or ``` ... ```).
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		idx := strings.Index(s, "\n")
		if idx >= 0 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	if strings.HasSuffix(s, "```") {
		idx := strings.LastIndex(s, "\n```")
		if idx >= 0 {
			s = s[:idx]
		} else {
			s = strings.TrimSuffix(s, "```")
		}
	}
	return strings.TrimSpace(s)
}
