// Package redact scrubs secrets and contact details from routing guide text
// before it is sent to an external extraction service.
package redact

import (
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

// pemPattern matches PEM key blocks across multiple lines.
var pemPattern = regexp.MustCompile(`(?s)-----BEGIN [A-Z ]+KEY-----.*?-----END [A-Z ]+KEY-----`)

// patterns holds single-line detection regexes in priority order.
var patterns = []*regexp.Regexp{
	// AWS access key IDs
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	// OpenAI / Anthropic secret keys
	regexp.MustCompile(`(?:^|\s|["'])sk-[a-zA-Z0-9\-_]{20,}`),
	// Bearer tokens, minimum 20-char token
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9\-._~+/]{20,}=*`),
	// Inline password assignments
	regexp.MustCompile(`(?i)password\s*[:=]\s*\S+`),
	// Email addresses of vendor contacts
	regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
	// North American phone numbers: (479) 555-0100, 479-555-0100, +1 479.555.0100
	regexp.MustCompile(`(?:\+1[\s.\-]?)?(?:\(\d{3}\)\s?|\d{3}[\s.\-])\d{3}[\s.\-]\d{4}\b`),
}

// Redact replaces known secret and contact patterns in input with [REDACTED].
// The number of newlines in the output always equals the number in the input.
func Redact(input string) string {
	input = pemPattern.ReplaceAllStringFunc(input, func(match string) string {
		lines := strings.Split(match, "\n")
		for i := range lines {
			lines[i] = redacted
		}
		return strings.Join(lines, "\n")
	})

	for _, re := range patterns {
		input = re.ReplaceAllString(input, redacted)
	}
	return input
}
