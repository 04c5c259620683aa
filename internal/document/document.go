// Package document loads routing guide text from disk.
package document

import (
	"crypto/sha256"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dshills/routeguard/internal/redact"
)

// Document holds a loaded routing guide with derived metadata.
type Document struct {
	Path string
	Hash string // "sha256:<hex>" of the file bytes, before any redaction
	Raw  string // original content
	// Normalized is Raw with CRLF converted to LF. It never leaves the
	// process; retailer detection runs on it so redacted emails still count.
	Normalized string
	Text       string // Normalized after redaction, safe to send upstream
}

// Load reads a routing guide from disk, hashes it, and prepares the redacted text.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("document %s is not valid UTF-8 text", path)
	}
	return FromBytes(path, data), nil
}

// FromBytes builds a Document from already-read content.
func FromBytes(path string, data []byte) *Document {
	raw := string(data)
	norm := strings.ReplaceAll(raw, "\r\n", "\n")
	sum := sha256.Sum256(data)
	return &Document{
		Path:       path,
		Hash:       fmt.Sprintf("sha256:%x", sum),
		Raw:        raw,
		Normalized: norm,
		Text:       redact.Redact(norm),
	}
}
