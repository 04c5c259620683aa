// Package revision compares two requirement batches extracted from
// successive editions of a routing guide.
package revision

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/dshills/routeguard/internal/schema"
)

// Kind classifies a change between two batches.
type Kind string

const (
	Added   Kind = "added"
	Removed Kind = "removed"
	Changed Kind = "changed"
)

// Change describes one requirement that differs between batches. Old is nil
// for Added and New is nil for Removed.
type Change struct {
	Key    string
	Kind   Kind
	Old    *schema.Requirement
	New    *schema.Requirement
	Fields []string // fields that differ, Changed only
}

// Compare matches requirements by violation code, falling back to the
// requirement text, and reports what was added, removed, or changed.
// Removed and changed entries follow the order of prev; added entries follow
// the order of next.
func Compare(prev, next []schema.Requirement) []Change {
	oldKeys := keys(prev)
	newKeys := keys(next)

	index := make(map[string]int, len(next))
	for i, k := range newKeys {
		index[k] = i
	}
	seen := make(map[string]bool, len(prev))

	var changes []Change
	for i, k := range oldKeys {
		seen[k] = true
		j, ok := index[k]
		if !ok {
			changes = append(changes, Change{Key: k, Kind: Removed, Old: &prev[i]})
			continue
		}
		if fields := diffFields(prev[i], next[j]); len(fields) > 0 {
			changes = append(changes, Change{Key: k, Kind: Changed, Old: &prev[i], New: &next[j], Fields: fields})
		}
	}
	for j, k := range newKeys {
		if !seen[k] {
			changes = append(changes, Change{Key: k, Kind: Added, New: &next[j]})
		}
	}
	return changes
}

// keys returns the match key for every requirement. Repeated keys get a
// numeric suffix so each requirement is matched at most once.
func keys(reqs []schema.Requirement) []string {
	out := make([]string, len(reqs))
	count := make(map[string]int, len(reqs))
	for i, r := range reqs {
		k := strings.TrimSpace(r.ViolationCode)
		if k == "" {
			k = normalize(r.Requirement)
		}
		count[k]++
		if n := count[k]; n > 1 {
			k = fmt.Sprintf("%s #%d", k, n)
		}
		out[i] = k
	}
	return out
}

func diffFields(a, b schema.Requirement) []string {
	var fields []string
	if normalize(a.Fine) != normalize(b.Fine) {
		fields = append(fields, "fine")
	}
	if a.Severity != b.Severity {
		fields = append(fields, "severity")
	}
	if !strings.EqualFold(strings.TrimSpace(a.Category), strings.TrimSpace(b.Category)) {
		fields = append(fields, "category")
	}
	return fields
}

// GenerateDiff writes a diff-match-patch patch for every changed requirement
// to w, each under a "# <key>" header. Added and removed entries produce no
// patch text.
func GenerateDiff(changes []Change, w io.Writer) error {
	dmp := diffmatchpatch.New()
	for _, c := range changes {
		if c.Kind != Changed {
			continue
		}
		before := text(c.Old)
		after := text(c.New)

		diffs := dmp.DiffMain(before, after, false)
		patchText := dmp.PatchToText(dmp.PatchMake(before, diffs))
		if patchText == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "# %s\n%s\n", c.Key, patchText); err != nil {
			return err
		}
	}
	return nil
}

// text is the diffable rendering of a requirement.
func text(r *schema.Requirement) string {
	return fmt.Sprintf("requirement: %s\nfine: %s\nseverity: %s\ncategory: %s\n",
		normalize(r.Requirement), normalize(r.Fine), r.Severity, normalize(r.Category))
}

// normalize trims trailing whitespace from each line and converts CRLF to LF.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
