package hunk

import (
	"github.com/pmezard/go-difflib/difflib"
)

// DefaultContext is the number of unchanged lines kept around each hunk.
const DefaultContext = 3

// Extract computes the hunk list between oldContent and newContent.
// Change runs separated by at most 2*contextLines unchanged lines merge
// into one hunk. A negative contextLines selects DefaultContext.
func Extract(oldContent, newContent string, contextLines int) []Hunk {
	if oldContent == newContent {
		return nil
	}
	if contextLines < 0 {
		contextLines = DefaultContext
	}

	a := SplitLines(oldContent)
	b := SplitLines(newContent)

	// Junk heuristics trade minimality for speed on huge inputs; a patch
	// engine needs the stable minimal script, so they stay off.
	m := difflib.NewMatcherWithJunk(a, b, false, nil)

	var hunks []Hunk
	for _, group := range m.GetGroupedOpCodes(contextLines) {
		h, changed := buildHunk(group, a, b)
		if !changed {
			continue
		}
		h.Index = len(hunks)
		hunks = append(hunks, h)
	}
	return hunks
}

// buildHunk converts one opcode group into a Hunk. Within a replacement,
// removed lines are emitted before added lines.
func buildHunk(group []difflib.OpCode, a, b []string) (Hunk, bool) {
	first, last := group[0], group[len(group)-1]
	h := Hunk{
		OrigStart: first.I1 + 1,
		OrigCount: last.I2 - first.I1,
		NewStart:  first.J1 + 1,
		NewCount:  last.J2 - first.J1,
	}
	changed := false
	for _, op := range group {
		switch op.Tag {
		case 'e':
			for _, text := range a[op.I1:op.I2] {
				h.Lines = append(h.Lines, Line{Kind: Context, Text: text})
			}
		case 'd', 'r':
			changed = true
			for _, text := range a[op.I1:op.I2] {
				h.Lines = append(h.Lines, Line{Kind: Removed, Text: text})
			}
		}
		switch op.Tag {
		case 'i', 'r':
			changed = true
			for _, text := range b[op.J1:op.J2] {
				h.Lines = append(h.Lines, Line{Kind: Added, Text: text})
			}
		}
	}
	return h, changed
}
