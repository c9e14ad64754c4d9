package hunk

import "strings"

// LineKind tags one line record within a hunk.
type LineKind string

const (
	Context LineKind = "context"
	Added   LineKind = "added"
	Removed LineKind = "removed"
)

// Line is one line record. Text includes the line terminator, except for
// a final line that ends without one.
type Line struct {
	Kind LineKind
	Text string
}

// Hunk is a contiguous, independently decidable unit of change with
// bounded surrounding context.
//
// OrigStart is the 1-based line in the original file where the hunk's
// region begins, context included. For a pure insertion (OrigCount zero)
// it names the original line the insertion precedes. Hunks within one
// file are ordered by ascending OrigStart and are non-overlapping.
type Hunk struct {
	Index     int
	OrigStart int
	OrigCount int
	NewStart  int
	NewCount  int
	Lines     []Line
}

// OrigBody returns the hunk's original-side lines: context plus removed.
func (h Hunk) OrigBody() []string {
	var out []string
	for _, l := range h.Lines {
		if l.Kind == Context || l.Kind == Removed {
			out = append(out, l.Text)
		}
	}
	return out
}

// NewBody returns the hunk's new-side lines: context plus added.
func (h Hunk) NewBody() []string {
	var out []string
	for _, l := range h.Lines {
		if l.Kind == Context || l.Kind == Added {
			out = append(out, l.Text)
		}
	}
	return out
}

// Added returns the number of added lines.
func (h Hunk) Added() int { return h.count(Added) }

// Removed returns the number of removed lines.
func (h Hunk) Removed() int { return h.count(Removed) }

func (h Hunk) count(kind LineKind) int {
	n := 0
	for _, l := range h.Lines {
		if l.Kind == kind {
			n++
		}
	}
	return n
}

// SplitLines splits content into lines that keep their terminators, so
// that joining the result reproduces the input exactly. Empty content
// yields no lines.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
