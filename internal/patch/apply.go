package patch

import (
	"fmt"
	"strings"

	"github.com/dshills/sift/internal/decision"
	"github.com/dshills/sift/internal/hunk"
)

// Result is the outcome of reconstructing one file.
type Result struct {
	Content string
	Applied int // hunks whose new-side lines were emitted
	Skipped int // hunks whose original region was preserved
}

// MismatchError reports that an approved hunk's recorded original-side
// lines no longer match the original content: the file changed after
// the hunk was extracted.
type MismatchError struct {
	HunkIndex int
	Line      int // 1-based original line where the mismatch was found
	Want      string
	Got       string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("hunk %d: original content mismatch at line %d: recorded %q, found %q",
		e.HunkIndex, e.Line, strings.TrimRight(e.Want, "\n"), strings.TrimRight(e.Got, "\n"))
}

// MalformedError reports a hunk list that violates the extractor's
// ordering or disjointness invariants.
type MalformedError struct {
	HunkIndex int
	Reason    string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("hunk %d: malformed hunk list: %s", e.HunkIndex, e.Reason)
}

// Apply reconstructs file content containing exactly the approved hunks.
// Hunks must be in ascending original order and disjoint. A hunk whose
// index is absent from decisions is treated as undecided and its region
// is preserved.
//
// With every hunk approved the result equals the candidate content the
// hunks were extracted from; with every hunk rejected it equals original.
func Apply(original string, hunks []hunk.Hunk, decisions map[int]decision.Decision) (Result, error) {
	if err := validate(hunks); err != nil {
		return Result{}, err
	}
	if len(hunks) == 0 {
		return Result{Content: original}, nil
	}

	lines := hunk.SplitLines(original)
	var out []string
	cursor := 0 // 0-based index into lines; everything before it is emitted

	var applied, skipped int
	for _, h := range hunks {
		start := h.OrigStart - 1
		end := start + h.OrigCount

		gapEnd := min(start, len(lines))
		out = append(out, lines[cursor:max(cursor, gapEnd)]...)

		if decisions[h.Index] == decision.Approved {
			if err := verify(h, lines, start, end); err != nil {
				return Result{}, err
			}
			out = append(out, h.NewBody()...)
			applied++
		} else {
			// Rejecting a change preserves the original state for the
			// region, so the region is copied from original, clamped in
			// case a stale hunk reaches past the end of the file.
			copyEnd := min(end, len(lines))
			out = append(out, lines[max(cursor, gapEnd):copyEnd]...)
			skipped++
			end = copyEnd
		}
		cursor = max(cursor, end)
	}
	out = append(out, lines[cursor:]...)

	return Result{Content: strings.Join(out, ""), Applied: applied, Skipped: skipped}, nil
}

// validate fails fast on hunk lists the extractor could not have
// produced: descending order, overlap, or impossible coordinates.
func validate(hunks []hunk.Hunk) error {
	prevEnd := 0
	for i, h := range hunks {
		if h.OrigStart < 1 {
			return &MalformedError{HunkIndex: h.Index, Reason: fmt.Sprintf("original start %d < 1", h.OrigStart)}
		}
		if h.OrigCount < 0 {
			return &MalformedError{HunkIndex: h.Index, Reason: fmt.Sprintf("negative line count %d", h.OrigCount)}
		}
		start := h.OrigStart - 1
		if i > 0 && start < prevEnd {
			return &MalformedError{HunkIndex: h.Index, Reason: "overlaps preceding hunk"}
		}
		prevEnd = start + h.OrigCount
	}
	return nil
}

// verify checks the hunk's recorded original-side lines against the
// original content at the hunk's position.
func verify(h hunk.Hunk, lines []string, start, end int) error {
	recorded := h.OrigBody()
	if end > len(lines) {
		return &MismatchError{
			HunkIndex: h.Index,
			Line:      len(lines) + 1,
			Want:      textAt(recorded, len(lines)-start),
			Got:       "<end of file>",
		}
	}
	for i, want := range recorded {
		if got := lines[start+i]; got != want {
			return &MismatchError{HunkIndex: h.Index, Line: start + i + 1, Want: want, Got: got}
		}
	}
	return nil
}

func textAt(lines []string, i int) string {
	if i >= 0 && i < len(lines) {
		return lines[i]
	}
	return ""
}
