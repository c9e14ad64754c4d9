package patch

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/sift/internal/decision"
	"github.com/dshills/sift/internal/hunk"
)

// decideAll returns a decision map covering every hunk.
func decideAll(hunks []hunk.Hunk, d decision.Decision) map[int]decision.Decision {
	m := make(map[int]decision.Decision, len(hunks))
	for _, h := range hunks {
		m[h.Index] = d
	}
	return m
}

func TestApply_NoHunks(t *testing.T) {
	res, err := Apply("a\nb\n", nil, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Content != "a\nb\n" || res.Applied != 0 || res.Skipped != 0 {
		t.Errorf("result = %+v, want unchanged content and zero counts", res)
	}
}

func TestApply_SingleHunk(t *testing.T) {
	old := "A\nB\nC\n"
	new := "A\nX\nC\n"
	hunks := hunk.Extract(old, new, hunk.DefaultContext)

	rejected, err := Apply(old, hunks, decideAll(hunks, decision.Rejected))
	if err != nil {
		t.Fatalf("Apply rejected: %v", err)
	}
	if rejected.Content != old {
		t.Errorf("rejected content = %q, want %q", rejected.Content, old)
	}
	if rejected.Skipped != 1 || rejected.Applied != 0 {
		t.Errorf("rejected counts = %d/%d, want 0 applied, 1 skipped", rejected.Applied, rejected.Skipped)
	}

	approved, err := Apply(old, hunks, decideAll(hunks, decision.Approved))
	if err != nil {
		t.Fatalf("Apply approved: %v", err)
	}
	if approved.Content != new {
		t.Errorf("approved content = %q, want %q", approved.Content, new)
	}
	if approved.Applied != 1 {
		t.Errorf("applied = %d, want 1", approved.Applied)
	}
}

// roundTrip checks the core regression property: all approved reproduces
// the candidate byte-for-byte, all rejected reproduces the original.
func roundTrip(t *testing.T, old, new string) {
	t.Helper()
	for _, context := range []int{0, 1, hunk.DefaultContext} {
		hunks := hunk.Extract(old, new, context)

		approved, err := Apply(old, hunks, decideAll(hunks, decision.Approved))
		if err != nil {
			t.Fatalf("context %d: approve all: %v", context, err)
		}
		if approved.Content != new {
			t.Errorf("context %d: approve all = %q, want %q", context, approved.Content, new)
		}

		rejected, err := Apply(old, hunks, decideAll(hunks, decision.Rejected))
		if err != nil {
			t.Fatalf("context %d: reject all: %v", context, err)
		}
		if rejected.Content != old {
			t.Errorf("context %d: reject all = %q, want %q", context, rejected.Content, old)
		}
	}
}

func TestApply_RoundTrips(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
	}{
		{"replace middle", "A\nB\nC\n", "A\nX\nC\n"},
		{"pure insertion", "a\nb\n", "a\nmiddle\nb\n"},
		{"insertion at top", "a\nb\n", "first\na\nb\n"},
		{"insertion at end", "a\nb\n", "a\nb\nlast\n"},
		{"pure deletion", "a\ngone\nb\n", "a\nb\n"},
		{"delete first line", "gone\na\nb\n", "a\nb\n"},
		{"empty to content", "", "a\nb\n"},
		{"content to empty", "a\nb\n", ""},
		{"no trailing newline old", "a\nb", "a\nb\nc\n"},
		{"no trailing newline new", "a\nb\n", "a\nb\nc"},
		{"multiple regions", "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n", "1\ntwo\n3\n4\n5\n6\n7\n8\nnine\n10\nextra\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roundTrip(t, tt.old, tt.new)
		})
	}
}

func TestApply_SelectiveTwoHunks(t *testing.T) {
	// Hunk 1 inserts a line after line 2; hunk 2 replaces line 10.
	oldLines := []string{"l1", "l2", "l3", "l4", "l5", "l6", "l7", "l8", "l9", "l10"}
	newLines := []string{"l1", "l2", "inserted", "l3", "l4", "l5", "l6", "l7", "l8", "l9", "changed"}
	old := strings.Join(oldLines, "\n") + "\n"
	new := strings.Join(newLines, "\n") + "\n"

	hunks := hunk.Extract(old, new, 1)
	if len(hunks) != 2 {
		t.Fatalf("hunk count = %d, want 2", len(hunks))
	}

	res, err := Apply(old, hunks, map[int]decision.Decision{
		0: decision.Approved,
		1: decision.Rejected,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := "l1\nl2\ninserted\nl3\nl4\nl5\nl6\nl7\nl8\nl9\nl10\n"
	if res.Content != want {
		t.Errorf("content = %q, want %q", res.Content, want)
	}
	if res.Applied != 1 || res.Skipped != 1 {
		t.Errorf("counts = %d/%d, want 1 applied, 1 skipped", res.Applied, res.Skipped)
	}
}

func TestApply_DecisionOrderIrrelevant(t *testing.T) {
	old := "1\n2\n3\n4\n5\n6\n7\n8\n"
	new := "one\n2\n3\n4\nfive\n6\n7\neight\n"
	hunks := hunk.Extract(old, new, 0)
	if len(hunks) != 3 {
		t.Fatalf("hunk count = %d, want 3", len(hunks))
	}

	// The same decision set assembled in different orders must yield the
	// same output: hunks are always applied in ascending position.
	a := map[int]decision.Decision{0: decision.Approved, 1: decision.Rejected, 2: decision.Approved}
	b := map[int]decision.Decision{2: decision.Approved, 0: decision.Approved, 1: decision.Rejected}

	resA, err := Apply(old, hunks, a)
	if err != nil {
		t.Fatal(err)
	}
	resB, err := Apply(old, hunks, b)
	if err != nil {
		t.Fatal(err)
	}
	if resA.Content != resB.Content {
		t.Errorf("decision recording order changed output:\n%q\n%q", resA.Content, resB.Content)
	}
	want := "one\n2\n3\n4\n5\n6\n7\neight\n"
	if resA.Content != want {
		t.Errorf("content = %q, want %q", resA.Content, want)
	}
}

func TestApply_UndecidedPreservesRegion(t *testing.T) {
	old := "A\nB\nC\n"
	new := "A\nX\nC\n"
	hunks := hunk.Extract(old, new, hunk.DefaultContext)

	res, err := Apply(old, hunks, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Content != old {
		t.Errorf("undecided content = %q, want original", res.Content)
	}
	if res.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", res.Skipped)
	}
}

func TestApply_Mismatch(t *testing.T) {
	old := "A\nB\nC\n"
	new := "A\nX\nC\n"
	hunks := hunk.Extract(old, new, hunk.DefaultContext)

	// The original changed after extraction.
	drifted := "A\nB-changed\nC\n"
	_, err := Apply(drifted, hunks, decideAll(hunks, decision.Approved))

	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error = %v, want MismatchError", err)
	}
	if mismatch.Line != 2 {
		t.Errorf("mismatch line = %d, want 2", mismatch.Line)
	}
}

func TestApply_MismatchBeyondEOF(t *testing.T) {
	old := "A\nB\nC\nD\nE\n"
	new := "A\nB\nC\nD\nchanged\n"
	hunks := hunk.Extract(old, new, 1)

	truncated := "A\nB\n"
	_, err := Apply(truncated, hunks, decideAll(hunks, decision.Approved))

	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error = %v, want MismatchError for truncated original", err)
	}
}

func TestApply_RejectedStaleHunkKeepsOriginal(t *testing.T) {
	old := "A\nB\nC\n"
	new := "A\nX\nC\n"
	hunks := hunk.Extract(old, new, hunk.DefaultContext)

	// Rejected hunks never consult recorded lines; the drifted original
	// passes through untouched.
	drifted := "A\nB-changed\nC\n"
	res, err := Apply(drifted, hunks, decideAll(hunks, decision.Rejected))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Content != drifted {
		t.Errorf("content = %q, want drifted original preserved", res.Content)
	}
}

func TestApply_MalformedOverlap(t *testing.T) {
	hunks := []hunk.Hunk{
		{Index: 0, OrigStart: 1, OrigCount: 3},
		{Index: 1, OrigStart: 2, OrigCount: 2},
	}
	_, err := Apply("a\nb\nc\nd\n", hunks, nil)

	var malformed *MalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want MalformedError", err)
	}
	if malformed.HunkIndex != 1 {
		t.Errorf("malformed hunk index = %d, want 1", malformed.HunkIndex)
	}
}

func TestApply_MalformedStart(t *testing.T) {
	hunks := []hunk.Hunk{{Index: 0, OrigStart: 0, OrigCount: 1}}
	_, err := Apply("a\n", hunks, nil)
	var malformed *MalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want MalformedError for start < 1", err)
	}
}
