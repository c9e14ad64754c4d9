package decision

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestGet_Unreviewed(t *testing.T) {
	s := New()
	if got := s.Get("U001"); got != Unreviewed {
		t.Errorf("Get = %s, want unreviewed", got)
	}
}

func TestSetFile_Reclassifies(t *testing.T) {
	s := New()
	s.SetFile("U001", "src/a.ts", Approved)
	if got := s.Get("U001"); got != Approved {
		t.Fatalf("Get = %s, want approved", got)
	}

	s.SetFile("U001", "src/a.ts", Rejected)
	if got := s.Get("U001"); got != Rejected {
		t.Errorf("Get after reclassify = %s, want rejected", got)
	}
	if sum := s.Summarize(); sum.Approved != 0 || sum.Rejected != 1 {
		t.Errorf("summary = %+v, want 0 approved / 1 rejected", sum)
	}
}

func TestSetHunk_MovesToPartial(t *testing.T) {
	s := New()
	s.SetFile("U001", "src/a.ts", Approved)
	s.SetHunk("U001", "src/a.ts", 3, 0, Approved)
	s.SetHunk("U001", "src/a.ts", 3, 2, Rejected)

	if got := s.Get("U001"); got != Partial {
		t.Fatalf("Get = %s, want partial", got)
	}
	hds, ok := s.HunkDecisions("U001")
	if !ok {
		t.Fatal("HunkDecisions missing")
	}
	want := []HunkDecision{{0, Approved}, {2, Rejected}}
	if !reflect.DeepEqual(hds, want) {
		t.Errorf("hunk decisions = %v, want %v", hds, want)
	}
}

func TestSetHunk_UpsertsExistingIndex(t *testing.T) {
	s := New()
	s.SetHunk("U001", "a.ts", 2, 1, Rejected)
	s.SetHunk("U001", "a.ts", 2, 1, Approved)

	hds, _ := s.HunkDecisions("U001")
	if len(hds) != 1 {
		t.Fatalf("hunk decision count = %d, want 1", len(hds))
	}
	if hds[0].Decision != Approved {
		t.Errorf("decision = %s, want approved after upsert", hds[0].Decision)
	}
}

func TestReconcile(t *testing.T) {
	s := New()
	// U001: unanimous approve. U002: unanimous reject. U003: mixed.
	s.SetHunk("U001", "a.ts", 2, 0, Approved)
	s.SetHunk("U001", "a.ts", 2, 1, Approved)
	s.SetHunk("U002", "b.ts", 1, 0, Rejected)
	s.SetHunk("U003", "c.ts", 2, 0, Approved)
	s.SetHunk("U003", "c.ts", 2, 1, Rejected)

	moves := s.Reconcile()
	want := []Move{{"U001", Approved}, {"U002", Rejected}}
	if !reflect.DeepEqual(moves, want) {
		t.Errorf("moves = %v, want %v", moves, want)
	}

	if got := s.Get("U001"); got != Approved {
		t.Errorf("U001 = %s, want approved", got)
	}
	if got := s.Get("U002"); got != Rejected {
		t.Errorf("U002 = %s, want rejected", got)
	}
	if got := s.Get("U003"); got != Partial {
		t.Errorf("U003 = %s, want partial", got)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	s := New()
	s.SetHunk("U001", "a.ts", 1, 0, Approved)
	s.SetHunk("U003", "c.ts", 2, 0, Approved)
	s.SetHunk("U003", "c.ts", 2, 1, Rejected)

	first := s.Reconcile()
	if len(first) != 1 {
		t.Fatalf("first reconcile moved %d labels, want 1", len(first))
	}
	second := s.Reconcile()
	if len(second) != 0 {
		t.Errorf("second reconcile moved %v, want nothing", second)
	}
}

func TestReconcile_IncompleteReviewStaysPartial(t *testing.T) {
	s := New()
	// Only 1 of 3 hunks decided; unanimity over decided hunks is not
	// enough to promote the file.
	s.SetHunk("U001", "a.ts", 3, 0, Approved)

	if moves := s.Reconcile(); moves != nil {
		t.Errorf("moves = %v, want none for incomplete review", moves)
	}
	if got := s.Get("U001"); got != Partial {
		t.Errorf("U001 = %s, want partial", got)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "decisions.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.SetFile("U001", "a.ts", Approved)
	s.SetHunk("U002", "b.ts", 2, 0, Approved)
	s.SetHunk("U002", "b.ts", 2, 1, Rejected)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := loaded.Get("U001"); got != Approved {
		t.Errorf("U001 = %s, want approved", got)
	}
	hds, ok := loaded.HunkDecisions("U002")
	if !ok || len(hds) != 2 {
		t.Fatalf("U002 hunk decisions = %v, want 2 entries", hds)
	}
}

func TestSave_SchemaShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.json")
	s, _ := Open(path)
	s.SetFile("U001", "a.ts", Approved)
	s.SetHunk("U002", "b.ts", 2, 1, Rejected)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("store is not valid JSON: %v", err)
	}
	for _, key := range []string{"approved", "rejected", "partial"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("persisted store missing top-level key %q", key)
		}
	}

	var partial map[string]PartialEntry
	if err := json.Unmarshal(raw["partial"], &partial); err != nil {
		t.Fatalf("partial section: %v", err)
	}
	entry := partial["U002"]
	if entry.File != "b.ts" || entry.Total != 2 || entry.Rejected != 1 {
		t.Errorf("partial entry = %+v", entry)
	}
	if len(entry.HunkDecisions) != 1 || entry.HunkDecisions[0].HunkIndex != 1 {
		t.Errorf("hunk_decisions = %v", entry.HunkDecisions)
	}
}

func TestOpen_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path)
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Open error = %v, want ErrCorrupt", err)
	}
	// Reads still answer from the empty state.
	if got := s.Get("U001"); got != Unreviewed {
		t.Errorf("Get on corrupt store = %s, want unreviewed", got)
	}
	// Writes are refused.
	s.SetFile("U001", "a.ts", Approved)
	if err := s.Save(); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Save on corrupt store = %v, want ErrCorrupt", err)
	}
	if _, statErr := os.Stat(path + ".tmp"); statErr == nil {
		t.Error("corrupt save left a temp file behind")
	}
}

func TestSave_MemoryOnlyIsNoop(t *testing.T) {
	s := New()
	s.SetFile("U001", "a.ts", Approved)
	if err := s.Save(); err != nil {
		t.Errorf("Save on memory store = %v, want nil", err)
	}
}
