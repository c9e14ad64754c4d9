package session

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func analyzeFixture(t *testing.T) *Session {
	t.Helper()
	oldRoot := t.TempDir()
	newRoot := t.TempDir()
	writeTree(t, oldRoot, map[string]string{
		"src/app.ts":  "A\nB\nC\n",
		"src/keep.ts": "same\n",
		"old-only.ts": "bye\n",
	})
	writeTree(t, newRoot, map[string]string{
		"src/app.ts":   "A\nX\nC\n",
		"src/keep.ts":  "same\n",
		"brand/new.ts": "hi\n",
	})

	s, err := Analyze(oldRoot, newRoot, t.TempDir(), Options{
		ContextLines: 3,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	return s
}

func TestAnalyze_CatalogAndArtifacts(t *testing.T) {
	s := analyzeFixture(t)
	cat := s.Catalog

	if got := cat.Stats.UpdatedFiles; got != 1 {
		t.Errorf("updated files = %d, want 1", got)
	}
	if got := cat.Labels.Updates["U001"]; got != "src/app.ts" {
		t.Errorf("U001 = %q, want src/app.ts", got)
	}
	if got := cat.Labels.Folders["F001"]; got != "brand" {
		t.Errorf("F001 = %q, want brand", got)
	}
	if got := cat.Deleted.Files; !reflect.DeepEqual(got, []string{"old-only.ts"}) {
		t.Errorf("deleted files = %v, want [old-only.ts]", got)
	}

	for _, name := range []string{"app.ts.OLD", "app.ts.NEW", "app.ts.diff"} {
		if _, err := os.Stat(filepath.Join(s.UpdateDir("U001"), name)); err != nil {
			t.Errorf("artifact %s missing: %v", name, err)
		}
	}
	if _, err := os.Stat(s.CatalogPath()); err != nil {
		t.Errorf("catalog not persisted: %v", err)
	}
}

func TestAnalyze_DeterministicLabels(t *testing.T) {
	oldRoot := t.TempDir()
	newRoot := t.TempDir()
	writeTree(t, oldRoot, map[string]string{"a.ts": "1\n", "b.ts": "2\n"})
	writeTree(t, newRoot, map[string]string{"a.ts": "one\n", "b.ts": "two\n", "c.ts": "3\n"})

	opts := Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	first, err := Analyze(oldRoot, newRoot, t.TempDir(), opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Analyze(oldRoot, newRoot, t.TempDir(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first.Catalog.Labels, second.Catalog.Labels) {
		t.Errorf("labels differ across runs over unchanged trees:\n%+v\n%+v",
			first.Catalog.Labels, second.Catalog.Labels)
	}
}

func TestOpen_RoundTrip(t *testing.T) {
	s := analyzeFixture(t)

	reopened, err := Open(s.Dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if reopened.Catalog.SessionID != s.Catalog.SessionID {
		t.Errorf("session id = %s, want %s", reopened.Catalog.SessionID, s.Catalog.SessionID)
	}
}

func TestSession_HunksFromArtifacts(t *testing.T) {
	s := analyzeFixture(t)

	hunks, err := s.Hunks("U001", 3)
	if err != nil {
		t.Fatalf("Hunks: %v", err)
	}
	if len(hunks) != 1 {
		t.Fatalf("hunk count = %d, want 1", len(hunks))
	}
	if hunks[0].Added() != 1 || hunks[0].Removed() != 1 {
		t.Errorf("hunk +%d/-%d, want +1/-1", hunks[0].Added(), hunks[0].Removed())
	}
}

func TestSession_DiffArtifact(t *testing.T) {
	s := analyzeFixture(t)

	text, err := s.Diff("U001")
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	for _, want := range []string{"--- a/src/app.ts", "+++ b/src/app.ts", "-B", "+X"} {
		if !strings.Contains(text, want) {
			t.Errorf("diff artifact missing %q:\n%s", want, text)
		}
	}
}

func TestSession_NonUpdateLabel(t *testing.T) {
	s := analyzeFixture(t)

	if _, _, err := s.Contents("F001"); err == nil {
		t.Error("Contents on a folder label should fail")
	}
	if _, err := s.Hunks("U999", 3); err == nil {
		t.Error("Hunks on an unknown label should fail")
	}
}
