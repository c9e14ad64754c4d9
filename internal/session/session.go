package session

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dshills/sift/internal/decision"
	"github.com/dshills/sift/internal/hunk"
	"github.com/dshills/sift/internal/label"
	"github.com/dshills/sift/internal/tree"
)

// Session is an open synchronization session rooted at an output
// directory, with its catalog loaded.
type Session struct {
	Dir     string
	Catalog *label.Catalog
}

// Options controls an analyze run.
type Options struct {
	Ignore       []string // directory names to skip; nil means tree.DefaultIgnore
	ContextLines int      // context for the rendered diff artifacts
	Logger       *slog.Logger
}

// Open loads the session at dir. The catalog must exist.
func Open(dir string) (*Session, error) {
	cat, err := label.Load(catalogPath(dir))
	if err != nil {
		return nil, fmt.Errorf("opening session in %s: %w", dir, err)
	}
	return &Session{Dir: dir, Catalog: cat}, nil
}

// Analyze diffs oldRoot against newRoot and writes a fresh session into
// outDir: catalog plus per-update artifacts. A file that cannot be read
// fails only its own artifact set, never the whole run.
func Analyze(oldRoot, newRoot, outDir string, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ignore := opts.Ignore
	if ignore == nil {
		ignore = tree.DefaultIgnore
	}

	oldSnap, err := tree.Take(oldRoot, ignore, logger)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", oldRoot, err)
	}
	newSnap, err := tree.Take(newRoot, ignore, logger)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", newRoot, err)
	}

	records := tree.Diff(oldSnap, newSnap)
	cat, _ := label.Build(oldRoot, newRoot, records)

	s := &Session{Dir: outDir, Catalog: cat}
	for lbl, rel := range cat.Labels.Updates {
		if err := s.writeUpdateArtifacts(lbl, rel, opts.ContextLines); err != nil {
			logger.Warn("cannot write artifacts", "label", lbl, "path", rel, "error", err)
		}
	}
	if err := cat.Save(catalogPath(outDir)); err != nil {
		return nil, err
	}
	return s, nil
}

// writeUpdateArtifacts copies the OLD and NEW contents for one updated
// label and renders its unified diff.
func (s *Session) writeUpdateArtifacts(lbl, rel string, contextLines int) error {
	oldContent, err := os.ReadFile(filepath.Join(s.Catalog.OldRoot, filepath.FromSlash(rel)))
	if err != nil {
		return fmt.Errorf("reading original: %w", err)
	}
	newContent, err := os.ReadFile(filepath.Join(s.Catalog.NewRoot, filepath.FromSlash(rel)))
	if err != nil {
		return fmt.Errorf("reading candidate: %w", err)
	}

	dir := s.UpdateDir(lbl)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating artifact directory: %w", err)
	}
	base := filepath.Base(rel)
	if err := os.WriteFile(filepath.Join(dir, base+".OLD"), oldContent, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, base+".NEW"), newContent, 0o644); err != nil {
		return err
	}

	hunks := hunk.Extract(string(oldContent), string(newContent), contextLines)
	rendered, err := hunk.Unified("a/"+rel, "b/"+rel, hunks)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, base+".diff"), rendered, 0o644)
}

// Contents returns the OLD and NEW artifact contents for an updated
// label.
func (s *Session) Contents(lbl string) (oldContent, newContent string, err error) {
	rel, cat, err := s.Catalog.Resolve(lbl)
	if err != nil {
		return "", "", err
	}
	if cat != label.CategoryUpdate {
		return "", "", fmt.Errorf("label %s is not an update", lbl)
	}
	base := filepath.Base(rel)
	dir := s.UpdateDir(lbl)
	oldBytes, err := os.ReadFile(filepath.Join(dir, base+".OLD"))
	if err != nil {
		return "", "", fmt.Errorf("reading OLD artifact for %s: %w", lbl, err)
	}
	newBytes, err := os.ReadFile(filepath.Join(dir, base+".NEW"))
	if err != nil {
		return "", "", fmt.Errorf("reading NEW artifact for %s: %w", lbl, err)
	}
	return string(oldBytes), string(newBytes), nil
}

// Hunks regenerates the hunk list for an updated label from its OLD and
// NEW artifacts.
func (s *Session) Hunks(lbl string, contextLines int) ([]hunk.Hunk, error) {
	oldContent, newContent, err := s.Contents(lbl)
	if err != nil {
		return nil, err
	}
	return hunk.Extract(oldContent, newContent, contextLines), nil
}

// Diff returns the rendered unified-diff artifact for an updated label.
func (s *Session) Diff(lbl string) (string, error) {
	rel, cat, err := s.Catalog.Resolve(lbl)
	if err != nil {
		return "", err
	}
	if cat != label.CategoryUpdate {
		return "", fmt.Errorf("label %s is not an update", lbl)
	}
	data, err := os.ReadFile(filepath.Join(s.UpdateDir(lbl), filepath.Base(rel)+".diff"))
	if err != nil {
		return "", fmt.Errorf("reading diff artifact for %s: %w", lbl, err)
	}
	return string(data), nil
}

// OpenStore opens the session's decision store.
func (s *Session) OpenStore() (*decision.Store, error) {
	return decision.Open(s.DecisionsPath())
}

// UpdateDir returns the artifact directory for one updated label.
func (s *Session) UpdateDir(lbl string) string {
	return filepath.Join(s.Dir, "updated", lbl)
}

// DecisionsPath returns the decision store location.
func (s *Session) DecisionsPath() string {
	return filepath.Join(s.Dir, "reports", "decisions.json")
}

// CatalogPath returns the catalog location.
func (s *Session) CatalogPath() string {
	return catalogPath(s.Dir)
}

// DestPath returns the absolute destination for a relative path in the
// old project.
func (s *Session) DestPath(rel string) string {
	return filepath.Join(s.Catalog.OldRoot, filepath.FromSlash(rel))
}

// SourcePath returns the absolute source for a relative path in the new
// tree.
func (s *Session) SourcePath(rel string) string {
	return filepath.Join(s.Catalog.NewRoot, filepath.FromSlash(rel))
}

func catalogPath(dir string) string {
	return filepath.Join(dir, "reports", "catalog.json")
}
