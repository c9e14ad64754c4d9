package tree

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/sift/internal/fingerprint"
)

// hashWorkers bounds parallel fingerprint computation.
const hashWorkers = 4

// Snapshot records the directories and file fingerprints of one tree.
type Snapshot struct {
	Root  string
	Dirs  []string          // sorted relative paths
	Files map[string]string // relative path -> fingerprint, "" if unreadable
}

// Take walks root and fingerprints every file, skipping directories whose
// name matches an ignore pattern and files whose name starts with a dot.
// Unreadable paths are logged and skipped; an unreadable file is recorded
// with an empty fingerprint so the differ treats it as changed.
func Take(root string, ignore []string, logger *slog.Logger) (*Snapshot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ignored := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		ignored[name] = true
	}

	snap := &Snapshot{
		Root:  root,
		Files: make(map[string]string),
	}
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if ignored[d.Name()] {
				return fs.SkipDir
			}
			snap.Dirs = append(snap.Dirs, rel)
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(snap.Dirs)
	sort.Strings(paths)

	// Fingerprinting independent files is embarrassingly parallel.
	var g errgroup.Group
	g.SetLimit(hashWorkers)
	var mu sync.Mutex
	for _, rel := range paths {
		rel := rel
		g.Go(func() error {
			sum, err := fingerprint.File(filepath.Join(root, filepath.FromSlash(rel)))
			if err != nil {
				logger.Warn("cannot fingerprint file", "path", rel, "error", err)
				sum = ""
			}
			mu.Lock()
			snap.Files[rel] = sum
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// FilePaths returns the snapshot's file paths in sorted order.
func (s *Snapshot) FilePaths() []string {
	paths := make([]string, 0, len(s.Files))
	for p := range s.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// hasDir reports whether rel is a directory in the snapshot.
func (s *Snapshot) hasDir(rel string) bool {
	i := sort.SearchStrings(s.Dirs, rel)
	return i < len(s.Dirs) && s.Dirs[i] == rel
}
