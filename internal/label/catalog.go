package label

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/sift/internal/tree"
)

// ErrNotFound reports a label absent from the catalog.
var ErrNotFound = errors.New("label not found")

// Stats summarizes a diff run.
type Stats struct {
	NewFolders     int `json:"new_folders"`
	NewFiles       int `json:"new_files"`
	UpdatedFiles   int `json:"updated_files"`
	DeletedFolders int `json:"deleted_folders"`
	DeletedFiles   int `json:"deleted_files"`
	UnchangedFiles int `json:"unchanged_files"`
}

// Labels maps label -> relative path, split by category.
type Labels struct {
	Folders map[string]string `json:"folders"`
	Files   map[string]string `json:"files"`
	Updates map[string]string `json:"updates"`
}

// Deleted lists paths removed in the new tree. They carry no labels;
// deletion is never applied automatically.
type Deleted struct {
	Folders []string `json:"folders,omitempty"`
	Files   []string `json:"files,omitempty"`
}

// Catalog is the labeled change set for one synchronization session.
// It is written once per analyze run and read-only thereafter.
type Catalog struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	OldRoot   string    `json:"old_root"`
	NewRoot   string    `json:"new_root"`
	Stats     Stats     `json:"statistics"`
	Labels    Labels    `json:"labels"`
	Deleted   Deleted   `json:"deleted"`
}

// Build allocates labels over records and assembles the session catalog.
func Build(oldRoot, newRoot string, records []tree.ChangeRecord) (*Catalog, []tree.ChangeRecord) {
	labeled := Allocate(records)
	cat := &Catalog{
		SessionID: uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		OldRoot:   oldRoot,
		NewRoot:   newRoot,
		Labels: Labels{
			Folders: make(map[string]string),
			Files:   make(map[string]string),
			Updates: make(map[string]string),
		},
	}
	for _, r := range labeled {
		switch r.Kind {
		case tree.KindNewFolder:
			cat.Labels.Folders[r.Label] = r.Path
			cat.Stats.NewFolders++
		case tree.KindNewFile:
			cat.Labels.Files[r.Label] = r.Path
			cat.Stats.NewFiles++
		case tree.KindUpdated:
			cat.Labels.Updates[r.Label] = r.Path
			cat.Stats.UpdatedFiles++
		case tree.KindDeletedFolder:
			cat.Deleted.Folders = append(cat.Deleted.Folders, r.Path)
			cat.Stats.DeletedFolders++
		case tree.KindDeletedFile:
			cat.Deleted.Files = append(cat.Deleted.Files, r.Path)
			cat.Stats.DeletedFiles++
		case tree.KindUnchanged:
			cat.Stats.UnchangedFiles++
		}
	}
	return cat, labeled
}

// Resolve returns the relative path and category for a label.
func (c *Catalog) Resolve(label string) (string, Category, error) {
	if label == "" {
		return "", "", fmt.Errorf("%w: empty label", ErrNotFound)
	}
	var m map[string]string
	cat := Category(label[:1])
	switch cat {
	case CategoryFolder:
		m = c.Labels.Folders
	case CategoryFile:
		m = c.Labels.Files
	case CategoryUpdate:
		m = c.Labels.Updates
	default:
		return "", "", fmt.Errorf("%w: %s", ErrNotFound, label)
	}
	path, ok := m[label]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrNotFound, label)
	}
	return path, cat, nil
}

// FolderLabels returns the new-folder labels in order.
func (c *Catalog) FolderLabels() []string { return sortedKeys(c.Labels.Folders) }

// FileLabels returns the new-file labels in order.
func (c *Catalog) FileLabels() []string { return sortedKeys(c.Labels.Files) }

// UpdateLabels returns the updated-file labels in order.
func (c *Catalog) UpdateLabels() []string { return sortedKeys(c.Labels.Updates) }

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Save writes the catalog as indented JSON, creating parent directories.
func (c *Catalog) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating catalog directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a catalog written by Save.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return &cat, nil
}
