package decision

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Decision is a review verdict for a file or a single hunk.
type Decision string

const (
	Unreviewed Decision = "unreviewed"
	Skip       Decision = "skip"
	Approved   Decision = "approved"
	Rejected   Decision = "rejected"

	// Partial is a file-level state only: the label's hunks carry mixed
	// decisions and the file is eligible for selective application.
	Partial Decision = "partial"
)

// ErrCorrupt reports a malformed persisted store. Writes are refused
// until the file is repaired or removed.
var ErrCorrupt = errors.New("decision store corrupt")

// HunkDecision is one per-hunk verdict within a partial entry.
type HunkDecision struct {
	HunkIndex int      `json:"hunk_index"`
	Decision  Decision `json:"decision"`
}

// PartialEntry records mixed per-hunk decisions for one label.
type PartialEntry struct {
	File          string         `json:"file"`
	Approved      int            `json:"approved"`
	Rejected      int            `json:"rejected"`
	Total         int            `json:"total"`
	HunkDecisions []HunkDecision `json:"hunk_decisions"`
}

// state is the persisted JSON shape. The schema is a durable contract;
// keep it stable.
type state struct {
	Approved map[string]string       `json:"approved"`
	Rejected map[string]string       `json:"rejected"`
	Partial  map[string]PartialEntry `json:"partial"`
}

// Summary counts labels per file-level category.
type Summary struct {
	Approved int
	Rejected int
	Partial  int
}

// Move records one label reclassified by Reconcile.
type Move struct {
	Label string
	To    Decision
}

// Store holds review decisions keyed by label. A Store with an empty
// path is memory-only. All methods are safe for concurrent use, though
// the persisted file supports only one writing process.
type Store struct {
	mu      sync.Mutex
	path    string
	state   state
	corrupt bool
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{state: emptyState()}
}

// Open loads the store at path, creating an empty one if the file does
// not exist. A malformed file yields a store that answers reads from the
// empty state but refuses writes, wrapped with ErrCorrupt.
func Open(path string) (*Store, error) {
	s := &Store{path: path, state: emptyState()}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading decision store: %w", err)
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		s.state = emptyState()
		s.corrupt = true
		return s, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	if s.state.Approved == nil {
		s.state.Approved = make(map[string]string)
	}
	if s.state.Rejected == nil {
		s.state.Rejected = make(map[string]string)
	}
	if s.state.Partial == nil {
		s.state.Partial = make(map[string]PartialEntry)
	}
	return s, nil
}

func emptyState() state {
	return state{
		Approved: make(map[string]string),
		Rejected: make(map[string]string),
		Partial:  make(map[string]PartialEntry),
	}
}

// Get returns the file-level decision for a label.
func (s *Store) Get(label string) Decision {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case hasKey(s.state.Approved, label):
		return Approved
	case hasKey(s.state.Rejected, label):
		return Rejected
	case hasKeyPartial(s.state.Partial, label):
		return Partial
	default:
		return Unreviewed
	}
}

// Path returns the file-level path recorded for a label, if any.
func (s *Store) Path(label string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.state.Approved[label]; ok {
		return p, true
	}
	if p, ok := s.state.Rejected[label]; ok {
		return p, true
	}
	if e, ok := s.state.Partial[label]; ok {
		return e.File, true
	}
	return "", false
}

// HunkDecisions returns the per-hunk decisions for a label, if present.
func (s *Store) HunkDecisions(label string) ([]HunkDecision, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.state.Partial[label]
	if !ok || len(e.HunkDecisions) == 0 {
		return nil, false
	}
	out := make([]HunkDecision, len(e.HunkDecisions))
	copy(out, e.HunkDecisions)
	return out, true
}

// SetFile records a file-level decision, reclassifying the label out of
// any other category. Skip and Unreviewed clear the label entirely.
func (s *Store) SetFile(label, path string, d Decision) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drop(label)
	switch d {
	case Approved:
		s.state.Approved[label] = path
	case Rejected:
		s.state.Rejected[label] = path
	}
}

// SetHunk upserts one per-hunk decision for a label under detailed
// review, moving the label into the partial category. The total hunk
// count is recorded so reconciliation can tell unanimity from an
// incomplete review.
func (s *Store) SetHunk(label, path string, total, hunkIndex int, d Decision) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.state.Partial[label]
	if !ok {
		entry = PartialEntry{File: path, Total: total}
	}
	entry.File = path
	entry.Total = total

	replaced := false
	for i, hd := range entry.HunkDecisions {
		if hd.HunkIndex == hunkIndex {
			entry.HunkDecisions[i].Decision = d
			replaced = true
			break
		}
	}
	if !replaced {
		entry.HunkDecisions = append(entry.HunkDecisions, HunkDecision{HunkIndex: hunkIndex, Decision: d})
		sort.Slice(entry.HunkDecisions, func(i, j int) bool {
			return entry.HunkDecisions[i].HunkIndex < entry.HunkDecisions[j].HunkIndex
		})
	}
	entry.Approved, entry.Rejected = tally(entry.HunkDecisions)

	delete(s.state.Approved, label)
	delete(s.state.Rejected, label)
	s.state.Partial[label] = entry
}

// Reconcile promotes every partial label whose hunk decisions are
// unanimous: all approved moves the label to approved, all rejected to
// rejected. Mixed or incomplete labels stay partial with refreshed
// counts. Calling it twice produces no further change.
func (s *Store) Reconcile() []Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	var moves []Move
	labels := make([]string, 0, len(s.state.Partial))
	for label := range s.state.Partial {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		entry := s.state.Partial[label]
		if len(entry.HunkDecisions) == 0 || entry.Total == 0 {
			continue
		}
		approved, rejected := tally(entry.HunkDecisions)
		entry.Approved, entry.Rejected = approved, rejected
		switch {
		case approved == entry.Total:
			s.state.Approved[label] = entry.File
			delete(s.state.Partial, label)
			moves = append(moves, Move{Label: label, To: Approved})
		case rejected == entry.Total:
			s.state.Rejected[label] = entry.File
			delete(s.state.Partial, label)
			moves = append(moves, Move{Label: label, To: Rejected})
		default:
			s.state.Partial[label] = entry
		}
	}
	return moves
}

// Summarize returns per-category label counts.
func (s *Store) Summarize() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		Approved: len(s.state.Approved),
		Rejected: len(s.state.Rejected),
		Partial:  len(s.state.Partial),
	}
}

// ApprovedLabels returns approved label -> path, sorted by label.
func (s *Store) ApprovedLabels() []LabelPath {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedPairs(s.state.Approved)
}

// RejectedLabels returns rejected label -> path, sorted by label.
func (s *Store) RejectedLabels() []LabelPath {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedPairs(s.state.Rejected)
}

// PartialLabels returns partial entries keyed by label, sorted by label.
func (s *Store) PartialLabels() []LabelPartial {
	s.mu.Lock()
	defer s.mu.Unlock()
	labels := make([]string, 0, len(s.state.Partial))
	for l := range s.state.Partial {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	out := make([]LabelPartial, 0, len(labels))
	for _, l := range labels {
		out = append(out, LabelPartial{Label: l, Entry: s.state.Partial[l]})
	}
	return out
}

// LabelPath pairs a label with its file path.
type LabelPath struct {
	Label string
	Path  string
}

// LabelPartial pairs a label with its partial entry.
type LabelPartial struct {
	Label string
	Entry PartialEntry
}

// Save persists the store atomically: marshal to a temporary file in the
// destination directory, fsync, then rename. Memory-only stores save as
// a no-op; corrupt stores refuse to save.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return nil
	}
	if s.corrupt {
		return fmt.Errorf("%w: refusing to overwrite %s", ErrCorrupt, s.path)
	}
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling decision store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".decisions-*.json")
	if err != nil {
		return fmt.Errorf("creating temp store: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp store: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing decision store: %w", err)
	}
	return nil
}

func (s *Store) drop(label string) {
	delete(s.state.Approved, label)
	delete(s.state.Rejected, label)
	delete(s.state.Partial, label)
}

func tally(decisions []HunkDecision) (approved, rejected int) {
	for _, hd := range decisions {
		switch hd.Decision {
		case Approved:
			approved++
		case Rejected:
			rejected++
		}
	}
	return approved, rejected
}

func hasKey(m map[string]string, k string) bool {
	_, ok := m[k]
	return ok
}

func hasKeyPartial(m map[string]PartialEntry, k string) bool {
	_, ok := m[k]
	return ok
}

func sortedPairs(m map[string]string) []LabelPath {
	labels := make([]string, 0, len(m))
	for l := range m {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	out := make([]LabelPath, 0, len(labels))
	for _, l := range labels {
		out = append(out, LabelPath{Label: l, Path: m[l]})
	}
	return out
}
