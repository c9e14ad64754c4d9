package apply

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dshills/sift/internal/decision"
	"github.com/dshills/sift/internal/label"
	"github.com/dshills/sift/internal/patch"
	"github.com/dshills/sift/internal/session"
)

// ErrNoHunkDecisions reports a selective apply on a label that has no
// per-hunk decisions; a detailed review must run first.
var ErrNoHunkDecisions = errors.New("no hunk decisions recorded")

// ErrNotApproved reports a full apply on a label whose file-level
// decision is not approved.
var ErrNotApproved = errors.New("label is not approved")

// Status classifies one label's outcome.
type Status string

const (
	StatusApplied Status = "applied"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Outcome is the per-label result of an apply operation.
type Outcome struct {
	Label   string
	Path    string
	Status  Status
	Applied int // hunks applied (selective apply only)
	Skipped int // hunks preserved (selective apply only)
	Backup  string
	Err     error
}

// Orchestrator applies reviewed changes from a session into the old
// project tree. Labels are processed sequentially; the decision store is
// the single serialized writer state.
type Orchestrator struct {
	Session      *session.Session
	Store        *decision.Store
	ContextLines int
	Logger       *slog.Logger

	// now is overridable for tests; backups carry its timestamp.
	now func() time.Time
}

// New returns an orchestrator over the session and store.
func New(s *session.Session, store *decision.Store, contextLines int, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		Session:      s,
		Store:        store,
		ContextLines: contextLines,
		Logger:       logger,
		now:          time.Now,
	}
}

// ApplyLabel fully applies one approved update label: the candidate
// content replaces the destination wholesale.
func (o *Orchestrator) ApplyLabel(lbl string) Outcome {
	rel, cat, err := o.Session.Catalog.Resolve(lbl)
	if err != nil {
		return Outcome{Label: lbl, Status: StatusFailed, Err: err}
	}
	if cat != label.CategoryUpdate {
		return Outcome{Label: lbl, Path: rel, Status: StatusFailed,
			Err: fmt.Errorf("label %s: full apply only covers updates", lbl)}
	}
	if d := o.Store.Get(lbl); d != decision.Approved {
		return Outcome{Label: lbl, Path: rel, Status: StatusSkipped,
			Err: fmt.Errorf("%w: %s is %s", ErrNotApproved, lbl, d)}
	}

	_, newContent, err := o.Session.Contents(lbl)
	if err != nil {
		return Outcome{Label: lbl, Path: rel, Status: StatusFailed, Err: err}
	}
	backup, err := o.writeDest(rel, []byte(newContent))
	if err != nil {
		return Outcome{Label: lbl, Path: rel, Status: StatusFailed, Err: err}
	}
	o.Logger.Info("applied update", "label", lbl, "path", rel)
	return Outcome{Label: lbl, Path: rel, Status: StatusApplied, Backup: backup}
}

// ApplySelective reconstructs one label's destination from its hunk
// decisions. The destination's current content is the original, so any
// drift since extraction surfaces as a mismatch and the file is left
// untouched.
func (o *Orchestrator) ApplySelective(lbl string) Outcome {
	rel, cat, err := o.Session.Catalog.Resolve(lbl)
	if err != nil {
		return Outcome{Label: lbl, Status: StatusFailed, Err: err}
	}
	if cat != label.CategoryUpdate {
		return Outcome{Label: lbl, Path: rel, Status: StatusFailed,
			Err: fmt.Errorf("label %s: selective apply only covers updates", lbl)}
	}
	hunkDecisions, ok := o.Store.HunkDecisions(lbl)
	if !ok {
		return Outcome{Label: lbl, Path: rel, Status: StatusFailed,
			Err: fmt.Errorf("%w for %s: run a detailed review first", ErrNoHunkDecisions, lbl)}
	}

	hunks, err := o.Session.Hunks(lbl, o.ContextLines)
	if err != nil {
		return Outcome{Label: lbl, Path: rel, Status: StatusFailed, Err: err}
	}
	current, err := readFile(o.Session.DestPath(rel))
	if err != nil {
		return Outcome{Label: lbl, Path: rel, Status: StatusFailed, Err: err}
	}

	decisions := make(map[int]decision.Decision, len(hunkDecisions))
	for _, hd := range hunkDecisions {
		decisions[hd.HunkIndex] = hd.Decision
	}
	res, err := patch.Apply(current, hunks, decisions)
	if err != nil {
		return Outcome{Label: lbl, Path: rel, Status: StatusFailed, Err: err}
	}

	backup, err := o.writeDest(rel, []byte(res.Content))
	if err != nil {
		return Outcome{Label: lbl, Path: rel, Status: StatusFailed, Err: err}
	}
	o.Logger.Info("applied selective update", "label", lbl, "path", rel,
		"applied", res.Applied, "skipped", res.Skipped)
	return Outcome{Label: lbl, Path: rel, Status: StatusApplied,
		Applied: res.Applied, Skipped: res.Skipped, Backup: backup}
}

// ApplyAll reconciles the store, fully applies every approved update
// label, and, when includePartial is set, selectively applies every
// remaining partial label that has hunk decisions. One label's failure
// never aborts the batch. The caller persists the store afterwards.
func (o *Orchestrator) ApplyAll(includePartial bool) []Outcome {
	for _, move := range o.Store.Reconcile() {
		o.Logger.Info("reconciled decision", "label", move.Label, "to", string(move.To))
	}

	var outcomes []Outcome
	for _, lp := range o.Store.ApprovedLabels() {
		outcomes = append(outcomes, o.ApplyLabel(lp.Label))
	}
	if includePartial {
		for _, lp := range o.Store.PartialLabels() {
			if len(lp.Entry.HunkDecisions) == 0 {
				outcomes = append(outcomes, Outcome{Label: lp.Label, Path: lp.Entry.File,
					Status: StatusSkipped, Err: fmt.Errorf("%w for %s", ErrNoHunkDecisions, lp.Label)})
				continue
			}
			outcomes = append(outcomes, o.ApplySelective(lp.Label))
		}
	}
	return outcomes
}

// AddFile copies one new-file label from the new tree into the old
// project, creating parent directories.
func (o *Orchestrator) AddFile(lbl string) Outcome {
	rel, cat, err := o.Session.Catalog.Resolve(lbl)
	if err != nil {
		return Outcome{Label: lbl, Status: StatusFailed, Err: err}
	}
	if cat != label.CategoryFile {
		return Outcome{Label: lbl, Path: rel, Status: StatusFailed,
			Err: fmt.Errorf("label %s is not a new file", lbl)}
	}
	if err := copyFile(o.Session.SourcePath(rel), o.Session.DestPath(rel)); err != nil {
		return Outcome{Label: lbl, Path: rel, Status: StatusFailed, Err: err}
	}
	o.Logger.Info("added file", "label", lbl, "path", rel)
	return Outcome{Label: lbl, Path: rel, Status: StatusApplied}
}

// AddFolder copies one new-folder label's whole subtree into the old
// project. An existing destination is refused unless force is set.
func (o *Orchestrator) AddFolder(lbl string, force bool) Outcome {
	rel, cat, err := o.Session.Catalog.Resolve(lbl)
	if err != nil {
		return Outcome{Label: lbl, Status: StatusFailed, Err: err}
	}
	if cat != label.CategoryFolder {
		return Outcome{Label: lbl, Path: rel, Status: StatusFailed,
			Err: fmt.Errorf("label %s is not a new folder", lbl)}
	}
	if err := copyTree(o.Session.SourcePath(rel), o.Session.DestPath(rel), force); err != nil {
		return Outcome{Label: lbl, Path: rel, Status: StatusFailed, Err: err}
	}
	o.Logger.Info("added folder", "label", lbl, "path", rel)
	return Outcome{Label: lbl, Path: rel, Status: StatusApplied}
}

// writeDest backs up and atomically replaces the destination for rel,
// returning the backup path if one was made.
func (o *Orchestrator) writeDest(rel string, content []byte) (string, error) {
	dest := o.Session.DestPath(rel)
	backup, err := backupFile(dest, o.now())
	if err != nil {
		return "", err
	}
	if err := atomicWrite(dest, content); err != nil {
		return backup, err
	}
	return backup, nil
}
