package review

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dshills/sift/internal/decision"
	"github.com/dshills/sift/internal/hunk"
	"github.com/dshills/sift/internal/label"
	"github.com/dshills/sift/internal/session"
)

// ErrQuit is returned by a Decider to stop the review early. Decisions
// already recorded are kept.
var ErrQuit = errors.New("review stopped")

// Decider answers for one hunk of a file under detailed review. index is
// zero-based, total is the file's hunk count.
type Decider func(h hunk.Hunk, index, total int) (decision.Decision, error)

// FileDecider answers for a whole file during quick review, given its
// rendered unified diff.
type FileDecider func(lbl, path, diffText string) (decision.Decision, error)

// FileResult summarizes one label's review pass.
type FileResult struct {
	Label    string
	Path     string
	Outcome  decision.Decision
	Approved int
	Rejected int
	Skipped  int
	Total    int
}

// Engine drives review over one session, writing into a decision store.
// The caller persists the store when the review ends.
type Engine struct {
	Session      *session.Session
	Store        *decision.Store
	ContextLines int
	Logger       *slog.Logger
}

// NewEngine returns a review engine over the session and store.
func NewEngine(s *session.Session, store *decision.Store, contextLines int, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{Session: s, Store: store, ContextLines: contextLines, Logger: logger}
}

// ReviewFile runs a detailed hunk-by-hunk review of one update label.
// Approve and reject verdicts are recorded per hunk; skip leaves the
// hunk undecided. When the decider returns ErrQuit the partial progress
// is kept and ErrQuit is returned. A completed pass reconciles the
// store, so unanimity becomes a file-level decision.
func (e *Engine) ReviewFile(lbl string, decide Decider) (FileResult, error) {
	rel, cat, err := e.Session.Catalog.Resolve(lbl)
	if err != nil {
		return FileResult{Label: lbl}, err
	}
	if cat != label.CategoryUpdate {
		return FileResult{Label: lbl, Path: rel},
			fmt.Errorf("label %s: detailed review only covers updates", lbl)
	}

	hunks, err := e.Session.Hunks(lbl, e.ContextLines)
	if err != nil {
		return FileResult{Label: lbl, Path: rel}, err
	}
	res := FileResult{Label: lbl, Path: rel, Total: len(hunks)}
	if len(hunks) == 0 {
		res.Outcome = e.Store.Get(lbl)
		return res, nil
	}

	for i, h := range hunks {
		d, err := decide(h, i, len(hunks))
		if err != nil {
			res.Outcome = e.finish(lbl)
			return res, err
		}
		switch d {
		case decision.Approved:
			e.Store.SetHunk(lbl, rel, len(hunks), h.Index, d)
			res.Approved++
		case decision.Rejected:
			e.Store.SetHunk(lbl, rel, len(hunks), h.Index, d)
			res.Rejected++
		default:
			res.Skipped++
		}
	}
	res.Outcome = e.finish(lbl)
	e.Logger.Info("reviewed file", "label", lbl, "path", rel,
		"approved", res.Approved, "rejected", res.Rejected, "skipped", res.Skipped)
	return res, nil
}

// QuickReview records a single file-level verdict for one update label.
// The decider sees the label's stored unified diff. Skip leaves the
// label unreviewed.
func (e *Engine) QuickReview(lbl string, decide FileDecider) (FileResult, error) {
	rel, cat, err := e.Session.Catalog.Resolve(lbl)
	if err != nil {
		return FileResult{Label: lbl}, err
	}
	if cat != label.CategoryUpdate {
		return FileResult{Label: lbl, Path: rel},
			fmt.Errorf("label %s: quick review only covers updates", lbl)
	}
	diffText, err := e.Session.Diff(lbl)
	if err != nil {
		return FileResult{Label: lbl, Path: rel}, err
	}

	d, err := decide(lbl, rel, diffText)
	if err != nil {
		return FileResult{Label: lbl, Path: rel, Outcome: e.Store.Get(lbl)}, err
	}
	switch d {
	case decision.Approved, decision.Rejected:
		e.Store.SetFile(lbl, rel, d)
	}
	res := FileResult{Label: lbl, Path: rel, Outcome: e.Store.Get(lbl)}
	e.Logger.Info("quick reviewed", "label", lbl, "path", rel, "outcome", string(res.Outcome))
	return res, nil
}

// ReviewAll runs a detailed review over every pending update label in
// label order. ErrQuit stops the sweep; results gathered so far are
// returned alongside it.
func (e *Engine) ReviewAll(decide Decider) ([]FileResult, error) {
	var results []FileResult
	for _, lbl := range e.Pending() {
		res, err := e.ReviewFile(lbl, decide)
		results = append(results, res)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// Pending returns the update labels with no file-level decision yet, in
// label order. Labels left partial by an earlier pass still count as
// pending so a resumed review revisits them.
func (e *Engine) Pending() []string {
	var pending []string
	for _, lbl := range e.Session.Catalog.UpdateLabels() {
		switch e.Store.Get(lbl) {
		case decision.Approved, decision.Rejected:
		default:
			pending = append(pending, lbl)
		}
	}
	return pending
}

// finish reconciles the store and reports the label's resulting state.
func (e *Engine) finish(lbl string) decision.Decision {
	e.Store.Reconcile()
	return e.Store.Get(lbl)
}
