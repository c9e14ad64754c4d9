// Package decision persists review decisions for labeled changes.
//
// The store is the only durable state in the system. Its on-disk JSON
// schema (top-level approved, rejected, and partial maps, with per-hunk
// sub-decisions under partial) is a fixed contract shared with prior
// review sessions and must not change shape.
//
// File-level and hunk-level decisions can disagree until Reconcile runs:
// a label whose hunk decisions are unanimously approved (or rejected) is
// promoted to the matching file-level category, and mixed labels stay
// partial. Reconcile is idempotent and is invoked explicitly; callers
// must not rely on the invariant holding between review actions.
//
// Writes are all-or-nothing: the store is marshaled to a temporary file
// and atomically renamed over the destination, so a crash never leaves a
// syntactically invalid store. A store opened from malformed JSON refuses
// all writes. A store created without a path lives purely in memory,
// which keeps unit tests isolated.
package decision
