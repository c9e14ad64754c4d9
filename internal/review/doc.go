// Package review walks a session's update labels and records verdicts
// in the decision store.
//
// The engine is presentation-agnostic: callers supply a Decider that is
// shown one hunk at a time and answers approve, reject, or skip. The
// interactive prompt, scripted test deciders, and any future frontends
// all plug in through that one function type. After a file's hunks are
// reviewed the store is reconciled, so a unanimous review lands as a
// plain file-level decision rather than a partial entry.
package review
