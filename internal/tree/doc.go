// Package tree walks two rooted directory trees and classifies every
// relative path as new, deleted, updated, or unchanged.
//
// A Snapshot records the directories and file fingerprints of one tree.
// Diff compares two snapshots and emits ChangeRecords in a deterministic
// order (grouped by kind, lexical within each group) so that downstream
// label allocation is reproducible across runs.
//
// Directories whose names match an ignore pattern (node_modules, build
// output, version-control metadata) are skipped entirely. A file that
// cannot be read is recorded with an empty fingerprint and always
// classifies as Updated, never silently Unchanged.
package tree
