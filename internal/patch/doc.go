// Package patch reconstructs file content from an ordered hunk list and
// per-hunk decisions.
//
// Apply resolves each hunk independently against the original coordinate
// space: approved hunks substitute their new-side lines, while rejected
// (or skipped, or undecided) hunks keep the original region untouched.
// Unchanged regions between hunks are copied verbatim, so the output is
// plain sequential concatenation; no offset arithmetic is needed on the
// input side because original-side positions never shift.
//
// The reconstruction is all-or-nothing per file. An approved hunk whose
// recorded original-side lines no longer match the original content at
// its position fails the whole apply with a MismatchError; overlapping
// or out-of-order hunks fail fast with a MalformedError. No best-effort
// repositioning is ever attempted.
package patch
