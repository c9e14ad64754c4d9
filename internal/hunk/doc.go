// Package hunk computes line-level diffs between an original file and a
// candidate replacement and groups them into independently decidable
// hunks.
//
// Extraction is built on a longest-common-subsequence edit script
// (pmezard/go-difflib). Adjacent change runs separated by fewer unchanged
// lines than the grouping window merge into a single hunk, and each hunk
// is padded with up to contextLines of surrounding context for anchoring.
// Within a replacement run, removed lines precede added lines, matching
// classic diff output. Extraction is deterministic: identical inputs
// always yield an identical hunk list.
//
// Lines retain their terminators, so an applier that re-emits a hunk's
// original-side or new-side lines reproduces file content byte-for-byte.
//
// The package also renders hunks as a unified diff for human inspection
// (sourcegraph/go-diff) and classifies hunk content into coarse tags.
// Both are display conveniences; hunks are always regenerated from the
// original and candidate contents alone.
package hunk
