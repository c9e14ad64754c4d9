package label

import (
	"fmt"

	"github.com/dshills/sift/internal/tree"
)

// Category is the single-letter label prefix.
type Category string

const (
	CategoryFolder Category = "F" // new folders
	CategoryFile   Category = "N" // new files
	CategoryUpdate Category = "U" // updated files
)

// Format renders a label from its category and sequence number.
func Format(c Category, n int) string {
	return fmt.Sprintf("%s%03d", c, n)
}

// categoryFor maps labelable change kinds to their category.
func categoryFor(kind tree.ChangeKind) (Category, bool) {
	switch kind {
	case tree.KindNewFolder:
		return CategoryFolder, true
	case tree.KindNewFile:
		return CategoryFile, true
	case tree.KindUpdated:
		return CategoryUpdate, true
	default:
		return "", false
	}
}

// Allocate assigns labels to every labelable record, numbering each
// category contiguously from 1 in the records' order. Deleted and
// unchanged records are returned unlabeled. The input slice is not
// modified.
func Allocate(records []tree.ChangeRecord) []tree.ChangeRecord {
	out := make([]tree.ChangeRecord, len(records))
	counters := make(map[Category]int)
	for i, r := range records {
		if c, ok := categoryFor(r.Kind); ok {
			counters[c]++
			r.Label = Format(c, counters[c])
		}
		out[i] = r
	}
	return out
}
