package hunk

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// ToFileDiff converts a hunk list into a go-diff FileDiff for rendering.
func ToFileDiff(origName, newName string, hunks []Hunk) *diff.FileDiff {
	fd := &diff.FileDiff{
		OrigName: origName,
		NewName:  newName,
	}
	for _, h := range hunks {
		var body bytes.Buffer
		for _, l := range h.Lines {
			body.WriteByte(prefixFor(l.Kind))
			body.WriteString(l.Text)
			if !strings.HasSuffix(l.Text, "\n") {
				body.WriteByte('\n')
			}
		}
		// Unified headers number an empty side from the preceding line.
		origStart, newStart := h.OrigStart, h.NewStart
		if h.OrigCount == 0 {
			origStart--
		}
		if h.NewCount == 0 {
			newStart--
		}
		fd.Hunks = append(fd.Hunks, &diff.Hunk{
			OrigStartLine: int32(origStart),
			OrigLines:     int32(h.OrigCount),
			NewStartLine:  int32(newStart),
			NewLines:      int32(h.NewCount),
			Body:          body.Bytes(),
		})
	}
	return fd
}

// Unified renders hunks as a unified diff. The rendering is a display
// convenience only; hunks are always regenerated from the original and
// candidate contents.
func Unified(origName, newName string, hunks []Hunk) ([]byte, error) {
	out, err := diff.PrintFileDiff(ToFileDiff(origName, newName, hunks))
	if err != nil {
		return nil, fmt.Errorf("rendering unified diff: %w", err)
	}
	return out, nil
}

func prefixFor(kind LineKind) byte {
	switch kind {
	case Added:
		return '+'
	case Removed:
		return '-'
	default:
		return ' '
	}
}
