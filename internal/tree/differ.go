package tree

import (
	"sort"
	"strings"
)

// Diff classifies every path across two snapshots and returns the records
// grouped by kind (new folders, new files, updated, deleted folders,
// deleted files, unchanged), lexically sorted within each group.
//
// Only the topmost new or deleted directory is emitted; files and
// directories beneath it are covered by that record and not listed
// individually.
func Diff(old, new *Snapshot) []ChangeRecord {
	newDirs := topmostOnly(dirsOnlyIn(new, old))
	deletedDirs := topmostOnly(dirsOnlyIn(old, new))

	var newFiles, updated, unchanged, deletedFiles []ChangeRecord

	for _, path := range new.FilePaths() {
		if underAny(path, newDirs) {
			continue
		}
		newSum := new.Files[path]
		oldSum, existed := old.Files[path]
		switch {
		case !existed:
			newFiles = append(newFiles, ChangeRecord{Kind: KindNewFile, Path: path, NewSum: newSum})
		case oldSum == "" || newSum == "" || oldSum != newSum:
			// An empty fingerprint means the file was unreadable at scan
			// time; it must never classify as Unchanged.
			updated = append(updated, ChangeRecord{Kind: KindUpdated, Path: path, OldSum: oldSum, NewSum: newSum})
		default:
			unchanged = append(unchanged, ChangeRecord{Kind: KindUnchanged, Path: path, OldSum: oldSum, NewSum: newSum})
		}
	}

	for _, path := range old.FilePaths() {
		if _, exists := new.Files[path]; exists {
			continue
		}
		if underAny(path, deletedDirs) {
			continue
		}
		deletedFiles = append(deletedFiles, ChangeRecord{Kind: KindDeletedFile, Path: path, OldSum: old.Files[path]})
	}

	records := make([]ChangeRecord, 0,
		len(newDirs)+len(newFiles)+len(updated)+len(deletedDirs)+len(deletedFiles)+len(unchanged))
	for _, d := range newDirs {
		records = append(records, ChangeRecord{Kind: KindNewFolder, Path: d})
	}
	records = append(records, newFiles...)
	records = append(records, updated...)
	for _, d := range deletedDirs {
		records = append(records, ChangeRecord{Kind: KindDeletedFolder, Path: d})
	}
	records = append(records, deletedFiles...)
	records = append(records, unchanged...)
	return records
}

// dirsOnlyIn returns directories present in a but not in b, sorted.
func dirsOnlyIn(a, b *Snapshot) []string {
	var out []string
	for _, d := range a.Dirs {
		if !b.hasDir(d) {
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}

// topmostOnly drops entries that live under an earlier entry.
func topmostOnly(dirs []string) []string {
	var out []string
	for _, d := range dirs {
		if !underAny(d, out) {
			out = append(out, d)
		}
	}
	return out
}

// underAny reports whether path is inside any of the given directories.
func underAny(path string, dirs []string) bool {
	for _, d := range dirs {
		if strings.HasPrefix(path, d+"/") {
			return true
		}
	}
	return false
}
