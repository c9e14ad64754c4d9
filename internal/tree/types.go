package tree

// ChangeKind classifies one relative path in the diff between two trees.
type ChangeKind string

const (
	KindNewFolder     ChangeKind = "new_folder"
	KindNewFile       ChangeKind = "new_file"
	KindUpdated       ChangeKind = "updated"
	KindDeletedFolder ChangeKind = "deleted_folder"
	KindDeletedFile   ChangeKind = "deleted_file"
	KindUnchanged     ChangeKind = "unchanged"
)

// ChangeRecord is one classified path. Records are derived, recomputable
// data; the label is empty until the allocator assigns one.
type ChangeRecord struct {
	Label  string
	Kind   ChangeKind
	Path   string
	OldSum string
	NewSum string
}

// DefaultIgnore lists the directory names skipped during a walk.
var DefaultIgnore = []string{"node_modules", ".next", "dist", ".git", "build"}
