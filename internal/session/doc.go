// Package session manages one synchronization session: the output
// directory holding the label catalog, the decision store, and the
// per-update artifact sets.
//
// Analyze runs the full pipeline: snapshot both trees, classify changes,
// allocate labels, write per-update artifacts, persist the catalog. Each
// updated label gets three artifacts: the original content (.OLD), the
// candidate content (.NEW), and a unified-diff rendering (.diff). The
// diff is for human inspection only; hunks are always regenerated from
// the OLD and NEW artifacts.
//
// Labels are scoped to one output directory. Running analyze again into
// the same directory starts a fresh catalog (and a fresh session id);
// separate sessions belong in separate directories.
package session
