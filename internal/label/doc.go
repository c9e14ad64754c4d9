// Package label assigns stable, category-prefixed identifiers to change
// records and persists the label catalog for a synchronization session.
//
// Labels look like F001, N012, U003: a category prefix (F for new
// folders, N for new files, U for updated files) plus a zero-padded
// sequence number, contiguous per category starting at 1 and assigned in
// the differ's emission order. Because the differ is deterministic,
// re-running allocation over unchanged trees reproduces identical labels.
//
// One catalog exists per session output directory and is written once by
// the analyze pipeline; downstream components treat it as read-only.
package label
