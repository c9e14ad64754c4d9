// Sift is a CLI for selectively merging one project tree into another.
//
// It compares an old and a new copy of a project, labels every new
// folder, new file, and updated file, and lets you review each update
// hunk by hunk before applying only what you approved.
//
// Usage:
//
//	sift analyze ./mysite ./mysite-regenerated  # build a labeled session
//	sift list                                   # show labeled changes
//	sift review                                 # review updates hunk by hunk
//	sift quick                                  # one verdict per file
//	sift apply-all                              # apply approved and partial updates
//	sift apply-partial U003                     # apply one file's hunk decisions
//	sift add-folder F001                        # copy a new folder across
//
// See https://github.com/dshills/sift for full documentation.
package main
