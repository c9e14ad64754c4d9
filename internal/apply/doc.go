// Package apply sequences the application of reviewed changes into the
// old project tree.
//
// Every destructive write follows the same discipline: the existing
// destination is copied to a timestamped backup, the new content is
// written to a temporary file in the destination directory, and the
// temporary file is atomically renamed into place. A failure mid-write
// therefore never corrupts the destination, and an interrupted batch
// leaves every already-processed file fully applied and every other file
// untouched.
//
// Batch operations report a per-label Outcome and never abort on a
// single label's failure: a context mismatch in one file must not block
// the rest of the batch.
package apply
