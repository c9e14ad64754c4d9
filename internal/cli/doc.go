// Package cli wires together the Cobra command tree for the sift binary.
//
// It defines the root command and all subcommands (analyze, list, review,
// quick, the apply family, decision maintenance, config, version), binds
// flags, reads configuration, drives the review and apply engines, and
// returns deterministic exit codes.
package cli
