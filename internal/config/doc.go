// Package config handles sift configuration loading and merging.
//
// Effective configuration is built by layering: defaults <- config file
// <- environment variables <- CLI flag overrides. Later layers win.
package config
