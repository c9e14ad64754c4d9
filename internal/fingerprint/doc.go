// Package fingerprint computes content fingerprints for equality testing
// between file versions.
//
// Fingerprints are hex-encoded SHA-256 sums of the raw file bytes. Two
// files are considered identical exactly when their fingerprints match;
// the differ never compares contents directly.
package fingerprint
