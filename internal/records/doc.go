// Package records defines the canonical bibliographic record, its identity
// key, and the pure normalize and merge steps shared by every harvest.
//
// Candidates produced by source adapters pass through Normalize to become
// Records. Merge unions a loaded master table with freshly normalized rows,
// keeps the first row per identity key, and orders the result by year. Nothing
// in this package performs I/O; persistence lives in the master package.
//
// A year value of zero always means "unknown". The identity key is derived
// from author and title on every call and is never stored.
package records
