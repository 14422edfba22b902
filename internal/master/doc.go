// Package master persists the deduplicated record set.
//
// A Store pairs a UTF-8 CSV file with an SQLite table holding the same four
// columns (title, author, year_written, year_published). Load reads the CSV,
// which is the source of truth between runs; Save rewrites both wholesale.
// The identity key is never persisted: it is recomputed from title and author
// whenever records are merged.
//
// Read failures are fatal for a run and are reported as ErrPersistence so the
// caller can abort before overwriting a store it could not parse. A Save that
// fails after the CSV was replaced also carries ErrStaleTable; the next
// successful Save rebuilds the table from the CSV.
package master
