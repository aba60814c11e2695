// Package store provides SQLite-backed keyed collection storage for the
// timing application.
//
// Four collections exist: categories, participants, courses and results.
// Each document is stored verbatim as JSON in a doc column; the fields a
// secondary index is declared on (category name, result course id, result
// bib) are additionally extracted into indexed columns at write time.
//
// Declared secondary indexes:
//   - categories.name (unique, NFC-normalized)
//   - results.course_id
//   - results.bib
//
// Scans are ordered by rowid so repeated scans of an unchanged collection
// return documents in insertion order. There is no cross-document
// transaction surface: every operation is an independent statement, and
// read-then-write flows in the race core see independent snapshots.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
package store
