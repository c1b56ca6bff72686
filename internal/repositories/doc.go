// Package repositories persists the snapshot collection and the changelist between runs.
//
// Both collections are always loaded and saved whole. A collection that has never been saved loads as
// [shared.ErrNotFound], which callers treat as an empty baseline rather than a failure.
//
// Key Implementations:
//   - [FileStore] : two JSON documents (optionally zstd-compressed) replaced atomically by rename
//   - [SQLiteStore] : the same collections as rows in a SQLite database, replaced in one transaction
//
// Every save serializes the collection and decodes it again before anything on disk changes, so data
// that would not load back is rejected with [shared.ErrCorruptData].
package repositories
