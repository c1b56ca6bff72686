// Package tasks runs the world record update: enumerate levels, fetch their leaderboards, reconcile
// with the last run and append new records to the changelist.
//
// # Pipeline
//
// [UpdateEngine.Run] drives one run end to end:
//
//  1. Load the previous snapshots and the changelist. Either may be missing on first use.
//  2. [LevelCatalog] lists the official level table and pages through the community catalog.
//  3. [LeaderboardFetcher] requests the top two entries of every level, at most MaxInFlight at once.
//  4. [Reconcile] merges the fresh snapshots with the previous ones so that an empty fetch never erases
//     a known holder.
//  5. [ChangelistEngine] emits an entry for every strict rank-1 improvement and drops entries already
//     in the history.
//  6. Save the changelist, then the snapshots.
//
// # Timeouts
//
// The fetch has two policies. Fail-fast (the default) applies the step timeout to the stream of
// results: if no snapshot arrives within the timeout, all outstanding work is abandoned and the run
// continues with what it has. Isolate gives every request its own deadline and keeps going.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Errors
//
// A failed official level, a failed catalog query, or any load/save error other than a missing
// collection ends the run with an error. Failed community levels are dropped.
package tasks
