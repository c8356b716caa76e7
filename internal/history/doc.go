// Package history persists sort run records in SQLite. Each run stores the
// processed root, the effective mode, and per-operation outcomes so past
// mutations can be inspected after the fact. Recording is best-effort from
// the caller's perspective; a broken history store never blocks sorting.
package history
