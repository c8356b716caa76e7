// Package sorter orchestrates a full sorting run: it walks the source tree,
// resolves metadata, plans canonical destinations, resolves conflicts, and
// hands the surviving operations to the executor. A run holds an exclusive
// lock on the root for its duration and optionally records its outcome in
// the history store.
package sorter
