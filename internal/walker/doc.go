// Package walker enumerates music files and music folders beneath a root,
// honoring the ignore marker, the skip list, and hidden/symlink policy.
package walker
