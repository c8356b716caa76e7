// Package tags resolves audio file metadata into the fixed shape the path
// planner consumes. Tag reading itself is delegated to dhowden/tag; this
// package only applies fallback rules for missing-but-optional fields.
// Optional-field ambiguity never escapes the resolver: callers either get a
// fully populated MusicFile or ErrMetadataUnreadable.
package tags
