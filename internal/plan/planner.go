package plan

import (
	"fmt"
	"path/filepath"

	"musort/internal/tags"
)

// Kind identifies the filesystem mutation an operation performs.
type Kind string

const (
	KindMove   Kind = "move"
	KindRename Kind = "rename"
	KindRmdir  Kind = "rmdir"
)

// Status tracks an operation through its lifecycle:
// planned -> validated -> executed | skipped | failed.
// Terminal states are never left.
type Status string

const (
	StatusPlanned   Status = "planned"
	StatusValidated Status = "validated"
	StatusExecuted  Status = "executed"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Reason classifies why an operation was skipped or failed.
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonAlreadySorted        Reason = "already_sorted"
	ReasonDuplicateDestination Reason = "duplicate_destination"
	ReasonSkippedExisting      Reason = "skipped_existing"
	ReasonNotEmpty             Reason = "not_empty"
)

// Operation is a single queued filesystem mutation. Destination is computed
// before anything executes; the executor only consumes validated operations.
type Operation struct {
	Kind        Kind
	Source      string
	Destination string
	// File carries the resolved metadata behind the operation, for
	// reporting. Nil for rmdir and cover-art operations.
	File   *tags.MusicFile
	Status Status
	Reason Reason
	// Replace requests deletion of a pre-existing destination immediately
	// before execution. Set only by the conflict resolver under the
	// replace-duplicates policy.
	Replace bool
	Err     error
}

// Planner computes canonical destinations under a fixed root for one run.
type Planner struct {
	root string
	mode SortMode
}

// New returns a planner rooted at root.
func New(root string, mode SortMode) *Planner {
	return &Planner{root: filepath.Clean(root), mode: mode}
}

// CanonicalDir computes the destination directory for a music file:
// <root>/<Genre>/<Artist>/<YYYY - Album>, with the year segment omitted
// when the year is unknown.
func (p *Planner) CanonicalDir(f *tags.MusicFile) string {
	genre := SanitizeGenre(f.Genre, p.mode.UseDashes, "Unknown Genre")
	artist := Sanitize(f.Artist, tags.UnknownArtist)
	album := Sanitize(f.Album, tags.UnknownAlbum)
	if f.Year > 0 {
		album = fmt.Sprintf("%04d - %s", f.Year, album)
	}
	return filepath.Join(p.root, genre, artist, album)
}

// FileMove plans moving a single file into its canonical directory, keeping
// the original filename.
func (p *Planner) FileMove(f *tags.MusicFile) Operation {
	return Operation{
		Kind:        KindMove,
		Source:      f.Path,
		Destination: filepath.Join(p.CanonicalDir(f), filepath.Base(f.Path)),
		File:        f,
		Status:      StatusPlanned,
	}
}

// FolderRename plans renaming a whole music folder to its canonical path.
// The folder's resolved metadata stands in for its contents.
func (p *Planner) FolderRename(f *tags.MusicFile) Operation {
	return Operation{
		Kind:        KindRename,
		Source:      f.Path,
		Destination: p.CanonicalDir(f),
		File:        f,
		Status:      StatusPlanned,
	}
}

// CanonicalName computes the canonical "NN - Title" filename for a track,
// keeping its extension.
func (p *Planner) CanonicalName(f *tags.MusicFile) string {
	return fmt.Sprintf("%02d - %s%s", f.Track, Sanitize(f.Title, tags.UnknownTitle), filepath.Ext(f.Path))
}

// TrackRename plans renaming a track to its canonical name within its
// directory. The second return is false when the file already has it.
func (p *Planner) TrackRename(f *tags.MusicFile) (Operation, bool) {
	dest := filepath.Join(filepath.Dir(f.Path), p.CanonicalName(f))
	if dest == f.Path {
		return Operation{}, false
	}
	return Operation{
		Kind:        KindRename,
		Source:      f.Path,
		Destination: dest,
		File:        f,
		Status:      StatusPlanned,
	}, true
}

// CoverRename plans normalizing folder art from Cover.jpg to Folder.jpg.
func CoverRename(dir string) Operation {
	return Operation{
		Kind:        KindRename,
		Source:      filepath.Join(dir, "Cover.jpg"),
		Destination: filepath.Join(dir, "Folder.jpg"),
		Status:      StatusPlanned,
	}
}

// NewRmdir plans removal of a directory expected to be empty. Emptiness is
// only ever decided at execution time, so the operation is born validated.
func NewRmdir(dir string) Operation {
	return Operation{
		Kind:   KindRmdir,
		Source: dir,
		Status: StatusValidated,
	}
}
