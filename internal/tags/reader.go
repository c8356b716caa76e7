package tags

import (
	"errors"
	"fmt"
	"os"

	"github.com/dhowden/tag"
)

// ErrMetadataUnreadable reports that a file's tags could not be extracted at
// all (corrupt file, unsupported codec, I/O error). Missing individual fields
// never produce this error.
var ErrMetadataUnreadable = errors.New("metadata unreadable")

// Raw is the unprocessed tag data as returned by the reading collaborator.
// Any field may be empty or zero.
type Raw struct {
	Artist      string
	AlbumArtist string
	Album       string
	Genre       string
	Title       string
	Year        int
	Track       int
}

// ReadFunc extracts raw tags from an audio file.
type ReadFunc func(path string) (Raw, error)

var readTags ReadFunc = readWithDhowden

func readWithDhowden(path string) (Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		return Raw{}, fmt.Errorf("%w: %s: %w", ErrMetadataUnreadable, path, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return Raw{}, fmt.Errorf("%w: %s: %w", ErrMetadataUnreadable, path, err)
	}

	track, _ := m.Track()
	return Raw{
		Artist:      m.Artist(),
		AlbumArtist: m.AlbumArtist(),
		Album:       m.Album(),
		Genre:       m.Genre(),
		Title:       m.Title(),
		Year:        m.Year(),
		Track:       track,
	}, nil
}

// SetReaderForTests overrides the tag reader during tests.
func SetReaderForTests(fn ReadFunc) func() {
	previous := readTags
	readTags = fn
	return func() {
		readTags = previous
	}
}
