package tags

import (
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"musort/internal/config"
	"musort/internal/logging"
)

const (
	// UnknownArtist substitutes a missing artist tag.
	UnknownArtist = "Unknown Artist"
	// UnknownAlbum substitutes a missing album tag in folder resolution.
	UnknownAlbum = "Unknown Album"
	// UnknownTitle substitutes a missing title tag during track renames.
	UnknownTitle = "Unknown Track"
)

// MusicFile is the resolved metadata for one audio file. All string fields
// are populated (possibly with sentinel defaults); Year and Track are zero
// when absent. Immutable after construction.
type MusicFile struct {
	Path   string
	Artist string
	Album  string
	Year   int
	Genre  string
	Title  string
	Track  int
	// Partial reports whether any field fell back to a default.
	Partial bool
}

// Resolver turns file paths into MusicFiles, applying fallback substitution
// for missing fields and optional per-artist genre pinning.
type Resolver struct {
	defaultGenre string
	singleGenre  bool
	probeLimit   int
	genres       map[string]string
	logger       *slog.Logger
}

// NewResolver builds a resolver from configuration.
func NewResolver(cfg *config.Config, logger *slog.Logger) *Resolver {
	return &Resolver{
		defaultGenre: cfg.Sort.DefaultGenre,
		singleGenre:  cfg.Sort.SingleGenre,
		probeLimit:   cfg.Sort.ProbeLimit,
		genres:       make(map[string]string),
		logger:       logging.NewComponentLogger(logger, "resolver"),
	}
}

// ResolveFile resolves one audio file. Fails only with ErrMetadataUnreadable;
// missing fields are substituted per the fallback rules.
func (r *Resolver) ResolveFile(path string) (*MusicFile, error) {
	raw, err := readTags(path)
	if err != nil {
		return nil, err
	}
	mf := r.build(path, raw, stem(path))
	return mf, nil
}

// ResolveFolder resolves a directory from up to probeLimit representative
// tracks, merging the first value found for each field. Fails with
// ErrMetadataUnreadable only when no track in the folder is readable.
func (r *Resolver) ResolveFolder(dir string, tracks []string) (*MusicFile, error) {
	merged := Raw{}
	readable := false
	limit := r.probeLimit
	if limit < 1 {
		limit = 1
	}

	for i, track := range tracks {
		if i >= limit {
			break
		}
		raw, err := readTags(track)
		if err != nil {
			r.logger.Debug("unreadable track during folder probe",
				logging.String("path", track), logging.Error(err))
			continue
		}
		readable = true
		mergeRaw(&merged, raw)
		if complete(merged) {
			break
		}
	}
	if !readable {
		return nil, ErrMetadataUnreadable
	}
	return r.build(dir, merged, UnknownAlbum), nil
}

func (r *Resolver) build(path string, raw Raw, albumFallback string) *MusicFile {
	partial := false

	artist := clean(raw.AlbumArtist)
	if artist == "" {
		artist = clean(raw.Artist)
	}
	if artist == "" {
		artist = UnknownArtist
		partial = true
	}

	album := clean(raw.Album)
	if album == "" {
		album = albumFallback
		partial = true
	}

	genre := clean(raw.Genre)
	if genre == "" {
		genre = r.defaultGenre
		partial = true
	}
	genre = r.pinGenre(artist, genre)

	title := clean(raw.Title)
	if title == "" {
		title = UnknownTitle
	}

	year := raw.Year
	if year < 0 || year > 9999 {
		year = 0
	}
	if year == 0 {
		partial = true
	}

	return &MusicFile{
		Path:    path,
		Artist:  artist,
		Album:   album,
		Year:    year,
		Genre:   genre,
		Title:   title,
		Track:   raw.Track,
		Partial: partial,
	}
}

// pinGenre returns the first genre resolved for an artist when single-genre
// mode is active, so one artist never ends up split across genre folders.
func (r *Resolver) pinGenre(artist, genre string) string {
	if !r.singleGenre {
		return genre
	}
	key := strings.ToLower(artist)
	if pinned, ok := r.genres[key]; ok {
		return pinned
	}
	r.genres[key] = genre
	return genre
}

func mergeRaw(dst *Raw, src Raw) {
	if dst.Artist == "" {
		dst.Artist = src.Artist
	}
	if dst.AlbumArtist == "" {
		dst.AlbumArtist = src.AlbumArtist
	}
	if dst.Album == "" {
		dst.Album = src.Album
	}
	if dst.Genre == "" {
		dst.Genre = src.Genre
	}
	if dst.Year == 0 {
		dst.Year = src.Year
	}
}

func complete(raw Raw) bool {
	return (raw.Artist != "" || raw.AlbumArtist != "") &&
		raw.Album != "" && raw.Genre != "" && raw.Year != 0
}

// clean trims and NFC-normalizes a tag value so byte-different encodings of
// the same name cannot produce distinct destinations.
func clean(value string) string {
	return strings.TrimSpace(norm.NFC.String(value))
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
