package walker

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"musort/internal/config"
	"musort/internal/logging"
)

// IgnoreMarker excludes a directory (and its descendants) from the walk by
// mere presence.
const IgnoreMarker = ".musort_ignore"

// musicExts is the accepted audio extension set, matching what the tag
// reading collaborator can parse.
var musicExts = map[string]struct{}{
	".mp1": {}, ".mp2": {}, ".mp3": {},
	".oga": {}, ".ogg": {}, ".opus": {},
	".wav": {}, ".flac": {}, ".wma": {},
	".m4a": {}, ".m4b": {}, ".m4r": {}, ".mp4": {},
	".aiff": {}, ".aifc": {}, ".aif": {}, ".afc": {},
}

// IsMusicFile reports whether the path has an accepted audio extension.
func IsMusicFile(path string) bool {
	_, ok := musicExts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Folder is a directory that directly contains music files. Tracks are
// sorted by name so probing order is stable.
type Folder struct {
	Path   string
	Tracks []string
}

// Walker enumerates candidate files and folders under a root path.
type Walker struct {
	includeHidden  bool
	followSymlinks bool
	skipNames      map[string]struct{}
	logger         *slog.Logger
}

// New builds a walker from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Walker {
	skip := make(map[string]struct{}, len(cfg.Walk.SkipNames))
	for _, name := range cfg.Walk.SkipNames {
		if name != "" {
			skip[strings.ToLower(name)] = struct{}{}
		}
	}
	return &Walker{
		includeHidden:  cfg.Walk.IncludeHidden,
		followSymlinks: cfg.Walk.FollowSymlinks,
		skipNames:      skip,
		logger:         logging.NewComponentLogger(logger, "walker"),
	}
}

// Walk returns all music folders under root, deepest first, so that folder
// renames of children always happen before their parents move.
func (w *Walker) Walk(root string) ([]Folder, error) {
	var folders []Folder
	if err := w.walkDir(root, 0, &folders, nil); err != nil {
		return nil, err
	}
	return folders, nil
}

// Directories returns every traversed directory under root (excluding root
// itself), deepest first. Used by the remove-empty pass.
func (w *Walker) Directories(root string) ([]string, error) {
	var dirs []string
	if err := w.walkDir(root, 0, nil, &dirs); err != nil {
		return nil, err
	}
	return dirs, nil
}

// Subdirectories lists the immediate eligible subdirectories of root, for
// the run header.
func (w *Walker) Subdirectories(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		full := filepath.Join(root, entry.Name())
		if !w.eligible(full, entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (w *Walker) walkDir(dir string, depth int, folders *[]Folder, dirs *[]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		// Unreadable subtrees are reported, not fatal; the root itself
		// must be readable.
		if depth == 0 {
			return err
		}
		w.logger.Warn("skipping unreadable directory", logging.String("path", dir), logging.Error(err))
		return nil
	}

	if hasIgnoreMarker(entries) {
		w.logger.Debug("ignore marker present, skipping subtree", logging.String("path", dir))
		return nil
	}

	var tracks []string
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if !w.eligible(full, entry.Name()) {
				continue
			}
			if err := w.walkDir(full, depth+1, folders, dirs); err != nil {
				return err
			}
			if dirs != nil {
				*dirs = append(*dirs, full)
			}
			continue
		}
		if entry.Type()&os.ModeSymlink != 0 && !w.followSymlinks {
			continue
		}
		if !w.includeHidden && isHidden(entry.Name()) {
			continue
		}
		if IsMusicFile(entry.Name()) {
			tracks = append(tracks, full)
		}
	}

	if folders != nil && len(tracks) > 0 {
		sort.Strings(tracks)
		*folders = append(*folders, Folder{Path: dir, Tracks: tracks})
	}
	return nil
}

func (w *Walker) eligible(path, name string) bool {
	if _, skip := w.skipNames[strings.ToLower(name)]; skip {
		return false
	}
	if !w.includeHidden && isHidden(name) {
		return false
	}
	if !w.followSymlinks {
		if info, err := os.Lstat(path); err != nil || info.Mode()&os.ModeSymlink != 0 {
			return false
		}
	}
	return true
}

func hasIgnoreMarker(entries []os.DirEntry) bool {
	for _, entry := range entries {
		if !entry.IsDir() && entry.Name() == IgnoreMarker {
			return true
		}
	}
	return false
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
