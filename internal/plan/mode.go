package plan

import (
	"fmt"
	"strconv"
	"strings"
)

// SortMode is the set of independently toggleable sorting behaviors. The
// flags compose; RenameDirs only selects folder renames over per-file moves
// as the dispatch unit.
type SortMode struct {
	ReplaceDuplicates bool
	RenameTracks      bool
	RemoveEmpty       bool
	RenameDirs        bool
	UseDashes         bool
}

// modeBits maps bitmask positions to behaviors, most significant bit first:
// replace_duplicates, rename_tracks, remove_empty, rename_dirs.
const (
	bitRenameDirs = 1 << iota
	bitRemoveEmpty
	bitRenameTracks
	bitReplaceDuplicates
	modeBitCount = 4
)

// ParseMode interprets a mode selection: "default" (per-file moves plus
// empty-directory removal), "folder-mode" (whole-folder renames plus
// empty-directory removal), or a decimal bitmask. -1 enables every behavior.
func ParseMode(value string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "default":
		return SortMode{RemoveEmpty: true}, nil
	case "folder-mode":
		return SortMode{RemoveEmpty: true, RenameDirs: true}, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return SortMode{}, fmt.Errorf("mode %q is neither a known name nor a bitmask", value)
	}
	if n == -1 {
		return SortMode{ReplaceDuplicates: true, RenameTracks: true, RemoveEmpty: true, RenameDirs: true}, nil
	}
	if n < 0 || n >= 1<<modeBitCount {
		return SortMode{}, fmt.Errorf("mode bitmask %d out of range", n)
	}
	return SortMode{
		ReplaceDuplicates: n&bitReplaceDuplicates != 0,
		RenameTracks:      n&bitRenameTracks != 0,
		RemoveEmpty:       n&bitRemoveEmpty != 0,
		RenameDirs:        n&bitRenameDirs != 0,
	}, nil
}

// String renders the enabled behaviors for the run header.
func (m SortMode) String() string {
	var parts []string
	if m.RenameDirs {
		parts = append(parts, "rename_dirs")
	} else {
		parts = append(parts, "per_file")
	}
	if m.RenameTracks {
		parts = append(parts, "rename_tracks")
	}
	if m.RemoveEmpty {
		parts = append(parts, "remove_empty")
	}
	if m.ReplaceDuplicates {
		parts = append(parts, "replace_duplicates")
	}
	if m.UseDashes {
		parts = append(parts, "use_dashes")
	}
	return strings.Join(parts, ", ")
}
