package walker_test

import (
	"os"
	"path/filepath"
	"testing"

	"musort/internal/config"
	"musort/internal/logging"
	"musort/internal/walker"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newWalker(t *testing.T) *walker.Walker {
	t.Helper()
	cfg := config.Default()
	return walker.New(&cfg, logging.NewNop())
}

func TestWalkFindsMusicFoldersDeepestFirst(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "track.mp3"))
	writeFile(t, filepath.Join(root, "a", "b", "track.flac"))
	writeFile(t, filepath.Join(root, "a", "b", "cover.jpg"))
	writeFile(t, filepath.Join(root, "notes.txt"))

	folders, err := newWalker(t).Walk(root)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(folders) != 2 {
		t.Fatalf("folders = %d, want 2", len(folders))
	}
	if folders[0].Path != filepath.Join(root, "a", "b") {
		t.Fatalf("expected deepest folder first, got %q", folders[0].Path)
	}
	if len(folders[0].Tracks) != 1 || filepath.Base(folders[0].Tracks[0]) != "track.flac" {
		t.Fatalf("tracks = %v", folders[0].Tracks)
	}
}

func TestWalkHonorsIgnoreMarker(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep", "track.mp3"))
	writeFile(t, filepath.Join(root, "skip", "track.mp3"))
	writeFile(t, filepath.Join(root, "skip", walker.IgnoreMarker))
	writeFile(t, filepath.Join(root, "skip", "nested", "other.mp3"))

	folders, err := newWalker(t).Walk(root)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(folders) != 1 || folders[0].Path != filepath.Join(root, "keep") {
		t.Fatalf("ignore marker not honored: %+v", folders)
	}
}

func TestWalkSkipsListedAndHiddenDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "track.mp3"))
	writeFile(t, filepath.Join(root, ".hidden", "track.mp3"))
	writeFile(t, filepath.Join(root, "iTunes", "track.mp3"))
	writeFile(t, filepath.Join(root, "ok", "track.mp3"))

	folders, err := newWalker(t).Walk(root)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(folders) != 1 || folders[0].Path != filepath.Join(root, "ok") {
		t.Fatalf("skip rules not honored: %+v", folders)
	}
}

func TestDirectoriesDeepestFirst(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "a", "b", "c"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	dirs, err := newWalker(t).Directories(root)
	if err != nil {
		t.Fatalf("Directories: %v", err)
	}
	want := []string{
		filepath.Join(root, "a", "b", "c"),
		filepath.Join(root, "a", "b"),
		filepath.Join(root, "a"),
	}
	if len(dirs) != len(want) {
		t.Fatalf("dirs = %v", dirs)
	}
	for i := range want {
		if dirs[i] != want[i] {
			t.Fatalf("dirs[%d] = %q, want %q", i, dirs[i], want[i])
		}
	}
}

func TestSubdirectories(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"zeta", "alpha", ".git"} {
		if err := os.MkdirAll(filepath.Join(root, name), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}

	names, err := newWalker(t).Subdirectories(root)
	if err != nil {
		t.Fatalf("Subdirectories: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Fatalf("names = %v", names)
	}
}

func TestIsMusicFile(t *testing.T) {
	if !walker.IsMusicFile("x/y/Track.MP3") {
		t.Fatal("uppercase extension should match")
	}
	if walker.IsMusicFile("x/y/cover.jpg") {
		t.Fatal("jpg is not music")
	}
}
