package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates the target path, and any missing parents, with the given
// contents.
func WriteFile(t testing.TB, path, contents string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteTrack creates a placeholder audio file at the target path.
func WriteTrack(t testing.TB, path string) {
	t.Helper()
	WriteFile(t, path, "audio:"+filepath.Base(path))
}
