package plan_test

import (
	"path/filepath"
	"testing"

	"musort/internal/plan"
	"musort/internal/tags"
)

func TestFileMoveCanonicalPath(t *testing.T) {
	p := plan.New("/library", plan.SortMode{})
	mf := &tags.MusicFile{
		Path:   "/library/SOULSEEK_DOWNLOADS/Amebix - 1987 - Monolith/track01.mp3",
		Artist: "Amebix",
		Album:  "Monolith",
		Year:   1987,
		Genre:  "Crust Punk",
	}

	op := p.FileMove(mf)
	want := filepath.Join("/library", "Crust Punk", "Amebix", "1987 - Monolith", "track01.mp3")
	if op.Destination != want {
		t.Fatalf("destination = %q, want %q", op.Destination, want)
	}
	if op.Kind != plan.KindMove || op.Status != plan.StatusPlanned {
		t.Fatalf("op = %+v", op)
	}
}

func TestCanonicalDirOmitsYearWhenAbsent(t *testing.T) {
	p := plan.New("/library", plan.SortMode{})
	mf := &tags.MusicFile{Artist: "Amebix", Album: "Singles", Genre: "Crust Punk"}
	want := filepath.Join("/library", "Crust Punk", "Amebix", "Singles")
	if got := p.CanonicalDir(mf); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCanonicalDirZeroPadsYear(t *testing.T) {
	p := plan.New("/library", plan.SortMode{})
	mf := &tags.MusicFile{Artist: "Anonymous", Album: "Chants", Year: 981, Genre: "Medieval"}
	want := filepath.Join("/library", "Medieval", "Anonymous", "0981 - Chants")
	if got := p.CanonicalDir(mf); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCanonicalDirIsDeterministic(t *testing.T) {
	p := plan.New("/library", plan.SortMode{})
	mf := &tags.MusicFile{Artist: "Amebix", Album: "Monolith", Year: 1987, Genre: "Crust Punk"}
	first := p.CanonicalDir(mf)
	for i := 0; i < 3; i++ {
		if got := p.CanonicalDir(mf); got != first {
			t.Fatalf("nondeterministic canonical dir: %q vs %q", got, first)
		}
	}
}

func TestFolderAndFileModeAgree(t *testing.T) {
	p := plan.New("/library", plan.SortMode{})
	mf := &tags.MusicFile{
		Path:   "/library/in/album",
		Artist: "Amebix",
		Album:  "Monolith",
		Year:   1987,
		Genre:  "Crust Punk",
	}
	folderOp := p.FolderRename(mf)

	loose := *mf
	loose.Path = "/library/in/album/track01.mp3"
	fileOp := p.FileMove(&loose)

	if filepath.Dir(fileOp.Destination) != folderOp.Destination {
		t.Fatalf("folder-mode %q and per-file %q disagree", folderOp.Destination, fileOp.Destination)
	}
}

func TestTrackRename(t *testing.T) {
	p := plan.New("/library", plan.SortMode{})
	mf := &tags.MusicFile{
		Path:  "/library/a/raw.mp3",
		Title: "Axeman",
		Track: 3,
	}
	op, ok := p.TrackRename(mf)
	if !ok {
		t.Fatal("expected a rename")
	}
	if filepath.Base(op.Destination) != "03 - Axeman.mp3" {
		t.Fatalf("destination = %q", op.Destination)
	}

	mf.Path = "/library/a/03 - Axeman.mp3"
	if _, ok := p.TrackRename(mf); ok {
		t.Fatal("already-canonical name should be a no-op")
	}
}

func TestUseDashesAffectsGenreSegment(t *testing.T) {
	p := plan.New("/library", plan.SortMode{UseDashes: true})
	mf := &tags.MusicFile{Artist: "Deströyer 666", Album: "Unchain the Wolves", Year: 1997, Genre: "Black/Thrash Metal"}
	got := p.CanonicalDir(mf)
	want := filepath.Join("/library", "Black-Thrash Metal", "Deströyer 666", "1997 - Unchain the Wolves")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
