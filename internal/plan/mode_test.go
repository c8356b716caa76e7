package plan_test

import (
	"testing"

	"musort/internal/plan"
)

func TestParseModeNames(t *testing.T) {
	mode, err := plan.ParseMode("default")
	if err != nil {
		t.Fatalf("ParseMode: %v", err)
	}
	if mode.RenameDirs || !mode.RemoveEmpty {
		t.Fatalf("default = %+v", mode)
	}

	mode, err = plan.ParseMode("Folder-Mode")
	if err != nil {
		t.Fatalf("ParseMode: %v", err)
	}
	if !mode.RenameDirs || !mode.RemoveEmpty {
		t.Fatalf("folder-mode = %+v", mode)
	}
}

func TestParseModeBitmask(t *testing.T) {
	mode, err := plan.ParseMode("3")
	if err != nil {
		t.Fatalf("ParseMode: %v", err)
	}
	if !mode.RenameDirs || !mode.RemoveEmpty || mode.RenameTracks || mode.ReplaceDuplicates {
		t.Fatalf("bitmask 3 = %+v", mode)
	}

	mode, err = plan.ParseMode("12")
	if err != nil {
		t.Fatalf("ParseMode: %v", err)
	}
	if !mode.ReplaceDuplicates || !mode.RenameTracks || mode.RemoveEmpty || mode.RenameDirs {
		t.Fatalf("bitmask 12 = %+v", mode)
	}
}

func TestParseModeAll(t *testing.T) {
	mode, err := plan.ParseMode("-1")
	if err != nil {
		t.Fatalf("ParseMode: %v", err)
	}
	if !(mode.ReplaceDuplicates && mode.RenameTracks && mode.RemoveEmpty && mode.RenameDirs) {
		t.Fatalf("-1 = %+v", mode)
	}
}

func TestParseModeRejectsGarbage(t *testing.T) {
	if _, err := plan.ParseMode("shuffle"); err == nil {
		t.Fatal("expected error for unknown mode name")
	}
	if _, err := plan.ParseMode("99"); err == nil {
		t.Fatal("expected error for out-of-range bitmask")
	}
}
