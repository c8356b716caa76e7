package fsops_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"musort/internal/fsops"
	"musort/internal/logging"
	"musort/internal/plan"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func validatedMove(src, dest string) plan.Operation {
	return plan.Operation{Kind: plan.KindMove, Source: src, Destination: dest, Status: plan.StatusValidated}
}

func TestExecuteMoveCreatesParents(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in", "track.mp3")
	dest := filepath.Join(dir, "Crust Punk", "Amebix", "1987 - Monolith", "track.mp3")
	writeFile(t, src, "audio")

	ops := fsops.New(logging.NewNop()).Execute([]plan.Operation{validatedMove(src, dest)})
	if ops[0].Status != plan.StatusExecuted {
		t.Fatalf("op = %+v", ops[0])
	}
	data, err := os.ReadFile(dest)
	if err != nil || string(data) != "audio" {
		t.Fatalf("destination = %q, %v", data, err)
	}
	if _, err := os.Lstat(src); !os.IsNotExist(err) {
		t.Fatalf("source still present: %v", err)
	}
}

func TestExecuteSkipsTargetCreatedAfterPlanning(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in", "track.mp3")
	dest := filepath.Join(dir, "out", "track.mp3")
	writeFile(t, src, "incoming")
	writeFile(t, dest, "occupied")

	ops := fsops.New(logging.NewNop()).Execute([]plan.Operation{validatedMove(src, dest)})
	if ops[0].Status != plan.StatusSkipped || ops[0].Reason != plan.ReasonSkippedExisting {
		t.Fatalf("op = %+v", ops[0])
	}
	data, err := os.ReadFile(dest)
	if err != nil || string(data) != "occupied" {
		t.Fatalf("destination disturbed: %q %v", data, err)
	}
	if _, err := os.Lstat(src); err != nil {
		t.Fatalf("source disturbed: %v", err)
	}
}

func TestExecuteReplaceRemovesTarget(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in", "track.mp3")
	dest := filepath.Join(dir, "out", "track.mp3")
	writeFile(t, src, "incoming")
	writeFile(t, dest, "stale")

	op := validatedMove(src, dest)
	op.Replace = true
	ops := fsops.New(logging.NewNop()).Execute([]plan.Operation{op})
	if ops[0].Status != plan.StatusExecuted {
		t.Fatalf("op = %+v", ops[0])
	}
	data, err := os.ReadFile(dest)
	if err != nil || string(data) != "incoming" {
		t.Fatalf("destination = %q, %v", data, err)
	}
}

func TestExecuteRmdirReChecksEmptiness(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty")
	full := filepath.Join(dir, "full")
	if err := os.MkdirAll(empty, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(full, "keep.mp3"), "audio")

	ops := fsops.New(logging.NewNop()).Execute([]plan.Operation{
		{Kind: plan.KindRmdir, Source: empty, Status: plan.StatusValidated},
		{Kind: plan.KindRmdir, Source: full, Status: plan.StatusValidated},
	})
	if ops[0].Status != plan.StatusExecuted {
		t.Fatalf("empty dir op = %+v", ops[0])
	}
	if _, err := os.Lstat(empty); !os.IsNotExist(err) {
		t.Fatalf("empty dir still present: %v", err)
	}
	if ops[1].Status != plan.StatusSkipped || ops[1].Reason != plan.ReasonNotEmpty {
		t.Fatalf("full dir op = %+v", ops[1])
	}
	if _, err := os.Lstat(full); err != nil {
		t.Fatalf("full dir disturbed: %v", err)
	}
}

func TestExecuteIgnoresNonValidatedOperations(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "track.mp3")
	writeFile(t, src, "audio")

	op := plan.Operation{
		Kind:        plan.KindMove,
		Source:      src,
		Destination: filepath.Join(dir, "out", "track.mp3"),
		Status:      plan.StatusSkipped,
		Reason:      plan.ReasonAlreadySorted,
	}
	ops := fsops.New(logging.NewNop()).Execute([]plan.Operation{op})
	if ops[0].Status != plan.StatusSkipped || ops[0].Reason != plan.ReasonAlreadySorted {
		t.Fatalf("op = %+v", ops[0])
	}
	if _, err := os.Lstat(src); err != nil {
		t.Fatalf("source disturbed: %v", err)
	}
}

func TestExecuteVacatesDestinationFirst(t *testing.T) {
	dir := t.TempDir()
	slot := filepath.Join(dir, "slot.mp3")
	writeFile(t, slot, "outgoing")
	writeFile(t, filepath.Join(dir, "incoming.mp3"), "incoming")

	// The op entering "slot.mp3" is listed before the op vacating it; the
	// executor must reorder so neither is skipped.
	ops := fsops.New(logging.NewNop()).Execute([]plan.Operation{
		validatedMove(filepath.Join(dir, "incoming.mp3"), slot),
		validatedMove(slot, filepath.Join(dir, "elsewhere.mp3")),
	})
	for i, op := range ops {
		if op.Status != plan.StatusExecuted {
			t.Fatalf("ops[%d] = %+v", i, op)
		}
	}
	data, err := os.ReadFile(slot)
	if err != nil || string(data) != "incoming" {
		t.Fatalf("slot = %q, %v", data, err)
	}
	data, err = os.ReadFile(filepath.Join(dir, "elsewhere.mp3"))
	if err != nil || string(data) != "outgoing" {
		t.Fatalf("elsewhere = %q, %v", data, err)
	}
}

func TestExecuteMoveOfMissingSourceFails(t *testing.T) {
	dir := t.TempDir()
	ops := fsops.New(logging.NewNop()).Execute([]plan.Operation{
		validatedMove(filepath.Join(dir, "gone.mp3"), filepath.Join(dir, "out", "gone.mp3")),
	})
	if ops[0].Status != plan.StatusFailed {
		t.Fatalf("op = %+v", ops[0])
	}
	if !errors.Is(ops[0].Err, fsops.ErrNotFound) {
		t.Fatalf("err = %v, want not-found kind", ops[0].Err)
	}
}
