package fsops

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"musort/internal/logging"
	"musort/internal/plan"
)

// Executor performs planned mutations sequentially. It only consumes
// operations in the validated state; everything else passes through
// untouched.
type Executor struct {
	logger *slog.Logger
}

// New returns an executor logging through the given logger.
func New(logger *slog.Logger) *Executor {
	return &Executor{logger: logging.NewComponentLogger(logger, "executor")}
}

// Execute runs every validated operation, in an order where an operation
// vacating a path always runs before one moving into it. The slice is
// mutated in place and returned; each operation ends terminal (executed,
// skipped, or failed).
func (e *Executor) Execute(ops []plan.Operation) []plan.Operation {
	for _, i := range executionOrder(ops) {
		op := &ops[i]
		switch op.Kind {
		case plan.KindMove, plan.KindRename:
			e.move(op)
		case plan.KindRmdir:
			e.rmdir(op)
		default:
			fail(op, Classify("execute", op.Source, errors.New("unknown operation kind")))
		}
		e.log(op)
	}
	return ops
}

func (e *Executor) move(op *plan.Operation) {
	// The plan's view of the destination may be stale; re-verify now.
	if _, err := os.Lstat(op.Destination); err == nil {
		if !op.Replace {
			op.Status = plan.StatusSkipped
			op.Reason = plan.ReasonSkippedExisting
			return
		}
		if err := os.RemoveAll(op.Destination); err != nil {
			fail(op, Classify("replace target", op.Destination, err))
			return
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		fail(op, Classify("stat target", op.Destination, err))
		return
	}

	if err := os.MkdirAll(filepath.Dir(op.Destination), 0o755); err != nil {
		fail(op, Classify("create parent", filepath.Dir(op.Destination), err))
		return
	}

	if err := os.Rename(op.Source, op.Destination); err != nil {
		if isCrossDevice(err) {
			if err := moveAcrossDevices(op.Source, op.Destination); err != nil {
				fail(op, err)
				return
			}
			op.Status = plan.StatusExecuted
			return
		}
		fail(op, Classify("rename", op.Source, err))
		return
	}
	op.Status = plan.StatusExecuted
}

func (e *Executor) rmdir(op *plan.Operation) {
	// Earlier moves in this batch may have emptied (or refilled) the
	// directory; only the listing taken now counts.
	entries, err := os.ReadDir(op.Source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			op.Status = plan.StatusSkipped
			return
		}
		fail(op, Classify("list directory", op.Source, err))
		return
	}
	if len(entries) > 0 {
		op.Status = plan.StatusSkipped
		op.Reason = plan.ReasonNotEmpty
		return
	}
	if err := os.Remove(op.Source); err != nil {
		fail(op, Classify("remove directory", op.Source, err))
		return
	}
	op.Status = plan.StatusExecuted
}

func (e *Executor) log(op *plan.Operation) {
	switch op.Status {
	case plan.StatusExecuted:
		e.logger.Info("executed",
			logging.String("kind", string(op.Kind)),
			logging.String("source", op.Source),
			logging.String("destination", op.Destination))
	case plan.StatusSkipped:
		e.logger.Debug("skipped",
			logging.String("kind", string(op.Kind)),
			logging.String("source", op.Source),
			logging.String("reason", string(op.Reason)))
	case plan.StatusFailed:
		e.logger.Error("operation failed",
			logging.String("kind", string(op.Kind)),
			logging.String("source", op.Source),
			logging.Error(op.Err))
	}
}

func fail(op *plan.Operation, err error) {
	op.Status = plan.StatusFailed
	op.Err = err
}

// executionOrder yields indexes of validated operations such that an
// operation whose source occupies another operation's destination runs
// first. Cycles fall back to input order; the pre-mutation re-stat catches
// whatever that leaves occupied.
func executionOrder(ops []plan.Operation) []int {
	pendingSources := make(map[string]int)
	for i := range ops {
		if ops[i].Status == plan.StatusValidated {
			pendingSources[filepath.Clean(ops[i].Source)]++
		}
	}

	order := make([]int, 0, len(ops))
	emitted := make([]bool, len(ops))
	for {
		progress := false
		for i := range ops {
			if emitted[i] || ops[i].Status != plan.StatusValidated {
				continue
			}
			dest := filepath.Clean(ops[i].Destination)
			if ops[i].Kind != plan.KindRmdir && pendingSources[dest] > 0 {
				continue
			}
			emitted[i] = true
			order = append(order, i)
			pendingSources[filepath.Clean(ops[i].Source)]--
			progress = true
		}
		if !progress {
			break
		}
	}
	for i := range ops {
		if !emitted[i] && ops[i].Status == plan.StatusValidated {
			order = append(order, i)
		}
	}
	return order
}

// moveAcrossDevices copies then removes, for renames crossing filesystems.
// Directories are not copied; a cross-device folder rename fails as such.
func moveAcrossDevices(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return Classify("stat source", src, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: rename %s: directory spans devices", ErrCrossDevice, src)
	}
	if err := copyFile(src, dst, info.Mode().Perm()); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return Classify("remove source", src, err)
	}
	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return Classify("open source", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return Classify("create target", dst, err)
	}
	defer func() {
		_ = out.Close()
	}()

	if _, err := io.Copy(out, in); err != nil {
		_ = os.Remove(dst)
		return Classify("copy", dst, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return Classify("flush target", dst, err)
	}
	return nil
}
