package sorter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"musort/internal/config"
	"musort/internal/fsops"
	"musort/internal/history"
	"musort/internal/logging"
	"musort/internal/plan"
	"musort/internal/tags"
	"musort/internal/walker"
)

// ErrRootLocked indicates another run currently holds the root's lock.
var ErrRootLocked = errors.New("root is locked by another run")

// LockPath returns the lock file guarding a sort root. Locks live under the
// state directory, keyed by the root path, so a run leaves no artifact in
// the library itself.
func LockPath(cfg *config.Config, root string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(root)))
	return filepath.Join(cfg.Paths.StateDir, "locks", hex.EncodeToString(sum[:8])+".lock")
}

// Options configures a Sorter.
type Options struct {
	Config *config.Config
	Logger *slog.Logger
	Mode   plan.SortMode
	// DryRun plans and validates but never mutates the filesystem.
	DryRun bool
	// Store, when non-nil, records each run. Recording failures are logged
	// and never abort a run.
	Store *history.Store
}

// Sorter runs the full pipeline against one path at a time.
type Sorter struct {
	cfg      *config.Config
	mode     plan.SortMode
	dryRun   bool
	store    *history.Store
	logger   *slog.Logger
	walker   *walker.Walker
	resolver *tags.Resolver
	executor *fsops.Executor
}

// Result is the outcome of one run.
type Result struct {
	Root       string
	Mode       plan.SortMode
	RunID      string
	DryRun     bool
	Operations []plan.Operation
	// Unreadable lists paths whose metadata could not be extracted. They are
	// left in place and never counted as failures.
	Unreadable []string
}

// Executed counts operations that mutated the filesystem.
func (r *Result) Executed() int { return r.count(plan.StatusExecuted) }

// Skipped counts operations resolved or executed as skips.
func (r *Result) Skipped() int { return r.count(plan.StatusSkipped) }

// Failed counts operations that could not complete.
func (r *Result) Failed() int { return r.count(plan.StatusFailed) }

func (r *Result) count(status plan.Status) int {
	n := 0
	for _, op := range r.Operations {
		if op.Status == status {
			n++
		}
	}
	return n
}

// New builds a sorter from options.
func New(opts Options) *Sorter {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Sorter{
		cfg:      opts.Config,
		mode:     opts.Mode,
		dryRun:   opts.DryRun,
		store:    opts.Store,
		logger:   logging.NewComponentLogger(logger, "sorter"),
		walker:   walker.New(opts.Config, logger),
		resolver: tags.NewResolver(opts.Config, logger),
		executor: fsops.New(logger),
	}
}

// Run sorts everything under path. The destination root is the configured
// target directory when set, otherwise the path itself.
func (s *Sorter) Run(ctx context.Context, path string) (*Result, error) {
	root, source, err := s.resolveRoot(path)
	if err != nil {
		return nil, err
	}

	lockFile := LockPath(s.cfg, root)
	if err := os.MkdirAll(filepath.Dir(lockFile), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(lockFile)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrRootLocked, root)
	}
	defer func() { _ = lock.Unlock() }()

	result := &Result{Root: root, Mode: s.mode, DryRun: s.dryRun}

	var run *history.Run
	if s.store != nil {
		if run, err = s.store.BeginRun(ctx, root, s.mode.String()); err != nil {
			s.logger.Warn("history unavailable for this run", logging.Error(err))
			run = nil
		} else {
			result.RunID = run.ID
		}
	}

	s.logRunHeader(root, source)

	folders, err := s.walker.Walk(source)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", source, err)
	}

	planner := plan.New(root, s.mode)
	ops := make([]plan.Operation, 0, len(folders))
	for _, folder := range folders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ops = s.planFolder(planner, folder, ops, result)
	}

	ops = plan.Resolve(ops, s.mode.ReplaceDuplicates)
	if !s.dryRun {
		ops = s.executor.Execute(ops)
		ops = s.removeEmptyDirs(source, ops)
	}
	result.Operations = ops

	s.record(ctx, run, result)
	return result, nil
}

// resolveRoot derives the destination root and the walked source from the
// requested path. Relative paths are anchored at the working directory.
func (s *Sorter) resolveRoot(path string) (root, source string, err error) {
	source, err = config.ExpandPath(path)
	if err != nil {
		return "", "", err
	}
	info, err := os.Stat(source)
	if err != nil {
		return "", "", fmt.Errorf("stat %s: %w", source, err)
	}
	if !info.IsDir() {
		return "", "", fmt.Errorf("%s is not a directory", source)
	}

	root = source
	if target := strings.TrimSpace(s.cfg.Paths.TargetDir); target != "" {
		if root, err = config.ExpandPath(target); err != nil {
			return "", "", err
		}
		if err := os.MkdirAll(root, 0o755); err != nil {
			return "", "", fmt.Errorf("create target root: %w", err)
		}
	}
	return root, source, nil
}

// planFolder emits the operations for one music folder: either a whole-folder
// rename or per-file moves, plus track renames and cover normalization where
// the mode asks for them.
func (s *Sorter) planFolder(planner *plan.Planner, folder walker.Folder, ops []plan.Operation, result *Result) []plan.Operation {
	if s.mode.RenameDirs {
		mf, err := s.resolver.ResolveFolder(folder.Path, folder.Tracks)
		if err != nil {
			s.logger.Warn("folder metadata unreadable",
				logging.String("path", folder.Path), logging.Error(err))
			result.Unreadable = append(result.Unreadable, folder.Path)
			return ops
		}
		if s.mode.RenameTracks {
			ops = s.planTrackRenames(planner, folder.Tracks, ops, result)
		}
		if op, ok := coverRename(folder.Path); ok {
			ops = append(ops, op)
		}
		return append(ops, planner.FolderRename(mf))
	}

	for _, track := range folder.Tracks {
		mf, err := s.resolver.ResolveFile(track)
		if err != nil {
			s.logger.Warn("track metadata unreadable",
				logging.String("path", track), logging.Error(err))
			result.Unreadable = append(result.Unreadable, track)
			continue
		}
		op := planner.FileMove(mf)
		if s.mode.RenameTracks {
			op.Destination = filepath.Join(filepath.Dir(op.Destination), planner.CanonicalName(mf))
		}
		ops = append(ops, op)
	}
	return ops
}

func (s *Sorter) planTrackRenames(planner *plan.Planner, tracks []string, ops []plan.Operation, result *Result) []plan.Operation {
	for _, track := range tracks {
		mf, err := s.resolver.ResolveFile(track)
		if err != nil {
			result.Unreadable = append(result.Unreadable, track)
			continue
		}
		if op, ok := planner.TrackRename(mf); ok {
			ops = append(ops, op)
		}
	}
	return ops
}

// removeEmptyDirs runs the post-execution cleanup pass over what is left
// under source.
func (s *Sorter) removeEmptyDirs(source string, ops []plan.Operation) []plan.Operation {
	if !s.mode.RemoveEmpty {
		return ops
	}
	dirs, err := s.walker.Directories(source)
	if err != nil {
		s.logger.Warn("skipping empty-directory cleanup", logging.Error(err))
		return ops
	}
	if len(dirs) == 0 {
		return ops
	}
	// Queue a directory when everything left in it is itself queued for
	// removal; dirs arrive deepest first, so empty subtrees collapse in one
	// pass. The executor re-checks emptiness at removal time regardless.
	queued := make(map[string]struct{})
	var rmdirs []plan.Operation
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		removable := true
		for _, entry := range entries {
			if _, ok := queued[filepath.Join(dir, entry.Name())]; !ok {
				removable = false
				break
			}
		}
		if !removable {
			continue
		}
		queued[dir] = struct{}{}
		rmdirs = append(rmdirs, plan.NewRmdir(dir))
	}
	if len(rmdirs) == 0 {
		return ops
	}
	return append(ops, s.executor.Execute(rmdirs)...)
}

func (s *Sorter) logRunHeader(root, source string) {
	subdirs, err := s.walker.Subdirectories(source)
	if err != nil {
		subdirs = nil
	}
	s.logger.Info("starting run",
		logging.String("root", root),
		logging.String("source", source),
		logging.String("mode", s.mode.String()),
		logging.Int("subdirectories", len(subdirs)),
		logging.Bool("dry_run", s.dryRun))
	if len(subdirs) > 0 {
		s.logger.Debug("detected subdirectories", logging.String("names", strings.Join(subdirs, ", ")))
	}
}

func (s *Sorter) record(ctx context.Context, run *history.Run, result *Result) {
	if s.store == nil || run == nil {
		return
	}
	if err := s.store.RecordOperations(ctx, run.ID, result.Operations); err != nil {
		s.logger.Warn("recording operations failed", logging.Error(err))
	}
	run.Executed = result.Executed()
	run.Skipped = result.Skipped()
	run.Failed = result.Failed()
	run.Unreadable = len(result.Unreadable)
	if err := s.store.FinishRun(ctx, run); err != nil {
		s.logger.Warn("finishing run record failed", logging.Error(err))
	}
}

// coverRename plans Cover.jpg -> Folder.jpg normalization when the folder
// carries a Cover.jpg.
func coverRename(dir string) (plan.Operation, bool) {
	if _, err := os.Lstat(filepath.Join(dir, "Cover.jpg")); err != nil {
		return plan.Operation{}, false
	}
	return plan.CoverRename(dir), true
}
