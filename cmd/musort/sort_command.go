package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"musort/internal/config"
	"musort/internal/history"
	"musort/internal/logging"
	"musort/internal/plan"
	"musort/internal/sorter"
)

type sortFlags struct {
	mode              string
	replaceDuplicates bool
	useDashes         bool
	dryRun            bool
	noHistory         bool
}

func (f *sortFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mode, "mode", "M", "", "Sort mode: default, folder-mode, or a bitmask (-1 for everything)")
	cmd.Flags().BoolVar(&f.replaceDuplicates, "replace-duplicates", false, "Replace files already present at their destination")
	cmd.Flags().BoolVar(&f.useDashes, "use-dashes", false, "Join multi-valued genres with dashes instead of keeping the first")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, "Plan and validate without touching the filesystem")
	cmd.Flags().BoolVar(&f.noHistory, "no-history", false, "Skip recording this run in the history database")
}

// effectiveMode merges the configured mode with command-line overrides.
func (f *sortFlags) effectiveMode(cfg *config.Config) (plan.SortMode, error) {
	selection := cfg.Sort.Mode
	if v := strings.TrimSpace(f.mode); v != "" {
		selection = v
	}
	mode, err := plan.ParseMode(selection)
	if err != nil {
		return plan.SortMode{}, err
	}
	mode.ReplaceDuplicates = mode.ReplaceDuplicates || f.replaceDuplicates || cfg.Sort.ReplaceDuplicates
	mode.UseDashes = f.useDashes || cfg.Sort.UseDashes
	return mode, nil
}

func runSort(cmd *cobra.Command, ctx *commandContext, flags *sortFlags, args []string, jsonOut bool) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.newLogger(cmd)
	if err != nil {
		return err
	}
	mode, err := flags.effectiveMode(cfg)
	if err != nil {
		return err
	}

	var store *history.Store
	if cfg.History.Enabled && !flags.noHistory {
		if store, err = history.Open(cfg); err != nil {
			logger.Warn("history store unavailable", logging.Error(err))
			store = nil
		} else {
			defer store.Close()
		}
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	s := sorter.New(sorter.Options{
		Config: cfg,
		Logger: logger,
		Mode:   mode,
		DryRun: flags.dryRun,
		Store:  store,
	})

	failed := 0
	for _, path := range paths {
		result, err := s.Run(cmd.Context(), path)
		if err != nil {
			if errors.Is(err, sorter.ErrRootLocked) {
				return err
			}
			return fmt.Errorf("sort %s: %w", path, err)
		}
		if jsonOut {
			if err := writeJSON(cmd, newReport(result)); err != nil {
				return err
			}
		} else {
			renderReport(cmd, result)
		}
		failed += result.Failed()
	}

	if failed > 0 {
		return fmt.Errorf("%d operations failed", failed)
	}
	return nil
}
