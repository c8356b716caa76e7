package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var (
		configFlag    string
		logLevelFlag  string
		logFormatFlag string
		jsonFlag      bool
	)

	ctx := newCommandContext(&configFlag, &logLevelFlag, &logFormatFlag)
	flags := &sortFlags{}

	rootCmd := &cobra.Command{
		Use:           "musort [path...]",
		Short:         "Sort music libraries by embedded tags",
		Long: `musort moves audio files into a canonical <genre>/<artist>/<year - album>
layout under the given paths (or the configured target directory), driven
entirely by embedded tags. Paths default to the current directory.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd, ctx, flags, args, jsonFlag)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format (console, json)")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Emit machine-readable JSON on stdout")

	flags.register(rootCmd)

	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newHistoryCommand(ctx, &jsonFlag))

	return rootCmd
}
