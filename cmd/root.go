// Package cmd implements the CLI commands for rostercard using Cobra.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Persistent flag variables.
var (
	flagVerbose bool
	flagDebug   bool
	flagConfig  string
)

// logger is replaced in PersistentPreRun once the level flags are parsed.
var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

var rootCmd = &cobra.Command{
	Use:   "rostercard",
	Short: "rostercard: convert class roster pages into vCards",
	Long: `rostercard reads a class roster saved from a student information system
(PeopleSoft Faculty Center and similar) and writes one vCard per student.
It can also emit an auto-multiple-choice CSV, JSON, Markdown or PDF class list.

Usage:
  rostercard convert <file|-> [flags]
  rostercard columns <file>`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(cmd.ErrOrStderr(), flagVerbose, flagDebug)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log progress at info level")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "Log at debug level")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rostercard:", err)
		os.Exit(1)
	}
}

// newLogger builds the stderr logger. Diagnostics are logged at warn
// level, so they show by default.
func newLogger(w io.Writer, verbose, debug bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case debug:
		level = slog.LevelDebug
	case verbose:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}
