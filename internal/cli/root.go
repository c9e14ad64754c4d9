package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dshills/sift/internal/config"
	"github.com/dshills/sift/internal/session"
)

const version = "0.1.0"

// Exit codes.
const (
	ExitSuccess      = 0
	ExitApplyFailed  = 1
	ExitUsageError   = 2
	ExitRuntimeError = 4
)

var rootCmd = &cobra.Command{
	Use:   "sift",
	Short: "Selective patch review and application",
	Long:  "Sift compares two project trees, labels every change, and lets you review and apply updates file by file or hunk by hunk.",
}

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(quickCmd)
	rootCmd.AddCommand(applyUpdateCmd)
	rootCmd.AddCommand(applyPartialCmd)
	rootCmd.AddCommand(applyAllCmd)
	rootCmd.AddCommand(addFolderCmd)
	rootCmd.AddCommand(addFileCmd)
	rootCmd.AddCommand(showDecisionsCmd)
	rootCmd.AddCommand(fixDecisionsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print sift version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "sift version %s\n", version)
	},
}

// Shared flags
var (
	flagSessionDir   string
	flagContextLines int
	flagIgnoreDirs   string
	flagLogLevel     string
)

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagSessionDir, "session", "", "Session directory (default: configured outputDir)")
	cmd.Flags().IntVar(&flagContextLines, "context-lines", 0, "Number of context lines around each hunk")
	cmd.Flags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagSessionDir != "" {
		m["outputDir"] = flagSessionDir
	}
	if flagContextLines > 0 {
		m["contextLines"] = strconv.Itoa(flagContextLines)
	}
	if flagIgnoreDirs != "" {
		m["ignoreDirs"] = flagIgnoreDirs
	}
	if flagLogLevel != "" {
		m["logLevel"] = flagLogLevel
	}
	return m
}

// newLogger builds the process logger writing to stderr.
func newLogger(cfg config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// openSession loads the effective config and opens the session directory.
func openSession() (*session.Session, config.Config, error) {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return nil, config.Config{}, err
	}
	s, err := session.Open(cfg.OutputDir)
	if err != nil {
		return nil, cfg, fmt.Errorf("no session at %s (run analyze first): %w", cfg.OutputDir, err)
	}
	return s, cfg, nil
}
