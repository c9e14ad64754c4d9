package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dshills/sift/internal/config"
	"github.com/dshills/sift/internal/session"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <old-dir> <new-dir>",
	Short: "Compare two project trees and build a labeled session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		s, err := session.Analyze(args[0], args[1], cfg.OutputDir, session.Options{
			Ignore:       cfg.IgnoreDirs,
			ContextLines: cfg.ContextLines,
			Logger:       logger,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		stats := s.Catalog.Stats
		fmt.Fprintf(os.Stdout, "Session %s written to %s\n", s.Catalog.SessionID, s.Dir)
		fmt.Fprintf(os.Stdout, "  new folders:    %d\n", stats.NewFolders)
		fmt.Fprintf(os.Stdout, "  new files:      %d\n", stats.NewFiles)
		fmt.Fprintf(os.Stdout, "  updated files:  %d\n", stats.UpdatedFiles)
		fmt.Fprintf(os.Stdout, "  deleted:        %d folders, %d files\n", stats.DeletedFolders, stats.DeletedFiles)
		fmt.Fprintf(os.Stdout, "  unchanged:      %d\n", stats.UnchangedFiles)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the session's labeled changes and review state",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openSession()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		store, err := s.OpenStore()
		if err != nil {
			// A corrupt store must not hide the catalog listing.
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}

		printSection("New folders", s.Catalog.FolderLabels(), s.Catalog.Labels.Folders, nil)
		printSection("New files", s.Catalog.FileLabels(), s.Catalog.Labels.Files, nil)
		decided := map[string]string{}
		if store != nil {
			for _, lbl := range s.Catalog.UpdateLabels() {
				decided[lbl] = string(store.Get(lbl))
			}
		}
		printSection("Updated files", s.Catalog.UpdateLabels(), s.Catalog.Labels.Updates, decided)

		if len(s.Catalog.Deleted.Folders) > 0 || len(s.Catalog.Deleted.Files) > 0 {
			fmt.Fprintln(os.Stdout, "Deleted (never applied automatically):")
			paths := append([]string{}, s.Catalog.Deleted.Folders...)
			paths = append(paths, s.Catalog.Deleted.Files...)
			sort.Strings(paths)
			for _, p := range paths {
				fmt.Fprintf(os.Stdout, "  %s\n", p)
			}
		}
		return nil
	},
}

func printSection(title string, labels []string, paths map[string]string, state map[string]string) {
	if len(labels) == 0 {
		return
	}
	fmt.Fprintf(os.Stdout, "%s:\n", title)
	for _, lbl := range labels {
		if state != nil && state[lbl] != "" && state[lbl] != "unreviewed" {
			fmt.Fprintf(os.Stdout, "  %s  %s  [%s]\n", lbl, paths[lbl], state[lbl])
			continue
		}
		fmt.Fprintf(os.Stdout, "  %s  %s\n", lbl, paths[lbl])
	}
}

func init() {
	analyzeCmd.Flags().StringVar(&flagIgnoreDirs, "ignore", "", "Directory names to skip (comma-separated)")
	addSessionFlags(analyzeCmd)
	addSessionFlags(listCmd)
}
