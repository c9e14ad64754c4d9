package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/sift/internal/apply"
)

var flagForce bool
var flagIncludePartial bool

// newOrchestrator opens the session, its store, and an apply orchestrator.
func newOrchestrator() (*apply.Orchestrator, error) {
	s, cfg, err := openSession()
	if err != nil {
		return nil, err
	}
	store, err := s.OpenStore()
	if err != nil {
		return nil, err
	}
	return apply.New(s, store, cfg.ContextLines, newLogger(cfg)), nil
}

func printOutcome(out apply.Outcome) {
	switch out.Status {
	case apply.StatusApplied:
		if out.Backup != "" {
			fmt.Fprintf(os.Stdout, "%s applied -> %s (backup %s)\n", out.Label, out.Path, out.Backup)
		} else {
			fmt.Fprintf(os.Stdout, "%s applied -> %s\n", out.Label, out.Path)
		}
	case apply.StatusSkipped:
		fmt.Fprintf(os.Stdout, "%s skipped: %v\n", out.Label, out.Err)
	default:
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", out.Label, out.Err)
		exitCode = ExitApplyFailed
	}
}

var applyUpdateCmd = &cobra.Command{
	Use:   "apply-update <label>",
	Short: "Apply one approved update in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := newOrchestrator()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		printOutcome(o.ApplyLabel(args[0]))
		return nil
	},
}

var applyPartialCmd = &cobra.Command{
	Use:   "apply-partial <label>",
	Short: "Apply one update using its per-hunk decisions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := newOrchestrator()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		out := o.ApplySelective(args[0])
		printOutcome(out)
		if out.Status == apply.StatusApplied {
			fmt.Fprintf(os.Stdout, "  %d hunks applied, %d preserved\n", out.Applied, out.Skipped)
		}
		return nil
	},
}

var applyAllCmd = &cobra.Command{
	Use:   "apply-all",
	Short: "Apply every approved update, optionally including partials",
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := newOrchestrator()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		outcomes := o.ApplyAll(flagIncludePartial)
		for _, out := range outcomes {
			printOutcome(out)
		}
		if len(outcomes) == 0 {
			fmt.Fprintln(os.Stdout, "Nothing to apply")
		}
		// Reconciliation may have promoted labels; persist that.
		if err := o.Store.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving decisions: %v\n", err)
			exitCode = ExitRuntimeError
		}
		return nil
	},
}

var addFolderCmd = &cobra.Command{
	Use:   "add-folder <label>",
	Short: "Copy a new folder into the old project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := newOrchestrator()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		printOutcome(o.AddFolder(args[0], flagForce))
		return nil
	},
}

var addFileCmd = &cobra.Command{
	Use:   "add-file <label>",
	Short: "Copy a new file into the old project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := newOrchestrator()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		printOutcome(o.AddFile(args[0]))
		return nil
	},
}

func init() {
	applyAllCmd.Flags().BoolVar(&flagIncludePartial, "include-partial", true, "Also apply partially approved files using their hunk decisions")
	addFolderCmd.Flags().BoolVar(&flagForce, "force", false, "Replace the destination folder if it exists")

	for _, cmd := range []*cobra.Command{
		applyUpdateCmd,
		applyPartialCmd,
		applyAllCmd,
		addFolderCmd,
		addFileCmd,
	} {
		addSessionFlags(cmd)
	}
}
