package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/sift/internal/decision"
)

var showDecisionsCmd = &cobra.Command{
	Use:   "show-decisions",
	Short: "Show the session's review decisions",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openSession()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		store, err := s.OpenStore()
		if errors.Is(err, decision.ErrCorrupt) {
			// Surface the raw file so the operator can repair it by hand.
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			raw, readErr := os.ReadFile(s.DecisionsPath())
			if readErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", readErr)
				exitCode = ExitRuntimeError
				return nil
			}
			fmt.Fprintln(os.Stdout, string(raw))
			return nil
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		sum := store.Summarize()
		fmt.Fprintf(os.Stdout, "%d approved, %d rejected, %d partial\n\n",
			sum.Approved, sum.Rejected, sum.Partial)
		for _, lp := range store.ApprovedLabels() {
			fmt.Fprintf(os.Stdout, "  approved  %s  %s\n", lp.Label, lp.Path)
		}
		for _, lp := range store.RejectedLabels() {
			fmt.Fprintf(os.Stdout, "  rejected  %s  %s\n", lp.Label, lp.Path)
		}
		for _, lp := range store.PartialLabels() {
			fmt.Fprintf(os.Stdout, "  partial   %s  %s  (%d/%d approved, %d rejected)\n",
				lp.Label, lp.Entry.File, lp.Entry.Approved, lp.Entry.Total, lp.Entry.Rejected)
		}
		return nil
	},
}

var fixDecisionsCmd = &cobra.Command{
	Use:   "fix-decisions",
	Short: "Reconcile partial entries whose hunk decisions are unanimous",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openSession()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		store, err := s.OpenStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		moves := store.Reconcile()
		for _, m := range moves {
			fmt.Fprintf(os.Stdout, "%s -> %s\n", m.Label, m.To)
		}
		if len(moves) == 0 {
			fmt.Fprintln(os.Stdout, "Nothing to reconcile")
		}
		if err := store.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving decisions: %v\n", err)
			exitCode = ExitRuntimeError
		}
		return nil
	},
}

func init() {
	addSessionFlags(showDecisionsCmd)
	addSessionFlags(fixDecisionsCmd)
}
