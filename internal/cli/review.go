package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/sift/internal/decision"
	"github.com/dshills/sift/internal/hunk"
	"github.com/dshills/sift/internal/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review [label]",
	Short: "Review updated files hunk by hunk",
	Long:  "Review walks each hunk of an updated file and records approve, reject, or skip. With no label, every pending update is reviewed in order.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cfg, err := openSession()
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
		engine := review.NewEngine(s, store, cfg.ContextLines, newLogger(cfg))

		in := bufio.NewScanner(os.Stdin)
		runOne := func(lbl string) error {
			rel, _, err := s.Catalog.Resolve(lbl)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "\n=== %s  %s ===\n", lbl, rel)
			res, err := engine.ReviewFile(lbl, hunkPrompt(in, os.Stdout, rel))
			fmt.Fprintf(os.Stdout, "%s: %d approved, %d rejected, %d skipped -> %s\n",
				lbl, res.Approved, res.Rejected, res.Skipped, res.Outcome)
			return err
		}

		if len(args) == 1 {
			err = runOne(args[0])
		} else {
			for _, lbl := range engine.Pending() {
				if err = runOne(lbl); err != nil {
					break
				}
			}
		}
		if err != nil && !errors.Is(err, review.ErrQuit) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
		}
		if saveErr := store.Save(); saveErr != nil {
			fmt.Fprintf(os.Stderr, "Error saving decisions: %v\n", saveErr)
			exitCode = ExitRuntimeError
		}
		return nil
	},
}

var quickCmd = &cobra.Command{
	Use:   "quick [label]",
	Short: "Review updated files with one verdict per file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cfg, err := openSession()
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
		engine := review.NewEngine(s, store, cfg.ContextLines, newLogger(cfg))

		in := bufio.NewScanner(os.Stdin)
		labels := args
		if len(labels) == 0 {
			labels = engine.Pending()
		}
		for _, lbl := range labels {
			res, err := engine.QuickReview(lbl, filePrompt(in, os.Stdout))
			if errors.Is(err, review.ErrQuit) {
				break
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				exitCode = ExitRuntimeError
				break
			}
			fmt.Fprintf(os.Stdout, "%s -> %s\n", lbl, res.Outcome)
		}
		if saveErr := store.Save(); saveErr != nil {
			fmt.Fprintf(os.Stderr, "Error saving decisions: %v\n", saveErr)
			exitCode = ExitRuntimeError
		}
		return nil
	},
}

// hunkPrompt shows one hunk and reads a verdict from in.
func hunkPrompt(in *bufio.Scanner, out io.Writer, rel string) review.Decider {
	return func(h hunk.Hunk, index, total int) (decision.Decision, error) {
		fmt.Fprintf(out, "\nHunk %d/%d", index+1, total)
		if tags := hunk.Classify(h); len(tags) > 0 {
			fmt.Fprintf(out, "  [%s]", strings.Join(tags, ", "))
		}
		fmt.Fprintln(out)
		rendered, err := hunk.Unified("a/"+rel, "b/"+rel, []hunk.Hunk{h})
		if err != nil {
			return decision.Unreviewed, err
		}
		fmt.Fprintln(out, string(rendered))
		return readVerdict(in, out)
	}
}

// filePrompt shows a file's whole diff and reads one verdict.
func filePrompt(in *bufio.Scanner, out io.Writer) review.FileDecider {
	return func(lbl, path, diffText string) (decision.Decision, error) {
		fmt.Fprintf(out, "\n=== %s  %s ===\n%s", lbl, path, diffText)
		return readVerdict(in, out)
	}
}

func readVerdict(in *bufio.Scanner, out io.Writer) (decision.Decision, error) {
	for {
		fmt.Fprint(out, "[a]pprove / [r]eject / [s]kip / [q]uit: ")
		if !in.Scan() {
			return decision.Unreviewed, review.ErrQuit
		}
		switch strings.ToLower(strings.TrimSpace(in.Text())) {
		case "a", "approve":
			return decision.Approved, nil
		case "r", "reject":
			return decision.Rejected, nil
		case "s", "skip":
			return decision.Skip, nil
		case "q", "quit":
			return decision.Unreviewed, review.ErrQuit
		}
	}
}

func init() {
	addSessionFlags(reviewCmd)
	addSessionFlags(quickCmd)
}
