package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"textconf/internal/driver"
	"textconf/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <path|glob> [path|glob...]",
	Short: "Apply the fixes attached to placeholder diagnostics",
	Long:  "Collect placeholder diagnostics from document templates and apply their fixes ({a=} -> {a}, {a:} -> {a}).",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply all safe fixes")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply fix with a specific identifier")
	fixCmd.Flags().Bool("dry-run", false, "print the resulting documents without writing them")
	fixCmd.Flags().String("separator", "---", "document section separator line")
}

func runFix(cmd *cobra.Command, args []string) error {
	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}

	if targetID != "" && (applyAll || applyOnce) {
		return fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnce {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}
	mode := fix.ApplyModeOnce
	if targetID != "" {
		mode = fix.ApplyModeID
	} else if applyAll {
		mode = fix.ApplyModeAll
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	_, res, applyErr := driver.FixPaths(cmd.Context(), args, driver.FixOptions{
		Apply:          fix.ApplyOptions{Mode: mode, TargetID: targetID, DryRun: dryRun},
		Separator:      settings.Separator,
		MaxDiagnostics: maxDiagnostics(cmd),
	})
	return handleApplyResult(cmd.OutOrStdout(), res, applyErr, dryRun)
}

func handleApplyResult(out io.Writer, res *fix.ApplyResult, applyErr error, dryRun bool) error {
	if res == nil {
		return applyErr
	}

	if len(res.Applied) > 0 {
		verb := "Applied"
		if dryRun {
			verb = "Would apply"
		}
		fmt.Fprintf(out, "%s %d fix(es):\n", verb, len(res.Applied))
		for _, item := range res.Applied {
			fmt.Fprintf(out, "  %s [%s]: %s (%d edits, %s)\n",
				item.Title, item.ID, item.Path, item.EditCount, item.Applicability.String())
		}
	}

	if len(res.FileChanges) > 0 {
		if dryRun {
			for _, change := range res.FileChanges {
				fmt.Fprintf(out, "=== %s (%d edits)\n", change.Path, change.EditCount)
				_, _ = out.Write(change.Content)
				if n := len(change.Content); n > 0 && change.Content[n-1] != '\n' {
					fmt.Fprintln(out)
				}
			}
		} else {
			fmt.Fprintln(out, "Updated files:")
			for _, change := range res.FileChanges {
				fmt.Fprintf(out, "  %s (%d edits)\n", change.Path, change.EditCount)
			}
		}
	}

	if len(res.Skipped) > 0 {
		fmt.Fprintln(out, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				fmt.Fprintf(out, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			fmt.Fprintln(out, "No applicable fixes found.")
			return nil
		}
		return applyErr
	}
	return nil
}
