package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"textconf/internal/diag"
	"textconf/internal/driver"
	"textconf/internal/source"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] <file>",
	Short: "Show placeholders, parameters, inferred kinds and diagnostics of a template",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().Bool("strict", false, "parse strictly and require unique names among defaults")
	inspectCmd.Flags().Bool("stdin", false, "read the document from stdin")
	inspectCmd.Flags().String("format", "text", "output format (text|json|msgpack)")
	inspectCmd.Flags().String("name", "Config", "name of the root record")
	inspectCmd.Flags().String("separator", "---", "document section separator line")
}

func runInspect(cmd *cobra.Command, args []string) error {
	strict, err := cmd.Flags().GetBool("strict")
	if err != nil {
		return err
	}
	fromStdin, err := cmd.Flags().GetBool("stdin")
	if err != nil {
		return err
	}
	format, err := readOutputFormat(cmd, "text", "json", "msgpack")
	if err != nil {
		return err
	}
	if fromStdin == (len(args) == 1) {
		return fmt.Errorf("inspect: expected exactly one of <file> or --stdin")
	}
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	fileSet := source.NewFileSet()
	var id source.FileID
	if fromStdin {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("inspect: read stdin: %w", err)
		}
		id = fileSet.AddVirtual("<stdin>", data)
	} else {
		id, err = fileSet.Load(args[0])
		if err != nil {
			return fmt.Errorf("inspect: %w", err)
		}
	}

	bag := diag.NewBag(maxDiagnostics(cmd))
	res, err := driver.Inspect(cmd.Context(), fileSet, id, bag, driver.InspectOptions{
		Strict:    strict,
		Separator: settings.Separator,
		ClassName: settings.ClassName,
	})
	if err != nil {
		return err
	}
	if err := driver.EncodeInspect(cmd.OutOrStdout(), res, format); err != nil {
		return err
	}
	if bag.HasErrors() {
		return errFailed
	}
	return nil
}
