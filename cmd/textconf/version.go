package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"textconf/internal/version"
)

var (
	versionFormat      string
	versionShowHash    bool
	versionShowMessage bool
	versionShowDate    bool
	versionShowFull    bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShowHash, "hash", false, "include git commit hash")
	versionCmd.Flags().BoolVar(&versionShowMessage, "message", false, "include git commit message")
	versionCmd.Flags().BoolVar(&versionShowDate, "date", false, "include build timestamp")
	versionCmd.Flags().BoolVar(&versionShowFull, "full", false, "show every recorded bit of build metadata")
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show textconf build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		details := version.Details{
			Hash:    versionShowHash || versionShowFull,
			Message: versionShowMessage || versionShowFull,
			Date:    versionShowDate || versionShowFull,
		}
		info := version.Get()
		switch strings.ToLower(versionFormat) {
		case "pretty":
			version.WritePretty(cmd.OutOrStdout(), "textconf", info, details)
			return nil
		case "json":
			return version.WriteJSON(cmd.OutOrStdout(), "textconf", info, details)
		}
		return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
	},
}
