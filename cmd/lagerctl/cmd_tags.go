package main

import (
	"fmt"
	"lager_server/lib"
	"strings"

	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Tag helpers",
}

// lagerctl tags normalize "Cola, cola, 1.5L"
var tagsNormalizeCmd = &cobra.Command{
	Use:   "normalize <text>...",
	Short: "Print the tags a form value would be stored as",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := strings.Join(args, ",")
		fmt.Fprintln(cmd.OutOrStdout(), lib.JoinTags(lib.NormalizeTags(&raw)))
		return nil
	},
}
