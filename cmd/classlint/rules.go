package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"classlint/internal/rules"
)

func newRulesCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the available rules and their configuration keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tNAME\tDESCRIPTION")
			for _, k := range rules.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", k.Key(), k, k.Description())
			}
			return tw.Flush()
		},
	}
}
