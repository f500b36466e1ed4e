package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPrecheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "precheck <file>...",
		Short: "Report captures whose first show clock is over a year old",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var failed int
			for _, path := range args {
				in, err := readInput(path)
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
					failed++
					continue
				}
				issue := a.pipeline.Precheck(in.Text)
				if issue == nil {
					fmt.Fprintf(out, "%s: OK\n", path)
					continue
				}
				fmt.Fprintf(out, "%s: TOO OLD (line %d reads %s, oldest accepted date is %s)\n",
					path, issue.LineNo, issue.FoundDate, issue.OldestAllowedDate)
			}
			if failed > 0 {
				return fmt.Errorf("%d file(s) could not be read", failed)
			}
			return nil
		},
	}
}
