package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/showscrub/backend/internal/diff"
)

func newDiffCmd() *cobra.Command {
	var onlyChanges bool
	cmd := &cobra.Command{
		Use:   "diff <before> <after>",
		Short: "Show a word diff between two captures",
		Long: `Compare a capture with its converted output. Removed words are shown as
[-word-] and added words as {+word+}. Counter lines zeroed by a conversion are
paired with their original even when the line itself was dropped.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			before, err := readInput(args[0])
			if err != nil {
				return err
			}
			after, err := readInput(args[1])
			if err != nil {
				return err
			}

			res := diff.Compare(splitLines(before.Text), splitLines(after.Text), onlyChanges)
			out := cmd.OutOrStdout()
			if err := diff.WriteMarked(out, res.Rows); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d added, %d removed\n", res.Added, res.Removed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&onlyChanges, "only-changes", false, "collapse unchanged lines")
	return cmd
}
