package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/showscrub/backend/internal/clock"
	"github.com/showscrub/backend/internal/storage"
	"github.com/showscrub/backend/internal/transform"
)

type convertFlags struct {
	out     string
	custom  bool
	date    string
	start   string
	end     string
	workers int
}

func newConvertCmd(a *app) *cobra.Command {
	f := &convertFlags{}
	cmd := &cobra.Command{
		Use:   "convert <file>...",
		Short: "Convert captures and write the outputs",
		Long: `Convert one or more captures. Each output is named after the system serial
numbers found in it, or after the input file, and the validation report is
printed for every capture.

Examples:
  showscrub convert sw1.txt sw2.txt --out converted/
  showscrub convert sw1.txt --custom --date 25/02/2026 --start 09:00:00 --end 11:00:00`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvert(cmd, args, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.out, "out", "o", ".", "directory receiving the converted outputs")
	flags.BoolVar(&f.custom, "custom", false, "place clock #2 inside the --start/--end window on --date")
	flags.StringVar(&f.date, "date", "", "clock date for --custom (DD/MM/YYYY)")
	flags.StringVar(&f.start, "start", "08:00:00", "window start for --custom (HH:MM:SS)")
	flags.StringVar(&f.end, "end", "18:00:00", "window end for --custom (HH:MM:SS)")
	flags.IntVarP(&f.workers, "workers", "w", 4, "captures converted at once")
	return cmd
}

func (f *convertFlags) options() (clock.Options, error) {
	opts := clock.DefaultOptions()

	start, err := clock.ParseTimeOfDay(f.start)
	if err != nil {
		return opts, fmt.Errorf("--start: %w", err)
	}
	end, err := clock.ParseTimeOfDay(f.end)
	if err != nil {
		return opts, fmt.Errorf("--end: %w", err)
	}
	opts.Start, opts.End = start, end

	if f.custom {
		if _, err := clock.ParseDate(f.date); err != nil {
			return opts, fmt.Errorf("--date: %w", err)
		}
		opts.Custom = true
		opts.Date = f.date
	}
	return opts, nil
}

func (a *app) runConvert(cmd *cobra.Command, paths []string, f *convertFlags) error {
	opts, err := f.options()
	if err != nil {
		return err
	}
	store, err := storage.NewLocalStore(f.out)
	if err != nil {
		return err
	}

	docs := make([]transform.Document, len(paths))
	for i, path := range paths {
		in, err := readInput(path)
		docs[i] = transform.Document{Name: filepath.Base(path), Text: in.Text, Err: err}
	}
	outcomes := a.pipeline.ConvertBatch(cmd.Context(), docs, opts, f.workers)

	out := cmd.OutOrStdout()
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", o.Name, o.Err)
			continue
		}
		a.logger.Info().
			Str("file", o.Name).
			Bool("healthy", o.Healthy()).
			Dur("elapsed", o.Elapsed).
			Msg("Converted capture")

		for _, artifact := range transform.ArtifactNames(o.Name, o.Result.Report.Serials, transform.NewNamer()) {
			info, err := store.Save("", artifact, strings.NewReader(withNewline(o.Result.Output)))
			if err != nil {
				return err
			}
			path, _ := store.GetFilePath(info.Name)
			fmt.Fprintf(out, "wrote %s\n", path)
		}
		fmt.Fprintln(out, transform.RenderText(o.Name, &o.Result.Report))
	}

	sum := transform.Summarize(outcomes)
	fmt.Fprintf(out, "converted %d file(s): %d healthy, %d unhealthy, %d failed\n",
		sum.Total, sum.Healthy, sum.Unhealthy, sum.Failed)
	if len(sum.Problems) > 0 {
		fmt.Fprintf(out, "check: %s\n", strings.Join(sum.Problems, ", "))
	}
	if sum.Failed > 0 {
		return fmt.Errorf("%d of %d captures could not be converted", sum.Failed, sum.Total)
	}
	return nil
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
