package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/showscrub/backend/internal/commands"
	"github.com/showscrub/backend/internal/logging"
	"github.com/showscrub/backend/internal/textdecode"
	"github.com/showscrub/backend/internal/transform"
)

// app holds the state shared by the subcommands.
type app struct {
	logLevel    string
	profilePath string

	// extra is appended to the pipeline options.
	extra []transform.Option

	logger   zerolog.Logger
	pipeline *transform.Pipeline
}

func newRootCmd(extra ...transform.Option) *cobra.Command {
	a := &app{extra: extra}

	root := &cobra.Command{
		Use:   "showscrub",
		Short: "Sanitize show-command captures for review",
		Long: `showscrub cleans captured switch show-command sessions: it drops "clear"
lines, zeroes interface error counters, re-times the three show clock
readings and checks that the expected commands were run in order.

The diff subcommand shows what a conversion changed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip initialization for help commands
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.profilePath, "profile", "", "YAML command profile overriding the expected command order")

	root.AddCommand(
		newConvertCmd(a),
		newDiffCmd(),
		newPrecheckCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	logger, err := logging.New(logging.Config{
		Level:   a.logLevel,
		Format:  logging.FormatConsole,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	a.logger = logger

	order, err := commands.LoadOrder(a.profilePath)
	if err != nil {
		return err
	}
	opts := append([]transform.Option{
		transform.WithOrder(order),
		transform.WithLogger(logger),
	}, a.extra...)
	a.pipeline = transform.New(opts...)
	return nil
}

// readInput decodes a capture file.
func readInput(path string) (textdecode.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return textdecode.Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	res, err := textdecode.Decode(data)
	if err != nil {
		return textdecode.Result{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return res, nil
}

func splitLines(text string) []string {
	return strings.Split(textdecode.NormalizeNewlines(text), "\n")
}
