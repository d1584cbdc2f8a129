// Package main is the entry point for the quill editor.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/quill/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	var opts app.Options

	cmd := &cobra.Command{
		Use:   "quill [files...]",
		Short: "A small terminal text editor",
		Long: `quill edits text files in the terminal.

Each file named on the command line opens in its own tab. Files that do
not exist yet are created on the first save.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Files = args
			return runEditor(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "configuration file (default: $XDG_CONFIG_HOME/quill/config.toml)")
	flags.StringVar(&opts.LogFile, "log-file", "", "write the log to this file")
	flags.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVarP(&opts.ReadOnly, "readonly", "R", false, "open files read-only")
	return cmd
}

func runEditor(ctx context.Context, opts app.Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("quill needs an interactive terminal")
	}
	opts.WatchConfig = true

	application, err := app.New(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	runErr := application.Run(ctx)
	closeErr := application.Close()
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}
	return errors.Join(runErr, closeErr)
}
