package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZephyrCodesStuff/slavart/internal/config"
	"github.com/ZephyrCodesStuff/slavart/internal/download"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitInterrupted = 130
)

// usageError marks errors caused by how the command was invoked.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

type flags struct {
	query    string
	ids      []int
	output   string
	timeout  float64
	config   string
	verbose  bool
	playlist string
	noTags   bool
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "slavart [flags] [track-id...]",
		Short: "Search the catalog and download FLAC tracks",
		Long: `slavart searches the music catalog and downloads tracks by id.

A search prints one line per track found and remembers the tracks in the
local cache. Downloads use the cache to name files as
<artist>/<album>/<NN> - <title>.flac. Tracks never seen in a search are
saved as Uncategorized/<id>.flac.`,
		Example: `  slavart -q "daft punk"
  slavart -i 1001 -i 1002 -o ~/Music
  slavart 1001,1002 --playlist m3u`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return &usageError{err}
			}
			f.ids = append(f.ids, ids...)
			return run(cmd, f, stderr)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	fs := cmd.Flags()
	fs.StringVarP(&f.query, "query", "q", "", "search the catalog for this text")
	fs.IntSliceVarP(&f.ids, "id", "i", nil, "track id to download (repeatable, comma-separated)")
	fs.StringVarP(&f.output, "output", "o", "", "download directory (default from config, else .)")
	fs.Float64VarP(&f.timeout, "timeout", "t", 90, "request timeout in seconds")
	fs.StringVarP(&f.config, "config", "c", "", "path to a TOML config file")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show verbose output")
	fs.StringVar(&f.playlist, "playlist", "", "write a playlist of the batch (m3u or pls)")
	fs.BoolVar(&f.noTags, "no-tags", false, "save tracks exactly as received")

	return cmd
}

func run(cmd *cobra.Command, f flags, stderr io.Writer) error {
	settings, err := config.Load(f.config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := applyFlags(cmd, f, settings); err != nil {
		return &usageError{err}
	}

	opts := config.Options{
		Query:   f.query,
		IDs:     f.ids,
		Output:  settings.OutputPath,
		Timeout: settings.TimeoutDuration(),
	}
	if err := opts.Validate(); err != nil {
		return &usageError{err}
	}

	// Handle interrupts
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := newLogger(stderr, f.verbose)
	manager := download.NewManager(settings, logger.Log)

	return manager.Run(ctx, opts)
}

// applyFlags overrides settings with the flags given on the command line.
func applyFlags(cmd *cobra.Command, f flags, settings *config.Settings) error {
	fs := cmd.Flags()

	if f.output != "" {
		settings.OutputPath = f.output
	}
	if fs.Changed("timeout") {
		if f.timeout <= 0 {
			return fmt.Errorf("--timeout must be positive, got %g", f.timeout)
		}
		settings.Timeout = f.timeout
	}
	if fs.Changed("playlist") {
		if err := config.ValidatePlaylist(f.playlist); err != nil {
			return err
		}
		settings.Playlist = f.playlist
	}
	if f.noTags {
		settings.ModifyTags = false
		settings.EmbedCoverArt = false
	}
	return nil
}

// parseIDs converts positional arguments to track ids. Each argument may
// hold several comma-separated ids.
func parseIDs(args []string) ([]int, error) {
	var ids []int
	for _, arg := range args {
		for _, part := range splitComma(arg) {
			id, err := strconv.Atoi(part)
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("invalid track id %q", part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func splitComma(s string) []string {
	var parts []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// exitCode maps the result of the command to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	default:
		return exitFailure
	}
}

func execute(args []string, stderr io.Writer) int {
	cmd := newRootCmd(stderr)
	cmd.SetArgs(args)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		return exitOK
	}

	var usage *usageError
	if errors.As(err, &usage) {
		fmt.Fprintf(stderr, "Error: %v\n\n%s", err, cmd.UsageString())
		return exitFailure
	}

	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(stderr, "\nInterrupted, cancelled.")
	} else {
		fmt.Fprintf(stderr, "%s %s\n", time.Now().Format(timeLayout), errorStyle.Render("Error: "+err.Error()))
	}
	return exitCode(err)
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stderr))
}
