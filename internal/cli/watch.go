package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yildizm/ChefSnap/internal/formatter"
	"github.com/yildizm/ChefSnap/internal/imagefile"
	"github.com/yildizm/ChefSnap/internal/recipe"
)

var (
	watchFormat string
	watchLimit  int
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Analyze photos as they land in the camera inbox",
		Long: `Watch the camera inbox directory and analyze every photo written to it.

Photos are picked up once they stop changing, so partially synced files are
not uploaded. Files that are not images or are too large are reported and
skipped. Press Ctrl+C to stop watching.

Examples:
  chefsnap watch
  chefsnap watch ~/Pictures/ChefSnap
  chefsnap watch --format json --limit 1`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().StringVarP(&watchFormat, "format", "f", "text", "output format (text, json, markdown)")
	cmd.Flags().IntVar(&watchLimit, "limit", 0, "stop after this many photos (0 watches until interrupted)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}

	client, err := newBackendClient(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	f, err := newFormatter(cmd, cfg, out)
	if err != nil {
		return err
	}

	var dir string
	if len(args) == 1 {
		dir = args[0]
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	watcher, err := startInbox(ctx, cfg, dir)
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher)

	status(cmd.ErrOrStderr(), "camera", "Watching %s (Ctrl+C to stop)", watcher.Dir())

	validator := imagefile.NewValidator(cfg.Upload.MaxSizeBytes)
	process := func(ctx context.Context, path string) error {
		result, err := analyzeOne(ctx, client, validator, path)
		if err != nil {
			return err
		}
		return writeResult(out, f, result)
	}

	return runWatchLoop(ctx, cmd.ErrOrStderr(), watcher.Captures(), watcher.Errors(), process, watchLimit)
}

// runWatchLoop runs the main watch loop with signal handling. It returns
// after limit processed photos when limit is positive.
func runWatchLoop(ctx context.Context, errOut io.Writer, captures <-chan string, errs <-chan error,
	process func(context.Context, string) error, limit int) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	processed := 0
	for {
		select {
		case <-ctx.Done():
			return nil

		case <-signals:
			if isVerbose() {
				fmt.Fprintf(errOut, "\nReceived interrupt signal, stopping...\n")
			}
			return nil

		case path, ok := <-captures:
			if !ok {
				return fmt.Errorf("camera inbox closed")
			}
			status(errOut, "search", "Analyzing %s", path)
			if err := process(ctx, path); err != nil {
				status(errOut, "warning", "%v", err)
				log.Warn("skipped %s: %v", path, err)
			}
			processed++
			if limit > 0 && processed >= limit {
				return nil
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			status(errOut, "error", "Watcher error: %v", err)
		}
	}
}

func writeResult(w io.Writer, f formatter.Formatter, result *recipe.AnalysisResult) error {
	output, err := f.FormatAnalysis(result)
	if err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}
	_, err = w.Write(output)
	return err
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher interface{ Close() error }) {
	if err := watcher.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close watcher: %v\n", err)
	}
}
