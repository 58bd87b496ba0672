package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yildizm/ChefSnap/internal/capture"
	"github.com/yildizm/ChefSnap/internal/config"
	"github.com/yildizm/ChefSnap/internal/ui"
)

var (
	uiInbox    bool
	uiInboxDir string
)

func newUICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui [image]",
		Short: "Open the interactive interface",
		Long: `Open the interactive interface. Pick a photo with the file picker, send it
to the chef and browse your cookbook.

With --inbox, photos dropped into the camera inbox directory (for example by
a phone sync tool) are picked up automatically.

Examples:
  chefsnap ui
  chefsnap ui ./groceries.jpg
  chefsnap ui --inbox
  chefsnap ui --inbox-dir ~/Dropbox/Camera`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUI,
	}
	addUIFlags(cmd)
	return cmd
}

func addUIFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&uiInbox, "inbox", false, "watch the configured camera inbox for new photos")
	cmd.Flags().StringVar(&uiInboxDir, "inbox-dir", "", "camera inbox directory to watch (implies --inbox)")
}

func runUI(cmd *cobra.Command, args []string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}

	client, err := newBackendClient(cfg)
	if err != nil {
		return err
	}

	opts := &ui.Options{
		MaxUploadSize: cfg.Upload.MaxSizeBytes,
		StartDir:      config.ExpandPath(cfg.UI.StartDir),
		ShowPreview:   cfg.UI.ShowPreview,
		Logger:        log,
	}
	if len(args) == 1 {
		opts.ImagePath = args[0]
	}

	restore, err := redirectLogs(cfg)
	if err != nil {
		return err
	}
	defer restore()

	if uiInbox || uiInboxDir != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		watcher, err := startInbox(ctx, cfg, uiInboxDir)
		if err != nil {
			return err
		}
		defer func() {
			if err := watcher.Close(); err != nil {
				log.Warn("failed to close inbox watcher: %v", err)
			}
		}()
		opts.Inbox = watcher.Captures()
		opts.InboxDir = watcher.Dir()
	}

	return ui.Run(client, opts)
}

// startInbox watches dir, or the configured capture directory when dir is
// empty, creating it if needed.
func startInbox(ctx context.Context, cfg *config.Config, dir string) (*capture.Watcher, error) {
	if dir == "" {
		dir = cfg.Capture.Dir
	}
	dir = config.ExpandPath(dir)

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create inbox directory %s: %w", dir, err)
	}

	watcher, err := capture.Watch(ctx, dir, capture.Options{
		Debounce: cfg.Capture.Debounce,
		Logger:   log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to watch inbox: %w", err)
	}
	return watcher, nil
}
