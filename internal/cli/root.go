package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/yildizm/ChefSnap/internal/backend"
	"github.com/yildizm/ChefSnap/internal/config"
	"github.com/yildizm/ChefSnap/internal/emoji"
	"github.com/yildizm/ChefSnap/internal/logger"
	"github.com/yildizm/ChefSnap/internal/ui"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	noEmoji   bool
	outputFmt string

	globalConfig *config.Config
	log          = logger.New("chefsnap", isVerbose)
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	globalConfig = nil
	ui.SetColorDisabled(false)

	rootCmd := &cobra.Command{
		Use:   "chefsnap [image]",
		Short: "Turn a photo of your ingredients into a recipe",
		Long: `ChefSnap sends a photo of your groceries to the ChefSnap backend, shows the
ingredients it recognised and the recipe the chef suggests, and keeps your
saved recipes one keystroke away.

Run without a subcommand to open the interactive interface.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Auto-disable emojis on Windows if not explicitly set
			if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
				noEmoji = true
			}
			emoji.SetEmojiDisabled(noEmoji)
		},
		RunE: runUI,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "output format (text, json, markdown)")
	addUIFlags(rootCmd)

	rootCmd.AddCommand(newUICommand())
	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newCookbookCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ChefSnap %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// GetGlobalConfig loads the configuration once per command invocation and
// applies its display settings.
func GetGlobalConfig() (*config.Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	globalConfig = cfg

	if !cfg.Output.Emoji {
		emoji.SetEmojiDisabled(true)
	}
	if !ui.SetThemeByName(cfg.UI.Theme) {
		log.Warn("unknown theme %q, using default", cfg.UI.Theme)
	}
	switch {
	case noColor || cfg.Output.ColorMode == "never":
		ui.SetColorDisabled(true)
		lipgloss.SetColorProfile(termenv.Ascii)
	case cfg.Output.ColorMode == "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	}

	log.Debug("configuration loaded (analyze=%s cookbook=%s)", cfg.Backend.AnalyzeURL, cfg.Backend.CookbookURL)
	return cfg, nil
}

// newBackendClient builds the HTTP client from configuration
func newBackendClient(cfg *config.Config) (*backend.Client, error) {
	return backend.New(&backend.Config{
		AnalyzeURL:  cfg.Backend.AnalyzeURL,
		CookbookURL: cfg.Backend.CookbookURL,
		Timeout:     cfg.Backend.Timeout,
		UserAgent:   cfg.Backend.UserAgent,
	}, log)
}

// redirectLogs sends log output to chefsnap.log in the cache directory
// while the TUI owns the terminal. The returned func restores stderr.
func redirectLogs(cfg *config.Config) (func(), error) {
	dir := config.ExpandPath(cfg.Storage.CacheDir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, "chefsnap.log")
	// #nosec G304 - path is built from the configured cache directory
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	log.SetOutput(file)
	return func() {
		log.SetOutput(os.Stderr)
		if err := file.Close(); err != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
	}, nil
}

// Global helpers
func isVerbose() bool {
	return verbose || (globalConfig != nil && globalConfig.Output.Verbose)
}

// getOutputFormat resolves the format: the command's own flag, then the
// global --output flag, then the configured default.
func getOutputFormat(cmd *cobra.Command, cfg *config.Config) string {
	if f := cmd.Flag("format"); f != nil && f.Changed {
		return f.Value.String()
	}
	if outputFmt != "" {
		return outputFmt
	}
	return cfg.Output.DefaultFormat
}

// useColor reports whether formatted output to w should carry ANSI colors
func useColor(cfg *config.Config, w io.Writer) bool {
	if noColor || ui.IsColorDisabled() {
		return false
	}
	switch cfg.Output.ColorMode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func isEmojiDisabled() bool {
	return noEmoji || emoji.IsEmojiDisabled()
}
