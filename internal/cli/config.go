package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yildizm/ChefSnap/internal/config"
)

// newConfigCommand creates the config command with subcommands
func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ChefSnap configuration",
		Long: `Manage ChefSnap configuration files and settings.

The config command provides subcommands for initializing, viewing,
validating, and locating configuration files.`,
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigPathCommand())

	return configCmd
}

// newConfigInitCommand creates the config init subcommand
func newConfigInitCommand() *cobra.Command {
	var (
		outputPath string
		minimal    bool
		force      bool
	)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new configuration file",
		Long: `Initialize a new ChefSnap configuration file with default values.

By default, creates a full configuration file with all options and comments.
Use --minimal for a compact configuration with only the backend endpoints.`,
		Example: `  # Create full config in current directory
  chefsnap config init

  # Create minimal config
  chefsnap config init --minimal

  # Create config at specific path
  chefsnap config init --path ~/.config/chefsnap/config.yaml

  # Overwrite existing config
  chefsnap config init --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputPath == "" {
				outputPath = ".chefsnap.yaml"
			}

			if !force && fileExists(outputPath) {
				return fmt.Errorf("config file already exists at %s (use --force to overwrite)", outputPath)
			}

			dir := filepath.Dir(outputPath)
			if dir != "." && dir != "/" {
				if err := os.MkdirAll(dir, 0o750); err != nil {
					return fmt.Errorf("failed to create directory %s: %w", dir, err)
				}
			}

			content := config.SampleConfig()
			if minimal {
				content = config.MinimalSampleConfig()
			}

			if err := os.WriteFile(outputPath, []byte(content), 0o600); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			out := cmd.OutOrStdout()
			status(out, "success", "Configuration file created at: %s", outputPath)
			if minimal {
				status(out, "recipe", "Created minimal configuration with the backend endpoints")
			} else {
				status(out, "recipe", "Created full configuration with all options and documentation")
			}

			return nil
		},
	}

	initCmd.Flags().StringVarP(&outputPath, "path", "p", "", "output path for config file (default: .chefsnap.yaml)")
	initCmd.Flags().BoolVarP(&minimal, "minimal", "m", false, "create minimal configuration")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing config file")

	return initCmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	var format string

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the current effective configuration after loading from all sources.

Shows the merged configuration from defaults, the config file and
CHEFSNAP_ environment variable overrides.`,
		Example: `  # Show config in YAML format
  chefsnap config show

  # Show config in JSON format
  chefsnap config show --format json

  # Show config from specific file
  chefsnap config show --config /path/to/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				data, err := json.MarshalIndent(cfg, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal config to JSON: %w", err)
				}
				fmt.Fprintln(out, string(data))
			case "yaml":
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("failed to marshal config to YAML: %w", err)
				}
				fmt.Fprint(out, string(data))
			default:
				return fmt.Errorf("unsupported format: %s (use json or yaml)", format)
			}

			return nil
		},
	}

	showCmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")

	return showCmd
}

// newConfigValidateCommand creates the config validate subcommand
func newConfigValidateCommand() *cobra.Command {
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validate a ChefSnap configuration file for syntax and semantic errors.

Checks the configuration file for:
- Valid YAML syntax
- Absolute http(s) backend endpoints
- A positive upload size limit
- Known output formats, color modes and themes`,
		Example: `  # Validate current config
  chefsnap config validate

  # Validate specific config file
  chefsnap config validate --config /path/to/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				status(out, "error", "Configuration validation failed:")
				fmt.Fprintf(out, "   %v\n", err)
				return err
			}

			status(out, "success", "Configuration is valid")
			status(out, "info", "Configuration summary:")
			fmt.Fprintf(out, "   Version: %s\n", cfg.Version)
			fmt.Fprintf(out, "   Analyze URL: %s\n", cfg.Backend.AnalyzeURL)
			fmt.Fprintf(out, "   Cookbook URL: %s\n", cfg.Backend.CookbookURL)
			fmt.Fprintf(out, "   Max Upload Size: %s\n", humanize.IBytes(uint64(cfg.Upload.MaxSizeBytes)))
			fmt.Fprintf(out, "   Output Format: %s\n", cfg.Output.DefaultFormat)
			fmt.Fprintf(out, "   Camera Inbox: %s\n", config.ExpandPath(cfg.Capture.Dir))

			return nil
		},
	}

	return validateCmd
}

// newConfigPathCommand creates the config path subcommand
func newConfigPathCommand() *cobra.Command {
	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show configuration file search paths",
		Long: `Display the list of paths ChefSnap searches for configuration files.

Shows the search order and indicates which files exist.`,
		Example: `  # Show config search paths
  chefsnap config path`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			status(out, "folder", "Configuration file search paths (in priority order):")
			fmt.Fprintln(out)

			priority := []string{"Highest", "Medium", "Lowest"}
			for i, path := range config.GetConfigPaths() {
				exists := " " + GetEmoji("error") + " (not found)"
				if fileExists(path) {
					exists = " " + GetEmoji("success") + " (exists)"
				}

				fmt.Fprintf(out, "  %d. %s%s\n", i+1, path, exists)
				if i < len(priority) {
					fmt.Fprintf(out, "     Priority: %s\n", priority[i])
				}
				fmt.Fprintln(out)
			}

			if currentConfig, found := config.FindConfigFile(); found {
				status(out, "search", "Current config file: %s", currentConfig)
			} else {
				status(out, "info", "No config file found, using defaults")
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Environment variables with CHEFSNAP_ prefix override file settings")
		},
	}

	return pathCmd
}

// Helper function to check if file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
