package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yildizm/ChefSnap/internal/recipe"
)

var (
	cookbookFormat     string
	cookbookOutputFile string
)

func newCookbookCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cookbook",
		Short: "List your saved recipes",
		Long: `Fetch the recipes saved in your cookbook, newest first.

Examples:
  chefsnap cookbook
  chefsnap cookbook --format markdown --output-file cookbook.md`,
		Args: cobra.NoArgs,
		RunE: runCookbook,
	}

	cmd.Flags().StringVarP(&cookbookFormat, "format", "f", "text", "output format (text, json, markdown)")
	cmd.Flags().StringVar(&cookbookOutputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func runCookbook(cmd *cobra.Command, args []string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}

	client, err := newBackendClient(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recipes, err := client.Cookbook(ctx)
	if err != nil {
		log.Error("cookbook fetch failed: %v", err)
		return fmt.Errorf("%s: %w", recipe.MsgCookbookFailure, err)
	}
	log.Debug("fetched %d saved recipes", len(recipes))

	f, err := newFormatter(cmd, cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	output, err := f.FormatCookbook(recipes)
	if err != nil {
		return fmt.Errorf("failed to format cookbook: %w", err)
	}

	return handleOutputDestination(cmd, output, cookbookOutputFile)
}
