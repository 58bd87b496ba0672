package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yildizm/ChefSnap/internal/config"
	"github.com/yildizm/ChefSnap/internal/formatter"
	"github.com/yildizm/ChefSnap/internal/imagefile"
	"github.com/yildizm/ChefSnap/internal/recipe"
	"github.com/yildizm/ChefSnap/internal/uploader"
)

var (
	analyzeFormat     string
	analyzeOutputFile string
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <image>",
		Short: "Analyze a photo and print the suggested recipe",
		Long: `Validate a food photo, upload it to the analyze endpoint and print the
detected ingredients together with the recipe the chef suggests.

The image must be an image/* file no larger than upload.max_size_bytes.
Pass - to read the image from stdin.

Examples:
  chefsnap analyze groceries.jpg
  chefsnap analyze --format json groceries.jpg
  cat groceries.jpg | chefsnap analyze -
  chefsnap analyze --format markdown --output-file soup.md groceries.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&analyzeFormat, "format", "f", "text", "output format (text, json, markdown)")
	cmd.Flags().StringVar(&analyzeOutputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}

	img, err := loadImageArg(cmd, imagefile.NewValidator(cfg.Upload.MaxSizeBytes), args[0])
	if err != nil {
		return err
	}
	if isVerbose() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Uploading %s (%s, %d bytes)...\n", img.Name, img.MIMEType, img.Size)
	}

	client, err := newBackendClient(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := client.Analyze(ctx, img)
	if err != nil {
		log.Error("analysis failed: %v", err)
		return fmt.Errorf("%s: %w", uploader.MsgServerFailure, err)
	}
	if result.Filename == "" {
		result.Filename = img.Name
	}

	out := cmd.OutOrStdout()
	f, err := newFormatter(cmd, cfg, out)
	if err != nil {
		return err
	}
	output, err := f.FormatAnalysis(result)
	if err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}

	return handleOutputDestination(cmd, output, analyzeOutputFile)
}

// loadImageArg loads the image named on the command line; "-" reads stdin
func loadImageArg(cmd *cobra.Command, validator *imagefile.Validator, arg string) (*imagefile.Image, error) {
	var (
		img *imagefile.Image
		err error
	)
	if arg == "-" {
		img, err = validator.LoadReader("", cmd.InOrStdin())
	} else {
		if err := validateFilePath(arg); err != nil {
			return nil, fmt.Errorf("invalid image path: %w", err)
		}
		img, err = validator.Load(filepath.Clean(arg))
	}
	if err != nil {
		return nil, userError(err)
	}
	return img, nil
}

// analyzeOne validates and analyzes a single file; used by watch
func analyzeOne(ctx context.Context, analyzer uploader.Analyzer, validator *imagefile.Validator, path string) (*recipe.AnalysisResult, error) {
	img, err := validator.Load(path)
	if err != nil {
		return nil, userError(err)
	}
	result, err := analyzer.Analyze(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", uploader.MsgServerFailure, err)
	}
	if result.Filename == "" {
		result.Filename = img.Name
	}
	return result, nil
}

// userError surfaces the validation message shown in the interface
func userError(err error) error {
	var verr *imagefile.ValidationError
	if errors.As(err, &verr) {
		return fmt.Errorf("%s: %w", verr.Message, err)
	}
	return fmt.Errorf("%s: %w", uploader.MsgCouldNotLoad, err)
}

func newFormatter(cmd *cobra.Command, cfg *config.Config, out io.Writer) (formatter.Formatter, error) {
	color := useColor(cfg, out)
	if f := cmd.Flag("output-file"); f != nil && f.Value.String() != "" && cfg.Output.ColorMode != "always" {
		color = false
	}
	return formatter.New(getOutputFormat(cmd, cfg), color)
}

// handleOutputDestination writes output to file or the command's stdout
func handleOutputDestination(cmd *cobra.Command, output []byte, outputFile string) error {
	if outputFile == "" {
		_, err := cmd.OutOrStdout().Write(output)
		return err
	}

	if err := validateOutputFilePath(outputFile); err != nil {
		return fmt.Errorf("invalid output file path: %w", err)
	}
	if err := writeOutputBytesToFile(output, outputFile); err != nil {
		return fmt.Errorf("failed to write output to file: %w", err)
	}
	if isVerbose() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Output saved to: %s\n", outputFile)
	}
	return nil
}

func validateFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", cleanPath)
		}
		return fmt.Errorf("cannot access file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", cleanPath)
	}

	return nil
}

func validateOutputFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty file path")
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("path is a directory: %s", path)
	}
	return nil
}

// writeOutputBytesToFile writes output to a file with proper error handling
func writeOutputBytesToFile(output []byte, filePath string) error {
	cleanPath := filepath.Clean(filePath)

	// #nosec G304 - path is validated by caller
	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output file: %v\n", closeErr)
		}
	}()

	if _, err := file.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	return nil
}
