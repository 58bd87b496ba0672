package formatter

import (
	"fmt"

	"github.com/yildizm/ChefSnap/internal/recipe"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	FormatAnalysis(result *recipe.AnalysisResult) ([]byte, error)
	FormatCookbook(recipes []recipe.SavedRecipe) ([]byte, error)
}

// New returns the formatter for format (text, json or markdown)
func New(format string, color bool) (Formatter, error) {
	switch format {
	case "", "text":
		return NewTerminal(color), nil
	case "json":
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (use text, json, or markdown)", format)
	}
}
