package formatter

import (
	"encoding/json"
	"time"

	"github.com/yildizm/ChefSnap/internal/recipe"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

func (f *jsonFormatter) FormatAnalysis(result *recipe.AnalysisResult) ([]byte, error) {
	output := &AnalysisOutput{
		Items: createItemsOutput(recipe.NewBadge(result)),
	}
	if result != nil {
		output.Filename = result.Filename
		output.AIPrediction = result.AIPrediction
		output.OCRResult = result.OCRResult
		output.Recipe = result.Recipe
	}

	return json.MarshalIndent(output, "", "  ")
}

func (f *jsonFormatter) FormatCookbook(recipes []recipe.SavedRecipe) ([]byte, error) {
	output := &CookbookOutput{
		Count:   len(recipes),
		Recipes: make([]*SavedRecipeOutput, 0, len(recipes)),
	}
	for i := range recipes {
		output.Recipes = append(output.Recipes, createSavedRecipeOutput(&recipes[i]))
	}

	return json.MarshalIndent(output, "", "  ")
}

// AnalysisOutput is the JSON shape of one analysis
type AnalysisOutput struct {
	Filename     string               `json:"filename,omitempty"`
	Items        *ItemsOutput         `json:"items"`
	AIPrediction *recipe.AIPrediction `json:"ai_prediction,omitempty"`
	OCRResult    *recipe.OCRResult    `json:"ocr_result,omitempty"`
	Recipe       *recipe.Recipe       `json:"recipe"`
}

// ItemsOutput is the cleaned badge: AI label plus OCR strings long enough to show
type ItemsOutput struct {
	Tags  []string `json:"tags"`
	Label string   `json:"label,omitempty"`
	OCR   []string `json:"ocr"`
}

// CookbookOutput is the JSON shape of the saved-recipe list
type CookbookOutput struct {
	Count   int                  `json:"count"`
	Recipes []*SavedRecipeOutput `json:"recipes"`
}

// SavedRecipeOutput flattens a saved recipe with its derived calories
type SavedRecipeOutput struct {
	ID        string     `json:"id,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	Calories  string     `json:"calories"`
	*recipe.Recipe
}

func createItemsOutput(badge recipe.Badge) *ItemsOutput {
	items := &ItemsOutput{
		Tags: badge.Tags(),
		OCR:  badge.OCR,
	}
	if badge.Prediction != nil {
		items.Label = badge.Prediction.Label
	}
	return items
}

func createSavedRecipeOutput(s *recipe.SavedRecipe) *SavedRecipeOutput {
	out := &SavedRecipeOutput{
		ID:       s.ID,
		Calories: s.Calories(),
		Recipe:   &s.Recipe,
	}
	if !s.CreatedAt.IsZero() {
		created := s.CreatedAt
		out.CreatedAt = &created
	}
	return out
}
