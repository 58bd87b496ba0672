package recipe

// MinCandidateLength is the shortest OCR string that is shown
const MinCandidateLength = 3

// Placeholder texts for empty results
const (
	MsgNoIngredients   = "No Ingredients Data Found"
	MsgNoRecipe        = "Sorry, the chef could not come up with a recipe for these ingredients."
	MsgNoSavedRecipes  = "No recipes saved yet!"
	MsgEmptyCookbook   = "Analyze a photo and save a recipe to start your cookbook."
	MsgCookbookFailure = "Could not load your cookbook. Please try again."
)

// Badge is the display model for the "I found the following items" block
type Badge struct {
	Prediction *AIPrediction
	OCR        []string
}

// Empty reports whether there is nothing to show; an unlabelled
// prediction renders no tag and counts as absent.
func (b Badge) Empty() bool {
	return len(b.Tags()) == 0
}

// Tags returns the labels in display order: AI label first, then OCR text
func (b Badge) Tags() []string {
	tags := make([]string, 0, len(b.OCR)+1)
	if b.Prediction != nil && b.Prediction.Label != "" {
		tags = append(tags, b.Prediction.Label)
	}
	return append(tags, b.OCR...)
}

// NewBadge builds the badge for an analysis result
func NewBadge(result *AnalysisResult) Badge {
	if result == nil {
		return Badge{}
	}
	var candidates []string
	if result.OCRResult != nil {
		candidates = result.OCRResult.Candidates
	}
	return Badge{
		Prediction: result.AIPrediction,
		OCR:        CleanCandidates(candidates),
	}
}

// CleanCandidates drops empty and too-short OCR strings, preserving order.
func CleanCandidates(candidates []string) []string {
	clean := make([]string, 0, len(candidates))
	for _, text := range candidates {
		if len([]rune(text)) < MinCandidateLength {
			continue
		}
		clean = append(clean, text)
	}
	return clean
}

// HasRecipe reports whether the result carries a recipe to render
func (r *AnalysisResult) HasRecipe() bool {
	return r != nil && r.Recipe != nil
}
