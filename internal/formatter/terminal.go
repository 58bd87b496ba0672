package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/ChefSnap/internal/emoji"
	"github.com/yildizm/ChefSnap/internal/recipe"
	"github.com/yildizm/go-termfmt"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) FormatAnalysis(result *recipe.AnalysisResult) ([]byte, error) {
	var b strings.Builder

	header := "Ingredient Scan"
	if result != nil && result.Filename != "" {
		header += ": " + result.Filename
	}
	f.writeHeader(&b, header)

	f.writeBadge(&b, recipe.NewBadge(result))

	if result != nil && result.AIPrediction != nil {
		f.writePrediction(&b, result.AIPrediction)
	}

	if result.HasRecipe() {
		f.writeRecipe(&b, result.Recipe)
	} else {
		fmt.Fprintf(&b, "%s %s\n", emoji.GetEmoji("sad"), recipe.MsgNoRecipe)
	}

	return []byte(b.String()), nil
}

func (f *terminalFormatter) FormatCookbook(recipes []recipe.SavedRecipe) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, fmt.Sprintf("My Cookbook (%s)", pluralize(len(recipes), "recipe")))

	if len(recipes) == 0 {
		fmt.Fprintf(&b, "%s %s\n", emoji.GetEmoji("cookbook"), recipe.MsgNoSavedRecipes)
		b.WriteString(recipe.MsgEmptyCookbook + "\n")
		return []byte(b.String()), nil
	}

	for i := range recipes {
		f.writeCookbookCard(&b, &recipes[i])
	}

	return []byte(b.String()), nil
}

// writeHeader writes a boxed title
func (f *terminalFormatter) writeHeader(b *strings.Builder, header string) {
	width := len([]rune(header))

	b.WriteString("╔" + strings.Repeat("═", width+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", width+2) + "╝\n\n")
}

// writeBadge writes the detected items as a tree, AI label first
func (f *terminalFormatter) writeBadge(b *strings.Builder, badge recipe.Badge) {
	fmt.Fprintf(b, "%s I found the following items\n", emoji.GetEmoji("search"))

	if badge.Empty() {
		b.WriteString(recipe.MsgNoIngredients + "\n\n")
		return
	}

	items := make([]termfmt.TreeItem, 0, len(badge.OCR)+1)
	if p := badge.Prediction; p != nil && p.Label != "" {
		items = append(items, termfmt.TreeItem{
			Label: emoji.GetEmoji("brain") + " " + p.Label,
			Value: fmt.Sprintf("(%s)", p.Confidence.Percent()),
		})
	}
	for _, text := range badge.OCR {
		items = append(items, termfmt.TreeItem{Label: emoji.GetEmoji("tag") + " " + text})
	}
	if len(items) == 0 {
		b.WriteString(recipe.MsgNoIngredients + "\n\n")
		return
	}
	items[len(items)-1].Last = true

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

// writePrediction writes the raw classifier block
func (f *terminalFormatter) writePrediction(b *strings.Builder, p *recipe.AIPrediction) {
	symbol := termfmt.GetEmoji("ai", f.opts)
	fmt.Fprintf(b, "%s AI Prediction\n", symbol)

	items := []termfmt.TreeItem{
		{Label: "Label", Value: orNA(p.Label)},
		{Label: "Class ID", Value: fmt.Sprintf("%d", p.ClassID)},
		{Label: "Confidence", Value: createConfidenceBar(p.Confidence.Value, f.opts) + " " + p.Confidence.Percent()},
		{Label: "Note", Value: orNA(p.Note), Last: true},
	}

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

// writeRecipe writes the full recipe card
func (f *terminalFormatter) writeRecipe(b *strings.Builder, r *recipe.Recipe) {
	fmt.Fprintf(b, "%s %s\n", emoji.GetEmoji("recipe"), orNA(r.Title))
	if r.Description != "" {
		b.WriteString(r.Description + "\n")
	}
	b.WriteString("\n")

	b.WriteString(termfmt.TreeViewWithOptions(f.metaItems(r), f.opts) + "\n\n")

	fmt.Fprintf(b, "%s Ingredients\n", emoji.GetEmoji("ingredients"))
	for _, ing := range r.Ingredients {
		fmt.Fprintf(b, "%s %s\n", emoji.GetEmoji("checkbox"), ing)
	}
	b.WriteString("\n")

	fmt.Fprintf(b, "%s Instructions\n", emoji.GetEmoji("instructions"))
	for i, step := range r.Instructions {
		fmt.Fprintf(b, "%d. %s\n", i+1, step)
	}
}

// metaItems builds cooking time, difficulty and macros
func (f *terminalFormatter) metaItems(r *recipe.Recipe) []termfmt.TreeItem {
	items := []termfmt.TreeItem{
		{Label: emoji.GetEmoji("clock") + " Cooking Time", Value: orNA(r.CookingTime)},
		{Label: emoji.GetEmoji("difficulty") + " Difficulty", Value: orNA(r.Difficulty)},
		{Label: emoji.GetEmoji("calories") + " Calories", Value: r.Calories()},
	}
	for _, key := range r.Macros.Keys() {
		if key == "calories" {
			continue
		}
		items = append(items, termfmt.TreeItem{Label: titleCase(key), Value: r.Macros.Get(key)})
	}
	items[len(items)-1].Last = true
	return items
}

// writeCookbookCard writes one saved recipe in compact form
func (f *terminalFormatter) writeCookbookCard(b *strings.Builder, s *recipe.SavedRecipe) {
	fmt.Fprintf(b, "%s %s\n", emoji.GetEmoji("recipe"), orNA(s.Title))

	items := []termfmt.TreeItem{
		{Label: "Cooking Time", Value: orNA(s.CookingTime)},
		{Label: "Difficulty", Value: orNA(s.Difficulty)},
		{Label: "Calories", Value: s.Calories()},
		{Label: "Ingredients", Value: pluralize(len(s.Ingredients), "item")},
	}
	if !s.CreatedAt.IsZero() {
		items = append(items, termfmt.TreeItem{Label: "Saved", Value: s.CreatedAt.Format("2006-01-02")})
	}
	if s.ID != "" {
		items = append(items, termfmt.TreeItem{Label: "ID", Value: s.ID})
	}
	items[len(items)-1].Last = true

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}
