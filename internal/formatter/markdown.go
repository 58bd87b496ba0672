package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/ChefSnap/internal/recipe"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct {
	now func() time.Time
}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{now: time.Now}
}

func (f *markdownFormatter) FormatAnalysis(result *recipe.AnalysisResult) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Ingredient Scan\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", f.now().Format("2006-01-02 15:04:05"))
	if result != nil && result.Filename != "" {
		fmt.Fprintf(&b, "**Image:** `%s`\n\n", result.Filename)
	}

	f.writeItems(&b, recipe.NewBadge(result))

	if result != nil && result.AIPrediction != nil {
		f.writePredictionTable(&b, result.AIPrediction)
	}

	if result.HasRecipe() {
		f.writeRecipe(&b, result.Recipe)
	} else {
		b.WriteString("## Recipe\n\n")
		b.WriteString("_" + recipe.MsgNoRecipe + "_\n")
	}

	return []byte(b.String()), nil
}

func (f *markdownFormatter) FormatCookbook(recipes []recipe.SavedRecipe) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# My Cookbook\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", f.now().Format("2006-01-02 15:04:05"))

	if len(recipes) == 0 {
		b.WriteString("**" + recipe.MsgNoSavedRecipes + "**\n\n")
		b.WriteString(recipe.MsgEmptyCookbook + "\n")
		return []byte(b.String()), nil
	}

	f.writeTableOfContents(&b, recipes)

	for i := range recipes {
		s := &recipes[i]
		f.writeRecipe(&b, &s.Recipe)
		if !s.CreatedAt.IsZero() {
			fmt.Fprintf(&b, "\n_Saved %s_\n", s.CreatedAt.Format("2006-01-02"))
		}
		b.WriteString("\n---\n\n")
	}

	return []byte(b.String()), nil
}

// writeTableOfContents links every recipe heading
func (f *markdownFormatter) writeTableOfContents(b *strings.Builder, recipes []recipe.SavedRecipe) {
	b.WriteString("## Table of Contents\n")
	for i := range recipes {
		title := orNA(recipes[i].Title)
		fmt.Fprintf(b, "- [%s](#%s)\n", title, anchor(title))
	}
	b.WriteString("\n")
}

// writeItems writes the detected items as inline code tags
func (f *markdownFormatter) writeItems(b *strings.Builder, badge recipe.Badge) {
	b.WriteString("## Detected Items\n\n")

	if badge.Empty() {
		b.WriteString("_" + recipe.MsgNoIngredients + "_\n\n")
		return
	}

	tags := make([]string, 0, len(badge.OCR)+1)
	for _, tag := range badge.Tags() {
		tags = append(tags, "`"+tag+"`")
	}
	b.WriteString(strings.Join(tags, " ") + "\n\n")
}

// writePredictionTable writes the classifier block as a table
func (f *markdownFormatter) writePredictionTable(b *strings.Builder, p *recipe.AIPrediction) {
	b.WriteString("## AI Prediction\n\n")
	b.WriteString("| Field | Value |\n")
	b.WriteString("|-------|-------|\n")
	fmt.Fprintf(b, "| Label | %s |\n", escapeCell(orNA(p.Label)))
	fmt.Fprintf(b, "| Class ID | %d |\n", p.ClassID)
	fmt.Fprintf(b, "| Confidence | %s |\n", p.Confidence.Percent())
	fmt.Fprintf(b, "| Note | %s |\n\n", escapeCell(orNA(p.Note)))
}

// writeRecipe writes a recipe as a level-two section
func (f *markdownFormatter) writeRecipe(b *strings.Builder, r *recipe.Recipe) {
	fmt.Fprintf(b, "## %s\n\n", orNA(r.Title))
	if r.Description != "" {
		b.WriteString(r.Description + "\n\n")
	}

	b.WriteString("| Cooking Time | Difficulty | Calories |\n")
	b.WriteString("|--------------|------------|----------|\n")
	fmt.Fprintf(b, "| %s | %s | %s |\n\n",
		escapeCell(orNA(r.CookingTime)), escapeCell(orNA(r.Difficulty)), escapeCell(r.Calories()))

	if keys := r.Macros.Keys(); len(keys) > 0 {
		b.WriteString("**Macros:** ")
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s %s", titleCase(k), r.Macros.Get(k)))
		}
		b.WriteString(strings.Join(parts, " · ") + "\n\n")
	}

	b.WriteString("### Ingredients\n\n")
	for _, ing := range r.Ingredients {
		fmt.Fprintf(b, "- [ ] %s\n", ing)
	}
	b.WriteString("\n")

	b.WriteString("### Instructions\n\n")
	for i, step := range r.Instructions {
		fmt.Fprintf(b, "%d. %s\n", i+1, step)
	}
}

// anchor converts a heading into a GitHub-style fragment
func anchor(heading string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(heading) {
		switch {
		case r == ' ' || r == '-':
			b.WriteRune('-')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
