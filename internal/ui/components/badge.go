package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/ChefSnap/internal/emoji"
	"github.com/yildizm/ChefSnap/internal/recipe"
)

// BadgeTitle heads the detected ingredient block
const BadgeTitle = "I found the following items"

// IngredientBadge renders detected ingredients as a row of tags
type IngredientBadge struct {
	Badge   recipe.Badge
	Width   int
	Palette Palette
}

// NewIngredientBadge creates a badge for an analysis result
func NewIngredientBadge(result *recipe.AnalysisResult, width int) *IngredientBadge {
	return &IngredientBadge{
		Badge:   recipe.NewBadge(result),
		Width:   width,
		Palette: DefaultPalette(),
	}
}

// Render renders the badge. The AI label leads, followed by OCR text.
func (b *IngredientBadge) Render() string {
	title := b.Palette.header().Render(emoji.GetEmoji("tag") + " " + BadgeTitle)

	tags := b.tags()
	if len(tags) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, b.Palette.muted().Render(recipe.MsgNoIngredients))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, wrapTags(tags, b.Width))
}

func (b *IngredientBadge) tags() []string {
	lead := b.leadStyle()
	tag := b.tagStyle()

	var out []string
	if p := b.Badge.Prediction; p != nil && p.Label != "" {
		out = append(out, lead.Render(p.Label+" "+p.Confidence.Percent()))
	}
	for _, text := range b.Badge.OCR {
		out = append(out, tag.Render(text))
	}
	return out
}

func (b *IngredientBadge) leadStyle() lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	if b.Palette.Plain {
		return style.Underline(true)
	}
	return style.Background(b.Palette.Accent).Foreground(b.Palette.TagText)
}

func (b *IngredientBadge) tagStyle() lipgloss.Style {
	style := lipgloss.NewStyle().Padding(0, 1)
	if b.Palette.Plain {
		return style
	}
	return style.Background(b.Palette.Tag).Foreground(b.Palette.TagText)
}

// wrapTags lays tags out left to right, breaking lines at width
func wrapTags(tags []string, width int) string {
	if width <= 0 {
		return strings.Join(tags, " ")
	}

	var lines []string
	var line []string
	used := 0
	for _, tag := range tags {
		w := lipgloss.Width(tag)
		if used > 0 && used+1+w > width {
			lines = append(lines, strings.Join(line, " "))
			line, used = nil, 0
		}
		if used > 0 {
			used++
		}
		line = append(line, tag)
		used += w
	}
	if len(line) > 0 {
		lines = append(lines, strings.Join(line, " "))
	}
	return strings.Join(lines, "\n")
}
