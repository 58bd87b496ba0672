package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/ChefSnap/internal/emoji"
	"github.com/yildizm/ChefSnap/internal/recipe"
)

// ConfidenceBar renders a classifier confidence as a filled bar
type ConfidenceBar struct {
	Width      int
	Confidence recipe.Confidence
	Palette    Palette
}

// NewConfidenceBar creates a bar of the given width
func NewConfidenceBar(c recipe.Confidence, width int) *ConfidenceBar {
	return &ConfidenceBar{Width: width, Confidence: c, Palette: DefaultPalette()}
}

// Render renders the bar followed by the percentage text
func (c *ConfidenceBar) Render() string {
	width := c.Width
	if width <= 0 {
		width = 20
	}

	value := c.Confidence.Value
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	filled := int(float64(width)*value + 0.5)
	bar := c.Palette.fg(c.Palette.Secondary).Bold(true).Render(strings.Repeat("█", filled)) +
		c.Palette.muted().Render(strings.Repeat("░", width-filled))

	return fmt.Sprintf("[%s] %s", bar, c.Confidence.Percent())
}

// PredictionPanel renders the raw AI prediction block
type PredictionPanel struct {
	Prediction *recipe.AIPrediction
	Width      int
	Palette    Palette
}

// Render renders label, class id, confidence and the backend note
func (p *PredictionPanel) Render() string {
	if p.Prediction == nil {
		return ""
	}
	key := p.Palette.muted()
	bar := &ConfidenceBar{Width: min(20, max(p.Width-16, 5)), Confidence: p.Prediction.Confidence, Palette: p.Palette}

	lines := []string{
		p.Palette.header().Render(emoji.GetEmoji("brain") + " AI Prediction"),
		key.Render("Label:      ") + p.Prediction.Label,
		key.Render("Class ID:   ") + fmt.Sprintf("%d", p.Prediction.ClassID),
		key.Render("Confidence: ") + bar.Render(),
	}
	if p.Prediction.Note != "" {
		note := lipgloss.NewStyle().Width(max(p.Width-12, 10)).Render(p.Prediction.Note)
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, key.Render("Note:       "), note))
	}
	return strings.Join(lines, "\n")
}
