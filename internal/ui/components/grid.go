package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/ChefSnap/internal/recipe"
)

// DefaultCardWidth is the width of one cookbook card including its border
const DefaultCardWidth = 34

// CookbookGrid lays saved recipes out as rows of compact cards
type CookbookGrid struct {
	Recipes   []recipe.SavedRecipe
	Columns   int
	CardWidth int
	Selected  int

	// Offset is the first visible row; Rows limits the visible rows, 0
	// shows all of them.
	Offset  int
	Rows    int
	Palette Palette
}

// NewCookbookGrid fits as many columns of cards into width as possible
func NewCookbookGrid(recipes []recipe.SavedRecipe, width int) *CookbookGrid {
	return &CookbookGrid{
		Recipes:   recipes,
		Columns:   GridColumns(width, DefaultCardWidth),
		CardWidth: DefaultCardWidth,
		Palette:   DefaultPalette(),
	}
}

// GridColumns returns how many cards of cardWidth fit in width, at least 1
func GridColumns(width, cardWidth int) int {
	if cardWidth <= 0 {
		return 1
	}
	return max(width/cardWidth, 1)
}

// RowOf returns the row holding recipe index i
func (g *CookbookGrid) RowOf(i int) int {
	return i / max(g.Columns, 1)
}

// RowCount returns the number of rows needed for all recipes
func (g *CookbookGrid) RowCount() int {
	cols := max(g.Columns, 1)
	return (len(g.Recipes) + cols - 1) / cols
}

// Render renders the visible rows
func (g *CookbookGrid) Render() string {
	if len(g.Recipes) == 0 {
		return ""
	}
	cols := max(g.Columns, 1)

	first := max(g.Offset, 0)
	last := g.RowCount()
	if g.Rows > 0 {
		last = min(last, first+g.Rows)
	}

	var rows []string
	for row := first; row < last; row++ {
		start := row * cols
		end := min(start+cols, len(g.Recipes))

		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			card := &RecipeCard{
				Recipe:   &g.Recipes[i].Recipe,
				Width:    g.CardWidth,
				Compact:  true,
				Selected: i == g.Selected,
				Palette:  g.Palette,
			}
			cards = append(cards, card.Render())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
