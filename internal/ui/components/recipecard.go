package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/ChefSnap/internal/emoji"
	"github.com/yildizm/ChefSnap/internal/recipe"
)

// RecipeCard renders a recipe. Compact cards are used in the cookbook
// grid and omit the ingredient and instruction lists.
type RecipeCard struct {
	Recipe   *recipe.Recipe
	Width    int
	Compact  bool
	Selected bool
	Palette  Palette
}

// NewRecipeCard creates a full-size card
func NewRecipeCard(r *recipe.Recipe, width int) *RecipeCard {
	return &RecipeCard{Recipe: r, Width: width, Palette: DefaultPalette()}
}

// Render renders the card, or the no-recipe placeholder when Recipe is nil
func (c *RecipeCard) Render() string {
	if c.Recipe == nil {
		return RenderNoRecipe(c.Palette)
	}

	inner := c.Width - 4
	if inner < 10 {
		inner = 10
	}
	text := lipgloss.NewStyle().Width(inner)

	sections := []string{c.Palette.header().Render(c.title(inner))}
	if c.Recipe.Description != "" {
		desc := c.Recipe.Description
		if c.Compact {
			desc = truncate(desc, inner*2)
		}
		sections = append(sections, text.Render(desc))
	}
	sections = append(sections, c.Palette.fg(c.Palette.Highlight).Render(c.meta()))

	if c.Compact {
		sections = append(sections, c.Palette.muted().Render(fmt.Sprintf("%s · %s",
			count(len(c.Recipe.Ingredients), "ingredient"),
			count(len(c.Recipe.Instructions), "step"))))
		return c.Palette.box(c.Selected).Width(c.Width - 2).Render(strings.Join(sections, "\n"))
	}

	if macros := c.macros(); macros != "" {
		sections = append(sections, c.Palette.muted().Render(macros))
	}

	sub := c.Palette.fg(c.Palette.Secondary).Bold(true)
	ingredients := []string{"", sub.Render(emoji.GetEmoji("ingredients") + " Ingredients")}
	for _, item := range c.Recipe.Ingredients {
		ingredients = append(ingredients, text.Render(emoji.GetEmoji("checkbox")+" "+item))
	}
	sections = append(sections, ingredients...)

	steps := []string{"", sub.Render(emoji.GetEmoji("instructions") + " Instructions")}
	for i, step := range c.Recipe.Instructions {
		steps = append(steps, text.Render(fmt.Sprintf("%d. %s", i+1, step)))
	}
	sections = append(sections, steps...)

	return c.Palette.box(c.Selected).Width(c.Width - 2).Render(strings.Join(sections, "\n"))
}

func (c *RecipeCard) title(width int) string {
	title := c.Recipe.Title
	if title == "" {
		title = "Untitled recipe"
	}
	if c.Compact {
		return truncate(title, width)
	}
	return emoji.GetEmoji("recipe") + " " + title
}

func (c *RecipeCard) meta() string {
	parts := make([]string, 0, 3)
	if c.Recipe.CookingTime != "" {
		parts = append(parts, emoji.GetEmoji("clock")+" "+c.Recipe.CookingTime)
	}
	if c.Recipe.Difficulty != "" {
		parts = append(parts, emoji.GetEmoji("difficulty")+" "+c.Recipe.Difficulty)
	}
	parts = append(parts, emoji.GetEmoji("calories")+" "+c.Recipe.Calories())
	return strings.Join(parts, "  ")
}

// macros lists the non-calorie macros, e.g. "protein 12g · fat 3g"
func (c *RecipeCard) macros() string {
	var parts []string
	for _, key := range c.Recipe.Macros.Keys() {
		if key == "calories" {
			continue
		}
		parts = append(parts, key+" "+c.Recipe.Macros.Get(key))
	}
	return strings.Join(parts, " · ")
}

// RenderNoRecipe renders the placeholder shown when the backend returned
// no recipe
func RenderNoRecipe(p Palette) string {
	return p.muted().Italic(true).Render(emoji.GetEmoji("sad") + " " + recipe.MsgNoRecipe)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func count(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
