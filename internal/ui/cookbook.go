package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/ChefSnap/internal/emoji"
	"github.com/yildizm/ChefSnap/internal/logger"
	"github.com/yildizm/ChefSnap/internal/recipe"
	"github.com/yildizm/ChefSnap/internal/ui/components"
)

// CookbookState is the cookbook view mode
type CookbookState int

const (
	CookbookIdle CookbookState = iota
	CookbookLoading
	CookbookLoaded
	CookbookFailed
)

// CookbookModel lists saved recipes as a grid of cards
type CookbookModel struct {
	backend Backend
	log     *logger.Logger

	state    CookbookState
	recipes  []recipe.SavedRecipe
	seq      int
	selected int
	offset   int
	detail   bool

	spinner spinner.Model
	width   int
	height  int
	styles  *Styles
}

// NewCookbookModel creates an idle cookbook view
func NewCookbookModel(backend Backend, opts *Options) *CookbookModel {
	styles := GetStyles()
	return &CookbookModel{
		backend: backend,
		log:     opts.logger().WithComponent("ui.cookbook"),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Spinner)),
		styles:  styles,
	}
}

// State returns the current view mode
func (m *CookbookModel) State() CookbookState { return m.state }

// Recipes returns the loaded recipes
func (m *CookbookModel) Recipes() []recipe.SavedRecipe { return m.recipes }

// Load issues a fresh GET. A response to an earlier load is discarded.
func (m *CookbookModel) Load() tea.Cmd {
	m.seq++
	m.state = CookbookLoading
	m.detail = false
	m.log.Debug("loading cookbook (seq %d)", m.seq)
	return tea.Batch(fetchCookbookCmd(m.backend, m.seq), m.spinner.Tick)
}

// SetSize resizes the view
func (m *CookbookModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.scrollToSelected()
}

// Update handles messages routed to the cookbook view
func (m *CookbookModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case cookbookLoadedMsg:
		return m.handleLoaded(msg)
	case cookbookErrorMsg:
		return m.handleError(msg)
	case spinner.TickMsg:
		if m.state != CookbookLoading {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (m *CookbookModel) handleLoaded(msg cookbookLoadedMsg) tea.Cmd {
	if msg.seq != m.seq {
		return nil
	}
	m.recipes = msg.recipes
	m.state = CookbookLoaded
	m.selected = 0
	m.offset = 0
	m.log.Info("cookbook loaded: %d recipes", len(msg.recipes))
	return nil
}

func (m *CookbookModel) handleError(msg cookbookErrorMsg) tea.Cmd {
	if msg.seq != m.seq {
		return nil
	}
	m.recipes = nil
	m.state = CookbookFailed
	m.log.Error("cookbook failed: %v", msg.err)
	return nil
}

func (m *CookbookModel) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "r" {
		return m.Load()
	}
	if m.state != CookbookLoaded || len(m.recipes) == 0 {
		return nil
	}

	cols := m.columns()
	switch msg.String() {
	case "esc":
		m.detail = false
	case "enter", " ":
		m.detail = !m.detail
	case "left", "h":
		m.moveTo(m.selected - 1)
	case "right", "l":
		m.moveTo(m.selected + 1)
	case "up", "k":
		m.moveTo(m.selected - cols)
	case "down", "j":
		m.moveTo(m.selected + cols)
	}
	return nil
}

func (m *CookbookModel) moveTo(i int) {
	if i < 0 || i >= len(m.recipes) {
		return
	}
	m.selected = i
	m.scrollToSelected()
}

func (m *CookbookModel) columns() int {
	return components.GridColumns(m.width, components.DefaultCardWidth)
}

// visibleRows is how many card rows fit; a compact card is about 7 lines
func (m *CookbookModel) visibleRows() int {
	if m.height <= 0 {
		return 0
	}
	return max((m.height-2)/7, 1)
}

func (m *CookbookModel) scrollToSelected() {
	rows := m.visibleRows()
	if rows == 0 {
		return
	}
	row := m.selected / m.columns()
	if row < m.offset {
		m.offset = row
	}
	if row >= m.offset+rows {
		m.offset = row - rows + 1
	}
}

// View renders the cookbook view body
func (m *CookbookModel) View() string {
	title := m.styles.Header.Render(emoji.GetEmoji("cookbook") + " My Cookbook")

	switch m.state {
	case CookbookIdle, CookbookLoading:
		return lipgloss.JoinVertical(lipgloss.Left, title, "",
			m.spinner.View()+" "+m.styles.Info.Render("Loading your recipes..."))

	case CookbookFailed:
		return lipgloss.JoinVertical(lipgloss.Left, title, "",
			m.styles.Error.Render(emoji.GetEmoji("error")+" "+recipe.MsgCookbookFailure),
			m.styles.Muted.Render("Press r to try again."))
	}

	if len(m.recipes) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, "",
			m.styles.Subheader.Render(recipe.MsgNoSavedRecipes),
			m.styles.Muted.Render(recipe.MsgEmptyCookbook))
	}

	title += m.styles.Muted.Render(fmt.Sprintf("  (%d saved)", len(m.recipes)))
	palette := m.styles.Palette()

	if m.detail {
		card := components.NewRecipeCard(&m.recipes[m.selected].Recipe, min(max(m.width, 40), 80))
		card.Palette = palette
		return lipgloss.JoinVertical(lipgloss.Left, title, "", card.Render(),
			m.styles.Muted.Render("esc to go back"))
	}

	grid := components.NewCookbookGrid(m.recipes, m.width)
	grid.Selected = m.selected
	grid.Offset = m.offset
	grid.Rows = m.visibleRows()
	grid.Palette = palette
	return lipgloss.JoinVertical(lipgloss.Left, title, "", grid.Render())
}
