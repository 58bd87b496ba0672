package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/ChefSnap/internal/emoji"
	"github.com/yildizm/ChefSnap/internal/logger"
	"github.com/yildizm/ChefSnap/internal/uploader"
)

// Tab identifies a top-level view
type Tab int

const (
	TabAnalyze Tab = iota
	TabCookbook
)

var tabNames = []string{"Analyze", "My Cookbook"}

// Options configures the TUI
type Options struct {
	// MaxUploadSize is the upload limit in bytes; 0 selects the default.
	MaxUploadSize int64

	// ImagePath is selected before the first frame when set.
	ImagePath string

	// Inbox delivers camera captures; InboxDir is only displayed.
	Inbox    <-chan string
	InboxDir string

	StartDir    string
	ShowPreview bool
	Logger      *logger.Logger
}

func (o *Options) logger() *logger.Logger {
	if o == nil || o.Logger == nil {
		return logger.Discard()
	}
	return o.Logger
}

// App is the root model
type App struct {
	analyze  *AnalyzeModel
	cookbook *CookbookModel
	active   Tab
	inbox    <-chan string
	log      *logger.Logger

	width    int
	height   int
	ready    bool
	quitting bool
	showHelp bool
	styles   *Styles
}

// NewApp builds the root model
func NewApp(backend Backend, opts *Options) *App {
	if opts == nil {
		opts = &Options{}
	}
	log := opts.logger()
	session := uploader.New(opts.MaxUploadSize, log)

	app := &App{
		analyze:  NewAnalyzeModel(session, backend, opts),
		cookbook: NewCookbookModel(backend, opts),
		inbox:    opts.Inbox,
		log:      log.WithComponent("ui"),
		styles:   GetStyles(),
	}
	if opts.ImagePath != "" {
		app.analyze.Select(opts.ImagePath)
	}
	return app
}

// Init starts the picker and the inbox listener
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.analyze.Init(), waitForCapture(a.inbox))
}

// Active returns the visible tab
func (a *App) Active() Tab {
	return a.active
}

// Update handles messages and navigation
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.handleWindowResize(msg)
	case tea.KeyMsg:
		return a.handleKeyPress(msg)
	case captureMsg:
		return a.handleCapture(msg)
	case analyzeCompleteMsg, analyzeErrorMsg, loadingStepMsg:
		return a, a.analyze.Update(msg)
	case cookbookLoadedMsg, cookbookErrorMsg:
		return a, a.cookbook.Update(msg)
	}

	// spinner ticks carry their own id, so both views can see them
	return a, tea.Batch(a.analyze.Update(msg), a.cookbook.Update(msg))
}

func (a *App) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.width = msg.Width
	a.height = msg.Height
	a.ready = true

	// border, padding, tab bar and footer
	w, h := max(msg.Width-8, 20), max(msg.Height-8, 5)
	a.cookbook.SetSize(w, h)
	return a, a.analyze.SetSize(w, h)
}

func (a *App) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		a.quitting = true
		return a, tea.Quit
	}

	if a.active == TabAnalyze && a.analyze.Picking() {
		return a, a.analyze.Update(msg)
	}

	switch key {
	case "q":
		a.quitting = true
		return a, tea.Quit
	case "?":
		a.showHelp = !a.showHelp
		return a, nil
	case "esc":
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}
	case "tab", "shift+tab":
		return a, a.switchTo((a.active + 1) % Tab(len(tabNames)))
	case "1":
		return a, a.switchTo(TabAnalyze)
	case "2":
		return a, a.switchTo(TabCookbook)
	}

	if a.showHelp {
		return a, nil
	}
	if a.active == TabCookbook {
		return a, a.cookbook.Update(msg)
	}
	return a, a.analyze.Update(msg)
}

// switchTo changes tab. Entering the cookbook always fetches it anew.
func (a *App) switchTo(tab Tab) tea.Cmd {
	if tab == a.active {
		return nil
	}
	a.active = tab
	a.showHelp = false
	if tab == TabCookbook {
		return a.cookbook.Load()
	}
	return nil
}

func (a *App) handleCapture(msg captureMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		a.log.Info("camera inbox closed")
		a.inbox = nil
		return a, nil
	}
	a.log.Debug("capture %s", msg.path)
	a.analyze.Select(msg.path)
	if !a.analyze.Session().Loading() {
		a.active = TabAnalyze
	}
	return a, waitForCapture(a.inbox)
}

// View renders the current view
func (a *App) View() string {
	if a.quitting {
		return ""
	}
	if !a.ready {
		return "\n  Warming up the kitchen..."
	}

	var body string
	switch {
	case a.showHelp:
		body = a.renderHelp()
	case a.active == TabCookbook:
		body = a.cookbook.View()
	default:
		body = a.analyze.View()
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		a.renderTabs(),
		"",
		body,
		"",
		a.styles.Help.Render(a.footer()),
	)

	box := a.styles.Box.Width(max(a.width-4, 20))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Top, box.Render(content))
}

func (a *App) renderTabs() string {
	tabs := make([]string, 0, len(tabNames)+1)
	tabs = append(tabs, a.styles.Title.Render(emoji.GetEmoji("chef")+" ChefSnap"))
	for i, name := range tabNames {
		label := string(rune('1'+i)) + " " + name
		if Tab(i) == a.active {
			tabs = append(tabs, a.styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, a.styles.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (a *App) footer() string {
	switch {
	case a.showHelp:
		return "esc close help • q quit"
	case a.active == TabCookbook:
		return "←/→/↑/↓ move • enter open • r reload • tab switch • ? help • q quit"
	case a.analyze.Picking():
		return "↑/↓ move • enter choose • esc cancel"
	default:
		return "o open photo • enter analyze • x reset • p preview • tab switch • ? help • q quit"
	}
}

func (a *App) renderHelp() string {
	rows := [][2]string{
		{"o / f", "choose a photo with the file picker"},
		{"enter / a", "analyze the selected photo"},
		{"x / backspace", "start over"},
		{"p", "toggle the image preview"},
		{"↑ / ↓", "scroll the recipe"},
		{"r", "reload the cookbook"},
		{"tab / 1 / 2", "switch views"},
		{"q / ctrl+c", "quit"},
	}

	var b strings.Builder
	b.WriteString(a.styles.Header.Render("Keyboard shortcuts"))
	b.WriteString("\n\n")
	for _, row := range rows {
		b.WriteString(a.styles.Info.Width(16).Render(row[0]))
		b.WriteString(a.styles.Body.Render(row[1]))
		b.WriteString("\n")
	}
	if a.inbox != nil {
		b.WriteString("\n")
		b.WriteString(a.styles.Muted.Render("New photos in the camera inbox are picked up automatically."))
	}
	return b.String()
}

// Run starts the TUI and blocks until the user quits
func Run(backend Backend, opts *Options) error {
	p := tea.NewProgram(NewApp(backend, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
