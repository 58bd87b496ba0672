package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/yildizm/ChefSnap/internal/emoji"
	"github.com/yildizm/ChefSnap/internal/logger"
	"github.com/yildizm/ChefSnap/internal/ui/components"
	"github.com/yildizm/ChefSnap/internal/uploader"
)

// AnalyzeModel is the uploader view: pick a photo, send it, show the result
type AnalyzeModel struct {
	session *uploader.Session
	backend Backend
	log     *logger.Logger

	picker   filepicker.Model
	spinner  spinner.Model
	result   viewport.Model
	picking  bool
	step     int
	notice   string
	inboxDir string

	showPreview bool
	width       int
	height      int
	styles      *Styles
}

// NewAnalyzeModel creates the uploader view over session
func NewAnalyzeModel(session *uploader.Session, backend Backend, opts *Options) *AnalyzeModel {
	picker := filepicker.New()
	picker.CurrentDirectory = opts.StartDir
	if picker.CurrentDirectory == "" {
		picker.CurrentDirectory = "."
	}

	styles := GetStyles()
	return &AnalyzeModel{
		session:     session,
		backend:     backend,
		log:         opts.logger().WithComponent("ui.analyze"),
		picker:      picker,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Spinner)),
		result:      viewport.New(0, 0),
		inboxDir:    opts.InboxDir,
		showPreview: opts.ShowPreview,
		styles:      styles,
	}
}

// Init reads the picker's starting directory
func (m *AnalyzeModel) Init() tea.Cmd {
	return m.picker.Init()
}

// Picking reports whether the file picker owns the keyboard
func (m *AnalyzeModel) Picking() bool {
	return m.picking
}

// Session exposes the underlying state machine
func (m *AnalyzeModel) Session() *uploader.Session {
	return m.session
}

// Update handles messages routed to the uploader view
func (m *AnalyzeModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case analyzeCompleteMsg:
		return m.handleAnalyzeComplete(msg)
	case analyzeErrorMsg:
		return m.handleAnalyzeError(msg)
	case loadingStepMsg:
		if msg.token == m.session.Token() {
			m.step = msg.step
		}
		return nil
	case spinner.TickMsg:
		if !m.session.Loading() {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	}

	// directory listings and anything else the picker understands
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return cmd
}

// SetSize resizes the view
func (m *AnalyzeModel) SetSize(width, height int) tea.Cmd {
	m.width = width
	m.height = height
	m.result.Width = max(width-4, 20)
	m.result.Height = max(height-4, 3)
	m.refreshResult()

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(tea.WindowSizeMsg{Width: width, Height: max(height-6, 3)})
	return cmd
}

func (m *AnalyzeModel) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	if m.picking {
		return m.handlePickerKey(msg)
	}

	switch msg.String() {
	case "o", "f":
		if m.session.Loading() {
			return nil
		}
		m.picking = true
		m.notice = ""
		return m.picker.Init()
	case "enter", "a":
		return m.Submit()
	case "x", "backspace":
		m.Reset()
		return nil
	case "p":
		m.showPreview = !m.showPreview
		return nil
	}

	if m.session.State() == uploader.StateResult {
		var cmd tea.Cmd
		m.result, cmd = m.result.Update(msg)
		return cmd
	}
	return nil
}

func (m *AnalyzeModel) handlePickerKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q":
		m.picking = false
		return nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		m.Select(path)
	}
	return cmd
}

// Select loads path into the session. The outcome is reflected in the
// session state; a busy session leaves a notice instead.
func (m *AnalyzeModel) Select(path string) {
	err := m.session.SelectPath(path)
	switch {
	case errors.Is(err, uploader.ErrBusy):
		m.notice = fmt.Sprintf("Still analyzing; ignored %s", path)
		m.log.Info("ignoring %s while a request is in flight", path)
	case err != nil:
		m.notice = ""
	default:
		m.notice = ""
		m.result.SetContent("")
	}
}

// Submit starts an analysis and the loading animation
func (m *AnalyzeModel) Submit() tea.Cmd {
	req, err := m.session.Submit(context.Background())
	if err != nil {
		// the session already holds the user-facing message
		m.log.Debug("submit refused: %v", err)
		return nil
	}
	m.step = 0
	m.notice = ""
	return tea.Batch(
		analyzeCmd(req, m.backend),
		loadingStepCmds(req.Token),
		m.spinner.Tick,
	)
}

// Reset clears the view, canceling any in-flight request
func (m *AnalyzeModel) Reset() {
	m.session.Reset()
	m.step = 0
	m.notice = ""
	m.result.SetContent("")
}

func (m *AnalyzeModel) handleAnalyzeComplete(msg analyzeCompleteMsg) tea.Cmd {
	if m.session.Complete(msg.token, msg.result) {
		m.refreshResult()
		m.result.GotoTop()
	}
	return nil
}

func (m *AnalyzeModel) handleAnalyzeError(msg analyzeErrorMsg) tea.Cmd {
	m.session.Fail(msg.token, msg.err)
	return nil
}

// LoadingText is the status line for the current loading step
func (m *AnalyzeModel) LoadingText() string {
	if m.step < 0 || m.step >= len(loadingSteps) {
		return loadingSteps[0].text
	}
	return loadingSteps[m.step].text
}

func (m *AnalyzeModel) refreshResult() {
	if m.session.State() != uploader.StateResult {
		return
	}
	m.result.SetContent(m.renderResult(m.result.Width))
}

// View renders the uploader view body
func (m *AnalyzeModel) View() string {
	if m.picking {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.styles.Header.Render(emoji.GetEmoji("folder")+" Choose a photo"),
			m.styles.Muted.Render(m.picker.CurrentDirectory),
			"",
			m.picker.View(),
		)
	}

	image := m.renderImage()
	sections := []string{image}

	switch m.session.State() {
	case uploader.StateLoading:
		sections = append(sections, "", m.spinner.View()+" "+m.styles.Info.Render(m.LoadingText()))
	case uploader.StateError:
		sections = append(sections, "", m.styles.Error.Render(emoji.GetEmoji("error")+" "+m.session.Error()))
	case uploader.StateResult:
		vp := m.result
		if m.height > 0 {
			vp.Height = max(m.height-lipgloss.Height(image)-2, 3)
		}
		sections = append(sections, "", vp.View())
	}

	if m.notice != "" {
		sections = append(sections, m.styles.Warning.Render(m.notice))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *AnalyzeModel) renderImage() string {
	img := m.session.Image()
	if img == nil {
		lines := []string{
			m.styles.Subheader.Render(emoji.GetEmoji("camera") + " No photo selected"),
			m.styles.Muted.Render("Press o to choose a food photo."),
		}
		if m.inboxDir != "" {
			lines = append(lines, m.styles.Muted.Render("Watching "+m.inboxDir+" for new captures."))
		}
		return strings.Join(lines, "\n")
	}

	info := []string{
		m.styles.Subheader.Render(emoji.GetEmoji("camera") + " " + img.Name),
		m.styles.Muted.Render(fmt.Sprintf("%s · %s", img.MIMEType, humanize.IBytes(uint64(img.Size)))),
	}
	if p := img.Preview; p != nil && p.Width > 0 {
		info = append(info, m.styles.Muted.Render(fmt.Sprintf("%dx%d %s", p.Width, p.Height, p.Format)))
	}
	if m.session.CanSubmit() && m.session.State() != uploader.StateResult {
		info = append(info, "", m.styles.Body.Render("Press enter to find a recipe."))
	}
	infoBlock := strings.Join(info, "\n")

	if !m.showPreview {
		return infoBlock
	}
	thumb := (&components.Thumbnail{Preview: img.Preview, Plain: IsColorDisabled()}).Render()
	if thumb == "" {
		return infoBlock
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, thumb, "  ", infoBlock)
}

func (m *AnalyzeModel) renderResult(width int) string {
	result := m.session.Result()
	if result == nil {
		return ""
	}
	palette := m.styles.Palette()

	badge := components.NewIngredientBadge(result, width)
	badge.Palette = palette

	sections := []string{badge.Render()}
	if result.AIPrediction != nil {
		panel := &components.PredictionPanel{Prediction: result.AIPrediction, Width: width, Palette: palette}
		sections = append(sections, "", panel.Render())
	}

	card := components.NewRecipeCard(result.Recipe, min(width, 80))
	card.Palette = palette
	sections = append(sections, "", card.Render())

	return strings.Join(sections, "\n")
}
