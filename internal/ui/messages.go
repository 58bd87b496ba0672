package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/ChefSnap/internal/recipe"
	"github.com/yildizm/ChefSnap/internal/uploader"
)

// Backend is what the TUI needs from the backend client
type Backend interface {
	uploader.Analyzer
	Cookbook(ctx context.Context) ([]recipe.SavedRecipe, error)
}

// Analyze results carry the token of the request they answer
type analyzeCompleteMsg struct {
	token  uploader.Token
	result *recipe.AnalysisResult
}

type analyzeErrorMsg struct {
	token uploader.Token
	err   error
}

// Cookbook results carry the load sequence number they answer
type cookbookLoadedMsg struct {
	seq     int
	recipes []recipe.SavedRecipe
}

type cookbookErrorMsg struct {
	seq int
	err error
}

// loadingStepMsg advances the loading text for one request
type loadingStepMsg struct {
	token uploader.Token
	step  int
}

// captureMsg reports a photo settled in the camera inbox; ok is false
// once the inbox is closed.
type captureMsg struct {
	path string
	ok   bool
}

// loadingStep is one rotating status line shown while analyzing
type loadingStep struct {
	after time.Duration
	text  string
}

var loadingSteps = []loadingStep{
	{0, "Scanning image for vegetables..."},
	{2 * time.Second, "Reading labels and text..."},
	{4500 * time.Millisecond, "Chef is curating a unique recipe for you..."},
}

// analyzeCmd runs req against b off the update loop
func analyzeCmd(req *uploader.Request, b uploader.Analyzer) tea.Cmd {
	return func() tea.Msg {
		result, err := req.Run(b)
		if err != nil {
			return analyzeErrorMsg{token: req.Token, err: err}
		}
		return analyzeCompleteMsg{token: req.Token, result: result}
	}
}

// loadingStepCmds schedules one fire-once timer per later loading step
func loadingStepCmds(token uploader.Token) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(loadingSteps)-1)
	for i := 1; i < len(loadingSteps); i++ {
		step := i
		cmds = append(cmds, tea.Tick(loadingSteps[i].after, func(time.Time) tea.Msg {
			return loadingStepMsg{token: token, step: step}
		}))
	}
	return tea.Batch(cmds...)
}

// fetchCookbookCmd loads the saved recipes
func fetchCookbookCmd(b Backend, seq int) tea.Cmd {
	return func() tea.Msg {
		recipes, err := b.Cookbook(context.Background())
		if err != nil {
			return cookbookErrorMsg{seq: seq, err: err}
		}
		return cookbookLoadedMsg{seq: seq, recipes: recipes}
	}
}

// waitForCapture blocks until the inbox delivers the next path
func waitForCapture(inbox <-chan string) tea.Cmd {
	if inbox == nil {
		return nil
	}
	return func() tea.Msg {
		path, ok := <-inbox
		return captureMsg{path: path, ok: ok}
	}
}
