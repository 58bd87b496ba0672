package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/ChefSnap/internal/ui/components"
)

// Theme is a color palette for the TUI
type Theme struct {
	Name string

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Accent    lipgloss.AdaptiveColor

	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor
	Info    lipgloss.AdaptiveColor

	Border     lipgloss.AdaptiveColor
	Foreground lipgloss.AdaptiveColor
	Muted      lipgloss.AdaptiveColor

	// Tag is the ingredient pill background; TagText its foreground.
	Tag      lipgloss.AdaptiveColor
	TagText  lipgloss.AdaptiveColor
	Selected lipgloss.AdaptiveColor
}

// palette lists a theme's colors as light/dark pairs
type palette struct {
	primary, secondary, accent  [2]string
	success, warning, err, info [2]string
	border, foreground, muted   [2]string
	tag, tagText, selected      [2]string
}

func adaptive(pair [2]string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: pair[0], Dark: pair[1]}
}

func buildTheme(name string, p palette) Theme {
	return Theme{
		Name:       name,
		Primary:    adaptive(p.primary),
		Secondary:  adaptive(p.secondary),
		Accent:     adaptive(p.accent),
		Success:    adaptive(p.success),
		Warning:    adaptive(p.warning),
		Error:      adaptive(p.err),
		Info:       adaptive(p.info),
		Border:     adaptive(p.border),
		Foreground: adaptive(p.foreground),
		Muted:      adaptive(p.muted),
		Tag:        adaptive(p.tag),
		TagText:    adaptive(p.tagText),
		Selected:   adaptive(p.selected),
	}
}

// Available themes
var (
	DefaultTheme = buildTheme("default", palette{
		primary:    [2]string{"#C2410C", "#FB923C"},
		secondary:  [2]string{"#4D7C0F", "#A3E635"},
		accent:     [2]string{"#B45309", "#FBBF24"},
		success:    [2]string{"#15803D", "#4ADE80"},
		warning:    [2]string{"#B45309", "#F59E0B"},
		err:        [2]string{"#B91C1C", "#F87171"},
		info:       [2]string{"#0E7490", "#22D3EE"},
		border:     [2]string{"#D6D3D1", "#44403C"},
		foreground: [2]string{"#1C1917", "#FAFAF9"},
		muted:      [2]string{"#78716C", "#A8A29E"},
		tag:        [2]string{"#DCFCE7", "#14532D"},
		tagText:    [2]string{"#14532D", "#DCFCE7"},
		selected:   [2]string{"#FFEDD5", "#7C2D12"},
	})

	HighContrastTheme = buildTheme("high-contrast", palette{
		primary:    [2]string{"#000000", "#FFFFFF"},
		secondary:  [2]string{"#006600", "#00FF00"},
		accent:     [2]string{"#000080", "#8080FF"},
		success:    [2]string{"#006600", "#00FF00"},
		warning:    [2]string{"#CC6600", "#FFAA00"},
		err:        [2]string{"#CC0000", "#FF4444"},
		info:       [2]string{"#0066CC", "#4499FF"},
		border:     [2]string{"#000000", "#FFFFFF"},
		foreground: [2]string{"#000000", "#FFFFFF"},
		muted:      [2]string{"#444444", "#CCCCCC"},
		tag:        [2]string{"#000000", "#FFFFFF"},
		tagText:    [2]string{"#FFFFFF", "#000000"},
		selected:   [2]string{"#FFFF00", "#444444"},
	})

	MinimalTheme = buildTheme("minimal", palette{
		primary:    [2]string{"#2D3748", "#E2E8F0"},
		secondary:  [2]string{"#718096", "#A0AEC0"},
		accent:     [2]string{"#4A5568", "#CBD5E0"},
		success:    [2]string{"#2F855A", "#68D391"},
		warning:    [2]string{"#C05621", "#F6AD55"},
		err:        [2]string{"#C53030", "#FC8181"},
		info:       [2]string{"#2B6CB0", "#63B3ED"},
		border:     [2]string{"#E2E8F0", "#2D3748"},
		foreground: [2]string{"#2D3748", "#F7FAFC"},
		muted:      [2]string{"#A0AEC0", "#718096"},
		tag:        [2]string{"#EDF2F7", "#2D3748"},
		tagText:    [2]string{"#2D3748", "#EDF2F7"},
		selected:   [2]string{"#EDF2F7", "#2D3748"},
	})
)

var (
	currentTheme  = DefaultTheme
	colorDisabled bool
)

// GetTheme returns the current active theme
func GetTheme() Theme {
	return currentTheme
}

// SetTheme sets the active theme
func SetTheme(theme *Theme) {
	currentTheme = *theme
}

// SetThemeByName sets the theme by name
func SetThemeByName(name string) bool {
	switch name {
	case "default", "":
		SetTheme(&DefaultTheme)
		return true
	case "high-contrast":
		SetTheme(&HighContrastTheme)
		return true
	case "minimal":
		SetTheme(&MinimalTheme)
		return true
	default:
		return false
	}
}

// SetColorDisabled forces plain output regardless of NO_COLOR
func SetColorDisabled(disabled bool) {
	colorDisabled = disabled
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return colorDisabled || os.Getenv("NO_COLOR") != ""
}

// GetAvailableThemes returns list of available theme names
func GetAvailableThemes() []string {
	return []string{"default", "high-contrast", "minimal"}
}

// Styles contains the styles derived from a theme
type Styles struct {
	Theme Theme

	Title     lipgloss.Style
	Header    lipgloss.Style
	Subheader lipgloss.Style
	Body      lipgloss.Style
	Muted     lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	Box   lipgloss.Style
	Panel lipgloss.Style

	Tab       lipgloss.Style
	TabActive lipgloss.Style
	Spinner   lipgloss.Style
	Help      lipgloss.Style
}

// GetStyles builds styles from the current theme. With colors disabled
// only layout and emphasis survive.
func GetStyles() *Styles {
	theme := GetTheme()
	fg := func(c lipgloss.AdaptiveColor) lipgloss.Style {
		if IsColorDisabled() {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(c)
	}
	border := func(s lipgloss.Style) lipgloss.Style {
		if IsColorDisabled() {
			return s
		}
		return s.BorderForeground(theme.Border)
	}

	tabActive := fg(theme.Primary).Bold(true).Underline(true).Padding(0, 1)
	if !IsColorDisabled() {
		tabActive = tabActive.Background(theme.Selected)
	}

	return &Styles{
		Theme: theme,

		Title:     fg(theme.Primary).Bold(true).Padding(0, 1),
		Header:    fg(theme.Primary).Bold(true),
		Subheader: fg(theme.Secondary).Bold(true),
		Body:      fg(theme.Foreground),
		Muted:     fg(theme.Muted),

		Success: fg(theme.Success).Bold(true),
		Warning: fg(theme.Warning).Bold(true),
		Error:   fg(theme.Error).Bold(true),
		Info:    fg(theme.Info),

		Box:   border(lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)),
		Panel: border(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)),

		Tab:       fg(theme.Muted).Padding(0, 1),
		TabActive: tabActive,
		Spinner:   fg(theme.Accent),
		Help:      fg(theme.Muted).Italic(true),
	}
}

// Palette hands the theme to the components package
func (s *Styles) Palette() components.Palette {
	return components.Palette{
		Accent:    s.Theme.Primary,
		Secondary: s.Theme.Secondary,
		Muted:     s.Theme.Muted,
		Border:    s.Theme.Border,
		Tag:       s.Theme.Tag,
		TagText:   s.Theme.TagText,
		Highlight: s.Theme.Accent,
		Plain:     IsColorDisabled(),
	}
}
