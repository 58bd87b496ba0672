// Package components renders the ChefSnap result and cookbook widgets.
// Components do not import the ui package; callers pass a Palette.
package components

import "github.com/charmbracelet/lipgloss"

// Palette is the subset of a theme that components draw with
type Palette struct {
	Accent    lipgloss.TerminalColor
	Secondary lipgloss.TerminalColor
	Muted     lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
	Tag       lipgloss.TerminalColor
	TagText   lipgloss.TerminalColor
	Highlight lipgloss.TerminalColor

	// Plain drops every color; borders and bold remain.
	Plain bool
}

// DefaultPalette is used when no theme is supplied
func DefaultPalette() Palette {
	return Palette{
		Accent:    lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#FB923C"},
		Secondary: lipgloss.AdaptiveColor{Light: "#4D7C0F", Dark: "#A3E635"},
		Muted:     lipgloss.AdaptiveColor{Light: "#78716C", Dark: "#A8A29E"},
		Border:    lipgloss.AdaptiveColor{Light: "#D6D3D1", Dark: "#44403C"},
		Tag:       lipgloss.AdaptiveColor{Light: "#DCFCE7", Dark: "#14532D"},
		TagText:   lipgloss.AdaptiveColor{Light: "#14532D", Dark: "#DCFCE7"},
		Highlight: lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"},
	}
}

func (p Palette) fg(c lipgloss.TerminalColor) lipgloss.Style {
	if p.Plain || c == nil {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(c)
}

func (p Palette) header() lipgloss.Style {
	return p.fg(p.Accent).Bold(true)
}

func (p Palette) muted() lipgloss.Style {
	return p.fg(p.Muted)
}

func (p Palette) box(selected bool) lipgloss.Style {
	style := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	if p.Plain {
		if selected {
			return style.Border(lipgloss.ThickBorder())
		}
		return style
	}
	if selected {
		return style.Border(lipgloss.ThickBorder()).BorderForeground(p.Accent)
	}
	return style.BorderForeground(p.Border)
}
