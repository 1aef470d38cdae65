package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/digital-finance/labsite/internal/theme"
)

// Palette is a set of ANSI 256 colors.
type Palette struct {
	Accent string
	Text   string
	Muted  string
	Border string
	Warn   string
}

// Palettes for the two site themes.
var (
	LightPalette = Palette{Accent: "24", Text: "235", Muted: "243", Border: "250", Warn: "166"}
	DarkPalette  = Palette{Accent: "117", Text: "255", Muted: "245", Border: "238", Warn: "220"}
)

// PaletteFor returns the palette of t.
func PaletteFor(t theme.Theme) Palette {
	if t == theme.Dark {
		return DarkPalette
	}
	return LightPalette
}

// Styles holds all UI styles.
type Styles struct {
	Header   lipgloss.Style
	Title    lipgloss.Style
	Meta     lipgloss.Style
	Metrics  lipgloss.Style
	Filter   lipgloss.Style
	Hit      lipgloss.Style
	Warning  lipgloss.Style
	Dim      lipgloss.Style
	Panel    lipgloss.Style
	Label    lipgloss.Style
	Bar      lipgloss.Style
	AccentFG string
}

// NewStyles returns styles for t, or unstyled ones when noColor is set.
func NewStyles(t theme.Theme, noColor bool) Styles {
	if noColor {
		return plainStyles()
	}
	p := PaletteFor(t)
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Accent)),
		Title:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Text)),
		Meta:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)),
		Metrics: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Accent)),
		Filter:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)),
		Hit:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Warn)),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.Border)),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Border)).
			Padding(0, 1),
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)),
		Bar:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent)),
		AccentFG: p.Accent,
	}
}

func plainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{
		Header:  s,
		Title:   s,
		Meta:    s,
		Metrics: s,
		Filter:  s,
		Hit:     s,
		Warning: s,
		Dim:     s,
		Panel:   lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
		Label:   s,
		Bar:     s,
	}
}
