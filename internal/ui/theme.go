// Package ui provides terminal presentation for the bootstrap CLI: the
// color theme, headless-mode detection, the Printer that carries output
// configuration through operations, and progress displays.
package ui

import "github.com/charmbracelet/lipgloss"

// Palette holds the color values used by progress bars and styles.
type Palette struct {
	Primary   string
	Secondary string
}

// Theme carries presentation settings. It replaces any notion of a global
// color flag: everything that prints receives a Theme (usually via a
// Printer) and decides styling from it.
type Theme struct {
	NoColor bool
	Colors  Palette

	success lipgloss.Style
	warn    lipgloss.Style
	errs    lipgloss.Style
	muted   lipgloss.Style
	primary lipgloss.Style
	bold    lipgloss.Style
}

// NewTheme creates a Theme. When noColor is true every style renders as
// plain text and symbols degrade to ASCII.
func NewTheme(noColor bool) *Theme {
	return &Theme{
		NoColor: noColor,
		Colors: Palette{
			Primary:   "#5A7EC7",
			Secondary: "#10B981",
		},
		success: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"}),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}),
		errs:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"}),
		primary: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#3B5BA5", Dark: "#5A7EC7"}),
		bold:    lipgloss.NewStyle().Bold(true),
	}
}

// render applies a style unless colors are disabled.
func (t *Theme) render(s lipgloss.Style, text string) string {
	if t.NoColor {
		return text
	}
	return s.Render(text)
}

// SymSuccess returns the success symbol, styled.
func (t *Theme) SymSuccess() string {
	if t.NoColor {
		return "[ok]"
	}
	return t.success.Render("✓")
}

// SymError returns the error symbol, styled.
func (t *Theme) SymError() string {
	if t.NoColor {
		return "[err]"
	}
	return t.errs.Render("✗")
}

// SymWarning returns the warning symbol, styled.
func (t *Theme) SymWarning() string {
	if t.NoColor {
		return "[warn]"
	}
	return t.warn.Render("!")
}

// SymInfo returns the info symbol, styled.
func (t *Theme) SymInfo() string {
	if t.NoColor {
		return "[info]"
	}
	return t.primary.Render("○")
}

// Bold renders text in bold unless colors are disabled.
func (t *Theme) Bold(text string) string {
	return t.render(t.bold, text)
}

// Muted renders text dimmed unless colors are disabled.
func (t *Theme) Muted(text string) string {
	return t.render(t.muted, text)
}

// Primary renders text in the primary accent color.
func (t *Theme) Primary(text string) string {
	return t.render(t.primary, text)
}
