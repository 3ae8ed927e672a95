package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Style primitives for the command surface. Operation output goes
// through ui.Printer; these cover the composed pieces only the CLI
// layer produces (cards, the banner, aligned key/value blocks).
var (
	cliSuccess = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"})
	cliMuted   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"})
	cliPrimary = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#3B5BA5", Dark: "#5A7EC7"})
	cliBorder  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"})
)

func symSuccess() string { return cliSuccess.Render("✓") }

// kvPair is one labeled value inside a card body.
type kvPair struct {
	key   string
	value string
}

// renderKeyValueLines aligns pairs into "key  value" lines, padding the
// key column to the widest key.
func renderKeyValueLines(pairs []kvPair) string {
	width := 0
	for _, p := range pairs {
		if len(p.key) > width {
			width = len(p.key)
		}
	}
	lines := make([]string, 0, len(pairs))
	for _, p := range pairs {
		label := cliMuted.Render(fmt.Sprintf("%-*s", width, p.key))
		lines = append(lines, label+"  "+p.value)
	}
	return strings.Join(lines, "\n")
}

// renderCard draws a rounded box with a styled title line followed by
// the given body sections, blank-line separated.
func renderCard(title string, sections ...string) string {
	content := cliPrimary.Render(title)
	for _, s := range sections {
		if s == "" {
			continue
		}
		content += "\n\n" + s
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cliBorder.GetForeground()).
		Padding(0, 2).
		Render(content)
}

// renderSuccessCard is renderCard with a check mark before the title.
func renderSuccessCard(title string, details ...string) string {
	return renderCard(symSuccess()+" "+title, details...)
}

// PrintBanner prints the program banner shown before interactive
// sessions.
func PrintBanner(version string) {
	content := cliPrimary.Render("bootstrap") + " " + cliMuted.Render(version) + "\n" +
		"Tiered workspaces for LLM-native development"
	fmt.Println(lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cliBorder.GetForeground()).
		Padding(0, 2).
		Render(content))
}

// PrintWelcomeMessage prints the short preamble above the setup wizard.
func PrintWelcomeMessage() {
	fmt.Println(cliMuted.Render("Answer a few questions to configure the workspace. Ctrl+C cancels."))
	fmt.Println()
}
