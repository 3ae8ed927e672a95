package provider

import (
	"path"

	"github.com/multi-llm/bootstrap/internal/template"
	"github.com/multi-llm/bootstrap/pkg/models"
)

// Claude is the Claude provider surface: CLAUDE.md constitution, a
// .claude configuration directory, and a commands directory seeded with
// a starter slash command.
type Claude struct {
	lib *template.Library
}

// NewClaude creates the Claude provider over the given asset library.
func NewClaude(lib *template.Library) *Claude {
	return &Claude{lib: lib}
}

func (c *Claude) Name() string           { return "claude" }
func (c *Claude) Title() string          { return "Claude" }
func (c *Claude) ConfigFilename() string { return "CLAUDE.md" }
func (c *Claude) ConfigDirname() string  { return ".claude" }

func (c *Claude) Constitution(ctx *template.Context) ([]byte, error) {
	return c.lib.Render("providers/claude/constitution.md.tmpl", ctx)
}

func (c *Claude) Settings(tier models.Tier) map[string]any {
	policy := "safe-only"
	if tier.AtLeast(models.TierStandard) {
		policy = "hybrid"
	}
	return permissionSettings(policy, true)
}

func (c *Claude) MCPConfig() map[string]any {
	return defaultMCPConfig()
}

// AdditionalFiles seeds .claude/commands with the audit slash command.
func (c *Claude) AdditionalFiles(_ *template.Context) (map[string][]byte, error) {
	return map[string][]byte{
		path.Join(c.ConfigDirname(), "commands", "audit.md"): []byte(
			"Run `make audit`, then fix every finding it reports before doing anything else.\n",
		),
	}, nil
}

func (c *Claude) AdditionalDirectories(_ models.Tier) []string {
	return []string{path.Join(c.ConfigDirname(), "commands")}
}
