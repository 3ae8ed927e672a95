package provider

import (
	"path"

	"github.com/multi-llm/bootstrap/internal/template"
	"github.com/multi-llm/bootstrap/pkg/models"
)

// Codex is the Codex provider surface. It follows the AGENTS.md
// convention for its constitution file.
type Codex struct {
	lib *template.Library
}

// NewCodex creates the Codex provider over the given asset library.
func NewCodex(lib *template.Library) *Codex {
	return &Codex{lib: lib}
}

func (c *Codex) Name() string           { return "codex" }
func (c *Codex) Title() string          { return "Codex" }
func (c *Codex) ConfigFilename() string { return "AGENTS.md" }
func (c *Codex) ConfigDirname() string  { return ".codex" }

func (c *Codex) Constitution(ctx *template.Context) ([]byte, error) {
	return c.lib.Render("providers/codex/constitution.md.tmpl", ctx)
}

func (c *Codex) Settings(tier models.Tier) map[string]any {
	policy := "safe-only"
	if tier.AtLeast(models.TierStandard) {
		policy = "hybrid"
	}
	settings := permissionSettings(policy, false)
	if tier == models.TierEnterprise {
		settings["behavior"] = map[string]any{
			"auto_context_refresh": true,
		}
	}
	return settings
}

func (c *Codex) MCPConfig() map[string]any {
	return defaultMCPConfig()
}

// AdditionalFiles seeds .codex/prompts with a review prompt.
func (c *Codex) AdditionalFiles(_ *template.Context) (map[string][]byte, error) {
	return map[string][]byte{
		path.Join(c.ConfigDirname(), "prompts", "review.md"): []byte(
			"Review the current diff against the constitution at the workspace root. " +
				"Flag architecture violations before style issues.\n",
		),
	}, nil
}

func (c *Codex) AdditionalDirectories(_ models.Tier) []string {
	return []string{path.Join(c.ConfigDirname(), "prompts")}
}
