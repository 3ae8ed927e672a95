package provider

import (
	"github.com/multi-llm/bootstrap/internal/template"
	"github.com/multi-llm/bootstrap/pkg/models"
)

// Gemini is the default provider surface.
type Gemini struct {
	lib *template.Library
}

// NewGemini creates the Gemini provider over the given asset library.
func NewGemini(lib *template.Library) *Gemini {
	return &Gemini{lib: lib}
}

func (g *Gemini) Name() string           { return "gemini" }
func (g *Gemini) Title() string          { return "Gemini" }
func (g *Gemini) ConfigFilename() string { return "GEMINI.md" }
func (g *Gemini) ConfigDirname() string  { return ".gemini" }

func (g *Gemini) Constitution(ctx *template.Context) ([]byte, error) {
	return g.lib.Render("providers/gemini/constitution.md.tmpl", ctx)
}

// Settings keeps Gemini's native camelCase configuration keys; the
// settings schema allows additional properties for exactly this case.
func (g *Gemini) Settings(tier models.Tier) map[string]any {
	settings := map[string]any{
		"codeExecution": map[string]any{
			"enabled": true,
		},
		"contextWindow": map[string]any{
			"strategy": "auto",
		},
	}
	if tier == models.TierEnterprise {
		settings["multiAgent"] = map[string]any{
			"enabled": true,
		}
	}
	return settings
}

func (g *Gemini) MCPConfig() map[string]any {
	return defaultMCPConfig()
}

func (g *Gemini) AdditionalFiles(_ *template.Context) (map[string][]byte, error) {
	return nil, nil
}

func (g *Gemini) AdditionalDirectories(_ models.Tier) []string {
	return nil
}
