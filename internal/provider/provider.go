// Package provider defines the AI-provider surface of generated
// workspaces. A provider decides the constitution filename (GEMINI.md,
// CLAUDE.md, AGENTS.md), the configuration directory, the default
// agent settings per tier, and any provider-specific starter files.
// Workspace generation is provider-agnostic beyond this interface.
package provider

import (
	"errors"
	"fmt"

	"github.com/multi-llm/bootstrap/internal/template"
	"github.com/multi-llm/bootstrap/pkg/models"
)

// ErrUnsupported is returned when a provider name is not registered.
var ErrUnsupported = errors.New("provider: unsupported")

// Provider describes one AI provider surface.
type Provider interface {
	// Name is the canonical lowercase identifier ("gemini").
	Name() string
	// Title is the display form ("Gemini").
	Title() string
	// ConfigFilename is the constitution file at the workspace root.
	ConfigFilename() string
	// ConfigDirname is the hidden configuration directory.
	ConfigDirname() string

	// Constitution renders the provider's constitution for the tier and
	// workspace carried by ctx.
	Constitution(ctx *template.Context) ([]byte, error)
	// Settings returns the default agent settings for the tier,
	// serialized into <ConfigDirname>/settings.json.
	Settings(tier models.Tier) map[string]any
	// MCPConfig returns the default MCP server configuration.
	MCPConfig() map[string]any
	// AdditionalFiles returns provider-specific starter files keyed by
	// workspace-relative path.
	AdditionalFiles(ctx *template.Context) (map[string][]byte, error)
	// AdditionalDirectories returns provider-specific directories to
	// create for the tier.
	AdditionalDirectories(tier models.Tier) []string
}

// ContextOption adapts a provider into a template context option so
// callers compose render contexts without repeating the surface fields.
func ContextOption(p Provider) template.ContextOption {
	return template.WithProvider(p.Name(), p.Title(), p.ConfigFilename(), p.ConfigDirname())
}

// defaultMCPConfig is shared by all providers: an empty server map the
// user fills in.
func defaultMCPConfig() map[string]any {
	return map[string]any{
		"mcpServers": map[string]any{},
	}
}

// permissionSettings builds the settings document shared by the
// providers that use the permissions/behavior shape.
func permissionSettings(policy string, autoRefresh bool) map[string]any {
	return map[string]any{
		"permissions": map[string]any{
			"filesystem": map[string]any{
				"read":   []string{"**/*"},
				"edit":   []string{"src/**", "tests/**", "docs/**", "scripts/**"},
				"ignore": []string{"logs/**", "scratchpad/**", ".env"},
			},
			"terminal": map[string]any{
				"execution_policy": policy,
				"allowed_commands": []string{"make", "python", "pytest", "git"},
			},
		},
		"behavior": map[string]any{
			"auto_context_refresh": autoRefresh,
		},
	}
}

// unsupportedError formats the lookup failure with the known names so
// the CLI can surface actionable output.
func unsupportedError(name string, known []string) error {
	return fmt.Errorf("%w: %q (supported: %v)", ErrUnsupported, name, known)
}
