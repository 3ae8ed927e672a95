package config

import (
	"github.com/multi-llm/bootstrap/pkg/models"
)

// Config holds team defaults read from .gemini-bootstrap.json.
// All fields are optional; zero values mean "not set" and callers fall
// back to their own defaults.
type Config struct {
	// DefaultTier pre-selects the tier in interactive mode ("1", "2", or "3").
	DefaultTier models.Tier `json:"default_tier,omitempty"`

	// PythonVersion overrides the Python version written into CI workflows
	// and pyproject.toml (for example "3.12").
	PythonVersion string `json:"python_version,omitempty"`

	// SharedAgentPath points at a team-wide .agent/ directory that new
	// workspaces link to instead of materializing their own skills.
	SharedAgentPath string `json:"shared_agent_path,omitempty"`

	// DefaultProvider selects the assistant provider when none is given
	// on the command line ("gemini", "claude", or "codex").
	DefaultProvider string `json:"default_provider,omitempty"`

	// DefaultGit enables git repository initialization by default.
	DefaultGit bool `json:"default_git,omitempty"`
}

// HasTier reports whether a default tier is configured.
func (c *Config) HasTier() bool {
	return c.DefaultTier != ""
}

// HasProvider reports whether a default provider is configured.
func (c *Config) HasProvider() bool {
	return c.DefaultProvider != ""
}
