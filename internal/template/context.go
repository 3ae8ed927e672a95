package template

import (
	"github.com/multi-llm/bootstrap/pkg/models"
	"github.com/multi-llm/bootstrap/pkg/version"
)

// Context provides data for template rendering during workspace
// generation. All fields are exported for use with text/template.
type Context struct {
	// Workspace identity
	Name    string // project name as given, e.g. "data-pipeline"
	PkgName string // Python package form, e.g. "data_pipeline"

	// Tier
	Tier     string // "1", "2", or "3"
	TierName string // "Lite", "Standard", "Enterprise"

	// Persona written into the constitution file, varies by tier.
	Philosophy string
	Role       string

	// Provider surface
	Provider       string // "gemini", "claude", "codex"
	ProviderTitle  string // "Gemini", "Claude", "Codex"
	ConfigFilename string // "GEMINI.md", ...
	ConfigDirname  string // ".gemini", ...

	// Enterprise data-directory domain ("core" unless inferred otherwise).
	Domain string

	// Toolchain
	PythonVersion string
	Version       string // bootstrap version stamped into generated files

	// Extra Python dependencies contributed by a project bundle; empty
	// for plain tier workspaces.
	Dependencies []string
}

// tierPersonas maps a tier to the philosophy and role lines of the
// generated constitution.
var tierPersonas = map[models.Tier]struct {
	philosophy string
	role       string
}{
	models.TierLite:       {"Reliable Automation", "Automation Specialist"},
	models.TierStandard:   {"The Modular Monolith", "Lead Software Engineer"},
	models.TierEnterprise: {"Headless Organization", "CTO / Architect"},
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// NewContext creates a Context with sensible defaults, then applies any
// provided options.
func NewContext(opts ...ContextOption) *Context {
	ctx := &Context{
		Tier:          string(models.TierLite),
		TierName:      models.TierLite.Name(),
		Philosophy:    tierPersonas[models.TierLite].philosophy,
		Role:          tierPersonas[models.TierLite].role,
		Domain:        "core",
		PythonVersion: "3.11",
		Version:       version.Version,
	}

	for _, opt := range opts {
		opt(ctx)
	}

	return ctx
}

// WithWorkspace sets the workspace name and derives the package name.
func WithWorkspace(name string) ContextOption {
	return func(c *Context) {
		c.Name = name
		c.PkgName = models.PackageName(name)
	}
}

// WithTier sets the tier and its derived persona fields.
func WithTier(tier models.Tier) ContextOption {
	return func(c *Context) {
		if !tier.Valid() {
			return
		}
		c.Tier = string(tier)
		c.TierName = tier.Name()
		c.Philosophy = tierPersonas[tier].philosophy
		c.Role = tierPersonas[tier].role
	}
}

// WithProvider sets the provider surface fields. The caller supplies
// plain strings so this package stays independent of the provider
// registry.
func WithProvider(name, title, configFilename, configDirname string) ContextOption {
	return func(c *Context) {
		c.Provider = name
		c.ProviderTitle = title
		c.ConfigFilename = configFilename
		c.ConfigDirname = configDirname
	}
}

// WithDomain sets the enterprise data-directory domain.
func WithDomain(domain string) ContextOption {
	return func(c *Context) {
		if domain != "" {
			c.Domain = domain
		}
	}
}

// WithPythonVersion sets the Python version for CI and pyproject files.
func WithPythonVersion(v string) ContextOption {
	return func(c *Context) {
		if v != "" {
			c.PythonVersion = v
		}
	}
}

// WithVersion overrides the stamped bootstrap version.
func WithVersion(v string) ContextOption {
	return func(c *Context) {
		c.Version = v
	}
}

// WithDependencies adds bundle-contributed Python dependencies to the
// generated pyproject.toml or requirements.txt.
func WithDependencies(deps []string) ContextOption {
	return func(c *Context) {
		c.Dependencies = append(c.Dependencies, deps...)
	}
}
