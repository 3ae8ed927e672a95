package template

import (
	"fmt"
	"io/fs"

	"github.com/multi-llm/bootstrap/pkg/models"
)

// Asset paths under assets/. Tier-dependent assets are selected by the
// tierAsset helper; everything else is addressed directly.
const (
	assetMakefileCommon = "workspace/makefile/common.mk.tmpl"
	assetGitignore      = "workspace/gitignore.tmpl"
	assetReadme         = "workspace/readme.md.tmpl"
	assetRoadmap        = "workspace/roadmap.md.tmpl"
	assetGettingStarted = "workspace/getting_started.md.tmpl"
	assetPyProject      = "workspace/pyproject.toml.tmpl"
	assetRequirements   = "workspace/requirements.txt.tmpl"
	assetLiteMain       = "workspace/main_lite.py"
	assetPackageMain    = "workspace/main_pkg.py"

	assetScriptAudit          = "scripts/audit.py.tmpl"
	assetScriptSession        = "scripts/session.py"
	assetScriptDocIndexer     = "scripts/doc_indexer.py"
	assetScriptStatus         = "scripts/status.py.tmpl"
	assetScriptListSkills     = "scripts/list_skills.py"
	assetScriptSnapshot       = "scripts/create_snapshot.py.tmpl"
	assetScriptSkillManager   = "scripts/skill_manager.py"
	assetScriptShiftReport    = "scripts/shift_report.py"
	assetScriptSkillsMPClient = "scripts/skillsmp_client.py"
	assetScriptSkillsMPSearch = "scripts/skillsmp_search.py"

	assetTestUnit        = "tests/unit.py.tmpl"
	assetTestIntegration = "tests/integration.py.tmpl"
	assetTestEval        = "tests/eval.py.tmpl"

	assetSkillDebug     = "skills/debug.md"
	assetSkillFeature   = "skills/feature_workflow.md"
	assetSkillDiscover  = "skills/discover_skills.md"
	assetWorkflowArchive = "skills/archive_workspace.md"

	assetSchemaWorkspace = "schemas/workspace.schema.json"
	assetSchemaSettings  = "schemas/settings.schema.json"
	assetSchemaBootstrap = "schemas/bootstrap_config.schema.json"

	assetDomainFrontend = "domains/frontend.md"
	assetDomainBackend  = "domains/backend.md"

	assetADRTemplate     = "docs/adr_template.md"
	assetPrecommitConfig = "security/precommit.yaml"
	assetGitleaksConfig  = "security/gitleaks.toml"

	registryAsset = "registry/bundles.yaml"
)

// tierSuffixes maps a tier to the filename stem of its Makefile and CI
// workflow assets.
var tierSuffixes = map[models.Tier]string{
	models.TierLite:       "lite",
	models.TierStandard:   "standard",
	models.TierEnterprise: "enterprise",
}

// Library is the typed catalog over the embedded assets. Each method
// produces the final content of one generated workspace file.
type Library struct {
	fsys fs.FS
	r    Renderer
}

// NewLibrary creates a Library over the compiled-in assets.
func NewLibrary() *Library {
	return NewLibraryFS(Assets())
}

// NewLibraryFS creates a Library over an arbitrary filesystem; tests
// use testing/fstest.MapFS.
func NewLibraryFS(fsys fs.FS) *Library {
	return &Library{fsys: fsys, r: NewRenderer(fsys)}
}

// Render renders the named asset with the given context.
func (l *Library) Render(name string, ctx *Context) ([]byte, error) {
	return l.r.Render(name, ctx)
}

// Static returns a raw asset without rendering.
func (l *Library) Static(name string) ([]byte, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return data, nil
}

// Constitution renders the provider-specific constitution file
// (GEMINI.md, CLAUDE.md, AGENTS.md).
func (l *Library) Constitution(ctx *Context) ([]byte, error) {
	return l.Render(fmt.Sprintf("providers/%s/constitution.md.tmpl", ctx.Provider), ctx)
}

// Makefile renders the tier-specific targets followed by the targets
// shared across all tiers.
func (l *Library) Makefile(ctx *Context) ([]byte, error) {
	head, err := l.Render(fmt.Sprintf("workspace/makefile/%s.mk.tmpl", tierSuffixes[models.Tier(ctx.Tier)]), ctx)
	if err != nil {
		return nil, err
	}
	tail, err := l.Render(assetMakefileCommon, ctx)
	if err != nil {
		return nil, err
	}
	return append(head, tail...), nil
}

// CIWorkflow renders the tier-specific GitHub Actions workflow.
func (l *Library) CIWorkflow(ctx *Context) ([]byte, error) {
	return l.Render(fmt.Sprintf("workspace/ci/%s.yml.tmpl", tierSuffixes[models.Tier(ctx.Tier)]), ctx)
}

// Gitignore renders the workspace .gitignore.
func (l *Library) Gitignore(ctx *Context) ([]byte, error) {
	return l.Render(assetGitignore, ctx)
}

// Readme renders the top-level README.md.
func (l *Library) Readme(ctx *Context) ([]byte, error) {
	return l.Render(assetReadme, ctx)
}

// Roadmap renders docs/roadmap.md.
func (l *Library) Roadmap(ctx *Context) ([]byte, error) {
	return l.Render(assetRoadmap, ctx)
}

// GettingStarted renders docs/GETTING_STARTED.md.
func (l *Library) GettingStarted(ctx *Context) ([]byte, error) {
	return l.Render(assetGettingStarted, ctx)
}

// PyProject renders pyproject.toml for Standard and Enterprise tiers.
func (l *Library) PyProject(ctx *Context) ([]byte, error) {
	return l.Render(assetPyProject, ctx)
}

// Requirements renders requirements.txt for the Lite tier.
func (l *Library) Requirements(ctx *Context) ([]byte, error) {
	return l.Render(assetRequirements, ctx)
}

// LiteMain returns the flat src/main.py for the Lite tier.
func (l *Library) LiteMain() ([]byte, error) {
	return l.Static(assetLiteMain)
}

// PackageMain returns src/<pkg>/main.py for package layouts.
func (l *Library) PackageMain() ([]byte, error) {
	return l.Static(assetPackageMain)
}

// AuditScript renders the workspace structure auditor.
func (l *Library) AuditScript(ctx *Context) ([]byte, error) {
	return l.Render(assetScriptAudit, ctx)
}

// SessionScript returns the session tracker.
func (l *Library) SessionScript() ([]byte, error) {
	return l.Static(assetScriptSession)
}

// DocIndexerScript returns the documentation indexer.
func (l *Library) DocIndexerScript() ([]byte, error) {
	return l.Static(assetScriptDocIndexer)
}

// StatusScript renders the health dashboard script.
func (l *Library) StatusScript(ctx *Context) ([]byte, error) {
	return l.Render(assetScriptStatus, ctx)
}

// ListSkillsScript returns the skill lister.
func (l *Library) ListSkillsScript() ([]byte, error) {
	return l.Static(assetScriptListSkills)
}

// SnapshotScript renders the in-workspace snapshot manager.
func (l *Library) SnapshotScript(ctx *Context) ([]byte, error) {
	return l.Render(assetScriptSnapshot, ctx)
}

// SkillManagerScript returns the in-workspace skill installer driven
// by the skill-add and skill-remove make targets.
func (l *Library) SkillManagerScript() ([]byte, error) {
	return l.Static(assetScriptSkillManager)
}

// ShiftReportScript returns the multi-agent handoff report generator.
func (l *Library) ShiftReportScript() ([]byte, error) {
	return l.Static(assetScriptShiftReport)
}

// SkillsMPClientScript returns the SkillsMP API client.
func (l *Library) SkillsMPClientScript() ([]byte, error) {
	return l.Static(assetScriptSkillsMPClient)
}

// SkillsMPSearchScript returns the SkillsMP search tool.
func (l *Library) SkillsMPSearchScript() ([]byte, error) {
	return l.Static(assetScriptSkillsMPSearch)
}

// UnitTest renders the example unit test.
func (l *Library) UnitTest(ctx *Context) ([]byte, error) {
	return l.Render(assetTestUnit, ctx)
}

// IntegrationTest renders the example integration test.
func (l *Library) IntegrationTest(ctx *Context) ([]byte, error) {
	return l.Render(assetTestIntegration, ctx)
}

// EvalTest renders the example agent-evaluation test.
func (l *Library) EvalTest(ctx *Context) ([]byte, error) {
	return l.Render(assetTestEval, ctx)
}

// DebugSkill returns the starter debug-protocol skill.
func (l *Library) DebugSkill() ([]byte, error) {
	return l.Static(assetSkillDebug)
}

// FeatureWorkflow returns the starter feature workflow.
func (l *Library) FeatureWorkflow() ([]byte, error) {
	return l.Static(assetSkillFeature)
}

// DiscoverSkillsWorkflow returns the SkillsMP discovery workflow.
func (l *Library) DiscoverSkillsWorkflow() ([]byte, error) {
	return l.Static(assetSkillDiscover)
}

// ArchiveWorkflow returns the workspace archival workflow.
func (l *Library) ArchiveWorkflow() ([]byte, error) {
	return l.Static(assetWorkflowArchive)
}

// WorkspaceSchema returns the JSON schema for workspace.json.
func (l *Library) WorkspaceSchema() ([]byte, error) {
	return l.Static(assetSchemaWorkspace)
}

// SettingsSchema returns the JSON schema for settings.json.
func (l *Library) SettingsSchema() ([]byte, error) {
	return l.Static(assetSchemaSettings)
}

// BootstrapConfigSchema returns the JSON schema for the team-defaults
// file (.gemini-bootstrap.json).
func (l *Library) BootstrapConfigSchema() ([]byte, error) {
	return l.Static(assetSchemaBootstrap)
}

// DomainContext returns the per-domain constitution stub for Enterprise
// domain directories.
func (l *Library) DomainContext(domain string) ([]byte, error) {
	switch domain {
	case "frontend":
		return l.Static(assetDomainFrontend)
	case "backend":
		return l.Static(assetDomainBackend)
	default:
		return nil, fmt.Errorf("%w: domains/%s.md", ErrTemplateNotFound, domain)
	}
}

// ADRTemplate returns the architecture-decision-record template.
func (l *Library) ADRTemplate() ([]byte, error) {
	return l.Static(assetADRTemplate)
}

// PrecommitConfig returns the .pre-commit-config.yaml for Enterprise
// workspaces.
func (l *Library) PrecommitConfig() ([]byte, error) {
	return l.Static(assetPrecommitConfig)
}

// GitleaksConfig returns the secret-scanning configuration.
func (l *Library) GitleaksConfig() ([]byte, error) {
	return l.Static(assetGitleaksConfig)
}
