package workspace

import (
	"encoding/json"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/multi-llm/bootstrap/internal/defs"
	"github.com/multi-llm/bootstrap/internal/fsops"
	"github.com/multi-llm/bootstrap/internal/provider"
	"github.com/multi-llm/bootstrap/internal/template"
	"github.com/multi-llm/bootstrap/pkg/models"
	"github.com/multi-llm/bootstrap/pkg/version"
)

// PlanSpec is the resolved input to plan building: every decision
// (tier, provider, domain, bundle) has already been made.
type PlanSpec struct {
	Name          string
	Tier          models.Tier
	Provider      provider.Provider
	Domain        string
	PythonVersion string
	// ParentDir is the directory the workspace is created under,
	// recorded in the metadata; empty means the current directory.
	ParentDir string
	// Bundle optionally layers a project recipe on top of the tier.
	Bundle  *template.Bundle
	Created time.Time
}

// Plan is the complete generation plan: every directory and file the
// workspace will contain, ready for the parallel writer.
type Plan struct {
	Name  string
	Tier  models.Tier
	Dirs  []string
	Files []fsops.FileSpec
}

// FileCount returns the number of files in the plan.
func (p *Plan) FileCount() int { return len(p.Files) }

// Paths returns the planned file paths in write order.
func (p *Plan) Paths() []string {
	out := make([]string, len(p.Files))
	for i, f := range p.Files {
		out[i] = f.Path
	}
	return out
}

// Planner builds generation plans from the template library.
type Planner struct {
	lib *template.Library
}

// NewPlanner creates a Planner over the given asset library.
func NewPlanner(lib *template.Library) *Planner {
	return &Planner{lib: lib}
}

// Plan expands the spec into the full directory and file set.
func (p *Planner) Plan(spec PlanSpec) (*Plan, error) {
	if spec.Provider == nil {
		return nil, creationErr("plan requires a provider")
	}
	if !spec.Tier.Valid() {
		return nil, creationErr("plan requires a valid tier, got %q", spec.Tier)
	}
	if spec.Created.IsZero() {
		spec.Created = time.Now()
	}
	if spec.Bundle != nil {
		if spec.Bundle.Tier != spec.Tier {
			return nil, creationErr("bundle %q targets tier %s, not %s",
				spec.Bundle.Name, spec.Bundle.Tier.Name(), spec.Tier.Name())
		}
		if spec.Bundle.Domain != "" {
			spec.Domain = spec.Bundle.Domain
		}
		if spec.Bundle.PythonVersion != "" {
			spec.PythonVersion = spec.Bundle.PythonVersion
		}
	}

	ctxOpts := []template.ContextOption{
		template.WithWorkspace(spec.Name),
		template.WithTier(spec.Tier),
		provider.ContextOption(spec.Provider),
		template.WithDomain(spec.Domain),
		template.WithPythonVersion(spec.PythonVersion),
	}
	if spec.Bundle != nil {
		ctxOpts = append(ctxOpts, template.WithDependencies(spec.Bundle.Dependencies))
	}
	ctx := template.NewContext(ctxOpts...)

	b := &planBuilder{lib: p.lib, ctx: ctx, spec: spec}
	dirs, err := b.directories()
	if err != nil {
		return nil, err
	}
	files, err := b.build()
	if err != nil {
		return nil, err
	}
	return &Plan{Name: spec.Name, Tier: spec.Tier, Dirs: dirs, Files: files}, nil
}

// planBuilder accumulates file specs, capturing the first render error
// and ignoring the rest so call sites stay flat.
type planBuilder struct {
	lib   *template.Library
	ctx   *template.Context
	spec  PlanSpec
	files []fsops.FileSpec
	err   error
}

func (b *planBuilder) put(relPath string, content []byte, executable bool) {
	if b.err != nil {
		return
	}
	b.files = append(b.files, fsops.FileSpec{
		Path:       relPath,
		Content:    string(content),
		Executable: executable,
	})
}

// render adds a file produced by a context-taking library method.
func (b *planBuilder) render(relPath string, fn func(*template.Context) ([]byte, error)) {
	if b.err != nil {
		return
	}
	content, err := fn(b.ctx)
	if err != nil {
		b.err = err
		return
	}
	b.put(relPath, content, isScriptPath(relPath))
}

// static adds a file produced by a no-argument library method.
func (b *planBuilder) static(relPath string, fn func() ([]byte, error)) {
	if b.err != nil {
		return
	}
	content, err := fn()
	if err != nil {
		b.err = err
		return
	}
	b.put(relPath, content, isScriptPath(relPath))
}

// putJSON adds a pretty-printed JSON document.
func (b *planBuilder) putJSON(relPath string, doc any) {
	if b.err != nil {
		return
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		b.err = fmt.Errorf("encode %s: %w", relPath, err)
		return
	}
	b.put(relPath, append(data, '\n'), false)
}

// isScriptPath reports whether the path lands under scripts/ and should
// carry the executable bit.
func isScriptPath(relPath string) bool {
	return strings.HasPrefix(relPath, "scripts/")
}

// directories returns the sorted, deduplicated directory set.
func (b *planBuilder) directories() ([]string, error) {
	spec := b.spec
	confDir := spec.Provider.ConfigDirname()
	pkg := models.PackageName(spec.Name)

	dirs := []string{
		"src", "tests", "docs", "logs", "scratchpad",
		defs.SkillsDir, defs.WorkflowsDir,
		confDir, path.Join(confDir, "schemas"),
	}

	if spec.Tier.AtLeast(models.TierStandard) {
		dirs = append(dirs,
			"docs/architecture", "docs/api",
			"scripts/shared",
			"tests/unit", "tests/integration",
			path.Join("src", pkg),
		)
	}
	if spec.Tier == models.TierEnterprise {
		dirs = append(dirs,
			"docs/evaluations", "docs/decisions",
			"benchmarks",
			"tests/evals",
			path.Join("src", pkg, "frontend"),
			path.Join("src", pkg, "backend"),
			"outputs/contracts",
		)
	}

	dirs = append(dirs, b.dataDirs()...)
	dirs = append(dirs, spec.Provider.AdditionalDirectories(spec.Tier)...)

	if spec.Bundle != nil {
		bundleDirs, _, err := spec.Bundle.Expand(b.ctx)
		if err != nil {
			return nil, creationErr("bundle %q: %w", spec.Bundle.Name, err)
		}
		dirs = append(dirs, bundleDirs...)
	}

	slices.Sort(dirs)
	return slices.Compact(dirs), nil
}

// dataDirs returns the tier's data directories: flat inputs/outputs for
// Lite and Standard, domain-partitioned for Enterprise.
func (b *planBuilder) dataDirs() []string {
	if b.spec.Tier == models.TierEnterprise {
		domain := b.ctx.Domain
		return []string{
			path.Join("data", domain, "inputs"),
			path.Join("data", domain, "outputs"),
			"data/shared",
		}
	}
	return []string{"data/inputs", "data/outputs"}
}

// build assembles the full file set for the spec.
func (b *planBuilder) build() ([]fsops.FileSpec, error) {
	spec := b.spec
	prov := spec.Provider
	confDir := prov.ConfigDirname()
	pkg := models.PackageName(spec.Name)

	// Identity and convention files.
	b.render(prov.ConfigFilename(), prov.Constitution)
	b.render("Makefile", b.lib.Makefile)
	b.render("README.md", b.lib.Readme)
	b.render(".gitignore", b.lib.Gitignore)
	b.render("docs/roadmap.md", b.lib.Roadmap)
	b.render("docs/GETTING_STARTED.md", b.lib.GettingStarted)
	b.render(".github/workflows/ci.yml", b.lib.CIWorkflow)

	// Provider configuration directory.
	b.putJSON(path.Join(confDir, defs.WorkspaceJSON), b.metadata())
	b.putJSON(path.Join(confDir, defs.SettingsJSON), prov.Settings(spec.Tier))
	b.putJSON(path.Join(confDir, "mcp.json"), prov.MCPConfig())
	b.static(path.Join(confDir, "schemas/workspace.schema.json"), b.lib.WorkspaceSchema)
	b.static(path.Join(confDir, "schemas/settings.schema.json"), b.lib.SettingsSchema)
	b.static(path.Join(confDir, "schemas/bootstrap_config.schema.json"), b.lib.BootstrapConfigSchema)

	// Helper scripts; everything under scripts/ is marked executable.
	b.render("scripts/audit.py", b.lib.AuditScript)
	b.static("scripts/session.py", b.lib.SessionScript)
	b.static("scripts/doc_indexer.py", b.lib.DocIndexerScript)
	b.render("scripts/status.py", b.lib.StatusScript)
	b.static("scripts/list_skills.py", b.lib.ListSkillsScript)
	b.static("scripts/skill_manager.py", b.lib.SkillManagerScript)

	b.tierFiles(pkg)

	// Placeholders keeping otherwise-empty directories in git.
	for _, dir := range b.keepDirs() {
		b.put(path.Join(dir, ".gitkeep"), nil, false)
	}
	b.put(".env", nil, false)

	// Provider-specific starter files.
	if b.err == nil {
		extra, err := prov.AdditionalFiles(b.ctx)
		if err != nil {
			b.err = err
		}
		for _, p := range sortedKeys(extra) {
			b.put(p, extra[p], false)
		}
	}

	// Bundle files land last so a recipe may override tier defaults.
	if spec.Bundle != nil && b.err == nil {
		_, bundleFiles, err := spec.Bundle.Expand(b.ctx)
		if err != nil {
			b.err = creationErr("bundle %q: %w", spec.Bundle.Name, err)
		}
		for _, p := range sortedKeys(bundleFiles) {
			b.overwrite(p, bundleFiles[p])
		}
	}

	if b.err != nil {
		return nil, b.err
	}
	return b.files, nil
}

// tierFiles adds the files that differ per tier.
func (b *planBuilder) tierFiles(pkg string) {
	switch b.spec.Tier {
	case models.TierLite:
		b.static("src/main.py", b.lib.LiteMain)
		b.render("requirements.txt", b.lib.Requirements)
		return
	case models.TierEnterprise:
		b.render("tests/evals/test_evals.py", b.lib.EvalTest)
		b.put(path.Join("src", pkg, "frontend", "__init__.py"), packageInit(pkg+".frontend"), false)
		b.put(path.Join("src", pkg, "backend", "__init__.py"), packageInit(pkg+".backend"), false)
		if b.err == nil {
			if content, err := b.lib.DomainContext("frontend"); err == nil {
				b.put(path.Join("src", pkg, "frontend", b.ctx.ConfigFilename), content, false)
			} else {
				b.err = err
			}
		}
		if b.err == nil {
			if content, err := b.lib.DomainContext("backend"); err == nil {
				b.put(path.Join("src", pkg, "backend", b.ctx.ConfigFilename), content, false)
			} else {
				b.err = err
			}
		}
		b.static("docs/decisions/adr-template.md", b.lib.ADRTemplate)
		b.static("scripts/shift_report.py", b.lib.ShiftReportScript)
		b.static(".pre-commit-config.yaml", b.lib.PrecommitConfig)
		b.static(".gitleaks.toml", b.lib.GitleaksConfig)
	}

	// Shared by Standard and Enterprise.
	b.render("pyproject.toml", b.lib.PyProject)
	b.put(path.Join("src", pkg, "__init__.py"), packageInit(pkg), false)
	b.static(path.Join("src", pkg, "main.py"), b.lib.PackageMain)
	b.render(path.Join("tests/unit", "test_"+pkg+".py"), b.lib.UnitTest)
	b.render("tests/integration/test_integration.py", b.lib.IntegrationTest)
	b.render("scripts/create_snapshot.py", b.lib.SnapshotScript)
	b.static("scripts/shared/skillsmp_client.py", b.lib.SkillsMPClientScript)
	b.static("scripts/shared/skillsmp_search.py", b.lib.SkillsMPSearchScript)
	b.static(path.Join(defs.WorkflowsDir, "shared/discover_skills.md"), b.lib.DiscoverSkillsWorkflow)
	b.static(path.Join(defs.SkillsDir, "debug.md"), b.lib.DebugSkill)
	b.static(path.Join(defs.WorkflowsDir, "feature.md"), b.lib.FeatureWorkflow)
	b.put(".vscode/settings.json", []byte("{}\n"), false)
}

// keepDirs lists directories that receive a .gitkeep because nothing
// else is generated inside them.
func (b *planBuilder) keepDirs() []string {
	dirs := append([]string{"logs", "scratchpad"}, b.dataDirs()...)
	if b.spec.Tier == models.TierEnterprise {
		dirs = append(dirs, "outputs/contracts", "benchmarks")
	}
	return dirs
}

// metadata builds the workspace.json document.
func (b *planBuilder) metadata() models.Meta {
	meta := models.Meta{
		Version:  version.Version,
		Tier:     b.spec.Tier,
		Name:     b.spec.Name,
		Provider: b.spec.Provider.Name(),
		Created:  b.spec.Created.UTC().Format(time.RFC3339),
		Standard: defs.Standard,
	}
	if b.spec.ParentDir != "" {
		parent := b.spec.ParentDir
		meta.ParentWorkspace = &parent
	}
	return meta
}

// overwrite replaces an existing spec for the path or appends a new one.
func (b *planBuilder) overwrite(relPath string, content []byte) {
	if b.err != nil {
		return
	}
	for i := range b.files {
		if b.files[i].Path == relPath {
			b.files[i].Content = string(content)
			return
		}
	}
	b.put(relPath, content, isScriptPath(relPath))
}

// packageInit returns the __init__.py content for a generated package.
func packageInit(dotted string) []byte {
	return []byte(fmt.Sprintf("\"\"\"%s package.\"\"\"\n\n__version__ = \"0.1.0\"\n", dotted))
}

// sortedKeys returns map keys in sorted order for deterministic plans.
func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
