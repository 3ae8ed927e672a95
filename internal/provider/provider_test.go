package provider

import (
	"errors"
	"strings"
	"testing"

	"github.com/multi-llm/bootstrap/internal/template"
	"github.com/multi-llm/bootstrap/pkg/models"
)

func testRegistry() *Registry {
	return NewRegistry(template.NewLibrary())
}

func TestRegistryGet(t *testing.T) {
	t.Parallel()

	reg := testRegistry()

	t.Run("named_provider", func(t *testing.T) {
		p, err := reg.Get("claude")
		if err != nil {
			t.Fatalf("Get(claude) error: %v", err)
		}
		if p.ConfigFilename() != "CLAUDE.md" || p.ConfigDirname() != ".claude" {
			t.Errorf("claude surface = %s/%s", p.ConfigFilename(), p.ConfigDirname())
		}
	})

	t.Run("empty_name_is_default", func(t *testing.T) {
		p, err := reg.Get("")
		if err != nil {
			t.Fatalf("Get(\"\") error: %v", err)
		}
		if p.Name() != DefaultName {
			t.Errorf("default provider = %q, want %q", p.Name(), DefaultName)
		}
	})

	t.Run("unsupported_name", func(t *testing.T) {
		_, err := reg.Get("copilot")
		if !errors.Is(err, ErrUnsupported) {
			t.Fatalf("expected ErrUnsupported, got %v", err)
		}
		if !strings.Contains(err.Error(), "gemini") {
			t.Errorf("error should list supported providers: %v", err)
		}
	})
}

func TestRegistryNames(t *testing.T) {
	t.Parallel()

	names := testRegistry().Names()
	want := []string{"gemini", "claude", "codex"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestProviderConstitutions(t *testing.T) {
	t.Parallel()

	reg := testRegistry()
	for _, p := range reg.All() {
		t.Run(p.Name(), func(t *testing.T) {
			t.Parallel()
			ctx := template.NewContext(
				template.WithWorkspace("demo"),
				template.WithTier(models.TierStandard),
				ContextOption(p),
			)
			out, err := p.Constitution(ctx)
			if err != nil {
				t.Fatalf("Constitution() error: %v", err)
			}
			if !strings.Contains(string(out), "demo") {
				t.Errorf("constitution missing workspace name:\n%s", out)
			}
			if !strings.Contains(string(out), "Modular Monolith") {
				t.Errorf("standard-tier constitution missing architecture section")
			}
		})
	}
}

func TestGeminiSettingsByTier(t *testing.T) {
	t.Parallel()

	g := NewGemini(template.NewLibrary())

	base := g.Settings(models.TierStandard)
	if _, ok := base["multiAgent"]; ok {
		t.Error("standard settings should not enable multi-agent")
	}

	enterprise := g.Settings(models.TierEnterprise)
	multi, ok := enterprise["multiAgent"].(map[string]any)
	if !ok || multi["enabled"] != true {
		t.Errorf("enterprise settings missing multiAgent.enabled, got %v", enterprise)
	}
}

func TestPermissionProvidersEscalatePolicy(t *testing.T) {
	t.Parallel()

	c := NewClaude(template.NewLibrary())

	policyFor := func(tier models.Tier) string {
		settings := c.Settings(tier)
		perms := settings["permissions"].(map[string]any)
		terminal := perms["terminal"].(map[string]any)
		return terminal["execution_policy"].(string)
	}

	if got := policyFor(models.TierLite); got != "safe-only" {
		t.Errorf("lite policy = %q, want safe-only", got)
	}
	if got := policyFor(models.TierEnterprise); got != "hybrid" {
		t.Errorf("enterprise policy = %q, want hybrid", got)
	}
}

func TestAdditionalSurfaces(t *testing.T) {
	t.Parallel()

	reg := testRegistry()
	ctx := template.NewContext(template.WithWorkspace("demo"))

	claude, _ := reg.Get("claude")
	files, err := claude.AdditionalFiles(ctx)
	if err != nil {
		t.Fatalf("AdditionalFiles() error: %v", err)
	}
	if _, ok := files[".claude/commands/audit.md"]; !ok {
		t.Errorf("claude should seed the audit command, got %v", files)
	}

	gemini, _ := reg.Get("gemini")
	if dirs := gemini.AdditionalDirectories(models.TierEnterprise); len(dirs) != 0 {
		t.Errorf("gemini should add no extra directories, got %v", dirs)
	}
}
