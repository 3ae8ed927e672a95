package template

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/multi-llm/bootstrap/pkg/models"
)

const registryYAML = `bundles:
  - name: micro-api
    tier: "2"
    description: tiny service
    dependencies:
      - fastapi>=0.110.0
    directories:
      - outputs/{{.Domain}}
    files:
      src/{{.PkgName}}/app.py: |
        """Service for {{.Name}}."""
`

func registryFromYAML(t *testing.T, doc string) *Registry {
	t.Helper()
	fsys := fstest.MapFS{
		registryAsset: &fstest.MapFile{Data: []byte(doc)},
	}
	reg, err := NewRegistryFS(fsys)
	if err != nil {
		t.Fatalf("NewRegistryFS() error: %v", err)
	}
	return reg
}

func TestRegistryGet(t *testing.T) {
	t.Parallel()

	reg := registryFromYAML(t, registryYAML)

	b, err := reg.Get("micro-api")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if b.Tier != models.TierStandard {
		t.Errorf("bundle tier = %q, want %q", b.Tier, models.TierStandard)
	}
	if len(b.Dependencies) != 1 {
		t.Errorf("bundle dependencies = %v, want one entry", b.Dependencies)
	}

	if _, err := reg.Get("nope"); !errors.Is(err, ErrBundleNotFound) {
		t.Errorf("Get(nope) error = %v, want ErrBundleNotFound", err)
	}
}

func TestRegistryNames(t *testing.T) {
	t.Parallel()

	reg := registryFromYAML(t, registryYAML)
	names := reg.Names()
	if len(names) != 1 || names[0] != "micro-api" {
		t.Errorf("Names() = %v, want [micro-api]", names)
	}
}

func TestRegistryRejectsBadEntries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		doc  string
	}{
		{"bad_name", "bundles:\n  - name: Bad_Name\n    tier: \"2\"\n"},
		{"bad_tier", "bundles:\n  - name: ok-name\n    tier: \"9\"\n"},
		{"duplicate_name", "bundles:\n  - name: twice\n    tier: \"1\"\n  - name: twice\n    tier: \"2\"\n"},
		{"not_yaml", "bundles: [unclosed\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			fsys := fstest.MapFS{
				registryAsset: &fstest.MapFile{Data: []byte(tc.doc)},
			}
			if _, err := NewRegistryFS(fsys); !errors.Is(err, ErrInvalidRegistry) {
				t.Errorf("expected ErrInvalidRegistry, got %v", err)
			}
		})
	}
}

func TestBundleExpand(t *testing.T) {
	t.Parallel()

	reg := registryFromYAML(t, registryYAML)
	b, err := reg.Get("micro-api")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	ctx := NewContext(
		WithWorkspace("my-service"),
		WithTier(models.TierStandard),
		WithDomain("api"),
	)

	dirs, files, err := b.Expand(ctx)
	if err != nil {
		t.Fatalf("Expand() error: %v", err)
	}
	if len(dirs) != 1 || dirs[0] != "outputs/api" {
		t.Errorf("Expand() dirs = %v, want [outputs/api]", dirs)
	}
	content, ok := files["src/my_service/app.py"]
	if !ok {
		t.Fatalf("Expand() missing rendered path, got %v", files)
	}
	if !strings.Contains(string(content), "my-service") {
		t.Errorf("rendered body missing workspace name: %q", content)
	}
}

func TestEncodeDecodeBundles(t *testing.T) {
	t.Parallel()

	original := []Bundle{{
		Name:         "exported",
		Tier:         models.TierEnterprise,
		Description:  "exported from a live workspace",
		Dependencies: []string{"httpx>=0.27.0"},
		Files:        map[string]string{"notes.md": "# Notes\n"},
	}}

	data, err := EncodeBundles(original)
	if err != nil {
		t.Fatalf("EncodeBundles() error: %v", err)
	}
	decoded, err := DecodeBundles(data)
	if err != nil {
		t.Fatalf("DecodeBundles() error: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Name != "exported" {
		t.Fatalf("round trip lost bundle: %+v", decoded)
	}
	if decoded[0].Tier != models.TierEnterprise {
		t.Errorf("round trip tier = %q, want %q", decoded[0].Tier, models.TierEnterprise)
	}
}
