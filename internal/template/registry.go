package template

import (
	"fmt"
	"io/fs"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/multi-llm/bootstrap/pkg/models"
)

// bundleNamePattern constrains bundle names to lowercase slugs so they
// stay usable as CLI arguments and filenames.
var bundleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// Bundle is a named project recipe layered on top of a tier: extra
// dependencies, directories, and files. Paths and file bodies may use
// the same placeholders as the core assets and are expanded against a
// Context when the bundle is applied.
type Bundle struct {
	Name          string            `yaml:"name"`
	Tier          models.Tier       `yaml:"tier"`
	Description   string            `yaml:"description,omitempty"`
	Domain        string            `yaml:"domain,omitempty"`
	PythonVersion string            `yaml:"python,omitempty"`
	Dependencies  []string          `yaml:"dependencies,omitempty"`
	Directories   []string          `yaml:"directories,omitempty"`
	Files         map[string]string `yaml:"files,omitempty"`
}

// Expand renders every directory path, file path, and file body in the
// bundle against ctx. Rendering is strict: a missing key or a leftover
// placeholder fails the whole expansion.
func (b Bundle) Expand(ctx *Context) (dirs []string, files map[string][]byte, err error) {
	for _, dir := range b.Directories {
		rendered, err := executeStrict(b.Name+"/dir", dir, ctx)
		if err != nil {
			return nil, nil, err
		}
		dirs = append(dirs, string(rendered))
	}
	files = make(map[string][]byte, len(b.Files))
	for path, body := range b.Files {
		renderedPath, err := executeStrict(b.Name+"/path", path, ctx)
		if err != nil {
			return nil, nil, err
		}
		renderedBody, err := executeStrict(b.Name+"/"+path, body, ctx)
		if err != nil {
			return nil, nil, err
		}
		files[string(renderedPath)] = renderedBody
	}
	sort.Strings(dirs)
	return dirs, files, nil
}

type registryFile struct {
	Bundles []Bundle `yaml:"bundles"`
}

// Registry holds the built-in project bundles parsed from the embedded
// bundles.yaml plus any bundles registered at runtime.
type Registry struct {
	bundles map[string]Bundle
	order   []string
}

// NewRegistry loads the registry from the compiled-in assets.
func NewRegistry() (*Registry, error) {
	return NewRegistryFS(Assets())
}

// NewRegistryFS loads the registry from an arbitrary filesystem.
func NewRegistryFS(fsys fs.FS) (*Registry, error) {
	data, err := fs.ReadFile(fsys, registryAsset)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, registryAsset)
	}
	bundles, err := DecodeBundles(data)
	if err != nil {
		return nil, err
	}
	reg := &Registry{bundles: make(map[string]Bundle, len(bundles))}
	for _, b := range bundles {
		if err := reg.Register(b); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// DecodeBundles parses a YAML bundle document. Used for the embedded
// registry and for bundle files exported from live workspaces.
func DecodeBundles(data []byte) ([]Bundle, error) {
	var doc registryFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegistry, err)
	}
	return doc.Bundles, nil
}

// EncodeBundles serializes bundles back to the registry document
// format. The export-template operation writes its output with this.
func EncodeBundles(bundles []Bundle) ([]byte, error) {
	data, err := yaml.Marshal(registryFile{Bundles: bundles})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegistry, err)
	}
	return data, nil
}

// Register validates and adds a bundle. Duplicate names and malformed
// entries are rejected so a broken registry fails loudly at startup.
func (r *Registry) Register(b Bundle) error {
	if !bundleNamePattern.MatchString(b.Name) {
		return fmt.Errorf("%w: bad bundle name %q", ErrInvalidRegistry, b.Name)
	}
	if !b.Tier.Valid() {
		return fmt.Errorf("%w: bundle %q has invalid tier %q", ErrInvalidRegistry, b.Name, b.Tier)
	}
	if _, exists := r.bundles[b.Name]; exists {
		return fmt.Errorf("%w: duplicate bundle %q", ErrInvalidRegistry, b.Name)
	}
	r.bundles[b.Name] = b
	r.order = append(r.order, b.Name)
	return nil
}

// Get returns the bundle with the given name.
func (r *Registry) Get(name string) (Bundle, error) {
	b, ok := r.bundles[name]
	if !ok {
		return Bundle{}, fmt.Errorf("%w: %q (available: %v)", ErrBundleNotFound, name, r.Names())
	}
	return b, nil
}

// Names returns bundle names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All returns bundles in registration order.
func (r *Registry) All() []Bundle {
	out := make([]Bundle, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.bundles[name])
	}
	return out
}
