package provider

import (
	"github.com/multi-llm/bootstrap/internal/template"
)

// DefaultName is the provider used when none is requested.
const DefaultName = "gemini"

// Registry holds the supported providers in registration order.
type Registry struct {
	providers map[string]Provider
	order     []string
}

// NewRegistry builds the registry with every supported provider wired
// to the given asset library.
func NewRegistry(lib *template.Library) *Registry {
	r := &Registry{providers: make(map[string]Provider)}
	r.register(NewGemini(lib))
	r.register(NewClaude(lib))
	r.register(NewCodex(lib))
	return r
}

func (r *Registry) register(p Provider) {
	r.providers[p.Name()] = p
	r.order = append(r.order, p.Name())
}

// Get returns the named provider; the empty string selects the default.
func (r *Registry) Get(name string) (Provider, error) {
	if name == "" {
		name = DefaultName
	}
	p, ok := r.providers[name]
	if !ok {
		return nil, unsupportedError(name, r.Names())
	}
	return p, nil
}

// Default returns the default provider.
func (r *Registry) Default() Provider {
	return r.providers[DefaultName]
}

// Names returns provider names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All returns providers in registration order.
func (r *Registry) All() []Provider {
	out := make([]Provider, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.providers[name])
	}
	return out
}
