package template

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"text/template"
)

// templateFuncMap provides custom functions available in all templates.
var templateFuncMap = template.FuncMap{
	// jsonEscape escapes a string for safe embedding in JSON values.
	// It handles backslashes, quotes, and control characters by leveraging
	// encoding/json.Marshal, then stripping the surrounding quotes.
	"jsonEscape": func(s string) string {
		b, err := json.Marshal(s)
		if err != nil {
			return s
		}
		return string(b[1 : len(b)-1])
	},
	// ghExpr emits a GitHub Actions expression (${{ ... }}) that must
	// survive rendering verbatim; writing it literally in an asset would
	// collide with the template delimiters.
	"ghExpr": func(expr string) string {
		return "${{ " + expr + " }}"
	},
}

// unexpandedTokenPattern detects leftover dynamic tokens in rendered output.
// Matches ${VAR}, {{VAR}}, and $VAR patterns.
var unexpandedTokenPattern = regexp.MustCompile(`\$\{[A-Za-z_][A-Za-z0-9_]*\}|\{\{\.?[A-Za-z_][A-Za-z0-9_.]*\}\}|\$[A-Z_][A-Z0-9_]*`)

// makeRuntimeTokens are variables the generated Makefiles hand to make
// or the shell at run time (make snapshot name="..."). They must not be
// flagged as unexpanded tokens.
var makeRuntimeTokens = []string{
	"${msg}",
	"${name}",
}

// ghaExprPattern matches GitHub Actions expressions in rendered CI
// workflows; these are resolved by the Actions runner, not by us.
var ghaExprPattern = regexp.MustCompile(`\$\{\{[^}]*\}\}`)

// Renderer renders Go text/template files with strict mode enabled.
type Renderer interface {
	// Render parses the named template from the backing FS and executes
	// it with the given data. Returns ErrMissingTemplateKey if a key is
	// missing and ErrUnexpandedToken if tokens remain after rendering.
	Render(templateName string, data any) ([]byte, error)
}

// renderer is the concrete implementation of Renderer.
type renderer struct {
	fsys fs.FS
}

// NewRenderer creates a Renderer backed by the given filesystem.
func NewRenderer(fsys fs.FS) Renderer {
	return &renderer{fsys: fsys}
}

// Render parses and executes a template with strict mode (missingkey=error).
func (r *renderer) Render(templateName string, data any) ([]byte, error) {
	content, err := fs.ReadFile(r.fsys, templateName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateName)
	}
	return executeStrict(templateName, string(content), data)
}

// executeStrict parses and executes template content with strict mode,
// then verifies no unexpanded tokens remain. Run-time tokens (make
// variables, GitHub Actions expressions) are masked before validation.
func executeStrict(name, content string, data any) ([]byte, error) {
	tmpl, err := template.New(name).
		Funcs(templateFuncMap).
		Option("missingkey=error").
		Parse(content)
	if err != nil {
		return nil, fmt.Errorf("template parse %q: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingTemplateKey, err)
	}

	result := buf.Bytes()

	masked := ghaExprPattern.ReplaceAllString(string(result), "")
	for _, tok := range makeRuntimeTokens {
		masked = strings.ReplaceAll(masked, tok, "")
	}
	if loc := unexpandedTokenPattern.Find([]byte(masked)); loc != nil {
		return nil, fmt.Errorf("%w: found %q in %s", ErrUnexpandedToken, string(loc), name)
	}

	return result, nil
}
