package workspace

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/multi-llm/bootstrap/internal/core/git"
	"github.com/multi-llm/bootstrap/internal/provider"
	"github.com/multi-llm/bootstrap/internal/template"
	"github.com/multi-llm/bootstrap/internal/ui"
	"github.com/multi-llm/bootstrap/pkg/models"
)

// nopProgress satisfies ui.Progress without rendering anything.
type nopProgress struct{}

func (nopProgress) Start(string, int) ui.ProgressBar { return nopBar{} }
func (nopProgress) Spinner(string) ui.Spinner        { return nopSpinner{} }

type nopBar struct{}

func (nopBar) Incr(int)        {}
func (nopBar) SetTitle(string) {}
func (nopBar) Done()           {}

type nopSpinner struct{}

func (nopSpinner) SetTitle(string) {}
func (nopSpinner) Stop()           {}

// testPrinter returns a Printer that discards all output.
func testPrinter() *ui.Printer {
	return ui.NewPrinterTo(io.Discard, io.Discard, ui.NewTheme(true), false, false)
}

// capturePrinter returns a Printer writing both streams into buf.
func capturePrinter(buf *bytes.Buffer) *ui.Printer {
	return ui.NewPrinterTo(buf, buf, ui.NewTheme(true), false, false)
}

// testProviders returns a registry over the embedded asset library.
func testProviders(t *testing.T) *provider.Registry {
	t.Helper()
	return provider.NewRegistry(template.NewLibrary())
}

// testProvider returns one provider by name.
func testProvider(t *testing.T, name string) provider.Provider {
	t.Helper()
	p, err := testProviders(t).Get(name)
	if err != nil {
		t.Fatalf("provider %q: %v", name, err)
	}
	return p
}

// testCreator wires a Creator with silent output.
func testCreator(t *testing.T) *Creator {
	t.Helper()
	lib := template.NewLibrary()
	return NewCreator(NewPlanner(lib), git.NewManager(), testPrinter(), nopProgress{})
}

// createTestWorkspace materializes a real workspace under a fresh temp
// parent directory and returns its path.
func createTestWorkspace(t *testing.T, name string, tier models.Tier) string {
	t.Helper()
	base, err := testCreator(t).Create(context.Background(), CreateOptions{
		Name:      name,
		Tier:      tier,
		Provider:  testProvider(t, "gemini"),
		ParentDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("create workspace %q: %v", name, err)
	}
	return base
}
