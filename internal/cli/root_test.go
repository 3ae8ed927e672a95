package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/multi-llm/bootstrap/internal/core/workspace"
	"github.com/multi-llm/bootstrap/pkg/version"
)

// runCLI executes the root command with args, capturing combined
// stdout/stderr. Flags are reset before and after so one invocation's
// values do not leak into the next.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	deps = nil

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
		deps = nil
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// resetFlags restores every changed flag in the command tree to its
// default. Cobra commands are package globals; without this, a flag set
// by one test stays set for the rest of the run.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// assertCategory fails unless err carries the wanted operation category.
func assertCategory(t *testing.T, err error, want workspace.Category) {
	t.Helper()
	var opErr *workspace.OpError
	if !errors.As(err, &opErr) {
		t.Fatalf("error %v does not carry an operation category", err)
	}
	if opErr.Category != want {
		t.Errorf("category = %v, want %v", opErr.Category, want)
	}
}

func TestRootRegistersCommands(t *testing.T) {
	want := []string{
		"create", "validate", "upgrade", "rollback", "snapshot",
		"skill", "templates", "update-scripts", "version",
	}
	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q not registered on root", name)
		}
	}
}

func TestRootPersistentFlags(t *testing.T) {
	for _, name := range []string{"no-color", "quiet", "verbose", "config"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("root should define persistent flag --%s", name)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, version.GetVersion()) {
		t.Errorf("version output %q should contain %q", out, version.GetVersion())
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := runCLI(t, "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	want := "bootstrap " + version.GetVersion()
	if !strings.Contains(out, want) {
		t.Errorf("--version output %q should contain %q", out, want)
	}
}

func TestUnknownProviderIsConfigError(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := runCLI(t, "create", "demo_app", "--tier", "1", "--provider", "cursor")
	if err == nil {
		t.Fatal("unknown provider should fail")
	}
	assertCategory(t, err, workspace.CategoryConfig)
	if !strings.Contains(err.Error(), "supported") {
		t.Errorf("error %q should name the supported providers", err)
	}
}

func TestConfigFlagMissingFile(t *testing.T) {
	_, err := runCLI(t, "--config", "/nonexistent/bootstrap.json", "version")
	if err == nil {
		t.Fatal("explicit --config pointing nowhere should fail")
	}
	assertCategory(t, err, workspace.CategoryConfig)
}
