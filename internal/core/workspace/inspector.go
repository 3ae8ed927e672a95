package workspace

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/multi-llm/bootstrap/internal/provider"
	"github.com/multi-llm/bootstrap/internal/ui"
)

// auditTimeout bounds the workspace audit script.
const auditTimeout = 30 * time.Second

// inspection is one cached validation result, valid while the
// metadata file keeps its modification time.
type inspection struct {
	modTime time.Time
	info    *Info
	issues  []string
}

// Inspector validates workspaces. Results are cached per path keyed by
// the metadata file's modification time, so repeated validations of an
// unchanged workspace (shell prompts, watch loops) stay cheap.
type Inspector struct {
	providers *provider.Registry
	printer   *ui.Printer

	mu    sync.Mutex
	cache map[string]inspection
}

// NewInspector wires an Inspector.
func NewInspector(providers *provider.Registry, printer *ui.Printer) *Inspector {
	return &Inspector{
		providers: providers,
		printer:   printer,
		cache:     make(map[string]inspection),
	}
}

// Inspect loads the workspace and reports structural issues without
// failing on them. The load error is non-nil only when the path is not
// a workspace at all.
func (v *Inspector) Inspect(path string) (*Info, []string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, validationErr("resolve %s: %w", path, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	cached, ok := v.cache[absPath]
	if ok {
		if stat, err := os.Stat(cached.info.MetaPath()); err == nil && stat.ModTime().Equal(cached.modTime) {
			return cached.info, cached.issues, nil
		}
		delete(v.cache, absPath)
	}

	info, err := Load(absPath, v.providers)
	if err != nil {
		return nil, nil, err
	}
	issues := metaIssues(info.Meta)

	if stat, err := os.Stat(info.MetaPath()); err == nil {
		v.cache[absPath] = inspection{modTime: stat.ModTime(), info: info, issues: issues}
	}
	return info, issues, nil
}

// Validate checks the workspace structure and, when runAudit is set,
// executes the workspace's own audit script as well.
func (v *Inspector) Validate(ctx context.Context, path string, runAudit bool) error {
	info, issues, err := v.Inspect(path)
	if err != nil {
		return err
	}

	if len(issues) > 0 {
		for _, issue := range issues {
			v.printer.Error("  %s", issue)
		}
		return validationErr("validation failed: %d issue(s) found", len(issues))
	}

	if runAudit {
		if err := v.runAuditScript(ctx, info.Root); err != nil {
			return err
		}
	}

	v.printer.Success("'%s' is a valid %s workspace", info.Meta.Name, info.Meta.Tier.Name())
	return nil
}

// runAuditScript executes scripts/audit.py inside the workspace with a
// bounded timeout. A missing script is an issue; a non-zero exit is an
// audit failure carrying the script's exit code.
func (v *Inspector) runAuditScript(ctx context.Context, root string) error {
	script := filepath.Join(root, "scripts", "audit.py")
	if _, err := os.Stat(script); err != nil {
		return validationErr("audit script not found at %s", script)
	}

	python, err := lookupPython()
	if err != nil {
		return validationErr("%w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, auditTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, python, script)
	cmd.Dir = root
	out, err := cmd.CombinedOutput()
	if err != nil {
		if trimmed := strings.TrimSpace(string(out)); trimmed != "" {
			v.printer.Plain("%s", trimmed)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return validationErr("%w: audit script failed with exit code %d", ErrAuditFailed, exitErr.ExitCode())
		}
		return validationErr("%w: %v", ErrAuditFailed, err)
	}
	return nil
}

// lookupPython finds the Python interpreter for workspace scripts.
func lookupPython() (string, error) {
	for _, candidate := range []string{"python3", "python"} {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", errors.New("no python interpreter found on PATH")
}
