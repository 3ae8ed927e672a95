// Package git wraps the system git binary for the few operations
// workspace generation needs: repository detection, initialization, and
// snapshot tagging. Git is always optional; callers degrade to warnings
// when it is missing or fails.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ErrSystemGitNotFound indicates no git binary is on PATH.
var ErrSystemGitNotFound = errors.New("git: system git not found")

// DefaultTimeout bounds every git invocation.
const DefaultTimeout = 10 * time.Second

// Manager runs git commands against workspace directories.
type Manager struct {
	logger *slog.Logger
}

// NewManager creates a git Manager.
func NewManager() *Manager {
	return &Manager{logger: slog.Default().With("module", "git")}
}

// Available reports whether a git binary is on PATH.
func (m *Manager) Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// IsRepo reports whether dir is inside a git work tree.
func (m *Manager) IsRepo(ctx context.Context, dir string) bool {
	out, err := execGit(ctx, dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// Init initializes a repository at dir with an initial branch of main.
func (m *Manager) Init(ctx context.Context, dir string) error {
	if _, err := execGit(ctx, dir, "init", "--initial-branch=main"); err != nil {
		// Older git lacks --initial-branch; retry plain init before
		// giving up.
		if _, retryErr := execGit(ctx, dir, "init"); retryErr != nil {
			return retryErr
		}
	}
	m.logger.Debug("repository initialized", "dir", dir)
	return nil
}

// CreateTag creates an annotated tag in the repository containing dir.
func (m *Manager) CreateTag(ctx context.Context, dir, tag, message string) error {
	if _, err := execGit(ctx, dir, "tag", "-a", tag, "-m", message); err != nil {
		return err
	}
	m.logger.Debug("tag created", "tag", tag)
	return nil
}

// CurrentBranch returns the checked-out branch name, or an empty string
// when dir is not a repository or HEAD is detached.
func (m *Manager) CurrentBranch(ctx context.Context, dir string) string {
	out, err := execGit(ctx, dir, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		return ""
	}
	return out
}

// execGit executes a git command in the given directory and returns
// stdout. It sets GIT_TERMINAL_PROMPT=0 and LC_ALL=C for consistent
// behavior and applies DefaultTimeout when the context carries no
// deadline.
func execGit(ctx context.Context, dir string, args ...string) (string, error) {
	gitPath, err := exec.LookPath("git")
	if err != nil {
		return "", fmt.Errorf("system git lookup: %w", ErrSystemGitNotFound)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, gitPath, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_TERMINAL_PROMPT=0",
		"LC_ALL=C",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		if len(args) > 0 {
			return "", fmt.Errorf("git %s: %s: %w", args[0], stderrStr, err)
		}
		return "", fmt.Errorf("git: %s: %w", stderrStr, err)
	}

	return strings.TrimRight(stdout.String(), "\n\r"), nil
}
