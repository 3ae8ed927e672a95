package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/multi-llm/bootstrap/internal/defs"
)

// Lock is an exclusive advisory lock over one workspace, held as a
// file inside the provider configuration directory. Mutating
// operations (creation, upgrade, rollback, script refresh) take it so
// two invocations cannot interleave writes.
type Lock struct {
	path string
}

// AcquireLock takes the workspace lock, reclaiming it when the holder
// process is gone. Returns ErrLocked while a live process holds it.
func AcquireLock(configDir string) (*Lock, error) {
	path := filepath.Join(configDir, defs.LockFile)

	for range 2 {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			fmt.Fprintf(f, "%d %s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
			if closeErr := f.Close(); closeErr != nil {
				os.Remove(path)
				return nil, closeErr
			}
			return &Lock{path: path}, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("acquire lock %s: %w", path, err)
		}
		if !lockIsStale(path) {
			holder, _ := os.ReadFile(path)
			return nil, fmt.Errorf("%w (held by %s)", ErrLocked, strings.TrimSpace(string(holder)))
		}
		// Stale lock from a dead process; remove and retry once.
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reclaim stale lock %s: %w", path, err)
		}
	}
	return nil, ErrLocked
}

// Release removes the lock file.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// lockIsStale reports whether the lock's recorded process no longer
// exists. Unreadable or malformed lock files count as stale.
func lockIsStale(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return true
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return true
	}
	pid, err := strconv.Atoi(fields[0])
	if err != nil || pid <= 0 {
		return true
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return true
	}
	// Signal 0 probes for existence without delivering anything.
	return proc.Signal(syscall.Signal(0)) != nil
}
