package fsops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileSpec is one file to materialize: a path relative to the base
// directory, its content, and whether it must be executable.
type FileSpec struct {
	Path       string
	Content    string
	Executable bool
}

// WriteResult reports the outcome of a single file write.
type WriteResult struct {
	Path string
	Err  error
}

// WriteStats summarizes a parallel write batch.
type WriteStats struct {
	Written  int
	Failed   int
	Duration time.Duration
}

// Writer materializes file sets under a base directory using a bounded
// worker pool. Writes are independent; errors are collected, never
// short-circuited, so a batch reports every failing path.
type Writer struct {
	pool *WorkerPool
}

// NewWriter creates a Writer sized for n files (capped at MaxWriteWorkers).
func NewWriter(n int) *Writer {
	return &Writer{pool: NewWorkerPool(PoolSizeFor(n))}
}

// Close shuts down the underlying pool.
func (w *Writer) Close() {
	w.pool.Shutdown()
}

// WriteAll writes every file beneath base, creating parent directories as
// needed. onWrite, when non-nil, is called after each completed write
// (success or failure) from worker goroutines. Returns per-file results in
// input order plus aggregate stats.
func (w *Writer) WriteAll(ctx context.Context, base string, files []FileSpec, onWrite func(WriteResult)) ([]WriteResult, WriteStats) {
	start := time.Now()

	tasks := make([]func() WriteResult, len(files))
	for i, f := range files {
		spec := f
		tasks[i] = func() WriteResult {
			if err := ctx.Err(); err != nil {
				res := WriteResult{Path: spec.Path, Err: err}
				if onWrite != nil {
					onWrite(res)
				}
				return res
			}
			res := WriteResult{Path: spec.Path, Err: writeOne(base, spec)}
			if onWrite != nil {
				onWrite(res)
			}
			return res
		}
	}

	results := ExecuteParallel(w.pool, tasks)

	stats := WriteStats{Duration: time.Since(start)}
	for _, r := range results {
		if r.Err != nil {
			stats.Failed++
		} else {
			stats.Written++
		}
	}
	return results, stats
}

// writeOne writes a single file with its parent directories.
func writeOne(base string, spec FileSpec) error {
	target := filepath.Join(base, filepath.FromSlash(spec.Path))

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create parent of %s: %w", spec.Path, err)
	}

	perm := os.FileMode(0o644)
	if spec.Executable || strings.HasSuffix(spec.Path, ".sh") {
		perm = 0o755
	}

	if err := os.WriteFile(target, []byte(spec.Content), perm); err != nil {
		return fmt.Errorf("write %s: %w", spec.Path, err)
	}
	return nil
}

// SummarizeFailures folds failed results into one error message listing up
// to three failing paths, matching the aggregate-and-report contract of
// the creation flow. Returns nil when nothing failed.
func SummarizeFailures(results []WriteResult) error {
	var failed []WriteResult
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	if len(failed) == 0 {
		return nil
	}

	parts := make([]string, 0, 3)
	for i, r := range failed {
		if i == 3 {
			break
		}
		parts = append(parts, fmt.Sprintf("%s: %v", r.Path, r.Err))
	}
	summary := strings.Join(parts, "; ")
	if len(failed) > 3 {
		summary += fmt.Sprintf(" (+%d more)", len(failed)-3)
	}
	return fmt.Errorf("failed to write %d file(s): %s", len(failed), summary)
}
