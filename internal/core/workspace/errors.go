// Package workspace implements the workspace lifecycle operations:
// creation, validation, tier upgrade, rollback, and snapshotting. It is the
// core domain logic behind the bootstrap CLI commands; the CLI layer only
// parses flags and renders results.
package workspace

import (
	"errors"
	"fmt"
)

// Sentinel errors for workspace operations.
var (
	// ErrWorkspaceExists indicates the target directory already exists and
	// --force was not given.
	ErrWorkspaceExists = errors.New("workspace: directory already exists")

	// ErrNotAWorkspace indicates the path has no workspace metadata under
	// any known provider configuration directory.
	ErrNotAWorkspace = errors.New("workspace: not a recognized workspace")

	// ErrPathNotFound indicates the given workspace path does not exist.
	ErrPathNotFound = errors.New("workspace: path does not exist")

	// ErrDowngrade indicates an upgrade targeting a lower tier.
	ErrDowngrade = errors.New("workspace: tier downgrade not permitted")

	// ErrLocked indicates another invocation holds the workspace lock.
	ErrLocked = errors.New("workspace: locked by another invocation")

	// ErrBackupNotFound indicates no matching backup or snapshot exists.
	ErrBackupNotFound = errors.New("workspace: backup not found")

	// ErrInvalidName indicates the project name fails the naming rules.
	ErrInvalidName = errors.New("workspace: invalid project name")

	// ErrReservedName indicates the project name collides with a reserved word.
	ErrReservedName = errors.New("workspace: reserved project name")

	// ErrNameTooLong indicates the project name exceeds the length limit.
	ErrNameTooLong = errors.New("workspace: project name too long")

	// ErrInvalidPythonVersion indicates a malformed python version string.
	ErrInvalidPythonVersion = errors.New("workspace: invalid python version")

	// ErrUnsafeArchivePath indicates an archive member that would extract
	// outside the destination directory.
	ErrUnsafeArchivePath = errors.New("workspace: archive member escapes destination")

	// ErrAuditFailed indicates the workspace audit script exited non-zero.
	ErrAuditFailed = errors.New("workspace: audit script failed")

	// ErrAborted indicates the user declined a confirmation prompt.
	ErrAborted = errors.New("workspace: operation aborted")
)

// Category classifies an operation failure. Each category maps to a
// distinct process exit code at the CLI boundary.
type Category int

const (
	// CategoryValidation covers name/version/structure validation failures.
	CategoryValidation Category = iota + 1
	// CategoryCreation covers workspace creation failures.
	CategoryCreation
	// CategoryUpgrade covers tier upgrade failures.
	CategoryUpgrade
	// CategoryRollback covers rollback and snapshot restore failures.
	CategoryRollback
	// CategoryConfig covers bootstrap/workspace configuration failures.
	CategoryConfig
	// CategoryWorkspace covers failures that fit no narrower category.
	CategoryWorkspace
)

// String returns the category name used in error messages.
func (c Category) String() string {
	switch c {
	case CategoryValidation:
		return "validation"
	case CategoryCreation:
		return "creation"
	case CategoryUpgrade:
		return "upgrade"
	case CategoryRollback:
		return "rollback"
	case CategoryConfig:
		return "config"
	case CategoryWorkspace:
		return "workspace"
	}
	return "unknown"
}

// ExitCode returns the process exit code for the category.
func (c Category) ExitCode() int {
	return int(c)
}

// OpError wraps a failure with the operation category used for exit-code
// mapping. Use errors.As to recover it at the CLI boundary and errors.Is
// to test the wrapped cause.
type OpError struct {
	Category Category
	Err      error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Category, e.Err)
}

// Unwrap returns the wrapped cause.
func (e *OpError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code for the wrapped category.
func (e *OpError) ExitCode() int {
	return e.Category.ExitCode()
}

// validationErr wraps err as a validation-category failure.
func validationErr(format string, args ...any) error {
	return &OpError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// creationErr wraps err as a creation-category failure.
func creationErr(format string, args ...any) error {
	return &OpError{Category: CategoryCreation, Err: fmt.Errorf(format, args...)}
}

// upgradeErr wraps err as an upgrade-category failure.
func upgradeErr(format string, args ...any) error {
	return &OpError{Category: CategoryUpgrade, Err: fmt.Errorf(format, args...)}
}

// rollbackErr wraps err as a rollback-category failure.
func rollbackErr(format string, args ...any) error {
	return &OpError{Category: CategoryRollback, Err: fmt.Errorf(format, args...)}
}

// configErr wraps err as a config-category failure.
func configErr(format string, args ...any) error {
	return &OpError{Category: CategoryConfig, Err: fmt.Errorf(format, args...)}
}

// workspaceErr wraps err as a general workspace-category failure.
func workspaceErr(format string, args ...any) error {
	return &OpError{Category: CategoryWorkspace, Err: fmt.Errorf(format, args...)}
}
