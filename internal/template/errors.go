// Package template renders the embedded workspace file templates.
// Every generated file (constitution, Makefile, CI workflow, helper
// scripts, docs, schemas) comes from an asset under assets/, rendered
// in strict mode so a missing field or leftover token fails loudly
// instead of producing a half-expanded workspace.
package template

import "errors"

// Sentinel errors for template operations.
var (
	// ErrTemplateNotFound indicates the named asset does not exist.
	ErrTemplateNotFound = errors.New("template: not found")

	// ErrMissingTemplateKey indicates the template referenced a field
	// absent from the render context (strict mode).
	ErrMissingTemplateKey = errors.New("template: missing key")

	// ErrUnexpandedToken indicates dynamic tokens survived rendering.
	ErrUnexpandedToken = errors.New("template: unexpanded token detected")

	// ErrBundleNotFound indicates the requested template bundle is not
	// present in the registry.
	ErrBundleNotFound = errors.New("template: bundle not found")

	// ErrInvalidRegistry indicates the embedded bundle registry failed
	// to parse.
	ErrInvalidRegistry = errors.New("template: invalid bundle registry")
)
