// Package models provides shared data models and types for the workspace
// bootstrap tool.
//
// This package contains the tier enum, workspace metadata, and snapshot
// stamp structures that are used across multiple packages in the codebase.
//
// # Tiers
//
// Workspaces come in three tiers of increasing structure:
//   - Lite ("1"): flat automation scripts
//   - Standard ("2"): modular package layout with unit/integration tests
//   - Enterprise ("3"): domain-isolated layout with contracts and evals
//
// Use [Tier] and its constants:
//
//	tier := models.TierStandard
//	if tier.Valid() {
//	    fmt.Println(tier.Name()) // "Standard"
//	}
//
// Tier ordinals only ever increase over a workspace's lifetime; downgrades
// are rejected by the upgrade operation.
//
// # Workspace metadata
//
// [Meta] is the persisted form of <confdir>/workspace.json. It is written
// at creation time and mutated in place by upgrades and script refreshes.
package models
