package models

import "strings"

// Meta is the workspace metadata persisted as workspace.json inside the
// provider configuration directory. Field order and null handling match
// the files written by earlier releases, so existing workspaces keep
// loading unchanged.
type Meta struct {
	Version         string  `json:"version"`
	Tier            Tier    `json:"tier"`
	Name            string  `json:"name"`
	Provider        string  `json:"provider"`
	Created         string  `json:"created"`
	Standard        string  `json:"standard"`
	ParentWorkspace *string `json:"parent_workspace"`

	// Optional lifecycle state; absent means active.
	Status string `json:"status,omitempty"`

	// Set by upgrade.
	Upgraded     string `json:"upgraded,omitempty"`
	PreviousTier Tier   `json:"previous_tier,omitempty"`

	// Set by script refresh.
	ScriptsUpdated string `json:"scripts_updated,omitempty"`
}

// SnapshotStamp is the metadata written as snapshot.json into every
// snapshot archive.
type SnapshotStamp struct {
	Name      string `json:"name"`
	Created   string `json:"created"`
	Tier      Tier   `json:"tier"`
	Workspace string `json:"workspace"`
	GitTag    string `json:"git_tag,omitempty"`
}

// packageNameReplacer maps characters that are legal in workspace names
// but not in generated package paths.
var packageNameReplacer = strings.NewReplacer("-", "_", " ", "_", ".", "_")

// PackageName derives the source package name from a workspace name:
// dashes, spaces, and dots become underscores, and the result is lowered.
func PackageName(name string) string {
	return strings.ToLower(packageNameReplacer.Replace(name))
}
