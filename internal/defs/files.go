package defs

// Common file names used across the project.
const (
	// WorkspaceJSON is the workspace metadata file inside the provider
	// configuration directory (e.g. .gemini/workspace.json).
	WorkspaceJSON = "workspace.json"

	// SettingsJSON is the provider settings file inside the provider
	// configuration directory.
	SettingsJSON = "settings.json"

	// BootstrapConfigJSON is the optional team-defaults file loaded from
	// the current working directory only.
	BootstrapConfigJSON = ".gemini-bootstrap.json"

	// SnapshotStampJSON is the metadata stamp written into every snapshot
	// archive.
	SnapshotStampJSON = "snapshot.json"

	// LockFile is the exclusive workspace lock inside the provider
	// configuration directory.
	LockFile = ".lock"
)

// Directory names used across the project.
const (
	// SnapshotsDir holds tar.gz snapshot archives at the workspace root.
	SnapshotsDir = ".snapshots"

	// BackupsDirName is the backups directory inside the provider
	// configuration directory.
	BackupsDirName = "backups"

	// AgentDir is the cognitive-layer directory at the workspace root.
	AgentDir = ".agent"

	// SkillsDir holds installed skill documents under the agent directory.
	SkillsDir = ".agent/skills"

	// WorkflowsDir holds installed workflow documents under the agent directory.
	WorkflowsDir = ".agent/workflows"
)

// Standard is the workspace convention name stamped into workspace metadata.
const Standard = "Multi-LLM Development Framework"

// PreUpgradePrefix prefixes timestamped upgrade backup directories.
const PreUpgradePrefix = "pre_upgrade_"

// ScriptsBackupPrefix prefixes timestamped script-refresh backup
// directories. These sit beside upgrade backups but are not rollback
// targets.
const ScriptsBackupPrefix = "scripts_"

// SnapshotTagPrefix prefixes git tags created alongside snapshots.
const SnapshotTagPrefix = "snapshot-"

// BackupTimestampLayout is the layout for timestamped backup and snapshot names.
const BackupTimestampLayout = "20060102_150405"
