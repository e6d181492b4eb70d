package appupdate

import (
	"os"
	"path/filepath"

	"pathsource/internal/core"
)

// GetLastUsedVersion reads the last used version from the version marker
// file. Returns empty string if no marker exists yet.
func GetLastUsedVersion() string {
	data, err := os.ReadFile(core.VersionMarkerFile())
	if err != nil {
		return ""
	}
	return string(data)
}

// UpdateVersionMarker writes the current version to the version marker file.
func UpdateVersionMarker(version string) error {
	return os.WriteFile(core.VersionMarkerFile(), []byte(version), 0644)
}

// IsUpgradeFromV0 reports whether the user is upgrading from a v0.x install.
// v0.x never wrote a version marker and kept its completion history under
// ~/.cache/pathsource/history.db.
func IsUpgradeFromV0() bool {
	if GetLastUsedVersion() != "" {
		return false
	}

	oldHistoryPath := filepath.Join(core.HomeDir(), ".cache", "pathsource", "history.db")
	if _, err := os.Stat(oldHistoryPath); err == nil {
		return true
	}
	return false
}

// GetMigrationMessage returns the notice shown to users upgrading from v0.x.
func GetMigrationMessage() string {
	return `
┌─────────────────────────────────────────────────────────────────────────┐
│                      Welcome to pathsource v1.0!                        │
├─────────────────────────────────────────────────────────────────────────┤
│  What's new:                                                            │
│  • History-aware interactive browser (run pathsource with no args)      │
│  • Per-directory completion history with search                         │
│  • Configuration via ~/.pathsource/config.yaml                          │
│                                                                         │
│  Data now lives under ~/.pathsource/. The old ~/.cache/pathsource/      │
│  directory is no longer read and can be removed.                        │
│                                                                         │
│  Learn more: https://github.com/pathsource/pathsource                   │
└─────────────────────────────────────────────────────────────────────────┘
`
}
