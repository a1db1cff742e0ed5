package env

import (
	"os"
	"path/filepath"
)

var Daemon bool = false
var ListenPort int = 0

// (default: %USERPROFILE%/.speckeeper on Windows, $HOME/.speckeeper on Linux)
var SpeckeeperDir string = GetSpeckeeperDir()

/**
 * Get speckeeper directory path
 * @returns {string} Returns speckeeper directory path
 */
func GetSpeckeeperDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".speckeeper")
}

// SpecDir is the default watch directory for service spec files.
func SpecDir() string {
	return filepath.Join(SpeckeeperDir, "specs")
}

// ShareDir holds read-only documents shipped with installed packages,
// including the per-package metadata the validator consumes.
func ShareDir() string {
	return filepath.Join(SpeckeeperDir, "share")
}
