package env

import (
	"os"
	"path/filepath"
)

// Version is set at build time via -ldflags
var Version string = "dev"

var Daemon bool = false

// (default: %USERPROFILE%/.module-keeper on Windows, $HOME/.module-keeper on Linux)
var KeeperDir string = GetKeeperDir()

/**
 * Get module-keeper data directory path
 * @returns {string} Returns data directory path
 */
func GetKeeperDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".module-keeper")
}
