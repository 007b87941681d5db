package env

import (
	"os"
	"path/filepath"
)

var Daemon bool = false
var Version string = "1.0.0"
var ListenPort int = 0

// (default: %USERPROFILE%/.toolkit-keeper on Windows, $HOME/.toolkit-keeper on Linux)
var KeeperDir string = GetKeeperDir()

/**
 * Get keeper directory path
 * @returns {string} Returns keeper directory path
 * @description
 * - TOOLKIT_KEEPER_HOME overrides the default location
 */
func GetKeeperDir() string {
	if dir := os.Getenv("TOOLKIT_KEEPER_HOME"); dir != "" {
		return dir
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".toolkit-keeper")
}

// SocketPath is the unix socket the daemon listens on.
func SocketPath() string {
	return filepath.Join(KeeperDir, "run", "toolkit-keeper.sock")
}
