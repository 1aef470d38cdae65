package logging

import (
	"os"
	"path/filepath"
)

// DefaultLogDir returns the default log directory (~/.labsite/logs/).
// Falls back to the temp directory if the home directory is unavailable.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".labsite", "logs")
	}
	return filepath.Join(home, ".labsite", "logs")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "labsite.log")
}
