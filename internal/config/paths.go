package config

import (
	"os"
	"path/filepath"
)

// StateDir is where the config file, persisted session, log and
// conversation history live.
func StateDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".pdfchat"), nil
}

func EnsureStateDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func ConfigPath(stateDir string) string {
	return filepath.Join(stateDir, "config.yaml")
}

func HistoryDir(stateDir string) string {
	return filepath.Join(stateDir, "history")
}

func LogPath(stateDir string) string {
	return filepath.Join(stateDir, "pdfchat.log")
}
