package graft

import (
	"os"
	"path/filepath"
	"strings"
)

// ConvertToAbsolute returns path made absolute relative to baseDir.  Absolute paths
// and URL-like references (containing "://") are returned untouched.
func ConvertToAbsolute(path, baseDir string) (string, error) {
	if path == "" || filepath.IsAbs(path) || strings.Contains(path, "://") {
		return path, nil
	}
	return filepath.Abs(filepath.Join(baseDir, path))
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[2:]), nil
}
