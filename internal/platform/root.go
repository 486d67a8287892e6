package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrVaultNotFound is returned by FindRoot when no ancestor holds a vault marker.
var ErrVaultNotFound = errors.New("vault root not found")

// ConfigMarker is the config file that marks a vault without a system dir.
const ConfigMarker = "jot.yaml"

// RootMarkers are the directory names whose presence marks a vault root.
var RootMarkers = []string{".jot", ".git"}

// FindRoot walks up from startDir and returns the nearest directory holding a
// system dir (.jot or one of systemDirs), a .git directory or a jot.yaml file.
func FindRoot(startDir string, systemDirs ...string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	dirs := append(append([]string{}, systemDirs...), RootMarkers...)

	for {
		if isVaultRoot(dir, dirs) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrVaultNotFound
		}
		dir = parent
	}
}

func isVaultRoot(dir string, markerDirs []string) bool {
	for _, name := range markerDirs {
		if name == "" {
			continue
		}
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil && info.IsDir() {
			return true
		}
	}
	info, err := os.Stat(filepath.Join(dir, ConfigMarker))
	return err == nil && info.Mode().IsRegular()
}
