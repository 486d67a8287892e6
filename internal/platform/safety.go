package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// DevDirName is the directory under os.TempDir() that sandboxes dev runs.
const DevDirName = "jot-dev"

// IsDevRun reports whether the process is a `go run` or `go test` binary.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	return isDevBinary(exe, os.TempDir())
}

// isDevBinary matches binaries built into the temp dir or named *.test.
func isDevBinary(exe, tempDir string) bool {
	if strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe") {
		return true
	}
	return tempDir != "" && strings.HasPrefix(strings.ToLower(exe), strings.ToLower(tempDir))
}

// ResolveVaultPath returns where the vault really lives. With forceTemp a path
// outside the temp dir is re-rooted to $TMP/jot-dev/<base name>.
func ResolveVaultPath(userPath string, forceTemp bool) string {
	if userPath == "" {
		userPath = "."
	}
	if !forceTemp {
		return userPath
	}

	clean := filepath.Clean(userPath)
	if filepath.IsAbs(clean) && underDir(os.TempDir(), clean) {
		return clean
	}

	name := filepath.Base(clean)
	if name == "." || name == string(filepath.Separator) {
		name = "default"
	}
	return filepath.Join(os.TempDir(), DevDirName, name)
}

func underDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && !strings.HasPrefix(rel, "..")
}
