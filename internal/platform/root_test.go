package platform

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mkdirs(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if err := os.MkdirAll(p, 0755); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFindRoot(t *testing.T) {
	base := t.TempDir()

	// repo/.git holds a nested vault notes/.jot.
	repo := filepath.Join(base, "repo")
	vault := filepath.Join(repo, "notes")
	deep := filepath.Join(vault, "a", "b")
	mkdirs(t, filepath.Join(repo, ".git"), filepath.Join(vault, ".jot"), deep)

	// configured/ is marked only by jot.yaml.
	configured := filepath.Join(base, "configured")
	mkdirs(t, filepath.Join(configured, "x"))
	if err := os.WriteFile(filepath.Join(configured, ConfigMarker), []byte("adapter: fs\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// custom/ uses a non-default system dir.
	custom := filepath.Join(base, "custom")
	mkdirs(t, filepath.Join(custom, ".notes"), filepath.Join(custom, "y"))

	// fake/ has a .jot file, not a directory.
	fake := filepath.Join(base, "fake")
	mkdirs(t, fake)
	if err := os.WriteFile(filepath.Join(fake, ".jot"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		start      string
		systemDirs []string
		want       string
	}{
		{"nearest vault wins over enclosing git repo", deep, nil, vault},
		{"git repo without a vault", filepath.Join(repo), nil, repo},
		{"config file marker", filepath.Join(configured, "x"), nil, configured},
		{"custom system dir", filepath.Join(custom, "y"), []string{".notes"}, custom},
		{"custom system dir unknown without option", filepath.Join(custom, "y"), nil, ""},
		{"marker file is not a system dir", fake, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.start, tt.systemDirs...)
			if tt.want == "" {
				// Hosts may keep a vault above the temp dir; only a hit inside base counts.
				if err == nil && strings.HasPrefix(got, base) {
					t.Errorf("FindRoot() = %v, want no root", got)
				}
				if err != nil && !errors.Is(err, ErrVaultNotFound) {
					t.Errorf("FindRoot() error = %v, want ErrVaultNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindRoot() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("FindRoot() = %v, want %v", got, tt.want)
			}
		})
	}
}
