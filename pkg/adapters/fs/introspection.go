package fs

import (
	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path          string `json:"path"`
	File          string `json:"file"`
	Format        string `json:"format"`
	SystemDir     string `json:"system_dir"`
	Gitless       bool   `json:"gitless"`
	ReadOnly      bool   `json:"read_only"`
	Strict        bool   `json:"strict"`
	WatcherActive bool   `json:"watcher_active"`
	Saves         int    `json:"saves"`
	Commits       int    `json:"commits"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RepositoryState{
		Path:          r.Path,
		File:          r.Filename(),
		Format:        r.config.Format,
		SystemDir:     r.config.SystemDir,
		Gitless:       r.config.Gitless,
		ReadOnly:      r.config.ReadOnly,
		Strict:        r.config.Strict,
		WatcherActive: r.watcherActive,
		Saves:         r.saves,
		Commits:       r.commits,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
