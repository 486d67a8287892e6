package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/jot/pkg/adapters/fs"
	"github.com/aretw0/jot/pkg/adapters/kv"
	"github.com/aretw0/jot/pkg/adapters/memory"
	"github.com/aretw0/jot/pkg/adapters/sqlite"
	"github.com/aretw0/jot/pkg/core"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterKV     = "kv"
	AdapterSQLite = "sqlite"
	AdapterMemory = "memory"
)

// DatabaseFile is the sqlite file created when the URI names a directory.
const DatabaseFile = "notes.db"

// Init prepares the persistence for a notebook based on the provided configuration.
// The 'uri' argument is adapter-specific (vault directory for 'fs', store directory
// for 'kv', database file for 'sqlite', ignored for 'memory').
//
// It returns the configured, initialized core.Persistence.
func Init(uri string, opts ...Option) (core.Persistence, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initPersistence(context.Background(), uri, o)
}

func initPersistence(ctx context.Context, uri string, o *options) (core.Persistence, error) {
	// 1. Check for injected persistence
	p := o.persistence
	if p == nil {
		if o.flag("read_only") && o.adapter != AdapterFS {
			return nil, fmt.Errorf("read-only %s adapter: %w", o.adapter, core.ErrNotSupported)
		}

		// 2. Initialize based on Adapter
		var err error
		switch o.adapter {
		case AdapterFS, "":
			p = initFS(uri, o)
		case AdapterKV:
			path, _ := resolvePath(uri, o)
			p = kv.New(path)
		case AdapterSQLite:
			p, err = initSQLite(uri, o)
		case AdapterMemory:
			p = memory.New(memory.WithSampleNotes())
		default:
			return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
		}
		if err != nil {
			return nil, err
		}
	}

	// 3. Run Initialization
	if initializer, ok := p.(core.Initializer); ok {
		if err := initializer.Initialize(ctx); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// resolvePath applies the dev sandbox rules to a user path.
// It also reports whether the sandbox was applied.
func resolvePath(path string, o *options) (string, bool) {
	isReadOnly := o.flag("read_only")
	// Default to true (safe) if not present.
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// Bypass Safety if:
	// 1. ReadOnly is active (inherently safe)
	// 2. User explicitly disabled DevSafety
	bypassSafety := isReadOnly || !devSafety

	useTemp := o.flag("temp_dir") || (IsDevRun() && !bypassSafety)
	resolvedPath := ResolveVaultPath(path, useTemp)

	if IsDevRun() && o.logger != nil {
		if bypassSafety {
			if isReadOnly {
				o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolvedPath)
			} else {
				o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolvedPath)
			}
		} else {
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolvedPath)
		}
	}
	if o.logger != nil && useTemp && resolvedPath != filepath.Clean(path) {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolvedPath)
	}

	return resolvedPath, useTemp
}

// initFS handles the configuration of the filesystem adapter.
func initFS(path string, o *options) *fs.Repository {
	autoInit := o.flag("auto_init")
	gitless := o.flag("gitless")
	systemDir := o.text("system_dir")
	if systemDir == "" {
		systemDir = fs.DefaultSystemDir
	}
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	resolvedPath, useTemp := resolvePath(path, o)

	// Smart Gitless Detection
	// If "gitless" is not explicitly configured, we detect the environment.
	if _, ok := o.config["gitless"]; !ok {
		if _, err := os.Stat(filepath.Join(resolvedPath, ".git")); err == nil {
			gitless = false
		} else if autoInit {
			// An existing system dir without .git is a gitless vault; a fresh one gets git.
			_, err := os.Stat(filepath.Join(resolvedPath, systemDir))
			gitless = err == nil || !fs.IsGitInstalled()
		} else {
			gitless = true
		}

		if gitless && o.logger != nil {
			o.logger.Debug("auto-detected gitless mode", "reason", ".git missing")
		}
	}

	return fs.NewRepository(fs.Config{
		Path:         resolvedPath,
		Format:       o.text("format"),
		AutoInit:     autoInit,
		Gitless:      gitless,
		MustExist:    o.flag("must_exist") || (!autoInit && !useTemp),
		ReadOnly:     o.flag("read_only"),
		Strict:       o.flag("strict"),
		Logger:       o.logger,
		SystemDir:    systemDir,
		ErrorHandler: errorHandler,
	})
}

// initSQLite opens the database. A URI without extension is treated as a directory.
func initSQLite(uri string, o *options) (*sqlite.Store, error) {
	path, _ := resolvePath(uri, o)
	if filepath.Ext(path) == "" {
		path = filepath.Join(path, DatabaseFile)
	}
	return sqlite.Open(path)
}
