package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/jot/pkg/core"
)

// options holds the internal configuration for a Notebook.
type options struct {
	persistence core.Persistence
	logger      *slog.Logger
	adapter     string
	debounce    time.Duration
	config      map[string]interface{}
}

// Option defines a functional option for configuring a Notebook.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		persistence: nil,
		logger:      nil,
		adapter:     "fs",
		config:      make(map[string]interface{}),
	}
}

func (o *options) flag(key string) bool {
	v, _ := o.config[key].(bool)
	return v
}

func (o *options) text(key string) string {
	v, _ := o.config[key].(string)
	return v
}

// WithAutoInit enables automatic initialization of the vault (creates directory and git init).
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.config["auto_init"] = auto
	}
}

// WithVersioning enables or disables version control (e.g. Git).
// When not set, the fs adapter detects it from the vault (.git present or fresh vault).
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		// Mapping to implementation detail: gitless = !enabled
		o.config["gitless"] = !enabled
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithMustExist ensures the vault directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithLogger sets the logger shared by the store, the writer and the adapter.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPersistence injects a custom persistence collaborator (e.g. mock, remote service).
// If provided, the named adapter is skipped.
func WithPersistence(p core.Persistence) Option {
	return func(o *options) {
		o.persistence = p
	}
}

// WithAdapter selects the storage adapter by name: "fs" (default), "kv", "sqlite" or "memory".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithFormat selects the notes file format of the fs adapter: "json" (default) or "yaml".
func WithFormat(format string) Option {
	return func(o *options) {
		o.config["format"] = format
	}
}

// WithDebounce sets the quiet interval before changes are written.
// Zero means the writer default (500ms).
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithSystemDir allows specifying the hidden directory name (e.g. ".jot").
// Defaults to ".jot" if not set (handled by adapter).
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithValidation rejects blank or over-long titles and blank content on submit and update.
func WithValidation(enabled bool) Option {
	return func(o *options) {
		o.config["validation"] = enabled
	}
}

// WithAutoCreate makes edits to an unsaved buffer append it to the collection
// as soon as it is valid.
func WithAutoCreate(enabled bool) Option {
	return func(o *options) {
		o.config["auto_create"] = enabled
	}
}

// WithStrict rejects unknown fields in the notes file.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.config["strict"] = strict
	}
}

// WithWatcherErrorHandler registers a callback to handle errors occurring during the Watch loop.
// This allows applications to log or react to runtime watcher failures (e.g. permission denied)
// which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Saves return ErrReadOnly (and are logged by the writer).
// 2. Initialization (Mkdir, Git Init) is skipped.
// 3. Dev Safety Lock (go run temp dir) is BYPASSED (uses real path).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithDevSafety controls the "Sandbox" safety mechanism when running via `go run`.
// By default (true), jot forces a temporary directory to prevent accidental data loss.
// Setting this to false allows operating on the real filesystem even during `go run`.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}
