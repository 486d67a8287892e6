package jot

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/jot/internal/platform"
	"github.com/aretw0/jot/pkg/core"
)

// --- Types ---

// Note is the central entity: a titled piece of content with an ID and a date.
type Note = core.Note

// Notebook is a loaded note store wired to its persistence and debounced writer.
type Notebook = platform.Notebook

// Event is emitted by the store after every change.
type Event = core.Event

// Change is emitted by a watched persistence when the collection changes outside the notebook.
type Change = core.Change

// NotebookState is the introspection snapshot returned by Notebook.State.
type NotebookState = platform.NotebookState

// --- Configuration ---

// Option defines a functional option for configuring a Notebook.
type Option = platform.Option

// WithAutoInit enables automatic initialization of the vault (creates directory and git init).
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithVersioning enables or disables version control (e.g. Git).
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist ensures the vault directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithLogger sets the logger for the notebook.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithPersistence allows injecting a custom persistence collaborator.
func WithPersistence(p core.Persistence) Option {
	return platform.WithPersistence(p)
}

// WithAdapter allows specifying the storage adapter to use by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithFormat selects the notes file format ("json" or "yaml").
func WithFormat(format string) Option {
	return platform.WithFormat(format)
}

// WithDebounce sets the quiet interval before changes are written.
func WithDebounce(d time.Duration) Option {
	return platform.WithDebounce(d)
}

// WithSystemDir allows specifying the hidden directory name (e.g. ".jot").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithValidation enables note validation on submit and update.
func WithValidation(enabled bool) Option {
	return platform.WithValidation(enabled)
}

// WithAutoCreate appends an unsaved buffer to the collection as soon as it is valid.
func WithAutoCreate(enabled bool) Option {
	return platform.WithAutoCreate(enabled)
}

// WithStrict rejects unknown fields in the notes file.
func WithStrict(strict bool) Option {
	return platform.WithStrict(strict)
}

// WithReadOnly opens the vault without writing to it.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety controls the dev sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithWatcherErrorHandler registers a callback for asynchronous watcher errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New opens a Notebook.
func New(uri string, opts ...Option) (*Notebook, error) {
	return platform.New(uri, opts...)
}

// Init prepares the persistence explicitly (mkdir, git init, schema).
func Init(uri string, opts ...Option) (core.Persistence, error) {
	return platform.Init(uri, opts...)
}

// --- Safety & Utils ---

// ResolveVaultPath determines the actual path for the vault based on safety rules.
func ResolveVaultPath(userPath string, forceTemp bool) string {
	return platform.ResolveVaultPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindVaultRoot walks up from startDir to the nearest vault root: a directory
// holding .jot (or one of systemDirs), .git or jot.yaml.
func FindVaultRoot(startDir string, systemDirs ...string) (string, error) {
	return platform.FindRoot(startDir, systemDirs...)
}

// --- Semantic Commits ---

const (
	CommitTypeFeat     = platform.CommitTypeFeat
	CommitTypeFix      = platform.CommitTypeFix
	CommitTypeDocs     = platform.CommitTypeDocs
	CommitTypeRefactor = platform.CommitTypeRefactor
	CommitTypeChore    = platform.CommitTypeChore
)

// FormatChangeReason builds a Conventional Commit message.
func FormatChangeReason(ctype, scope, subject, body string) string {
	return platform.FormatChangeReason(ctype, scope, subject, body)
}

// AppendFooter appends the jot footer to an arbitrary message.
func AppendFooter(msg string) string {
	return platform.AppendFooter(msg)
}

// WithChangeReason returns a context whose saves are committed with reason.
func WithChangeReason(ctx context.Context, reason string) context.Context {
	return platform.WithChangeReason(ctx, reason)
}
