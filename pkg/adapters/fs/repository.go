package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/jot/pkg/core"
	"github.com/aretw0/jot/pkg/git"
)

const (
	// DefaultFile is the base name of the notes file inside the vault.
	DefaultFile = "notes"
	// DefaultFormat is the serializer used when none is configured.
	DefaultFormat = "json"
	// DefaultSystemDir holds session state and the git lock.
	DefaultSystemDir = ".jot"
	// SessionFile keeps the draft inside the system directory.
	SessionFile = "session.json"
)

// Repository implements core.Persistence and core.Scratchpad using the filesystem and Git.
type Repository struct {
	Path   string
	git    *git.Client
	config Config
	codec  Serializer

	mu            sync.RWMutex
	lastChecksum  string
	watcherActive bool
	saves         int
	commits       int
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string
	File      string // base name without extension, e.g. "notes"
	Format    string // "json" or "yaml"
	AutoInit  bool
	Gitless   bool
	MustExist bool
	ReadOnly  bool
	Strict    bool
	Logger    *slog.Logger
	SystemDir string // e.g. ".jot"
	// ErrorHandler receives asynchronous watcher errors. Nil means log only.
	ErrorHandler func(error)
}

// NewRepository creates a new filesystem-backed repository.
// An unknown Format falls back to DefaultFormat.
func NewRepository(config Config) *Repository {
	if config.File == "" {
		config.File = DefaultFile
	}
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	serializers := DefaultSerializers(config.Strict)
	codec, ok := serializers[strings.ToLower(config.Format)]
	if !ok {
		config.Format = DefaultFormat
		codec = serializers[DefaultFormat]
	}

	return &Repository{
		Path:   config.Path,
		git:    git.NewClient(config.Path, filepath.Join(config.SystemDir, "jot.lock"), config.Logger),
		config: config,
		codec:  codec,
	}
}

// Filename returns the absolute path of the notes file.
func (r *Repository) Filename() string {
	return filepath.Join(r.Path, r.config.File+r.codec.Ext())
}

func (r *Repository) sessionPath() string {
	return filepath.Join(r.Path, r.config.SystemDir, SessionFile)
}

// Initialize performs the necessary setup for the repository (mkdir, git init).
func (r *Repository) Initialize(ctx context.Context) error {
	// 1. Directory Initialization
	if r.config.MustExist {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("vault path does not exist: %s", r.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat vault path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", r.Path)
		}
	} else if !r.config.ReadOnly {
		if err := os.MkdirAll(filepath.Join(r.Path, r.config.SystemDir), 0755); err != nil {
			return fmt.Errorf("failed to create vault directory: %w", err)
		}
	}

	// 2. Git Initialization
	if r.config.Gitless || r.config.ReadOnly {
		return nil
	}
	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}

	wasNewRepo := false
	if !r.git.IsRepo() {
		if !r.config.AutoInit {
			return fmt.Errorf("path is not a git repository: %s", r.Path)
		}
		if err := r.git.Init(); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
		wasNewRepo = true
	}

	// Ensure .gitignore has the system directory
	mod, err := r.ensureIgnore()
	if err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}

	if mod && wasNewRepo {
		// If we just created the repo, commit the .gitignore to start clean
		if err := r.git.Add(".gitignore"); err != nil {
			return fmt.Errorf("failed to add .gitignore: %w", err)
		}
		if err := r.git.Commit(fmt.Sprintf("chore: configure %s ignore", r.config.SystemDir)); err != nil {
			return fmt.Errorf("failed to commit .gitignore: %w", err)
		}
	}

	return nil
}

func (r *Repository) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(r.Path, ".gitignore")
	ignoreEntry := r.config.SystemDir + "/"

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == ignoreEntry {
			return false, nil
		}
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}

	if _, err := f.WriteString(ignoreEntry + "\n"); err != nil {
		return false, err
	}

	return true, nil
}

// Load reads the note collection. A missing file is an empty collection.
func (r *Repository) Load(ctx context.Context) ([]core.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(r.Filename())
	if errors.Is(err, os.ErrNotExist) {
		return []core.Note{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read notes: %w", err)
	}

	notes, err := r.codec.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(r.Filename()), err)
	}

	r.mu.Lock()
	r.lastChecksum = checksum(data)
	r.mu.Unlock()
	return notes, nil
}

// Save replaces the note collection on disk and, unless gitless, commits it.
//
// Workflow:
//  1. Serialize and write atomically.
//  2. (If Git enabled) take the lock, 'git add' and 'git commit' when the file changed.
//     The commit message comes from core.ChangeReasonKey in ctx.
func (r *Repository) Save(ctx context.Context, notes []core.Note) error {
	if r.config.ReadOnly {
		return fmt.Errorf("save notes: %w", core.ErrReadOnly)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := r.codec.Serialize(notes)
	if err != nil {
		return fmt.Errorf("failed to serialize notes: %w", err)
	}

	if !r.config.MustExist {
		if err := os.MkdirAll(r.Path, 0755); err != nil {
			return fmt.Errorf("failed to create vault directory: %w", err)
		}
	}

	// Record before writing so a fast watcher already knows this content.
	r.mu.Lock()
	previous := r.lastChecksum
	r.lastChecksum = checksum(data)
	r.mu.Unlock()

	if err := writeFileAtomic(r.Filename(), data, 0644); err != nil {
		r.mu.Lock()
		r.lastChecksum = previous
		r.mu.Unlock()
		return err
	}

	r.mu.Lock()
	r.saves++
	r.mu.Unlock()

	if r.config.Gitless {
		return nil
	}
	return r.commit(ctx, len(notes))
}

func (r *Repository) commit(ctx context.Context, count int) error {
	unlock, err := r.git.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	name := filepath.Base(r.Filename())
	changed, err := r.git.HasChanges(name)
	if err != nil {
		return fmt.Errorf("failed to read git status: %w", err)
	}
	if !changed {
		return nil
	}

	msg := "update notes"
	if reason, ok := ctx.Value(core.ChangeReasonKey).(string); ok && reason != "" {
		msg = reason
	}

	if err := r.git.Add(name); err != nil {
		return err
	}
	if err := r.git.Commit(msg); err != nil {
		return err
	}

	r.mu.Lock()
	r.commits++
	r.mu.Unlock()
	r.config.Logger.Debug("notes committed", "count", count, "message", msg)
	return nil
}

// LoadDraft reads the session file. A missing session yields an empty draft with no selection.
func (r *Repository) LoadDraft(ctx context.Context) (core.Draft, error) {
	empty := core.Draft{Index: -1}
	data, err := os.ReadFile(r.sessionPath())
	if errors.Is(err, os.ErrNotExist) {
		return empty, nil
	}
	if err != nil {
		return empty, fmt.Errorf("failed to read session: %w", err)
	}

	var d core.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return empty, fmt.Errorf("failed to parse session: %w", err)
	}
	return d, nil
}

// SaveDraft writes the session file inside the system directory.
func (r *Repository) SaveDraft(ctx context.Context, d core.Draft) error {
	if r.config.ReadOnly {
		return fmt.Errorf("save draft: %w", core.ErrReadOnly)
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.sessionPath()), 0755); err != nil {
		return fmt.Errorf("failed to create system directory: %w", err)
	}
	return writeFileAtomic(r.sessionPath(), data, 0644)
}

// IsGitInstalled checks if git is available in the system path.
func IsGitInstalled() bool {
	return git.IsInstalled()
}

var (
	_ core.Persistence = (*Repository)(nil)
	_ core.Scratchpad  = (*Repository)(nil)
	_ core.Initializer = (*Repository)(nil)
	_ core.Watchable   = (*Repository)(nil)
)
