package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"

	"github.com/aretw0/jot/pkg/autosave"
	"github.com/aretw0/jot/pkg/core"
)

// Notebook is a loaded note store wired to its persistence and debounced writer.
// All store operations are promoted from the embedded *core.Store.
type Notebook struct {
	*core.Store
	writer *autosave.Writer
	repo   core.Persistence
	logger *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// New opens a notebook: it prepares the persistence, loads the collection
// and starts the debounced writer.
//
//	nb, err := jot.New("./notes", jot.WithAutoInit(true))
//	defer nb.Close(ctx)
//
// The URI argument is adapter-specific (see Init).
func New(uri string, opts ...Option) (*Notebook, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx := context.Background()
	repo, err := initPersistence(ctx, uri, o)
	if err != nil {
		return nil, err
	}

	store := core.NewStore(repo,
		core.WithStoreLogger(logger),
		core.WithValidation(o.flag("validation")),
		core.WithAutoCreate(o.flag("auto_create")),
	)
	// Subscribe before loading so IDs minted by Load are written back.
	writer := autosave.New(store,
		autosave.WithLogger(logger),
		autosave.WithDelay(o.debounce),
	)
	if err := store.Load(ctx); err != nil {
		_ = writer.Close(ctx)
		closePersistence(repo)
		return nil, err
	}

	return &Notebook{
		Store:  store,
		writer: writer,
		repo:   repo,
		logger: logger,
	}, nil
}

// Writer returns the debounced writer persisting this notebook.
func (n *Notebook) Writer() *autosave.Writer {
	return n.writer
}

// Flush writes pending changes now and returns the save error.
func (n *Notebook) Flush(ctx context.Context) error {
	return n.writer.Flush(ctx)
}

// Watch reloads the notebook whenever the persisted collection changes outside it
// and forwards each change. It requires a core.Watchable persistence.
// The returned channel closes when ctx is done.
func (n *Notebook) Watch(ctx context.Context, pattern string) (<-chan core.Change, error) {
	w, ok := n.repo.(core.Watchable)
	if !ok {
		return nil, fmt.Errorf("watch: %w", core.ErrNotSupported)
	}
	changes, err := w.Watch(ctx, pattern)
	if err != nil {
		return nil, err
	}

	out := make(chan core.Change)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case c, ok := <-changes:
				if !ok {
					return nil
				}
				// Load keeps the current state on failure and logs it.
				if err := n.Load(ctx); err == nil {
					n.logger.Info("notes reloaded", "path", c.Path, "type", c.Type)
				}
				select {
				case out <- c:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		n.logger.Error("watch panic", "error", err)
	}))
	return out, nil
}

// Close flushes pending changes, waits for in-flight saves and releases the persistence.
// It is safe to call more than once.
func (n *Notebook) Close(ctx context.Context) error {
	n.closeOnce.Do(func() {
		n.closeErr = errors.Join(n.writer.Close(ctx), closePersistence(n.repo))
	})
	return n.closeErr
}

func closePersistence(p core.Persistence) error {
	if c, ok := p.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// NotebookState aggregates the state of the notebook's components.
type NotebookState struct {
	Store       any `json:"store"`
	Writer      any `json:"writer"`
	Persistence any `json:"persistence,omitempty"`
}

// State implements introspection.Introspectable.
func (n *Notebook) State() any {
	state := NotebookState{
		Store:  n.Store.State(),
		Writer: n.writer.State(),
	}
	if i, ok := n.repo.(introspection.Introspectable); ok {
		state.Persistence = i.State()
	}
	return state
}

// ComponentType implements introspection.Component.
func (n *Notebook) ComponentType() string {
	return "notebook"
}

var _ introspection.Introspectable = (*Notebook)(nil)
var _ introspection.Component = (*Notebook)(nil)
