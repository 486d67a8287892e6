// Package autosave persists a note store after it goes quiet.
//
// A Writer subscribes to the store's mutation events. Every mutation restarts
// a single debounce timer; when the timer fires the latest snapshot is saved
// once. Saves are fire-and-forget: failures are logged and dropped, there is
// no retry and the in-memory state is never rolled back.
package autosave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"

	"github.com/aretw0/jot/pkg/core"
	"github.com/aretw0/jot/pkg/debounce"
)

// DefaultDelay is the quiet interval used when none is configured.
const DefaultDelay = 500 * time.Millisecond

// Writer is the debounced persistence subscriber of a core.Store.
type Writer struct {
	store  *core.Store
	repo   core.Persistence
	pad    core.Scratchpad
	logger *slog.Logger
	delay  time.Duration
	deb    *debounce.Debouncer

	unsubscribe func()

	// saveMu serializes saves so the last write always carries the newest snapshot.
	saveMu   sync.Mutex
	inflight sync.WaitGroup

	mu        sync.Mutex
	wantNotes bool
	wantDraft bool
	closed    bool
	writes    int
	failures  int
	lastError string
	lastWrite *time.Time
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger sets the logger used to report save failures.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithDelay sets the quiet interval.
func WithDelay(d time.Duration) Option {
	return func(w *Writer) {
		if d > 0 {
			w.delay = d
		}
	}
}

// New creates a Writer saving store into the store's persistence and subscribes it.
func New(store *core.Store, opts ...Option) *Writer {
	w := &Writer{
		store:  store,
		repo:   store.Persistence(),
		logger: slog.Default(),
		delay:  DefaultDelay,
	}
	for _, opt := range opts {
		opt(w)
	}
	if pad, ok := w.repo.(core.Scratchpad); ok {
		w.pad = pad
	}
	w.deb = debounce.New(w.delay)
	w.unsubscribe = store.Subscribe(w.onEvent)
	return w
}

func (w *Writer) onEvent(e core.Event) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	switch {
	case e.Type.Mutates():
		w.wantNotes = true
		w.wantDraft = w.pad != nil
	case e.Type == core.EventSelected, e.Type == core.EventReset, e.Type == core.EventDraft:
		if w.pad == nil {
			w.mu.Unlock()
			return
		}
		w.wantDraft = true
	default:
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.deb.Trigger(w.fire)
}

// fire runs on the debounce timer and hands the save to a tracked goroutine.
func (w *Writer) fire() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.inflight.Add(1)
	w.mu.Unlock()

	lifecycle.Go(context.Background(), func(ctx context.Context) error {
		defer w.inflight.Done()
		// Failures are already logged by persist.
		_ = w.persist(ctx)
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		w.logger.Error("autosave panic", "error", err)
	}))
}

// persist writes whatever is pending. Errors are logged, counted and returned.
func (w *Writer) persist(ctx context.Context) error {
	w.saveMu.Lock()
	defer w.saveMu.Unlock()

	w.mu.Lock()
	wantNotes, wantDraft := w.wantNotes, w.wantDraft
	w.wantNotes, w.wantDraft = false, false
	w.mu.Unlock()

	var errs []error
	if wantNotes {
		notes := w.store.Notes()
		if err := w.repo.Save(ctx, notes); err != nil {
			w.logger.Error("failed to save notes", "error", err, "count", len(notes))
			errs = append(errs, fmt.Errorf("save notes: %w", err))
		} else {
			w.logger.Debug("notes saved", "count", len(notes))
		}
	}
	if wantDraft && w.pad != nil {
		if err := w.pad.SaveDraft(ctx, w.store.Draft()); err != nil {
			w.logger.Error("failed to save draft", "error", err)
			errs = append(errs, fmt.Errorf("save draft: %w", err))
		}
	}

	if !wantNotes && !wantDraft {
		return nil
	}
	err := errors.Join(errs...)
	w.record(err)
	return err
}

func (w *Writer) record(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.failures++
		w.lastError = err.Error()
		return
	}
	now := time.Now()
	w.writes++
	w.lastWrite = &now
}

// Flush saves pending changes now, on the caller's goroutine, and returns the save error.
func (w *Writer) Flush(ctx context.Context) error {
	w.deb.Cancel()
	return w.persist(ctx)
}

// Pending reports whether changes are waiting for the quiet interval.
func (w *Writer) Pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.wantNotes || w.wantDraft
}

// Close stops listening, writes pending changes and waits for in-flight saves.
// It is safe to call more than once.
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	w.unsubscribe()
	w.deb.Stop()
	err := w.persist(ctx)
	w.inflight.Wait()
	return err
}

// Writes returns the number of successful persist rounds.
func (w *Writer) Writes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}

// Failures returns the number of failed persist rounds.
func (w *Writer) Failures() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.failures
}

// WriterState exposes internal state for observability.
type WriterState struct {
	Delay     string     `json:"delay"`
	Pending   bool       `json:"pending"`
	Closed    bool       `json:"closed"`
	Writes    int        `json:"writes"`
	Failures  int        `json:"failures"`
	LastError string     `json:"last_error,omitempty"`
	LastWrite *time.Time `json:"last_write,omitempty"`
}

// State implements introspection.Introspectable.
func (w *Writer) State() any {
	w.mu.Lock()
	defer w.mu.Unlock()
	return WriterState{
		Delay:     w.delay.String(),
		Pending:   w.wantNotes || w.wantDraft,
		Closed:    w.closed,
		Writes:    w.writes,
		Failures:  w.failures,
		LastError: w.lastError,
		LastWrite: w.lastWrite,
	}
}

// ComponentType implements introspection.Component.
func (w *Writer) ComponentType() string {
	return "autosave"
}

var _ introspection.Introspectable = (*Writer)(nil)
var _ introspection.Component = (*Writer)(nil)
