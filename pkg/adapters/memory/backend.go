// Package memory provides an in-process persistence collaborator.
//
// It stands in for the remote notes service: optional latency, optional
// sample data and failure injection make it suitable for tests and demos.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/jot/pkg/core"
)

// SampleNotes returns the notes served by a fresh mock service.
func SampleNotes() []core.Note {
	return []core.Note{
		{Title: "Sample Note 1", Content: "<p>Content of Sample Note 1</p>"},
		{Title: "Sample Note 2", Content: "<p>Content of Sample Note 2</p>"},
	}
}

// Backend implements core.Persistence and core.Scratchpad in memory.
type Backend struct {
	mu       sync.Mutex
	notes    []core.Note
	draft    core.Draft
	hasDraft bool
	latency  time.Duration
	loadErr  error
	saveErr  error
	saves    int
	failures int
	history  [][]core.Note
}

// Option configures a Backend.
type Option func(*Backend)

// WithLatency delays every call, like a network round trip.
func WithLatency(d time.Duration) Option {
	return func(b *Backend) {
		b.latency = d
	}
}

// WithNotes seeds the backend.
func WithNotes(notes ...core.Note) Option {
	return func(b *Backend) {
		b.notes = core.Clone(notes)
	}
}

// WithSampleNotes seeds the backend with SampleNotes.
func WithSampleNotes() Option {
	return WithNotes(SampleNotes()...)
}

// New creates an empty backend.
func New(opts ...Option) *Backend {
	b := &Backend{notes: []core.Note{}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) wait(ctx context.Context) error {
	if b.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(b.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Load returns a copy of the stored notes.
func (b *Backend) Load(ctx context.Context) ([]core.Note, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	return core.Clone(b.notes), nil
}

// Save replaces the stored notes.
func (b *Backend) Save(ctx context.Context, notes []core.Note) error {
	if err := b.wait(ctx); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.saveErr != nil {
		b.failures++
		return b.saveErr
	}
	b.notes = core.Clone(notes)
	b.saves++
	b.history = append(b.history, core.Clone(notes))
	return nil
}

// LoadDraft returns the stored draft, or an empty one with no selection.
func (b *Backend) LoadDraft(ctx context.Context) (core.Draft, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.hasDraft {
		return core.Draft{Index: -1}, nil
	}
	return b.draft, nil
}

// SaveDraft stores the draft.
func (b *Backend) SaveDraft(ctx context.Context, d core.Draft) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.draft = d
	b.hasDraft = true
	return nil
}

// FailLoad makes subsequent loads return err; nil restores normal behavior.
func (b *Backend) FailLoad(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loadErr = err
}

// FailSave makes subsequent saves return err; nil restores normal behavior.
func (b *Backend) FailSave(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.saveErr = err
}

// Saves returns the number of successful saves.
func (b *Backend) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}

// Failures returns the number of rejected saves.
func (b *Backend) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// History returns every successfully saved collection, oldest first.
func (b *Backend) History() [][]core.Note {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([][]core.Note, len(b.history))
	for i, h := range b.history {
		out[i] = core.Clone(h)
	}
	return out
}

// Snapshot returns the stored notes without latency or failure injection.
func (b *Backend) Snapshot() []core.Note {
	b.mu.Lock()
	defer b.mu.Unlock()
	return core.Clone(b.notes)
}

// BackendState exposes internal state for observability.
type BackendState struct {
	Notes    int           `json:"notes"`
	Saves    int           `json:"saves"`
	Failures int           `json:"failures"`
	Latency  time.Duration `json:"latency"`
}

// State implements introspection.Introspectable.
func (b *Backend) State() any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return BackendState{Notes: len(b.notes), Saves: b.saves, Failures: b.failures, Latency: b.latency}
}

// ComponentType implements introspection.Component.
func (b *Backend) ComponentType() string {
	return "memory"
}

var (
	_ core.Persistence             = (*Backend)(nil)
	_ core.Scratchpad              = (*Backend)(nil)
	_ introspection.Introspectable = (*Backend)(nil)
	_ introspection.Component      = (*Backend)(nil)
)
