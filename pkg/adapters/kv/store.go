// Package kv persists notes in a diskv key-value directory.
//
// Each key is one file under the base path, mirroring the browser storage
// layout of the original client: the collection under "notes" and the edit
// session under "isNewNote", "currentNote" and "currentIndex".
package kv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/peterbourgon/diskv/v3"

	"github.com/aretw0/jot/pkg/core"
)

// Storage keys.
const (
	KeyNotes        = "notes"
	KeyIsNewNote    = "isNewNote"
	KeyCurrentNote  = "currentNote"
	KeyCurrentIndex = "currentIndex"
)

// Store implements core.Persistence and core.Scratchpad on diskv.
type Store struct {
	d        *diskv.Diskv
	basePath string
}

// New creates a Store rooted at basePath. The directory is created on first write.
func New(basePath string) *Store {
	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
		basePath: basePath,
	}
}

// BasePath returns the directory holding the keys.
func (s *Store) BasePath() string {
	return s.basePath
}

func (s *Store) read(key string, v any) (bool, error) {
	if !s.d.Has(key) {
		return false, nil
	}
	val, err := s.d.Read(key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(val, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) write(key string, v any) error {
	val, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.d.Write(key, val); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Load returns the stored collection, or an empty one.
func (s *Store) Load(ctx context.Context) ([]core.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var notes []core.Note
	if _, err := s.read(KeyNotes, &notes); err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []core.Note{}
	}
	return notes, nil
}

// Save replaces the stored collection.
func (s *Store) Save(ctx context.Context, notes []core.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if notes == nil {
		notes = []core.Note{}
	}
	return s.write(KeyNotes, notes)
}

// LoadDraft assembles the draft from its three keys. Missing keys keep their defaults.
func (s *Store) LoadDraft(ctx context.Context) (core.Draft, error) {
	d := core.Draft{Index: -1}
	if _, err := s.read(KeyCurrentNote, &d.Note); err != nil {
		return core.Draft{Index: -1}, err
	}
	if _, err := s.read(KeyCurrentIndex, &d.Index); err != nil {
		return core.Draft{Index: -1}, err
	}
	if _, err := s.read(KeyIsNewNote, &d.IsNew); err != nil {
		return core.Draft{Index: -1}, err
	}
	return d, nil
}

// SaveDraft writes the draft to its three keys.
func (s *Store) SaveDraft(ctx context.Context, d core.Draft) error {
	if err := s.write(KeyCurrentNote, d.Note); err != nil {
		return err
	}
	if err := s.write(KeyCurrentIndex, d.Index); err != nil {
		return err
	}
	return s.write(KeyIsNewNote, d.IsNew)
}

// Clear erases every key.
func (s *Store) Clear() error {
	return s.d.EraseAll()
}

// Keys lists the stored keys.
func (s *Store) Keys(ctx context.Context) []string {
	var keys []string
	for key := range s.d.Keys(ctx.Done()) {
		keys = append(keys, key)
	}
	return keys
}

var (
	_ core.Persistence = (*Store)(nil)
	_ core.Scratchpad  = (*Store)(nil)
)
