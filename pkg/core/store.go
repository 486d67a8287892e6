package core

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Store holds the note collection and the edit buffer.
// All mutations go through it; persistence is driven by subscribers (see package autosave).
type Store struct {
	repo       Persistence
	logger     *slog.Logger
	now        func() time.Time
	validate   bool
	autoCreate bool

	mu           sync.RWMutex
	notes        []Note
	current      Note
	currentIndex int
	isNew        bool

	lmu          sync.RWMutex
	listeners    map[int]Listener
	nextListener int
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger used to report load failures.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp notes.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithValidation enables the backend write rules (see Validate) on submit and update.
func WithValidation(enabled bool) StoreOption {
	return func(s *Store) {
		s.validate = enabled
	}
}

// WithAutoCreate makes the first non-blank edit of an unselected buffer submit it.
func WithAutoCreate(enabled bool) StoreOption {
	return func(s *Store) {
		s.autoCreate = enabled
	}
}

// NewStore creates an empty store backed by repo.
func NewStore(repo Persistence, opts ...StoreOption) *Store {
	s := &Store{
		repo:         repo,
		logger:       slog.Default(),
		now:          time.Now,
		notes:        []Note{},
		currentIndex: -1,
		listeners:    make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Persistence returns the collaborator the store loads from.
func (s *Store) Persistence() Persistence {
	return s.repo
}

// Subscribe registers l for every subsequent event and returns a function removing it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.lmu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = l
	s.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.lmu.Lock()
			delete(s.listeners, id)
			s.lmu.Unlock()
		})
	}
}

func (s *Store) emit(t EventType, index int, id string) {
	e := Event{Type: t, Index: index, ID: id, Timestamp: s.now().Unix()}

	s.lmu.RLock()
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.lmu.RUnlock()

	for _, l := range ls {
		l(e)
	}
}

// Load replaces the collection with the persisted one.
// On failure the error is logged and returned and the store is left untouched.
// Notes persisted without an ID receive one, announced by EventIdentified so
// the new IDs get saved.
func (s *Store) Load(ctx context.Context) error {
	if s.repo == nil {
		return fmt.Errorf("load notes: %w", ErrNotSupported)
	}

	notes, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load notes", "error", err)
		return fmt.Errorf("load notes: %w", err)
	}
	notes = Clone(notes)
	minted := 0
	for i := range notes {
		if notes[i].ID == "" {
			notes[i].ID = NewID()
			minted++
		}
	}

	var draft *Draft
	if sp, ok := s.repo.(Scratchpad); ok {
		d, err := sp.LoadDraft(ctx)
		if err != nil {
			s.logger.Warn("failed to load draft, keeping edit buffer", "error", err)
		} else {
			draft = &d
		}
	}

	s.mu.Lock()
	s.notes = notes
	switch {
	case draft != nil && draft.Index >= 0 && draft.Index < len(notes):
		s.currentIndex = draft.Index
		s.current = notes[draft.Index]
		s.isNew = false
	case draft != nil:
		s.currentIndex = -1
		s.current = draft.Note
		s.isNew = draft.IsNew
	case s.currentIndex >= len(notes):
		s.currentIndex = -1
		s.current = BlankNote()
	case s.currentIndex >= 0:
		s.current = notes[s.currentIndex]
	}
	count := len(notes)
	s.mu.Unlock()

	s.logger.Debug("notes loaded", "count", count)
	s.emit(EventLoaded, -1, "")
	if minted > 0 {
		s.logger.Debug("assigned missing note ids", "count", minted)
		s.emit(EventIdentified, -1, "")
	}
	return nil
}

// AddNote starts a new note: the edit buffer becomes blank and is flagged as new.
func (s *Store) AddNote() {
	s.ResetCurrent()
}

// ResetCurrent clears the edit buffer and the selection and sets the new-note flag.
func (s *Store) ResetCurrent() {
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()

	s.emit(EventReset, -1, "")
}

func (s *Store) resetLocked() {
	s.current = BlankNote()
	s.currentIndex = -1
	s.isNew = true
}

// Submit appends a stamped copy of the edit buffer and selects it.
func (s *Store) Submit() (Note, error) {
	s.mu.Lock()
	n, idx, err := s.submitLocked()
	s.mu.Unlock()
	if err != nil {
		return Note{}, err
	}

	s.emit(EventAdded, idx, n.ID)
	return n, nil
}

func (s *Store) submitLocked() (Note, int, error) {
	n := s.current
	if s.validate {
		if err := Validate(n); err != nil {
			return Note{}, -1, err
		}
	}
	n.ID = NewID()
	n = stamp(n, s.now())

	s.notes = append(s.notes, n)
	s.currentIndex = len(s.notes) - 1
	s.current = n
	s.isNew = false
	return n, s.currentIndex, nil
}

// Update overwrites the note at index with a stamped copy of n.
// The entry keeps its ID; the edit buffer follows if the entry is selected.
func (s *Store) Update(index int, n Note) (Note, error) {
	s.mu.Lock()
	updated, err := s.updateLocked(index, n)
	s.mu.Unlock()
	if err != nil {
		return Note{}, err
	}

	s.emit(EventUpdated, index, updated.ID)
	return updated, nil
}

// UpdateByID is Update addressed by note ID.
func (s *Store) UpdateByID(id string, n Note) (Note, error) {
	s.mu.Lock()
	index := s.indexLocked(id)
	if index < 0 {
		s.mu.Unlock()
		return Note{}, fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}
	updated, err := s.updateLocked(index, n)
	s.mu.Unlock()
	if err != nil {
		return Note{}, err
	}

	s.emit(EventUpdated, index, updated.ID)
	return updated, nil
}

func (s *Store) updateLocked(index int, n Note) (Note, error) {
	if index < 0 || index >= len(s.notes) {
		return Note{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	if s.validate {
		if err := Validate(n); err != nil {
			return Note{}, err
		}
	}
	n.ID = s.notes[index].ID
	n = stamp(n, s.now())

	s.notes[index] = n
	if s.currentIndex == index {
		s.current = n
	}
	return n, nil
}

// Delete removes the note at index.
// Deleting the selected note resets the edit buffer; a selection after index shifts down by one.
func (s *Store) Delete(index int) error {
	s.mu.Lock()
	removed, err := s.deleteLocked(index)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.emit(EventDeleted, index, removed.ID)
	return nil
}

// DeleteByID is Delete addressed by note ID.
func (s *Store) DeleteByID(id string) error {
	s.mu.Lock()
	index := s.indexLocked(id)
	if index < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}
	removed, err := s.deleteLocked(index)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.emit(EventDeleted, index, removed.ID)
	return nil
}

func (s *Store) deleteLocked(index int) (Note, error) {
	if index < 0 || index >= len(s.notes) {
		return Note{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	removed := s.notes[index]
	s.notes = slices.Delete(s.notes, index, index+1)

	switch {
	case s.currentIndex == index:
		s.resetLocked()
	case s.currentIndex > index:
		s.currentIndex--
	}
	return removed, nil
}

// Select points the edit buffer at the note at index and clears the new-note flag.
func (s *Store) Select(index int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.notes) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	s.selectLocked(index)
	id := s.current.ID
	s.mu.Unlock()

	s.emit(EventSelected, index, id)
	return nil
}

// SelectByID is Select addressed by note ID.
func (s *Store) SelectByID(id string) error {
	s.mu.Lock()
	index := s.indexLocked(id)
	if index < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}
	s.selectLocked(index)
	s.mu.Unlock()

	s.emit(EventSelected, index, id)
	return nil
}

func (s *Store) selectLocked(index int) {
	s.current = s.notes[index]
	s.currentIndex = index
	s.isNew = false
}

// EditCurrent writes title and content into the edit buffer.
//
// With a selection the linked note is updated in place. Without one the buffer
// stays a draft, unless auto-create is enabled and the buffer holds data: the
// buffer is then submitted as a new note. A draft failing validation stays a draft.
func (s *Store) EditCurrent(title, content string) error {
	s.mu.Lock()

	if s.currentIndex >= 0 {
		n := s.current
		n.Title = title
		n.Content = content
		index := s.currentIndex
		updated, err := s.updateLocked(index, n)
		s.mu.Unlock()
		if err != nil {
			return err
		}
		s.emit(EventUpdated, index, updated.ID)
		return nil
	}

	s.current.Title = title
	s.current.Content = content

	if s.autoCreate && !s.current.IsBlank() && (!s.validate || Validate(s.current) == nil) {
		n, index, err := s.submitLocked()
		s.mu.Unlock()
		if err != nil {
			return err
		}
		s.emit(EventAdded, index, n.ID)
		return nil
	}
	s.mu.Unlock()

	s.emit(EventDraft, -1, "")
	return nil
}

func (s *Store) indexLocked(id string) int {
	for i, n := range s.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// Notes returns a copy of the collection.
func (s *Store) Notes() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Clone(s.notes)
}

// Len returns the number of notes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// Get returns the note at index.
func (s *Store) Get(index int) (Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.notes) {
		return Note{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return s.notes[index], nil
}

// Find returns the note with the given ID and its position.
func (s *Store) Find(id string) (Note, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	index := s.indexLocked(id)
	if index < 0 {
		return Note{}, -1, fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}
	return s.notes[index], index, nil
}

// Current returns the edit buffer.
func (s *Store) Current() Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// CurrentIndex returns the selected position, or -1.
func (s *Store) CurrentIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentIndex
}

// IsNew reports whether the edit buffer is a note that has not been submitted.
func (s *Store) IsNew() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isNew
}

// Draft returns the edit state in the shape kept by a Scratchpad.
func (s *Store) Draft() Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Draft{Note: s.current, Index: s.currentIndex, IsNew: s.isNew}
}
