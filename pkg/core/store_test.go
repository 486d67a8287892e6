package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jot/pkg/core"
)

// MockPersistence implements core.Persistence in memory.
// It deliberately does NOT implement core.Scratchpad unless draft is set.
type MockPersistence struct {
	notes   []core.Note
	loadErr error
	saves   int
}

func (m *MockPersistence) Load(ctx context.Context) ([]core.Note, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return core.Clone(m.notes), nil
}

func (m *MockPersistence) Save(ctx context.Context, notes []core.Note) error {
	m.notes = core.Clone(notes)
	m.saves++
	return nil
}

type MockScratchpad struct {
	MockPersistence
	draft core.Draft
}

func (m *MockScratchpad) LoadDraft(ctx context.Context) (core.Draft, error) {
	return m.draft, nil
}

func (m *MockScratchpad) SaveDraft(ctx context.Context, d core.Draft) error {
	m.draft = d
	return nil
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T, repo core.Persistence, opts ...core.StoreOption) *core.Store {
	t.Helper()
	opts = append([]core.StoreOption{core.WithClock(func() time.Time { return fixedNow })}, opts...)
	return core.NewStore(repo, opts...)
}

func seed(t *testing.T, s *core.Store, titles ...string) {
	t.Helper()
	for _, title := range titles {
		s.AddNote()
		require.NoError(t, s.EditCurrent(title, title+" body"))
		_, err := s.Submit()
		require.NoError(t, err)
	}
}

func titles(notes []core.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Title)
	}
	return out
}

func TestStore_AddThenSubmit(t *testing.T) {
	s := newStore(t, &MockPersistence{})
	seed(t, s, "A")

	s.AddNote()
	assert.True(t, s.IsNew())
	assert.Equal(t, -1, s.CurrentIndex())
	assert.Equal(t, core.BlankNote(), s.Current())

	before := s.Len()
	n, err := s.Submit()
	require.NoError(t, err)

	assert.Equal(t, before+1, s.Len())
	assert.Equal(t, before, s.CurrentIndex())
	assert.False(t, s.IsNew())
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, fixedNow.Format(time.RFC3339Nano), n.Date)
	assert.Equal(t, n, s.Current())
}

func TestStore_SubmitAssignsDistinctIDs(t *testing.T) {
	s := newStore(t, &MockPersistence{})
	seed(t, s, "A", "A", "A")

	notes := s.Notes()
	ids := map[string]bool{}
	for _, n := range notes {
		ids[n.ID] = true
	}
	assert.Len(t, ids, 3)
}

func TestStore_DeleteCurrentResetsBuffer(t *testing.T) {
	s := newStore(t, &MockPersistence{})
	seed(t, s, "A")

	require.NoError(t, s.Select(0))
	require.NoError(t, s.Delete(0))

	assert.Empty(t, s.Notes())
	assert.Equal(t, core.Note{Title: "", Content: "", Date: ""}, s.Current())
	assert.Equal(t, -1, s.CurrentIndex())
	assert.True(t, s.IsNew())
}

func TestStore_DeleteShiftsSelection(t *testing.T) {
	s := newStore(t, &MockPersistence{})
	seed(t, s, "A", "B", "C")

	require.NoError(t, s.Select(2))
	require.NoError(t, s.Delete(0))

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, s.CurrentIndex())
	assert.Equal(t, "C", s.Current().Title)
}

func TestStore_DeleteBeforeSelectionLeavesBuffer(t *testing.T) {
	s := newStore(t, &MockPersistence{})
	seed(t, s, "A", "B", "C")

	require.NoError(t, s.Select(0))
	require.NoError(t, s.Delete(2))

	assert.Equal(t, 0, s.CurrentIndex())
	assert.Equal(t, "A", s.Current().Title)
	assert.Equal(t, []string{"A", "B"}, titles(s.Notes()))
}

func TestStore_UpdateReplacesOnlyIndex(t *testing.T) {
	later := fixedNow.Add(time.Hour)
	clock := fixedNow
	s := core.NewStore(&MockPersistence{}, core.WithClock(func() time.Time { return clock }))
	seed(t, s, "A", "B", "C")
	before := s.Notes()

	clock = later
	updated, err := s.Update(1, core.Note{Title: "B2", Content: "new"})
	require.NoError(t, err)

	after := s.Notes()
	assert.Equal(t, before[1].ID, updated.ID)
	assert.Equal(t, later.Format(time.RFC3339Nano), updated.Date)
	assert.Equal(t, "new", updated.Subject)

	if diff := cmp.Diff(before[0], after[0]); diff != "" {
		t.Errorf("entry 0 changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(before[2], after[2]); diff != "" {
		t.Errorf("entry 2 changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(before[1], after[1], cmpopts.IgnoreFields(core.Note{}, "Title", "Content", "Subject", "Date")); diff != "" {
		t.Errorf("entry 1 identity changed (-want +got):\n%s", diff)
	}
}

func TestStore_UpdateSelectedMirrorsBuffer(t *testing.T) {
	s := newStore(t, &MockPersistence{})
	seed(t, s, "A", "B")

	require.NoError(t, s.Select(0))
	_, err := s.Update(0, core.Note{Title: "A2", Content: "x"})
	require.NoError(t, err)

	assert.Equal(t, "A2", s.Current().Title)
	got, err := s.Get(0)
	require.NoError(t, err)
	assert.Equal(t, got, s.Current())
}

func TestStore_OutOfRange(t *testing.T) {
	s := newStore(t, &MockPersistence{})
	seed(t, s, "A")
	before := s.Notes()

	for _, idx := range []int{-1, 1, 42} {
		_, err := s.Update(idx, core.Note{Title: "x"})
		assert.ErrorIs(t, err, core.ErrIndexOutOfRange)
		assert.ErrorIs(t, s.Delete(idx), core.ErrIndexOutOfRange)
		assert.ErrorIs(t, s.Select(idx), core.ErrIndexOutOfRange)
	}

	assert.Equal(t, before, s.Notes())
}

func TestStore_ByID(t *testing.T) {
	s := newStore(t, &MockPersistence{})
	seed(t, s, "A", "B")
	b := s.Notes()[1]

	require.NoError(t, s.SelectByID(b.ID))
	assert.Equal(t, 1, s.CurrentIndex())

	_, err := s.UpdateByID(b.ID, core.Note{Title: "B2", Content: "y"})
	require.NoError(t, err)
	n, idx, err := s.Find(b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "B2", n.Title)

	require.NoError(t, s.DeleteByID(b.ID))
	assert.Equal(t, []string{"A"}, titles(s.Notes()))
	assert.True(t, s.IsNew())

	assert.ErrorIs(t, s.DeleteByID("missing"), core.ErrNoteNotFound)
	assert.ErrorIs(t, s.SelectByID("missing"), core.ErrNoteNotFound)
	_, err = s.UpdateByID("missing", core.Note{})
	assert.ErrorIs(t, err, core.ErrNoteNotFound)
}

func TestStore_SelectClearsNewFlag(t *testing.T) {
	s := newStore(t, &MockPersistence{})
	seed(t, s, "A")

	s.AddNote()
	require.True(t, s.IsNew())
	require.NoError(t, s.Select(0))

	assert.False(t, s.IsNew())
	assert.Equal(t, "A", s.Current().Title)
}

func TestStore_Load(t *testing.T) {
	repo := &MockPersistence{notes: []core.Note{
		{Title: "one", Content: "1"},
		{ID: "fixed", Title: "two", Content: "2"},
	}}
	s := newStore(t, repo)

	require.NoError(t, s.Load(context.Background()))

	notes := s.Notes()
	require.Len(t, notes, 2)
	assert.NotEmpty(t, notes[0].ID)
	assert.Equal(t, "fixed", notes[1].ID)
	assert.Equal(t, -1, s.CurrentIndex())
}

func TestStore_LoadFailureKeepsState(t *testing.T) {
	repo := &MockPersistence{}
	s := newStore(t, repo)
	seed(t, s, "A", "B")
	before := s.Notes()

	repo.loadErr = errors.New("backend down")
	err := s.Load(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend down")
	assert.Equal(t, before, s.Notes())
}

func TestStore_LoadRestoresDraft(t *testing.T) {
	repo := &MockScratchpad{
		MockPersistence: MockPersistence{notes: []core.Note{{ID: "a", Title: "A"}}},
		draft:           core.Draft{Note: core.Note{Title: "half written"}, Index: -1, IsNew: true},
	}
	s := newStore(t, repo)

	require.NoError(t, s.Load(context.Background()))

	assert.Equal(t, "half written", s.Current().Title)
	assert.True(t, s.IsNew())

	repo.draft = core.Draft{Index: 0}
	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, 0, s.CurrentIndex())
	assert.Equal(t, "A", s.Current().Title)
}

func TestStore_LoadDropsStaleSelection(t *testing.T) {
	repo := &MockPersistence{}
	s := newStore(t, repo)
	seed(t, s, "A", "B", "C")
	require.NoError(t, s.Select(2))

	repo.notes = []core.Note{{ID: "only", Title: "only"}}
	require.NoError(t, s.Load(context.Background()))

	assert.Equal(t, -1, s.CurrentIndex())
	assert.Equal(t, core.BlankNote(), s.Current())
}

func TestStore_EditCurrent(t *testing.T) {
	t.Run("Draft Without Selection", func(t *testing.T) {
		s := newStore(t, &MockPersistence{})
		s.AddNote()
		require.NoError(t, s.EditCurrent("t", "c"))

		assert.Equal(t, 0, s.Len())
		assert.Equal(t, "t", s.Current().Title)
		assert.True(t, s.IsNew())
	})

	t.Run("Auto Create On First Edit", func(t *testing.T) {
		s := newStore(t, &MockPersistence{}, core.WithAutoCreate(true))
		s.AddNote()
		require.NoError(t, s.EditCurrent("", ""))
		assert.Equal(t, 0, s.Len())

		require.NoError(t, s.EditCurrent("h", ""))
		assert.Equal(t, 1, s.Len())
		assert.Equal(t, 0, s.CurrentIndex())

		require.NoError(t, s.EditCurrent("hello", "world"))
		assert.Equal(t, 1, s.Len())
		assert.Equal(t, "hello", s.Notes()[0].Title)
		assert.Equal(t, "world", s.Current().Content)
	})

	t.Run("Auto Create Waits For Valid Draft", func(t *testing.T) {
		s := newStore(t, &MockPersistence{}, core.WithAutoCreate(true), core.WithValidation(true))
		s.AddNote()
		require.NoError(t, s.EditCurrent("title only", ""))
		assert.Equal(t, 0, s.Len())

		require.NoError(t, s.EditCurrent("title only", "now content"))
		assert.Equal(t, 1, s.Len())
	})
}

func TestStore_Validation(t *testing.T) {
	s := newStore(t, &MockPersistence{}, core.WithValidation(true))
	s.AddNote()

	_, err := s.Submit()
	assert.ErrorIs(t, err, core.ErrInvalidNote)
	assert.Equal(t, 0, s.Len())

	long := make([]rune, core.MaxTitleLength+1)
	for i := range long {
		long[i] = 'x'
	}
	require.NoError(t, s.EditCurrent(string(long), "body"))
	_, err = s.Submit()
	assert.ErrorIs(t, err, core.ErrInvalidNote)

	require.NoError(t, s.EditCurrent("ok", "body"))
	_, err = s.Submit()
	require.NoError(t, err)

	_, err = s.Update(0, core.Note{Title: "  ", Content: "x"})
	assert.ErrorIs(t, err, core.ErrInvalidNote)
}

func TestStore_Events(t *testing.T) {
	s := newStore(t, &MockPersistence{})
	var got []core.EventType
	unsubscribe := s.Subscribe(func(e core.Event) {
		got = append(got, e.Type)
	})

	s.AddNote()
	require.NoError(t, s.EditCurrent("a", "b"))
	_, err := s.Submit()
	require.NoError(t, err)
	_, err = s.Update(0, core.Note{Title: "c"})
	require.NoError(t, err)
	require.NoError(t, s.Select(0))
	require.NoError(t, s.Delete(0))
	require.NoError(t, s.Load(context.Background()))

	unsubscribe()
	s.AddNote()

	assert.Equal(t, []core.EventType{
		core.EventReset,
		core.EventDraft,
		core.EventAdded,
		core.EventUpdated,
		core.EventSelected,
		core.EventDeleted,
		core.EventLoaded,
	}, got)
}

func TestStore_ListenerMayReadStore(t *testing.T) {
	s := newStore(t, &MockPersistence{})
	var lengths []int
	s.Subscribe(func(e core.Event) {
		lengths = append(lengths, s.Len())
	})

	seed(t, s, "A")
	assert.Equal(t, []int{0, 0, 1}, lengths)
}

func TestStore_NotesIsACopy(t *testing.T) {
	s := newStore(t, &MockPersistence{})
	seed(t, s, "A")

	notes := s.Notes()
	notes[0].Title = "mutated"

	assert.Equal(t, "A", s.Notes()[0].Title)
}

func TestSubject(t *testing.T) {
	short := "hello"
	assert.Equal(t, short, core.Subject(short))

	long := make([]rune, 150)
	for i := range long {
		long[i] = 'é'
	}
	assert.Len(t, []rune(core.Subject(string(long))), core.SubjectLength)
}

func TestStore_LoadAnnouncesMintedIDs(t *testing.T) {
	tests := []struct {
		name  string
		notes []core.Note
		want  []core.EventType
	}{
		{
			name:  "missing ids",
			notes: []core.Note{{Title: "A", Content: "a"}, {ID: "b", Title: "B", Content: "b"}},
			want:  []core.EventType{core.EventLoaded, core.EventIdentified},
		},
		{
			name:  "all ids present",
			notes: []core.Note{{ID: "a", Title: "A", Content: "a"}},
			want:  []core.EventType{core.EventLoaded},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t, &MockPersistence{notes: tt.notes})
			var got []core.EventType
			s.Subscribe(func(e core.Event) { got = append(got, e.Type) })

			require.NoError(t, s.Load(context.Background()))
			assert.Equal(t, tt.want, got)
			for _, n := range s.Notes() {
				assert.NotEmpty(t, n.ID)
			}
		})
	}
	assert.True(t, core.EventIdentified.Mutates())
}
