package kv_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jot/pkg/adapters/kv"
	"github.com/aretw0/jot/pkg/core"
)

func TestStore_RoundTrip(t *testing.T) {
	s := kv.New(t.TempDir())
	ctx := context.Background()

	notes := []core.Note{
		{ID: "1", Title: "a", Content: "x", Date: "2024-01-01T00:00:00Z"},
		{ID: "2", Title: "b", Content: "y", Date: "2024-01-02T00:00:00Z"},
	}
	require.NoError(t, s.Save(ctx, notes))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, notes, got)
}

func TestStore_EmptyLoad(t *testing.T) {
	s := kv.New(filepath.Join(t.TempDir(), "not-yet"))

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)

	d, err := s.LoadDraft(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.Draft{Index: -1}, d)
}

func TestStore_DraftKeys(t *testing.T) {
	dir := t.TempDir()
	s := kv.New(dir)
	ctx := context.Background()

	want := core.Draft{Note: core.Note{Title: "wip"}, Index: 3, IsNew: false}
	require.NoError(t, s.SaveDraft(ctx, want))

	got, err := s.LoadDraft(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	for _, key := range []string{kv.KeyCurrentNote, kv.KeyCurrentIndex, kv.KeyIsNewNote} {
		_, err := os.Stat(filepath.Join(dir, key))
		assert.NoError(t, err, "expected a file per key: %s", key)
	}
	assert.ElementsMatch(t, []string{kv.KeyCurrentNote, kv.KeyCurrentIndex, kv.KeyIsNewNote}, s.Keys(ctx))
}

func TestStore_CorruptValue(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, kv.KeyNotes), []byte("not json"), 0644))

	_, err := kv.New(dir).Load(context.Background())
	assert.ErrorContains(t, err, "decode notes")
}

func TestStore_Clear(t *testing.T) {
	s := kv.New(t.TempDir())
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, []core.Note{{Title: "a"}}))

	require.NoError(t, s.Clear())

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
