package platform_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jot/internal/platform"
	"github.com/aretw0/jot/pkg/adapters/memory"
	"github.com/aretw0/jot/pkg/core"
)

func openNotebook(t *testing.T, opts ...platform.Option) (*platform.Notebook, string) {
	t.Helper()
	dir := t.TempDir()

	baseOpts := []platform.Option{
		platform.WithAutoInit(true),
		platform.WithVersioning(false),
		platform.WithDebounce(10 * time.Millisecond),
	}
	nb, err := platform.New(dir, append(baseOpts, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = nb.Close(context.Background()) })
	return nb, dir
}

func TestNew_PersistsAcrossOpens(t *testing.T) {
	nb, dir := openNotebook(t)

	nb.AddNote()
	require.NoError(t, nb.EditCurrent("first", "hello"))
	_, err := nb.Submit()
	require.NoError(t, err)
	require.NoError(t, nb.Close(context.Background()))

	again, err := platform.New(dir, platform.WithVersioning(false))
	require.NoError(t, err)
	defer again.Close(context.Background())

	require.Equal(t, 1, again.Len())
	n, err := again.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "first", n.Title)
	assert.Equal(t, 0, again.CurrentIndex(), "selection restored from session")
}

func TestNew_LoadFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.json"), []byte("{broken"), 0644))

	_, err := platform.New(dir, platform.WithVersioning(false))
	assert.Error(t, err)
}

func TestNew_OptionsReachStore(t *testing.T) {
	nb, _ := openNotebook(t, platform.WithValidation(true), platform.WithAutoCreate(true))

	nb.AddNote()
	require.NoError(t, nb.EditCurrent("", ""))
	assert.Equal(t, 0, nb.Len(), "blank buffer stays a draft")

	require.NoError(t, nb.EditCurrent("auto", "created"))
	assert.Equal(t, 1, nb.Len())

	_, err := nb.Update(0, core.Note{Title: " ", Content: "x"})
	assert.ErrorIs(t, err, core.ErrInvalidNote)
}

func TestNotebook_Flush(t *testing.T) {
	backend := memory.New()
	nb, err := platform.New("", platform.WithPersistence(backend), platform.WithDebounce(time.Hour))
	require.NoError(t, err)
	defer nb.Close(context.Background())

	nb.AddNote()
	require.NoError(t, nb.EditCurrent("a", "b"))
	_, err = nb.Submit()
	require.NoError(t, err)
	assert.Equal(t, 0, backend.Saves())

	require.NoError(t, nb.Flush(context.Background()))
	assert.Equal(t, 1, backend.Saves())
}

func TestNotebook_CloseIsIdempotent(t *testing.T) {
	backend := memory.New()
	backend.FailSave(errors.New("offline"))
	nb, err := platform.New("", platform.WithPersistence(backend))
	require.NoError(t, err)

	nb.AddNote()
	_, err = nb.Submit()
	require.NoError(t, err)

	first := nb.Close(context.Background())
	assert.Error(t, first)
	assert.Equal(t, first, nb.Close(context.Background()))
}

func TestNotebook_WatchReloads(t *testing.T) {
	nb, dir := openNotebook(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := nb.Watch(ctx, "")
	require.NoError(t, err)

	external := `[{"id":"x1","title":"from elsewhere","content":"c","date":"2024-01-01T00:00:00Z"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.json"), []byte(external), 0644))

	select {
	case c := <-changes:
		assert.Equal(t, "notes.json", c.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("no change observed")
	}
	assert.Eventually(t, func() bool {
		n, _, err := nb.Find("x1")
		return err == nil && n.Title == "from elsewhere"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNotebook_WatchUnsupported(t *testing.T) {
	nb, err := platform.New("", platform.WithPersistence(memory.New()))
	require.NoError(t, err)
	defer nb.Close(context.Background())

	_, err = nb.Watch(context.Background(), "")
	assert.ErrorIs(t, err, core.ErrNotSupported)
}

func TestNotebook_State(t *testing.T) {
	nb, _ := openNotebook(t)

	state, ok := nb.State().(platform.NotebookState)
	require.True(t, ok)
	assert.NotNil(t, state.Store)
	assert.NotNil(t, state.Writer)
	assert.NotNil(t, state.Persistence)
	assert.Equal(t, "notebook", nb.ComponentType())
}
