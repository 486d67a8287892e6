package main

import (
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jot"
	"github.com/aretw0/jot/pkg/core"
)

func TestResolve(t *testing.T) {
	nb, err := jot.New("", jot.WithAdapter("memory"))
	require.NoError(t, err)
	defer nb.Close(context.Background())
	require.Equal(t, 2, nb.Len())

	first, err := nb.Get(0)
	require.NoError(t, err)

	i, err := resolve(nb, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	i, err = resolve(nb, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	_, err = resolve(nb, "5")
	assert.ErrorIs(t, err, core.ErrIndexOutOfRange)

	_, err = resolve(nb, "no-such-id")
	assert.ErrorIs(t, err, core.ErrNoteNotFound)
}

func TestHighlight(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	assert.Equal(t, "Groceries list", highlight("Groceries list", []int{0, 1, 10}))
	assert.Equal(t, "", highlight("", nil))
}
