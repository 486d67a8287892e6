package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jot/pkg/core"
	"github.com/aretw0/jot/pkg/search"
)

var collection = []core.Note{
	{ID: "1", Title: "Groceries", Subject: "milk, eggs, bread"},
	{ID: "2", Title: "Meeting notes", Subject: "quarterly planning"},
	{ID: "3", Title: "Recipe: bread", Subject: "flour water salt"},
}

func TestFind(t *testing.T) {
	results := search.Find("bread", collection)

	require.Len(t, results, 2)
	indexes := []int{results[0].Index, results[1].Index}
	assert.ElementsMatch(t, []int{0, 2}, indexes)
	for _, r := range results {
		assert.Equal(t, collection[r.Index], r.Note)
		assert.NotEmpty(t, r.Matched)
	}
}

func TestFind_NoMatch(t *testing.T) {
	assert.Empty(t, search.Find("zzz", collection))
	assert.Empty(t, search.Find("", collection))
}

func TestMatchTitle(t *testing.T) {
	results, err := search.MatchTitle("Re*", collection)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Index)

	results, err = search.MatchTitle("*", collection)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestMatchTitle_Invalid(t *testing.T) {
	_, err := search.MatchTitle("[", collection)
	assert.Error(t, err)
}

func TestHaystack(t *testing.T) {
	assert.Equal(t, "t", search.Haystack(core.Note{Title: "t"}))
	assert.Equal(t, "t s", search.Haystack(core.Note{Title: "t", Subject: "s"}))
}
