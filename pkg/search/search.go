// Package search finds notes by fuzzy query or title glob.
package search

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sahilm/fuzzy"

	"github.com/aretw0/jot/pkg/core"
)

// Result is a matched note and its position in the collection.
type Result struct {
	Index int
	Note  core.Note
	Score int
	// Matched holds byte offsets into Haystack(Note) that matched the query.
	Matched []int
}

// Haystack is the text a note is searched by: its title and subject.
func Haystack(n core.Note) string {
	if n.Subject == "" {
		return n.Title
	}
	return n.Title + " " + n.Subject
}

type notes []core.Note

func (ns notes) String(i int) string { return Haystack(ns[i]) }
func (ns notes) Len() int            { return len(ns) }

// Find ranks notes against query, best match first. An empty query matches nothing.
func Find(query string, collection []core.Note) []Result {
	matches := fuzzy.FindFrom(query, notes(collection))
	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Index:   m.Index,
			Note:    collection[m.Index],
			Score:   m.Score,
			Matched: m.MatchedIndexes,
		}
	}
	return results
}

// MatchTitle returns the notes whose title matches the doublestar pattern, in collection order.
func MatchTitle(pattern string, collection []core.Note) ([]Result, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	var results []Result
	for i, n := range collection {
		ok, err := doublestar.Match(pattern, n.Title)
		if err != nil {
			return nil, err
		}
		if ok {
			results = append(results, Result{Index: i, Note: n})
		}
	}
	return results, nil
}
