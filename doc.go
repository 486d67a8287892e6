// Package jot is the Composition Root for the jot note store.
//
// It connects the note store (Domain Layer) with the persistence adapters
// (Persistence Layer) using the Hexagonal Architecture pattern.
//
// Model:
//
// A Notebook holds an ordered collection of notes plus one edit buffer.
// The buffer is either linked to a note of the collection (a selection)
// or is an unsaved new note. Every change to the collection is written
// back by a debounced writer: a burst of edits results in a single save
// of the final state once the notebook has been quiet for the configured
// interval. Saves are fire-and-forget; failures are logged, not retried.
//
// Features:
//
//   - **Hexagonal Architecture**: the store knows only the core.Persistence port.
//   - **Debounced Persistence**: N changes in one quiet interval cost one write.
//   - **Adapters**: filesystem (JSON/YAML + optional Git), diskv key-value, SQLite, in-memory.
//   - **Session Restore**: the edit buffer and selection survive restarts.
//   - **Watch**: external edits of the notes file reload the notebook.
//
// Usage:
//
//	nb, err := jot.New("./notes",
//		jot.WithAutoInit(true),
//		jot.WithLogger(logger),
//	)
//	defer nb.Close(ctx)
//
//	nb.AddNote()
//	_ = nb.EditCurrent("Groceries", "milk, eggs")
//	_, err = nb.Submit()
package jot
