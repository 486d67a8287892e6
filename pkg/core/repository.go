package core

import "context"

// Persistence defines the contract for storing and retrieving the note collection.
// Adhering to this interface keeps the store independent of the
// underlying storage mechanism (file, key-value, SQL, remote service).
type Persistence interface {
	// Load returns the persisted collection in order. An empty store is not an error.
	Load(ctx context.Context) ([]Note, error)

	// Save replaces the persisted collection with notes.
	Save(ctx context.Context, notes []Note) error
}

// Draft is the transient edit state kept beside the collection:
// the edit buffer, its selection and the new-note flag.
type Draft struct {
	Note  Note `json:"note"`
	Index int  `json:"index"`
	IsNew bool `json:"isNew"`
}

// Scratchpad is implemented by persistence that can also hold the draft.
type Scratchpad interface {
	LoadDraft(ctx context.Context) (Draft, error)
	SaveDraft(ctx context.Context, d Draft) error
}

// Initializer is implemented by persistence that needs setup before first use
// (create directories, schema migration).
type Initializer interface {
	Initialize(ctx context.Context) error
}

// ChangeType represents the kind of external change seen by a Watchable persistence.
type ChangeType string

const (
	ChangeCreate ChangeType = "CREATE"
	ChangeModify ChangeType = "MODIFY"
	ChangeDelete ChangeType = "DELETE"
)

// Change is emitted when the persisted collection changes outside the store.
type Change struct {
	Type      ChangeType
	Path      string
	Timestamp int64 // Unix timestamp
}

// Watchable is implemented by persistence that can observe external changes.
type Watchable interface {
	// Watch streams changes matching pattern until ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Change, error)
}

type contextKey string

// ChangeReasonKey is the context key for passing a change reason (commit message) to Save.
const ChangeReasonKey contextKey = "change_reason"
