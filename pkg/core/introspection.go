package core

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Notes           int    `json:"notes"`
	CurrentIndex    int    `json:"current_index"`
	IsNew           bool   `json:"is_new"`
	Listeners       int    `json:"listeners"`
	PersistenceType string `json:"persistence_type"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	notes, idx, isNew := len(s.notes), s.currentIndex, s.isNew
	s.mu.RUnlock()

	s.lmu.RLock()
	listeners := len(s.listeners)
	s.lmu.RUnlock()

	repoType := "unknown"
	if s.repo != nil {
		repoType = "persistence"
		if comp, ok := s.repo.(introspection.Component); ok {
			repoType = comp.ComponentType()
		}
	}

	return StoreState{
		Notes:           notes,
		CurrentIndex:    idx,
		IsNew:           isNew,
		Listeners:       listeners,
		PersistenceType: repoType,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
