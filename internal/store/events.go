package store

import (
	"slices"

	"github.com/jainpranitx-spec/DevBrain/internal/models"
)

// EventKind names a node change observed by listeners.
type EventKind string

const (
	EventNodeAdded     EventKind = "node_added"
	EventNodeUpdated   EventKind = "node_updated"
	EventStatusChanged EventKind = "status_changed"
	EventNodeDeleted   EventKind = "node_deleted"
)

// Event describes a local node change. Node is the state after the change
// (the removed root for deletes); Previous is set for updates.
type Event struct {
	Kind     EventKind
	Node     models.Node
	Previous *models.Node
	Removed  []models.NodeID // every node removed by a cascade delete
}

// Subscribe registers fn to run after each local node change. Listeners
// run synchronously on the mutating goroutine and must not block.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) emit(ev Event) {
	s.mu.Lock()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(ev)
	}
}
