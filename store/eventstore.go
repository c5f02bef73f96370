package store

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"gold-splitter/events"
)

var ErrOptimisticLock = errors.New("optimistic lock error: version conflict")

type EventStore interface {
	SaveEvents(sessionID string, expectedVersion int, eventsToSave []events.Event) error

	GetEvents(sessionID string) ([]events.Event, error)

	GetEventsAfterVersion(sessionID string, version int) ([]events.Event, error)

	SessionIDs() []string
}

type InMemoryEventStore struct {
	sync.RWMutex
	streams map[string][]events.Event
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		streams: make(map[string][]events.Event),
	}
}

func (s *InMemoryEventStore) SaveEvents(sessionID string, expectedVersion int, newEvents []events.Event) error {
	s.Lock()
	defer s.Unlock()

	if len(newEvents) == 0 {
		log.Printf("Warning: SaveEvents called with zero events for session %s", sessionID)
		return nil
	}

	stream := s.streams[sessionID]
	currentVersion := 0
	if len(stream) > 0 {
		currentVersion = stream[len(stream)-1].GetBase().Version
	}

	if currentVersion != expectedVersion {
		return fmt.Errorf("%w: expected version %d, but current version is %d for session %s",
			ErrOptimisticLock, expectedVersion, currentVersion, sessionID)
	}

	nextVersion := expectedVersion
	for _, event := range newEvents {
		base := event.GetBase()
		nextVersion++
		if base.Version != nextVersion {
			return fmt.Errorf("event sequence error for session %s: expected version %d for event %T (%s), but got %d",
				sessionID, nextVersion, event, base.EventID, base.Version)
		}
		if base.AggregateID != sessionID {
			return fmt.Errorf("event session ID mismatch: stream is for %s, but event %T (%s) has ID %s",
				sessionID, event, base.EventID, base.AggregateID)
		}
	}

	s.streams[sessionID] = append(stream, newEvents...)
	return nil
}

func (s *InMemoryEventStore) GetEvents(sessionID string) ([]events.Event, error) {
	return s.GetEventsAfterVersion(sessionID, 0)
}

func (s *InMemoryEventStore) GetEventsAfterVersion(sessionID string, version int) ([]events.Event, error) {
	s.RLock()
	defer s.RUnlock()

	stream := s.streams[sessionID]
	start := sort.Search(len(stream), func(i int) bool {
		return stream[i].GetBase().Version > version
	})
	if start == len(stream) {
		return []events.Event{}, nil
	}

	result := make([]events.Event, len(stream)-start)
	copy(result, stream[start:])
	return result, nil
}

// SessionIDs lists every session with at least one stored event, sorted.
func (s *InMemoryEventStore) SessionIDs() []string {
	s.RLock()
	defer s.RUnlock()

	ids := make([]string, 0, len(s.streams))
	for id, stream := range s.streams {
		if len(stream) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// ReplaceStream swaps the stored stream for sessionID, or deletes it when stream is nil.
// Tests use it to prune history behind a snapshot.
func (s *InMemoryEventStore) ReplaceStream(sessionID string, stream []events.Event) {
	s.Lock()
	defer s.Unlock()
	if stream == nil {
		delete(s.streams, sessionID)
		return
	}
	streamCopy := make([]events.Event, len(stream))
	copy(streamCopy, stream)
	s.streams[sessionID] = streamCopy
}
