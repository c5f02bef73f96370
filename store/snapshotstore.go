package store

import (
	"fmt"
	"log"
	"sync"
	"time"

	"gold-splitter/domain"
)

type SnapshotStore interface {
	SaveSnapshot(snapshot *domain.Snapshot) error

	GetLatestSnapshot(sessionID string) (snapshot *domain.Snapshot, found bool, err error)
}

type InMemorySnapshotStore struct {
	sync.RWMutex
	snapshots map[string]*domain.Snapshot
}

func NewInMemorySnapshotStore() *InMemorySnapshotStore {
	return &InMemorySnapshotStore{
		snapshots: make(map[string]*domain.Snapshot),
	}
}

// SaveSnapshot stores a copy of snapshot. A snapshot older than the one already
// held for the same session is ignored.
func (s *InMemorySnapshotStore) SaveSnapshot(snapshot *domain.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("cannot save nil snapshot")
	}
	s.Lock()
	defer s.Unlock()

	if existing, ok := s.snapshots[snapshot.AggregateID]; ok && existing.Version > snapshot.Version {
		log.Printf("Warning: Ignoring snapshot v%d for session %s, v%d is already stored",
			snapshot.Version, snapshot.AggregateID, existing.Version)
		return nil
	}

	stored := copySnapshot(snapshot)
	stored.Timestamp = time.Now().UTC()
	s.snapshots[snapshot.AggregateID] = stored
	return nil
}

func (s *InMemorySnapshotStore) GetLatestSnapshot(sessionID string) (*domain.Snapshot, bool, error) {
	s.RLock()
	defer s.RUnlock()

	snapshot, found := s.snapshots[sessionID]
	if !found {
		return nil, false, nil
	}
	return copySnapshot(snapshot), true, nil
}

func copySnapshot(snapshot *domain.Snapshot) *domain.Snapshot {
	stateCopy := make([]byte, len(snapshot.State))
	copy(stateCopy, snapshot.State)

	return &domain.Snapshot{
		AggregateID: snapshot.AggregateID,
		Version:     snapshot.Version,
		State:       stateCopy,
		Timestamp:   snapshot.Timestamp,
	}
}
