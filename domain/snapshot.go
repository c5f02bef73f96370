package domain

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gold-splitter/events"
	"gold-splitter/shared"
)

// Snapshot is the JSON-encoded SessionState of one session at Version.
type Snapshot struct {
	AggregateID string    `json:"aggregateId"`
	Version     int       `json:"version"`
	State       []byte    `json:"state"`
	Timestamp   time.Time `json:"timestamp"`
}

func CreateSnapshot(session *Session) (*Snapshot, error) {
	state := session.State
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session %s at version %d: %w", state.ID, state.Version, err)
	}

	return &Snapshot{
		AggregateID: state.ID,
		Version:     state.Version,
		State:       stateJSON,
		Timestamp:   time.Now().UTC(),
	}, nil
}

// ApplySnapshot rebuilds a session with no pending changes from snap. The
// snapshot's id and version win over whatever the encoded state says.
func ApplySnapshot(snap *Snapshot) (*Session, error) {
	var state SessionState
	if err := json.Unmarshal(snap.State, &state); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot of session %s at version %d: %w", snap.AggregateID, snap.Version, err)
	}

	if state.ID != snap.AggregateID || state.Version != snap.Version {
		log.Printf("Warning: Snapshot of %s (v%d) holds state %s (v%d). Using snapshot metadata.",
			snap.AggregateID, snap.Version, state.ID, state.Version)
		state.ID = snap.AggregateID
		state.Version = snap.Version
	}

	if !state.Mode.IsValid() {
		log.Printf("Warning: Snapshot of %s (v%d) has unknown mode %q. Falling back to %s.",
			snap.AggregateID, snap.Version, state.Mode, shared.ModeDivide)
		state.Mode = shared.ModeDivide
	}

	return &Session{State: state, changes: make([]events.Event, 0)}, nil
}
