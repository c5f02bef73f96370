package app

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"gold-splitter/domain"
	"gold-splitter/events"
	"gold-splitter/store"
)

const (
	DefaultSnapshotFrequency = 100
	DefaultParties           = 1
)

// SessionService is the application layer between callers (the CLI and REPL), the
// Session aggregate and the event and snapshot stores.
type SessionService struct {
	eventStore        store.EventStore
	snapshotStore     store.SnapshotStore
	snapshotFrequency int
}

func NewSessionService(es store.EventStore, ss store.SnapshotStore, snapshotFrequency int) *SessionService {
	if es == nil || ss == nil {
		log.Fatal("FATAL: EventStore and SnapshotStore must not be nil")
	}
	if snapshotFrequency <= 0 {
		snapshotFrequency = DefaultSnapshotFrequency
	}
	return &SessionService{
		eventStore:        es,
		snapshotStore:     ss,
		snapshotFrequency: snapshotFrequency,
	}
}

func (s *SessionService) SnapshotFrequency() int {
	return s.snapshotFrequency
}

// --- Command Handlers ---
// Each command loads the session, runs the matching handler on it, saves the
// new events and snapshots when the version crosses the configured frequency.

func (s *SessionService) StartSession(cmd StartSessionCommand) (string, error) {
	sessionID := cmd.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
		log.Printf("No SessionID provided, generated new ID: %s", sessionID)
	}
	parties := int64(DefaultParties)
	if cmd.Parties != nil {
		parties = *cmd.Parties
	}

	existing, err := s.loadSession(sessionID)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return "", fmt.Errorf("failed to check for existing session %s: %w", sessionID, err)
	}
	if existing != nil {
		log.Printf("Session start failed: Session %s already exists (version %d)", sessionID, existing.State.Version)
		return "", fmt.Errorf("%w: %s", domain.ErrSessionExists, sessionID)
	}

	session := domain.NewSession(sessionID)
	if err := session.HandleStart(sessionID, parties); err != nil {
		return "", fmt.Errorf("session start failed validation: %w", err)
	}

	if err := s.save(session, 0); err != nil {
		return "", err
	}
	log.Printf("Session %s started. Parties: %d", sessionID, parties)
	return sessionID, nil
}

func (s *SessionService) SetCoins(cmd SetCoinsCommand) error {
	return s.execute(cmd.SessionID, "set coins", func(session *domain.Session) error {
		return session.HandleSetCoins(cmd.Target, cmd.Denomination, cmd.Count)
	})
}

func (s *SessionService) SelectMode(cmd SelectModeCommand) error {
	return s.execute(cmd.SessionID, "select mode", func(session *domain.Session) error {
		return session.HandleSelectMode(cmd.Mode)
	})
}

func (s *SessionService) SetParties(cmd SetPartiesCommand) error {
	return s.execute(cmd.SessionID, "set parties", func(session *domain.Session) error {
		return session.HandleSetParties(cmd.Parties)
	})
}

func (s *SessionService) Commit(cmd CommitCommand) error {
	return s.execute(cmd.SessionID, "commit", func(session *domain.Session) error {
		return session.HandleCommit()
	})
}

func (s *SessionService) execute(sessionID, operation string, handle func(*domain.Session) error) error {
	session, err := s.loadSession(sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session %s for %s: %w", sessionID, operation, err)
	}

	initialVersion := session.State.Version
	if err := handle(session); err != nil {
		log.Printf("%s failed for session %s: %v", operation, sessionID, err)
		return fmt.Errorf("%s command failed for session %s: %w", operation, sessionID, err)
	}

	if err := s.save(session, initialVersion); err != nil {
		return err
	}
	log.Printf("%s successful for session %s. New Version: %d", operation, sessionID, session.State.Version)
	return nil
}

func (s *SessionService) save(session *domain.Session, expectedVersion int) error {
	changes := session.GetUncommittedChanges()
	if len(changes) == 0 {
		log.Printf("Command for session %s resulted in no state change (no events generated).", session.State.ID)
		return nil
	}

	if err := s.eventStore.SaveEvents(session.State.ID, expectedVersion, changes); err != nil {
		return fmt.Errorf("failed to save events for session %s: %w", session.State.ID, err)
	}
	s.saveSnapshotIfNeeded(session, expectedVersion)
	return nil
}

// --- Query Handlers ---

func (s *SessionService) GetView(query GetViewQuery) (*SessionView, error) {
	session, err := s.loadSession(query.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, fmt.Errorf("cannot get view: %w", err)
		}
		return nil, fmt.Errorf("failed to load session %s for view query: %w", query.SessionID, err)
	}
	return newSessionView(session.State)
}

func (s *SessionService) GetHistory(query GetHistoryQuery) ([]events.Event, error) {
	history, err := s.eventStore.GetEvents(query.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event history for session %s: %w", query.SessionID, err)
	}

	if len(history) == 0 {
		return nil, fmt.Errorf("%w: cannot get history: session %s not found", domain.ErrSessionNotFound, query.SessionID)
	}

	totalEvents := len(history)
	start := query.Skip
	if start < 0 {
		start = 0
	}
	if start >= totalEvents {
		return []events.Event{}, nil
	}

	end := start + query.Limit
	if query.Limit <= 0 || end > totalEvents {
		end = totalEvents
	}

	return history[start:end], nil
}

func (s *SessionService) ListSessions() []string {
	return s.eventStore.SessionIDs()
}

// --- Session Loading & Snapshotting ---

func (s *SessionService) loadSession(sessionID string) (*domain.Session, error) {
	var session *domain.Session
	snapshotVersion := 0

	snapshot, found, err := s.snapshotStore.GetLatestSnapshot(sessionID)
	if err != nil {
		log.Printf("Warning: Error loading snapshot for session %s: %v. Attempting full event replay.", sessionID, err)
		found = false
	}

	if found {
		session, err = domain.ApplySnapshot(snapshot)
		if err != nil {
			log.Printf("ERROR: Failed to apply snapshot version %d for session %s: %v. Rebuilding from all events.", snapshot.Version, sessionID, err)
			session = domain.NewSession(sessionID)
		} else {
			log.Printf("Loaded session %s from snapshot version %d", sessionID, session.State.Version)
			snapshotVersion = session.State.Version
		}
	} else {
		session = domain.NewSession(sessionID)
	}

	eventsToApply, err := s.eventStore.GetEventsAfterVersion(sessionID, snapshotVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to load events for session %s after version %d: %w", sessionID, snapshotVersion, err)
	}

	if len(eventsToApply) > 0 {
		if err := session.ApplyEvents(eventsToApply); err != nil {
			return nil, fmt.Errorf("critical error applying events to session %s after snapshot/initial load: %w", sessionID, err)
		}
	}

	if session.State.Version == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	return session, nil
}

// saveSnapshotIfNeeded snapshots when the save moved the session across a
// multiple of the snapshot frequency.
func (s *SessionService) saveSnapshotIfNeeded(session *domain.Session, previousVersion int) {
	version := session.State.Version
	if version/s.snapshotFrequency == previousVersion/s.snapshotFrequency {
		return
	}
	log.Printf("Snapshot condition met for session %s at version %d (Frequency: %d)", session.State.ID, version, s.snapshotFrequency)

	snapshot, err := domain.CreateSnapshot(session)
	if err != nil {
		log.Printf("ERROR: Failed to create snapshot for session %s at version %d: %v", session.State.ID, version, err)
		return
	}

	if err := s.snapshotStore.SaveSnapshot(snapshot); err != nil {
		log.Printf("ERROR: Failed to save snapshot for session %s at version %d: %v", session.State.ID, version, err)
	} else {
		log.Printf("Snapshot saved successfully for session %s at version %d", session.State.ID, version)
	}
}
