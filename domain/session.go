package domain

import (
	"fmt"
	"log"

	"gold-splitter/events"
	"gold-splitter/shared"
)

// SessionState is everything a calculator session shows: the purse being worked
// on, the operand to add or remove, the active panel and the party count.
type SessionState struct {
	ID      string      `json:"id"`
	Purse   Amount      `json:"purse"`
	Operand Amount      `json:"operand"`
	Mode    shared.Mode `json:"mode"`
	Parties int64       `json:"parties"`
	Version int         `json:"version"`
}

// Result is the purse combined with the operand under the current mode.
// In divide mode the purse is returned unchanged.
func (s SessionState) Result() Amount {
	switch s.Mode {
	case shared.ModeAdd:
		return s.Purse.Add(s.Operand)
	case shared.ModeSubtract:
		return s.Purse.Subtract(s.Operand)
	}
	return s.Purse
}

// Reduce folds one event into state and returns the new state. It does not
// modify its input.
func Reduce(state SessionState, event events.Event) (SessionState, error) {
	base := event.GetBase()

	if base.Version != state.Version+1 {
		return state, fmt.Errorf("reduce failed: event version mismatch for session %s: expected %d, got %d for event %T (%s)",
			state.ID, state.Version+1, base.Version, event, base.EventID)
	}

	next := state
	switch e := event.(type) {
	case events.SessionStartedEvent:
		next = SessionState{ID: e.AggregateID, Mode: e.Mode, Parties: e.Parties}
	case events.CoinsSetEvent:
		var err error
		switch e.Target {
		case shared.TargetPurse:
			next.Purse, err = state.Purse.WithCount(e.Denomination, e.Count)
		case shared.TargetOperand:
			next.Operand, err = state.Operand.WithCount(e.Denomination, e.Count)
		default:
			err = fmt.Errorf("unknown target %q", e.Target)
		}
		if err != nil {
			return state, fmt.Errorf("reduce failed for %T (v%d): %w", event, base.Version, err)
		}
	case events.ModeSelectedEvent:
		next.Mode = e.Mode
	case events.PartiesSetEvent:
		next.Parties = e.Parties
	case events.OperandCommittedEvent:
		next.Purse = NewAmount(e.Platinum, e.Gold, e.Silver, e.Copper)
		next.Operand = Amount{}
	default:
		return state, fmt.Errorf("reduce failed: unknown event type %T for session %s", event, state.ID)
	}

	next.Version = base.Version
	return next, nil
}

// Session is the aggregate for one calculator session. Handlers validate a
// request, record the resulting event and fold it into State.
type Session struct {
	State SessionState

	changes []events.Event
}

func NewSession(id string) *Session {
	return &Session{
		State:   SessionState{ID: id},
		changes: make([]events.Event, 0),
	}
}

func (s *Session) GetUncommittedChanges() []events.Event {
	uncommitted := s.changes
	s.changes = make([]events.Event, 0)
	return uncommitted
}

func (s *Session) handleChange(event events.Event) error {
	if err := s.ApplyEvent(event); err != nil {
		log.Printf("ERROR: Internal apply failed for event %T on session %s: %v", event, s.State.ID, err)
		return fmt.Errorf("internal error applying event %T: %w", event, err)
	}
	s.changes = append(s.changes, event)
	return nil
}

func (s *Session) started() bool {
	return s.State.ID != "" && s.State.Version > 0
}

// --- Command Handlers ---

func (s *Session) HandleStart(id string, parties int64) error {
	if s.State.Version > 0 {
		return fmt.Errorf("%w: session %s (current version %d)", ErrSessionExists, s.State.ID, s.State.Version)
	}
	if id == "" {
		return NewDomainError("session ID cannot be empty")
	}

	event := events.SessionStartedEvent{
		BaseEvent: events.NewBaseEvent(id, s.State.Version+1, events.SessionStartedType),
		Mode:      shared.ModeDivide,
		Parties:   parties,
	}
	return s.handleChange(event)
}

func (s *Session) HandleSetCoins(target shared.Target, denomination shared.Denomination, count int64) error {
	if !s.started() {
		return NewDomainError("cannot set coins on a session that has not been started")
	}
	if target != shared.TargetPurse && target != shared.TargetOperand {
		return NewDomainError("unknown target %q", target)
	}
	if !denomination.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownDenomination, denomination)
	}

	event := events.CoinsSetEvent{
		BaseEvent:    events.NewBaseEvent(s.State.ID, s.State.Version+1, events.CoinsSetType),
		Target:       target,
		Denomination: denomination,
		Count:        count,
	}
	return s.handleChange(event)
}

func (s *Session) HandleSelectMode(mode shared.Mode) error {
	if !s.started() {
		return NewDomainError("cannot select a mode on a session that has not been started")
	}
	if !mode.IsValid() {
		return NewDomainError("unknown mode %q", mode)
	}

	event := events.ModeSelectedEvent{
		BaseEvent: events.NewBaseEvent(s.State.ID, s.State.Version+1, events.ModeSelectedType),
		Mode:      mode,
	}
	return s.handleChange(event)
}

func (s *Session) HandleSetParties(parties int64) error {
	if !s.started() {
		return NewDomainError("cannot set parties on a session that has not been started")
	}

	event := events.PartiesSetEvent{
		BaseEvent: events.NewBaseEvent(s.State.ID, s.State.Version+1, events.PartiesSetType),
		Parties:   parties,
	}
	return s.handleChange(event)
}

// HandleCommit replaces the purse with the add/remove result and clears the operand.
func (s *Session) HandleCommit() error {
	if !s.started() {
		return NewDomainError("cannot commit on a session that has not been started")
	}
	if s.State.Mode == shared.ModeDivide {
		return fmt.Errorf("%w: session %s is in %s mode", ErrNothingToCommit, s.State.ID, s.State.Mode)
	}

	result := s.State.Result()
	event := events.OperandCommittedEvent{
		BaseEvent: events.NewBaseEvent(s.State.ID, s.State.Version+1, events.OperandCommittedType),
		Mode:      s.State.Mode,
		Platinum:  result.Platinum,
		Gold:      result.Gold,
		Silver:    result.Silver,
		Copper:    result.Copper,
	}
	return s.handleChange(event)
}

func (s *Session) ApplyEvent(event events.Event) error {
	next, err := Reduce(s.State, event)
	if err != nil {
		return err
	}
	s.State = next
	return nil
}

func (s *Session) ApplyEvents(history []events.Event) error {
	for _, event := range history {
		if err := s.ApplyEvent(event); err != nil {
			base := event.GetBase()
			log.Printf("Error applying event during reconstruction: ID=%s, Type=%T, Version=%d, AggregateID=%s\n", base.EventID, event, base.Version, base.AggregateID)
			return fmt.Errorf("failed to apply event %s (%T) at version %d during reconstruction: %w", base.EventID, event, base.Version, err)
		}
	}
	return nil
}
