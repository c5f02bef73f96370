package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

type BaseEvent struct {
	EventID     uuid.UUID `json:"eventId"`
	AggregateID string    `json:"aggregateId"`
	Version     int       `json:"version"` // Version of the session *after* this event is applied.
	Timestamp   time.Time `json:"timestamp"`
	Type        EventType `json:"type"`
}

type Event interface {
	GetBase() BaseEvent
}

func (e BaseEvent) GetBase() BaseEvent {
	return e
}

const (
	SessionStartedType   EventType = "SessionStarted"
	CoinsSetType         EventType = "CoinsSet"
	ModeSelectedType     EventType = "ModeSelected"
	PartiesSetType       EventType = "PartiesSet"
	OperandCommittedType EventType = "OperandCommitted"
)

func NewBaseEvent(aggregateID string, version int, eventType EventType) BaseEvent {
	return BaseEvent{
		EventID:     uuid.New(),
		AggregateID: aggregateID,
		Version:     version,
		Timestamp:   time.Now().UTC(),
		Type:        eventType,
	}
}
