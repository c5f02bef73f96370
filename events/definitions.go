package events

import (
	"gold-splitter/shared"
)

type SessionStartedEvent struct {
	BaseEvent
	Mode    shared.Mode `json:"mode"`
	Parties int64       `json:"parties"`
}

// CoinsSetEvent replaces the count of one denomination in the purse or the operand.
type CoinsSetEvent struct {
	BaseEvent
	Target       shared.Target       `json:"target"`
	Denomination shared.Denomination `json:"denomination"`
	Count        int64               `json:"count"`
}

type ModeSelectedEvent struct {
	BaseEvent
	Mode shared.Mode `json:"mode"`
}

type PartiesSetEvent struct {
	BaseEvent
	Parties int64 `json:"parties"`
}

// OperandCommittedEvent records the purse after the operand was added or removed.
// The counts are field-wise results and are not dispersed.
type OperandCommittedEvent struct {
	BaseEvent
	Mode     shared.Mode `json:"mode"`
	Platinum int64       `json:"platinum"`
	Gold     int64       `json:"gold"`
	Silver   int64       `json:"silver"`
	Copper   int64       `json:"copper"`
}
