package app

import (
	"gold-splitter/shared"
)

// --- Command Struct Definitions ---
// Commands carry one user action against a calculator session.

// StartSessionCommand starts a session. A nil Parties uses DefaultParties;
// an explicit zero is kept and leaves the session without a split.
type StartSessionCommand struct {
	SessionID string
	Parties   *int64
}

type SetCoinsCommand struct {
	SessionID    string
	Target       shared.Target
	Denomination shared.Denomination
	Count        int64
}

type SelectModeCommand struct {
	SessionID string
	Mode      shared.Mode
}

type SetPartiesCommand struct {
	SessionID string
	Parties   int64
}

type CommitCommand struct {
	SessionID string
}

// --- Query Structures ---

type GetViewQuery struct {
	SessionID string
}

type GetHistoryQuery struct {
	SessionID string
	Limit     int
	Skip      int
}
