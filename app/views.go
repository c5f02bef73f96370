package app

import (
	"errors"

	"gold-splitter/domain"
	"gold-splitter/shared"
)

// SplitView is the divide panel: what each party gets and what is left over.
type SplitView struct {
	Parties         int64         `json:"parties"`
	Share           domain.Amount `json:"share"`
	RemainderCopper int64         `json:"remainderCopper"`
	Remainder       domain.Amount `json:"remainder"`
}

// SessionView is everything a front end needs to draw a calculator session.
type SessionView struct {
	SessionID string      `json:"sessionId"`
	Version   int         `json:"version"`
	Mode      shared.Mode `json:"mode"`

	Purse       domain.Amount `json:"purse"`
	PurseTotals domain.Totals `json:"purseTotals"`
	Dispersed   domain.Amount `json:"dispersed"`

	// Split is nil outside divide mode or when there are zero parties.
	Split *SplitView `json:"split,omitempty"`

	Operand       domain.Amount `json:"operand"`
	OperandTotals domain.Totals `json:"operandTotals"`
	// Result is the dispersed purse after adding or removing the operand.
	Result domain.Amount `json:"result"`
}

// BuildSplit divides purse among parties and disperses the remainder.
func BuildSplit(purse domain.Amount, parties int64) (*SplitView, error) {
	share, remainder, err := purse.DivideWithRemainder(parties)
	if err != nil {
		return nil, err
	}
	return &SplitView{
		Parties:         parties,
		Share:           share,
		RemainderCopper: remainder,
		Remainder:       domain.FromBaseUnits(remainder),
	}, nil
}

func newSessionView(state domain.SessionState) (*SessionView, error) {
	view := &SessionView{
		SessionID:     state.ID,
		Version:       state.Version,
		Mode:          state.Mode,
		Purse:         state.Purse,
		PurseTotals:   state.Purse.Totals(),
		Dispersed:     state.Purse.Disperse(),
		Operand:       state.Operand,
		OperandTotals: state.Operand.Totals(),
		Result:        state.Result().Disperse(),
	}

	if state.Mode == shared.ModeDivide {
		split, err := BuildSplit(state.Purse, state.Parties)
		if err != nil && !errors.Is(err, domain.ErrDivisionByZero) {
			return nil, err
		}
		view.Split = split
	}
	return view, nil
}
