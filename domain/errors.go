package domain

import "fmt"

type DomainError struct {
	message string
}

func NewDomainError(format string, args ...interface{}) *DomainError {
	return &DomainError{message: fmt.Sprintf(format, args...)}
}

func (e *DomainError) Error() string {
	return e.message
}

var (
	ErrDivisionByZero      = NewDomainError("division by zero")
	ErrUnknownDenomination = NewDomainError("unknown denomination")
	ErrSessionExists       = NewDomainError("session already exists")
	ErrSessionNotFound     = NewDomainError("session not found")
	ErrNothingToCommit     = NewDomainError("nothing to commit")
)
