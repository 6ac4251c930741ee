package game

import (
	"errors"
	"fmt"
)

// Validation failures. These are always wrapped in an *ActionError and leave
// the session untouched.
var (
	ErrNotYourTurn       = errors.New("not your turn")
	ErrRaiseTooSmall     = errors.New("raise below minimum")
	ErrCheckNotAllowed   = errors.New("check not allowed")
	ErrNothingToCall     = errors.New("nothing to call")
	ErrInsufficientStack = errors.New("insufficient stack")
	ErrActionNotReopened = errors.New("betting was not reopened")
	ErrNoActiveOpponent  = errors.New("no opponent left to respond")
	ErrUnknownAction     = errors.New("unknown action")
	ErrUnknownSeat       = errors.New("unknown seat")
	ErrNoHandInProgress  = errors.New("no hand in progress")
)

// Session-level failures.
var (
	ErrHandInProgress   = errors.New("hand already in progress")
	ErrNotEnoughPlayers = errors.New("fewer than two players have chips")
	ErrSessionCorrupted = errors.New("session corrupted")
	ErrNotFound         = errors.New("game not found")
)

// ActionError describes a rejected player action.
type ActionError struct {
	Seat   int
	Kind   ActionKind
	Amount int64
	Err    error
}

func (e *ActionError) Error() string {
	if e.Kind == ActionRaise {
		return fmt.Sprintf("player %d cannot raise to %d: %v", e.Seat, e.Amount, e.Err)
	}
	return fmt.Sprintf("player %d cannot %s: %v", e.Seat, e.Kind, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a rejected action rather than a
// storage or invariant failure.
func IsValidation(err error) bool {
	var ae *ActionError
	return errors.As(err, &ae)
}

// InvariantError reports an internal inconsistency such as chip drift or an
// exhausted deck. The hand in progress is aborted when one occurs.
type InvariantError struct {
	Hand   int
	Reason string
	Err    error
}

func (e *InvariantError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("hand %d aborted: %s: %v", e.Hand, e.Reason, e.Err)
	}
	return fmt.Sprintf("hand %d aborted: %s", e.Hand, e.Reason)
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}
