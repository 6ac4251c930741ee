package game

import (
	"fmt"
	"strings"
)

// ActionKind is a player decision.
type ActionKind string

const (
	ActionCall  ActionKind = "call"
	ActionRaise ActionKind = "raise"
	ActionFold  ActionKind = "fold"
	ActionCheck ActionKind = "check"
)

// ActionKinds lists every valid action in display order.
var ActionKinds = []ActionKind{ActionCheck, ActionCall, ActionRaise, ActionFold}

// ParseActionKind converts user input into an ActionKind.
func ParseActionKind(s string) (ActionKind, error) {
	k := ActionKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case ActionCall, ActionRaise, ActionFold, ActionCheck:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// ActionRequest is a single action submitted for a seat.
type ActionRequest struct {
	Seat int        `json:"seat"`
	Kind ActionKind `json:"action"`
	// Amount is the total commitment for the round the player raises to.
	// It is ignored for other actions.
	Amount int64 `json:"amount,omitempty"`
	// Seq is an optional client sequence number. A request whose Seq is not
	// greater than the last applied one is treated as a replay.
	Seq uint64 `json:"seq,omitempty"`
}

// validate checks the request against the current state without mutating it.
func (s *Session) validate(p *Player, req ActionRequest) error {
	switch req.Kind {
	case ActionCheck:
		if !s.allowCheck || p.Owes(s.previousBet) > 0 {
			return ErrCheckNotAllowed
		}
	case ActionCall:
		if p.Owes(s.previousBet) == 0 {
			return ErrNothingToCall
		}
	case ActionFold:
	case ActionRaise:
		return s.validateRaise(p, req.Amount)
	default:
		return ErrUnknownAction
	}
	return nil
}

func (s *Session) validateRaise(p *Player, target int64) error {
	if target <= s.previousBet {
		return ErrRaiseTooSmall
	}
	delta := target - p.PotCommitment
	if delta > p.Stack {
		return ErrInsufficientStack
	}
	allIn := delta == p.Stack
	if target < s.previousBet+s.minRaise && !allIn {
		return ErrRaiseTooSmall
	}
	if p.RaiseLocked {
		return ErrActionNotReopened
	}
	if !s.opponentCanAct(p) {
		return ErrNoActiveOpponent
	}
	return nil
}

// opponentCanAct reports whether anyone other than p could respond to a raise.
func (s *Session) opponentCanAct(p *Player) bool {
	for _, o := range s.players {
		if o != p && o.CanAct() {
			return true
		}
	}
	return false
}

// apply performs a validated action.
func (s *Session) apply(p *Player, req ActionRequest) {
	switch req.Kind {
	case ActionCheck:
		p.State = Checked
	case ActionCall:
		amount := min(p.Stack, p.Owes(s.previousBet))
		s.moveToPot(p, amount)
		p.State = Called
	case ActionFold:
		p.State = Folded
		p.InGame = false
		p.PotCommitment = 0
	case ActionRaise:
		s.raise(p, req.Amount)
	}
}

func (s *Session) raise(p *Player, target int64) {
	s.moveToPot(p, target-p.PotCommitment)
	p.State = Raised

	if target >= s.previousBet+s.minRaise {
		// Full raise reopens betting for everyone.
		s.minRaise = target - s.previousBet
		for _, o := range s.players {
			o.RaiseLocked = false
		}
	} else {
		// Short all-in: players who already matched the prior bet may not
		// re-raise. Anyone still facing an earlier bet keeps the option.
		for _, o := range s.players {
			if o != p && o.InGame && o.State.acted() && o.PotCommitment == s.previousBet {
				o.RaiseLocked = true
			}
		}
	}
	s.previousBet = target
	s.allowCheck = false
}

func (s *Session) moveToPot(p *Player, amount int64) {
	p.commit(amount)
	s.pot += amount
}
