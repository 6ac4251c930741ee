package game

import (
	"fmt"

	"github.com/lox/pokerbirds/poker"
)

// ActionState is the most recent thing a player did in the current action round.
type ActionState uint8

const (
	NoAction ActionState = iota
	PostedSmallBlind
	PostedBigBlind
	Called
	Raised
	Checked
	Folded
)

var actionStateNames = [...]string{"none", "small_blind", "big_blind", "call", "raise", "check", "fold"}

func (s ActionState) String() string {
	if int(s) < len(actionStateNames) {
		return actionStateNames[s]
	}
	return "unknown"
}

// MarshalText encodes the state by name.
func (s ActionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *ActionState) UnmarshalText(text []byte) error {
	for i, name := range actionStateNames {
		if name == string(text) {
			*s = ActionState(i)
			return nil
		}
	}
	return fmt.Errorf("unknown action state %q", text)
}

// acted reports whether the state counts as a voluntary action this round.
func (s ActionState) acted() bool {
	return s == Called || s == Raised || s == Checked
}

// Player is one seat at the table.
type Player struct {
	// ID is the 1-based seat number shown as "Player N".
	ID    int          `json:"id"`
	Stack int64        `json:"stack"`
	Cards []poker.Card `json:"cards,omitempty"`
	State ActionState  `json:"state"`
	// PotCommitment is what the player has put in during the current action round.
	PotCommitment int64 `json:"potCommitment"`
	// HandCommitment is what the player has put in during the whole hand.
	HandCommitment int64 `json:"handCommitment"`
	InGame         bool  `json:"inGame"`
	// ShowdownRank is set only for players evaluated at showdown.
	ShowdownRank poker.HandRank `json:"showdownRank,omitempty"`
	// RaiseLocked is set when a short all-in did not reopen betting for a
	// player who had already acted; they may only call or fold.
	RaiseLocked bool `json:"raiseLocked,omitempty"`
}

// Name returns the display name for the seat.
func (p *Player) Name() string {
	return fmt.Sprintf("Player %d", p.ID)
}

// AllIn reports whether the player is still in the hand with no chips behind.
func (p *Player) AllIn() bool {
	return p.InGame && p.Stack == 0
}

// CanAct reports whether the player can still take actions this hand.
func (p *Player) CanAct() bool {
	return p.InGame && p.Stack > 0
}

// Owes returns the amount needed to match the current bet.
func (p *Player) Owes(previousBet int64) int64 {
	if d := previousBet - p.PotCommitment; d > 0 {
		return d
	}
	return 0
}

// commit moves amount from the stack into the pot accounting fields.
func (p *Player) commit(amount int64) {
	p.Stack -= amount
	p.PotCommitment += amount
	p.HandCommitment += amount
}

// resetForHand clears all per-hand state. Players without chips sit out.
func (p *Player) resetForHand() {
	p.Cards = nil
	p.State = NoAction
	p.PotCommitment = 0
	p.HandCommitment = 0
	p.InGame = p.Stack > 0
	p.ShowdownRank = 0
	p.RaiseLocked = false
}

// resetForRound clears per-round state at the start of a new street.
func (p *Player) resetForRound() {
	p.PotCommitment = 0
	p.RaiseLocked = false
	if p.InGame {
		p.State = NoAction
	}
}

func (p *Player) clone() *Player {
	c := *p
	c.Cards = append([]poker.Card(nil), p.Cards...)
	return &c
}
