package game

import (
	"fmt"

	"github.com/lox/pokerbirds/poker"
)

// Street is the betting round of a hand.
type Street uint8

const (
	Preflop Street = iota
	Flop
	Turn
	River
)

var streetNames = [...]string{"preflop", "flop", "turn", "river"}

func (s Street) String() string {
	if int(s) < len(streetNames) {
		return streetNames[s]
	}
	return "unknown"
}

// MarshalText encodes the street by name.
func (s Street) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a street name.
func (s *Street) UnmarshalText(text []byte) error {
	for i, name := range streetNames {
		if name == string(text) {
			*s = Street(i)
			return nil
		}
	}
	return fmt.Errorf("unknown street %q", text)
}

// cardsFor returns how many board cards are dealt when entering the street.
func (s Street) cardsFor() int {
	if s == Flop {
		return 3
	}
	return 1
}

// settle runs the round state machine until a player must act or the
// session stops. It deals streets, settles pots and starts the next hand.
func (s *Session) settle() error {
	for s.underway {
		if s.inGameCount() <= 1 {
			s.awardUncontested()
			if err := s.nextHand(); err != nil {
				return err
			}
			continue
		}
		if !s.roundComplete() {
			return nil
		}
		s.returnUncalled()
		if s.street == River {
			if err := s.showdown(); err != nil {
				return err
			}
			if err := s.nextHand(); err != nil {
				return err
			}
			continue
		}
		if err := s.dealStreet(s.street + 1); err != nil {
			return err
		}
	}
	return nil
}

// dealStreet deals the board cards for next and opens a fresh action round.
func (s *Session) dealStreet(next Street) error {
	cards, err := s.deck.Deal(next.cardsFor())
	if err != nil {
		return s.abort(fmt.Sprintf("deal %s", next), err)
	}
	s.board = append(s.board, cards...)
	s.street = next

	s.previousBet = 0
	s.minRaise = s.cfg.BigBlind
	s.allowCheck = true
	for _, p := range s.players {
		p.resetForRound()
	}
	if first := s.nextSeat(s.dealer, canAct); first >= 0 {
		s.turn = first
	}
	s.logger.Debug("dealt street", "hand", s.handNumber, "street", next, "board", poker.FormatCards(s.board))
	return nil
}

// returnUncalled gives back the part of the largest commitment that no
// other player in the hand matched.
func (s *Session) returnUncalled() {
	var top, second *Player
	for _, p := range s.players {
		if !p.InGame {
			continue
		}
		switch {
		case top == nil || p.PotCommitment > top.PotCommitment:
			top, second = p, top
		case second == nil || p.PotCommitment > second.PotCommitment:
			second = p
		}
	}
	if top == nil || second == nil {
		return
	}
	excess := top.PotCommitment - second.PotCommitment
	if excess <= 0 {
		return
	}
	top.Stack += excess
	top.PotCommitment -= excess
	top.HandCommitment -= excess
	s.pot -= excess
	if s.previousBet > top.PotCommitment {
		s.previousBet = top.PotCommitment
	}
}
