package game

import (
	"fmt"
	"strings"

	"github.com/lox/pokerbirds/internal/money"
	"github.com/lox/pokerbirds/poker"
)

// HandResult summarises how the most recent hand was settled.
type HandResult struct {
	Number  int         `json:"number"`
	Winners []int       `json:"winners"`
	Pot     int64       `json:"pot"`
	Hand    string      `json:"hand,omitempty"`
	Shown   []ShownHand `json:"shown,omitempty"`
	Message string      `json:"message"`
}

// ShownHand is a hand revealed at showdown.
type ShownHand struct {
	Seat  int          `json:"seat"`
	Cards []poker.Card `json:"cards"`
	Hand  string       `json:"hand"`
}

// showdown evaluates every remaining hand and pays the best one. Exact ties
// split the pot, odd chips going to the tied seats closest to the dealer's left.
func (s *Session) showdown() error {
	var (
		best    poker.HandRank
		winners []*Player
		shown   []ShownHand
		seats   []int
	)
	n := len(s.players)
	for i := 1; i <= n; i++ {
		p := s.players[(s.dealer+i)%n]
		if !p.InGame {
			continue
		}
		rank, err := poker.Evaluate(p.Cards, s.board)
		if err != nil {
			return s.abort(fmt.Sprintf("evaluate %s", p.Name()), err)
		}
		p.ShowdownRank = rank
		shown = append(shown, ShownHand{Seat: p.ID, Cards: append([]poker.Card(nil), p.Cards...), Hand: rank.String()})
		seats = append(seats, p.ID)

		switch c := poker.CompareHands(rank, best); {
		case len(winners) == 0 || c > 0:
			best, winners = rank, []*Player{p}
		case c == 0:
			winners = append(winners, p)
		}
	}

	pot := s.pot
	winnings := s.payOut(winners)
	hand := poker.RankToHandStr(best)
	if len(winners) == 1 {
		s.message = fmt.Sprintf("%s won with a %s", winners[0].Name(), hand)
	} else {
		s.message = fmt.Sprintf("Players %s split the pot with a %s", joinSeats(winners), hand)
	}

	s.lastResult = &HandResult{
		Number:  s.handNumber,
		Winners: seatIDs(winners),
		Pot:     pot,
		Hand:    hand,
		Shown:   shown,
		Message: s.message,
	}
	s.logger.Info("showdown", "hand", s.handNumber, "winners", seatIDs(winners), "hand_type", hand, "pot", pot)
	s.finishRecord(winnings, seats)
	return nil
}

// awardUncontested gives the pot to the last player standing.
func (s *Session) awardUncontested() {
	var winner *Player
	for _, p := range s.players {
		if p.InGame {
			winner = p
			break
		}
	}
	if winner == nil {
		return
	}
	pot := s.pot
	winnings := s.payOut([]*Player{winner})
	s.message = fmt.Sprintf("%s won the pot of %s", winner.Name(), money.FormatCents(pot))
	s.lastResult = &HandResult{
		Number:  s.handNumber,
		Winners: []int{winner.ID},
		Pot:     pot,
		Message: s.message,
	}
	s.logger.Info("pot awarded", "hand", s.handNumber, "winner", winner.ID, "pot", pot)
	s.finishRecord(winnings, nil)
}

// payOut divides the pot between winners, which must be ordered clockwise
// from the dealer's left.
func (s *Session) payOut(winners []*Player) map[int]int64 {
	won := make(map[int]int64, len(winners))
	if len(winners) == 0 {
		return won
	}
	share := s.pot / int64(len(winners))
	odd := s.pot % int64(len(winners))
	for i, p := range winners {
		amount := share
		if int64(i) < odd {
			amount++
		}
		p.Stack += amount
		won[p.ID] = amount
	}
	s.pot = 0
	for _, p := range s.players {
		p.PotCommitment = 0
		p.HandCommitment = 0
	}
	return won
}

// nextHand deals the following hand, or ends the game when fewer than two
// players have chips left.
func (s *Session) nextHand() error {
	funded := 0
	var last *Player
	for _, p := range s.players {
		if p.Stack > 0 {
			funded++
			last = p
		}
	}
	if funded < 2 {
		s.clearHand()
		s.underway = false
		if last != nil {
			s.message = fmt.Sprintf("%s. %s wins the game", s.message, last.Name())
		}
		s.logger.Info("game over", "hands", s.handNumber)
		return nil
	}
	return s.beginHand(s.nextSeat(s.dealer, hasChips))
}

// abort cancels the hand in progress after an invariant violation: every
// player gets back what they committed this hand and the session refuses
// further actions until it is reset.
func (s *Session) abort(reason string, cause error) error {
	for _, p := range s.players {
		p.Stack += p.HandCommitment
		p.HandCommitment = 0
		p.PotCommitment = 0
	}
	s.pot = 0
	s.corrupted = true
	s.underway = false
	s.message = fmt.Sprintf("Hand %d aborted: %s", s.handNumber, reason)
	if s.record != nil {
		s.record.Aborted = true
		s.finishRecord(nil, nil)
	}
	s.logger.Error("hand aborted", "hand", s.handNumber, "reason", reason, "error", cause)
	return &InvariantError{Hand: s.handNumber, Reason: reason, Err: cause}
}

// checkConservation verifies that no chips were created or destroyed.
func (s *Session) checkConservation() error {
	var total int64
	for _, p := range s.players {
		if p.Stack < 0 {
			return s.abort(fmt.Sprintf("%s has a negative stack", p.Name()), nil)
		}
		total += p.Stack
	}
	if total+s.pot != s.chipTotal {
		return s.abort(fmt.Sprintf("chip total %d does not match %d", total+s.pot, s.chipTotal), nil)
	}
	return nil
}

func seatIDs(players []*Player) []int {
	ids := make([]int, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return ids
}

func joinSeats(players []*Player) string {
	parts := make([]string, len(players))
	for i, p := range players {
		parts[i] = fmt.Sprint(p.ID)
	}
	if len(parts) <= 2 {
		return strings.Join(parts, " and ")
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
}
