package game

import (
	"github.com/lox/pokerbirds/poker"
)

// HandRecord is the log of a single hand, kept with the session while the
// hand is in progress and returned in Outcome.Completed once it ends.
type HandRecord struct {
	Number     int   `json:"number"`
	Dealer     int   `json:"dealer"`
	SmallBlind int64 `json:"smallBlind"`
	BigBlind   int64 `json:"bigBlind"`
	// Seats lists the participating seat IDs; the per-seat slices below
	// share its indexing.
	Seats           []int            `json:"seats"`
	StartingStacks  []int64          `json:"startingStacks"`
	Blinds          []int64          `json:"blinds"`
	HoleCards       [][]poker.Card   `json:"holeCards"`
	Actions         []RecordedAction `json:"actions"`
	Board           []poker.Card     `json:"board,omitempty"`
	FinishingStacks []int64          `json:"finishingStacks,omitempty"`
	Winnings        []int64          `json:"winnings,omitempty"`
	Shown           []int            `json:"shown,omitempty"`
	Result          string           `json:"result,omitempty"`
	Aborted         bool             `json:"aborted,omitempty"`
}

// RecordedAction is one applied action.
type RecordedAction struct {
	Seat   int        `json:"seat"`
	Street Street     `json:"street"`
	Kind   ActionKind `json:"action"`
	// Amount is the player's round commitment after the action.
	Amount int64 `json:"amount"`
}

func (r *HandRecord) seatIndex(id int) int {
	for i, seat := range r.Seats {
		if seat == id {
			return i
		}
	}
	return -1
}

func (r *HandRecord) clone() *HandRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.Seats = append([]int(nil), r.Seats...)
	c.StartingStacks = append([]int64(nil), r.StartingStacks...)
	c.Blinds = append([]int64(nil), r.Blinds...)
	c.HoleCards = make([][]poker.Card, len(r.HoleCards))
	for i, h := range r.HoleCards {
		c.HoleCards[i] = append([]poker.Card(nil), h...)
	}
	c.Actions = append([]RecordedAction(nil), r.Actions...)
	c.Board = append([]poker.Card(nil), r.Board...)
	c.FinishingStacks = append([]int64(nil), r.FinishingStacks...)
	c.Winnings = append([]int64(nil), r.Winnings...)
	c.Shown = append([]int(nil), r.Shown...)
	return &c
}

func (s *Session) recordAction(p *Player, kind ActionKind) {
	if s.record == nil {
		return
	}
	s.record.Actions = append(s.record.Actions, RecordedAction{
		Seat:   p.ID,
		Street: s.street,
		Kind:   kind,
		Amount: p.PotCommitment,
	})
}

// finishRecord stamps the result and returns the completed record.
func (s *Session) finishRecord(winnings map[int]int64, shown []int) *HandRecord {
	r := s.record
	if r == nil {
		return nil
	}
	r.Board = append([]poker.Card(nil), s.board...)
	r.Result = s.message
	r.Shown = shown
	r.FinishingStacks = make([]int64, len(r.Seats))
	r.Winnings = make([]int64, len(r.Seats))
	for i, id := range r.Seats {
		r.FinishingStacks[i] = s.players[id-1].Stack
		r.Winnings[i] = winnings[id]
	}
	s.record = nil
	s.completed = append(s.completed, *r)
	return r
}
