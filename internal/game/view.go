package game

import (
	"github.com/lox/pokerbirds/poker"
)

// PublicView is the table as a given viewer may see it. Hole cards are only
// included for the viewing seat; revealed hands appear in LastResult.
type PublicView struct {
	GameUnderway bool         `json:"gameUnderway"`
	Corrupted    bool         `json:"corrupted,omitempty"`
	HandNumber   int          `json:"handNumber"`
	Street       Street       `json:"street"`
	Board        []poker.Card `json:"board"`
	Pot          int64        `json:"pot"`
	PreviousBet  int64        `json:"previousBet"`
	MinRaise     int64        `json:"minRaise"`
	SmallBlind   int64        `json:"smallBlind"`
	BigBlind     int64        `json:"bigBlind"`
	BuyIn        int64        `json:"buyIn"`
	Dealer       int          `json:"dealer,omitempty"`
	Turn         int          `json:"turn,omitempty"`
	AllowCheck   bool         `json:"allowCheck"`
	Message      string       `json:"message"`
	DeckColor    string       `json:"deckColor"`
	ActionSeq    uint64       `json:"actionSeq"`
	Players      []PlayerView `json:"players"`
	// Options describes what the seat to act may do.
	Options    *ActionOptions `json:"options,omitempty"`
	LastResult *HandResult    `json:"lastResult,omitempty"`
}

// PlayerView is the public state of one seat.
type PlayerView struct {
	ID            int          `json:"id"`
	Stack         int64        `json:"stack"`
	State         ActionState  `json:"state"`
	PotCommitment int64        `json:"potCommitment"`
	InGame        bool         `json:"inGame"`
	AllIn         bool         `json:"allIn,omitempty"`
	Busted        bool         `json:"busted,omitempty"`
	Cards         []poker.Card `json:"cards,omitempty"`
}

// ActionOptions lists the legal actions for the seat to act.
type ActionOptions struct {
	Seat       int          `json:"seat"`
	Actions    []ActionKind `json:"actions"`
	CallAmount int64        `json:"callAmount,omitempty"`
	MinRaiseTo int64        `json:"minRaiseTo,omitempty"`
	MaxRaiseTo int64        `json:"maxRaiseTo,omitempty"`
}

// View returns the table as seen by viewer, a seat ID. Viewer 0 sees no hole cards.
func (s *Session) View(viewer int) PublicView {
	v := PublicView{
		GameUnderway: s.underway,
		Corrupted:    s.corrupted,
		HandNumber:   s.handNumber,
		Street:       s.street,
		Board:        append([]poker.Card{}, s.board...),
		Pot:          s.pot,
		PreviousBet:  s.previousBet,
		MinRaise:     s.minRaise,
		SmallBlind:   s.cfg.SmallBlind,
		BigBlind:     s.cfg.BigBlind,
		BuyIn:        s.cfg.BuyIn,
		AllowCheck:   s.allowCheck,
		Message:      s.message,
		DeckColor:    s.deckColor,
		ActionSeq:    s.actionSeq,
	}
	if s.handNumber > 0 {
		v.Dealer = s.players[s.dealer].ID
	}
	if seat, ok := s.Turn(); ok {
		v.Turn = seat
		opts := s.Options()
		v.Options = &opts
	}
	for _, p := range s.players {
		pv := PlayerView{
			ID:            p.ID,
			Stack:         p.Stack,
			State:         p.State,
			PotCommitment: p.PotCommitment,
			InGame:        p.InGame,
			AllIn:         s.underway && p.AllIn(),
			Busted:        p.Stack == 0 && !p.InGame,
		}
		if p.ID == viewer {
			pv.Cards = append([]poker.Card(nil), p.Cards...)
		}
		v.Players = append(v.Players, pv)
	}
	if s.lastResult != nil {
		r := *s.lastResult
		v.LastResult = &r
	}
	return v
}

// Options returns the legal actions for the seat whose turn it is.
func (s *Session) Options() ActionOptions {
	if !s.underway {
		return ActionOptions{}
	}
	p := s.players[s.turn]
	opts := ActionOptions{Seat: p.ID}

	owes := p.Owes(s.previousBet)
	if s.allowCheck && owes == 0 {
		opts.Actions = append(opts.Actions, ActionCheck)
	}
	if owes > 0 {
		opts.Actions = append(opts.Actions, ActionCall)
		opts.CallAmount = min(owes, p.Stack)
	}
	maxTo := p.PotCommitment + p.Stack
	if maxTo > s.previousBet && !p.RaiseLocked && s.opponentCanAct(p) {
		opts.Actions = append(opts.Actions, ActionRaise)
		opts.MinRaiseTo = min(s.previousBet+s.minRaise, maxTo)
		opts.MaxRaiseTo = maxTo
	}
	opts.Actions = append(opts.Actions, ActionFold)
	return opts
}
