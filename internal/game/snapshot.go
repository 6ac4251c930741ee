package game

import (
	"fmt"

	"github.com/lox/pokerbirds/poker"
)

// SessionState is the persisted form of a Session. It carries everything
// needed to resume a hand exactly where it stopped, including the undealt
// deck order, so it must never be shown to players.
type SessionState struct {
	Config      Config       `json:"config"`
	Players     []*Player    `json:"players"`
	Board       []poker.Card `json:"board"`
	Deck        []poker.Card `json:"deck,omitempty"`
	DeckNext    int          `json:"deckNext"`
	Pot         int64        `json:"pot"`
	Turn        int          `json:"turn"`
	Dealer      int          `json:"dealer"`
	Street      Street       `json:"street"`
	PreviousBet int64        `json:"previousBet"`
	MinRaise    int64        `json:"minRaise"`
	AllowCheck  bool         `json:"allowCheck"`
	Underway    bool         `json:"gameUnderway"`
	Message     string       `json:"message"`
	DeckColor   string       `json:"deckColor"`
	HandNumber  int          `json:"handNumber"`
	ActionSeq   uint64       `json:"actionSeq"`
	Corrupted   bool         `json:"corrupted"`
	ChipTotal   int64        `json:"chipTotal"`
	LastResult  *HandResult  `json:"lastResult,omitempty"`
	Record      *HandRecord  `json:"record,omitempty"`
}

// Snapshot captures the session for storage.
func (s *Session) Snapshot() *SessionState {
	st := &SessionState{
		Config:      s.cfg,
		Board:       append([]poker.Card(nil), s.board...),
		Pot:         s.pot,
		Turn:        s.turn,
		Dealer:      s.dealer,
		Street:      s.street,
		PreviousBet: s.previousBet,
		MinRaise:    s.minRaise,
		AllowCheck:  s.allowCheck,
		Underway:    s.underway,
		Message:     s.message,
		DeckColor:   s.deckColor,
		HandNumber:  s.handNumber,
		ActionSeq:   s.actionSeq,
		Corrupted:   s.corrupted,
		ChipTotal:   s.chipTotal,
		Record:      s.record.clone(),
	}
	for _, p := range s.players {
		st.Players = append(st.Players, p.clone())
	}
	if s.deck != nil {
		st.Deck = s.deck.Order()
		st.DeckNext = s.deck.Position()
	}
	if s.lastResult != nil {
		r := *s.lastResult
		st.LastResult = &r
	}
	return st
}

// Restore rebuilds a session from a snapshot. Options supply the runtime
// collaborators (random source, logger) that are not persisted.
func Restore(st *SessionState, opts ...Option) (*Session, error) {
	if st == nil {
		return nil, fmt.Errorf("restore session: nil state")
	}
	if err := st.Config.Validate(); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if len(st.Players) != st.Config.Seats {
		return nil, fmt.Errorf("restore session: %d players for %d seats", len(st.Players), st.Config.Seats)
	}
	if st.Turn < 0 || st.Turn >= len(st.Players) || st.Dealer < 0 || st.Dealer >= len(st.Players) {
		return nil, fmt.Errorf("restore session: turn or dealer out of range")
	}

	s := &Session{
		cfg:         st.Config,
		board:       append([]poker.Card(nil), st.Board...),
		pot:         st.Pot,
		turn:        st.Turn,
		dealer:      st.Dealer,
		street:      st.Street,
		previousBet: st.PreviousBet,
		minRaise:    st.MinRaise,
		allowCheck:  st.AllowCheck,
		underway:    st.Underway,
		message:     st.Message,
		deckColor:   st.DeckColor,
		handNumber:  st.HandNumber,
		actionSeq:   st.ActionSeq,
		corrupted:   st.Corrupted,
		chipTotal:   st.ChipTotal,
		record:      st.Record.clone(),
	}
	for i, p := range st.Players {
		if p == nil || p.ID != i+1 {
			return nil, fmt.Errorf("restore session: seat %d is malformed", i+1)
		}
		s.players = append(s.players, p.clone())
	}
	if len(st.Deck) > 0 {
		deck, err := poker.RestoreDeck(st.Deck, st.DeckNext)
		if err != nil {
			return nil, fmt.Errorf("restore session: %w", err)
		}
		s.deck = deck
	} else if st.Underway {
		return nil, fmt.Errorf("restore session: hand in progress without a deck")
	}
	if st.LastResult != nil {
		r := *st.LastResult
		s.lastResult = &r
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}
