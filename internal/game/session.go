package game

import (
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/pokerbirds/internal/randutil"
	"github.com/lox/pokerbirds/poker"
)

const (
	MinSeats = 2
	MaxSeats = 10
)

// Config holds the lobby settings for a table. Amounts are in minor units.
type Config struct {
	Seats      int   `json:"seats"`
	BuyIn      int64 `json:"buyIn"`
	SmallBlind int64 `json:"smallBlind"`
	BigBlind   int64 `json:"bigBlind"`
}

// Validate checks the lobby settings.
func (c Config) Validate() error {
	if c.Seats < MinSeats || c.Seats > MaxSeats {
		return fmt.Errorf("seats must be between %d and %d, got %d", MinSeats, MaxSeats, c.Seats)
	}
	if c.SmallBlind <= 0 {
		return errors.New("small blind must be positive")
	}
	if c.BigBlind < c.SmallBlind {
		return errors.New("big blind must be at least the small blind")
	}
	if c.BuyIn < c.BigBlind {
		return errors.New("buy-in must cover the big blind")
	}
	return nil
}

// Session is the complete state of one table.
type Session struct {
	cfg     Config
	players []*Player
	board   []poker.Card
	deck    *poker.Deck
	pot     int64

	turn        int // index into players
	dealer      int // index into players
	street      Street
	previousBet int64
	minRaise    int64
	allowCheck  bool
	underway    bool
	message     string
	deckColor   string

	handNumber int
	actionSeq  uint64
	corrupted  bool
	chipTotal  int64
	lastResult *HandResult
	record     *HandRecord

	// completed collects hands finished during the current call.
	completed []HandRecord

	rng      *rand.Rand
	deckFunc func() (*poker.Deck, error)
	logger   *log.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithRand sets the random source used for shuffles and dealer selection.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithDeckSource overrides how a fresh deck is obtained for each hand.
func WithDeckSource(fn func() (*poker.Deck, error)) Option {
	return func(s *Session) { s.deckFunc = fn }
}

// WithStacks sets individual starting stacks instead of the buy-in.
func WithStacks(stacks ...int64) Option {
	return func(s *Session) {
		for i, stack := range stacks {
			if i < len(s.players) {
				s.players[i].Stack = stack
			}
		}
	}
}

// NewSession creates a table in the lobby state with every seat holding the buy-in.
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{cfg: cfg, street: Preflop}
	for i := range cfg.Seats {
		s.players = append(s.players, &Player{ID: i + 1, Stack: cfg.BuyIn})
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	s.deckColor = deckColors[s.rng.IntN(len(deckColors))]
	return s, nil
}

var deckColors = []string{"Blue", "Red"}

func (s *Session) init() error {
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.rng == nil {
		rng, err := randutil.NewFromEntropy()
		if err != nil {
			return fmt.Errorf("seed session: %w", err)
		}
		s.rng = rng
	}
	return nil
}

// Config returns the lobby settings.
func (s *Session) Config() Config { return s.cfg }

// Underway reports whether a game is in progress.
func (s *Session) Underway() bool { return s.underway }

// Corrupted reports whether an invariant violation has frozen the session.
func (s *Session) Corrupted() bool { return s.corrupted }

// Message returns the latest table message.
func (s *Session) Message() string { return s.message }

// HandNumber returns the number of hands dealt so far.
func (s *Session) HandNumber() int { return s.handNumber }

// Street returns the current street.
func (s *Session) Street() Street { return s.street }

// Pot returns the chips in the middle.
func (s *Session) Pot() int64 { return s.pot }

// Board returns a copy of the community cards.
func (s *Session) Board() []poker.Card { return append([]poker.Card(nil), s.board...) }

// Player returns a copy of the seat with the given ID.
func (s *Session) Player(id int) (Player, bool) {
	if id < 1 || id > len(s.players) {
		return Player{}, false
	}
	return *s.players[id-1].clone(), true
}

// Turn returns the seat ID whose action is awaited.
func (s *Session) Turn() (int, bool) {
	if !s.underway {
		return 0, false
	}
	return s.players[s.turn].ID, true
}

// Dealer returns the seat ID holding the button.
func (s *Session) Dealer() int { return s.players[s.dealer].ID }

// StartHand starts the game: a dealer is chosen uniformly at random among the
// players with chips and the first hand is dealt.
func (s *Session) StartHand() (Outcome, error) {
	if s.corrupted {
		return Outcome{}, ErrSessionCorrupted
	}
	if s.underway {
		return Outcome{}, ErrHandInProgress
	}
	var funded []int
	for i, p := range s.players {
		if p.Stack > 0 {
			funded = append(funded, i)
		}
	}
	if len(funded) < 2 {
		return Outcome{}, ErrNotEnoughPlayers
	}
	return s.startHandAt(funded[s.rng.IntN(len(funded))])
}

// startHandAt starts the game with the button at the given seat index.
func (s *Session) startHandAt(dealer int) (Outcome, error) {
	s.completed = nil
	if err := s.beginHand(dealer); err != nil {
		return s.outcome(), err
	}
	s.message = fmt.Sprintf("Hand %d: %s has the button", s.handNumber, s.players[dealer].Name())
	if err := s.settle(); err != nil {
		return s.outcome(), err
	}
	return s.outcome(), s.checkConservation()
}

// beginHand resets per-hand state, posts the blinds and deals hole cards.
func (s *Session) beginHand(dealer int) error {
	deck, err := s.newDeck()
	if err != nil {
		return s.abort("shuffle", err)
	}

	s.handNumber++
	s.deck = deck
	s.dealer = dealer
	s.board = nil
	s.pot = 0
	s.street = Preflop
	s.chipTotal = 0

	record := &HandRecord{
		Number:     s.handNumber,
		Dealer:     s.players[dealer].ID,
		SmallBlind: s.cfg.SmallBlind,
		BigBlind:   s.cfg.BigBlind,
	}
	inHand := 0
	for _, p := range s.players {
		p.resetForHand()
		s.chipTotal += p.Stack
		if p.InGame {
			inHand++
			record.Seats = append(record.Seats, p.ID)
			record.StartingStacks = append(record.StartingStacks, p.Stack)
		}
	}
	record.Blinds = make([]int64, len(record.Seats))
	record.HoleCards = make([][]poker.Card, len(record.Seats))
	s.record = record

	inGame := func(p *Player) bool { return p.InGame }
	sb := s.nextSeat(dealer, inGame)
	if inHand == 2 {
		sb = dealer
	}
	bb := s.nextSeat(sb, inGame)
	s.postBlind(sb, s.cfg.SmallBlind, PostedSmallBlind)
	s.postBlind(bb, s.cfg.BigBlind, PostedBigBlind)

	s.previousBet = s.cfg.BigBlind
	s.minRaise = s.cfg.BigBlind
	s.allowCheck = false
	s.underway = true

	n := len(s.players)
	for i := 1; i <= n; i++ {
		p := s.players[(dealer+i)%n]
		if !p.InGame {
			continue
		}
		cards, err := s.deck.Deal(2)
		if err != nil {
			return s.abort("deal hole cards", err)
		}
		p.Cards = cards
		record.HoleCards[record.seatIndex(p.ID)] = append([]poker.Card(nil), cards...)
	}

	s.turn = bb
	if first := s.nextSeat(bb, canAct); first >= 0 {
		s.turn = first
	}
	s.updateCheckEligibility()

	s.logger.Debug("hand started", "hand", s.handNumber, "dealer", s.players[dealer].ID,
		"small_blind", s.players[sb].ID, "big_blind", s.players[bb].ID)
	return nil
}

func (s *Session) postBlind(idx int, amount int64, state ActionState) {
	p := s.players[idx]
	amount = min(amount, p.Stack)
	s.moveToPot(p, amount)
	p.State = state
	s.record.Blinds[s.record.seatIndex(p.ID)] = amount
}

func (s *Session) newDeck() (*poker.Deck, error) {
	if s.deckFunc != nil {
		deck, err := s.deckFunc()
		if err != nil {
			return nil, fmt.Errorf("new deck: %w", err)
		}
		return deck, nil
	}
	return poker.NewDeck(s.rng), nil
}

// Outcome reports the result of a state-changing call.
type Outcome struct {
	Message    string `json:"message"`
	HandNumber int    `json:"handNumber"`
	// Duplicate is set when the request was a replay and nothing changed.
	Duplicate bool `json:"duplicate,omitempty"`
	// Completed holds the hands that finished during the call.
	Completed []HandRecord `json:"-"`
}

func (s *Session) outcome() Outcome {
	return Outcome{
		Message:    s.message,
		HandNumber: s.handNumber,
		Completed:  s.completed,
	}
}

// ApplyAction validates and applies one action for the seat whose turn it
// is, then advances the hand until another decision is needed.
func (s *Session) ApplyAction(req ActionRequest) (Outcome, error) {
	if req.Seq != 0 && req.Seq <= s.actionSeq {
		return Outcome{Message: s.message, HandNumber: s.handNumber, Duplicate: true}, nil
	}
	if s.corrupted {
		return Outcome{}, ErrSessionCorrupted
	}
	if req.Seat < 1 || req.Seat > len(s.players) {
		return Outcome{}, &ActionError{Seat: req.Seat, Kind: req.Kind, Amount: req.Amount, Err: ErrUnknownSeat}
	}
	if !s.underway {
		return Outcome{}, &ActionError{Seat: req.Seat, Kind: req.Kind, Amount: req.Amount, Err: ErrNoHandInProgress}
	}
	p := s.players[req.Seat-1]
	if s.turn != req.Seat-1 {
		return Outcome{}, &ActionError{Seat: req.Seat, Kind: req.Kind, Amount: req.Amount, Err: ErrNotYourTurn}
	}
	if err := s.validate(p, req); err != nil {
		return Outcome{}, &ActionError{Seat: req.Seat, Kind: req.Kind, Amount: req.Amount, Err: err}
	}

	s.completed = nil
	s.apply(p, req)
	s.recordAction(p, req.Kind)
	if req.Seq != 0 {
		s.actionSeq = req.Seq
	}
	s.logger.Debug("action", "hand", s.handNumber, "street", s.street, "seat", p.ID,
		"action", req.Kind, "commitment", p.PotCommitment, "pot", s.pot)

	if s.inGameCount() > 1 && !s.roundComplete() {
		s.advanceTurn()
	} else if err := s.settle(); err != nil {
		return s.outcome(), err
	}
	return s.outcome(), s.checkConservation()
}

// EndHand stops play. Chips committed to an unfinished hand are returned and
// the table goes back to waiting for StartHand.
func (s *Session) EndHand() {
	for _, p := range s.players {
		p.Stack += p.HandCommitment
	}
	s.clearHand()
	s.underway = false
	s.message = "Game ended"
}

// ResetToLobby discards the game: every seat is restored to the buy-in and
// a corrupted session becomes usable again.
func (s *Session) ResetToLobby() {
	s.clearHand()
	for _, p := range s.players {
		p.Stack = s.cfg.BuyIn
		p.InGame = false
		p.State = NoAction
	}
	s.underway = false
	s.corrupted = false
	s.handNumber = 0
	s.lastResult = nil
	s.message = ""
}

// clearHand drops all betting and round state.
func (s *Session) clearHand() {
	for _, p := range s.players {
		p.Cards = nil
		p.PotCommitment = 0
		p.HandCommitment = 0
		p.RaiseLocked = false
		p.ShowdownRank = 0
		p.State = NoAction
	}
	s.board = nil
	s.deck = nil
	s.pot = 0
	s.street = Preflop
	s.previousBet = 0
	s.minRaise = 0
	s.allowCheck = false
	s.record = nil
}
