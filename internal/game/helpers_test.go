package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/pokerbirds/internal/randutil"
	"github.com/lox/pokerbirds/poker"
	"github.com/stretchr/testify/require"
)

// testSessionOption configures test session creation.
type testSessionOption func(*testSessionBuilder)

type testSessionBuilder struct {
	seed   int64
	cfg    Config
	stacks []int64
	decks  []string
}

func withSeed(seed int64) testSessionOption {
	return func(b *testSessionBuilder) { b.seed = seed }
}

func withSeats(n int) testSessionOption {
	return func(b *testSessionBuilder) { b.cfg.Seats = n }
}

func withBlinds(small, big int64) testSessionOption {
	return func(b *testSessionBuilder) {
		b.cfg.SmallBlind = small
		b.cfg.BigBlind = big
	}
}

func withBuyIn(buyIn int64) testSessionOption {
	return func(b *testSessionBuilder) { b.cfg.BuyIn = buyIn }
}

func withStacks(stacks ...int64) testSessionOption {
	return func(b *testSessionBuilder) { b.stacks = stacks }
}

// withDecks stacks the deck for successive hands. Hole cards are dealt two
// at a time starting left of the dealer, followed by the flop, turn and river.
// Hands beyond the list get a seeded shuffle.
func withDecks(decks ...string) testSessionOption {
	return func(b *testSessionBuilder) { b.decks = decks }
}

// newTestSession creates a heads-up 50/100 table with 2000 stacks unless
// options say otherwise.
func newTestSession(t *testing.T, opts ...testSessionOption) *Session {
	t.Helper()
	b := &testSessionBuilder{
		seed: 42,
		cfg:  Config{Seats: 2, BuyIn: 2000, SmallBlind: 50, BigBlind: 100},
	}
	for _, opt := range opts {
		opt(b)
	}

	rng := randutil.New(b.seed)
	decks := b.decks
	sessionOpts := []Option{
		WithRand(rng),
		WithLogger(log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})),
		WithDeckSource(func() (*poker.Deck, error) {
			if len(decks) == 0 {
				return poker.NewDeck(rng), nil
			}
			top := decks[0]
			decks = decks[1:]
			return poker.NewStackedDeck(poker.MustParseCards(top)...)
		}),
	}
	if b.stacks != nil {
		sessionOpts = append(sessionOpts, WithStacks(b.stacks...))
	}

	s, err := NewSession(b.cfg, sessionOpts...)
	require.NoError(t, err)
	return s
}

// start deals the first hand with the button on the given seat ID.
func start(t *testing.T, s *Session, dealer int) Outcome {
	t.Helper()
	out, err := s.startHandAt(dealer - 1)
	require.NoError(t, err)
	return out
}

func act(t *testing.T, s *Session, seat int, kind ActionKind, amount ...int64) Outcome {
	t.Helper()
	req := ActionRequest{Seat: seat, Kind: kind}
	if len(amount) > 0 {
		req.Amount = amount[0]
	}
	out, err := s.ApplyAction(req)
	require.NoError(t, err, "seat %d %s", seat, kind)
	return out
}

func requireTurn(t *testing.T, s *Session, seat int) {
	t.Helper()
	got, ok := s.Turn()
	require.True(t, ok, "no hand underway")
	require.Equal(t, seat, got, "turn")
}

func stack(s *Session, seat int) int64 {
	return s.players[seat-1].Stack
}

func totalChips(s *Session) int64 {
	total := s.pot
	for _, p := range s.players {
		total += p.Stack
	}
	return total
}
