package poker

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/pokerbirds/internal/randutil"
)

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// ErrDeckExhausted is returned when more cards are requested than remain.
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck is a standard 52-card deck dealt from a cursor. Cards before the
// cursor have been dealt and are never dealt again until the next shuffle.
type Deck struct {
	cards [DeckSize]Card
	next  int
	rng   *rand.Rand
}

// NewDeck creates a deck shuffled with the given random source.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	d.fill()
	d.Shuffle()
	return d
}

// NewShuffledDeck creates a deck seeded from the operating system's entropy source.
func NewShuffledDeck() (*Deck, error) {
	rng, err := randutil.NewFromEntropy()
	if err != nil {
		return nil, err
	}
	return NewDeck(rng), nil
}

// NewStackedDeck returns an unshuffled deck whose first cards are top, in
// order, followed by the remaining cards in suit/rank order.
func NewStackedDeck(top ...Card) (*Deck, error) {
	var seen [DeckSize]bool
	order := make([]Card, 0, DeckSize)
	for _, c := range top {
		if !c.Valid() {
			return nil, fmt.Errorf("stacked deck: invalid card %v", c)
		}
		if seen[c.index()] {
			return nil, fmt.Errorf("stacked deck: duplicate card %s", c)
		}
		seen[c.index()] = true
		order = append(order, c)
	}
	for _, c := range fullDeck() {
		if !seen[c.index()] {
			order = append(order, c)
		}
	}
	return RestoreDeck(order, 0)
}

// RestoreDeck rebuilds a deck from a previously captured order and cursor.
func RestoreDeck(order []Card, next int) (*Deck, error) {
	if len(order) != DeckSize {
		return nil, fmt.Errorf("restore deck: expected %d cards, got %d", DeckSize, len(order))
	}
	if next < 0 || next > DeckSize {
		return nil, fmt.Errorf("restore deck: cursor %d out of range", next)
	}
	d := &Deck{next: next}
	var seen [DeckSize]bool
	for i, c := range order {
		if !c.Valid() || seen[c.index()] {
			return nil, fmt.Errorf("restore deck: invalid or duplicate card %v at %d", c, i)
		}
		seen[c.index()] = true
		d.cards[i] = c
	}
	return d, nil
}

func fullDeck() []Card {
	cards := make([]Card, 0, DeckSize)
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}

func (d *Deck) fill() {
	copy(d.cards[:], fullDeck())
}

// Shuffle restores the cursor and permutes all 52 cards using Fisher-Yates.
func (d *Deck) Shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal returns the next n cards, advancing the cursor.
func (d *Deck) Deal(n int) ([]Card, error) {
	if n < 0 {
		return nil, fmt.Errorf("deal %d cards: negative count", n)
	}
	if d.next+n > len(d.cards) {
		return nil, fmt.Errorf("deal %d cards with %d remaining: %w", n, d.CardsRemaining(), ErrDeckExhausted)
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards, nil
}

// CardsRemaining returns the number of cards left in the deck.
func (d *Deck) CardsRemaining() int {
	return len(d.cards) - d.next
}

// Order returns a copy of the full deck order, dealt cards included.
func (d *Deck) Order() []Card {
	out := make([]Card, DeckSize)
	copy(out, d.cards[:])
	return out
}

// Position returns the cursor, i.e. the number of cards dealt.
func (d *Deck) Position() int {
	return d.next
}
