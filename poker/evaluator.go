package poker

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// HandRank is the strength of a five-card poker hand. Higher values are
// stronger. The category occupies bits 20-23 and up to five tie-break ranks
// follow in descending significance, four bits each.
type HandRank uint32

// HandType enumerates the categories of poker hands ordered from weakest to strongest.
type HandType uint8

const (
	HighCard HandType = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

const categoryShift = 20

var (
	// ErrInvalidHandSize is returned when fewer than 5 or more than 7 cards are evaluated.
	ErrInvalidHandSize = errors.New("hand must contain 5 to 7 cards")
	// ErrDuplicateCard is returned when the same card appears twice.
	ErrDuplicateCard = errors.New("duplicate card")
)

var handTypeNames = [...]string{
	HighCard:      "High Card",
	Pair:          "Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
}

func (t HandType) String() string {
	if int(t) < len(handTypeNames) {
		return handTypeNames[t]
	}
	return "Unknown"
}

// Type returns the category of the hand.
func (hr HandRank) Type() HandType {
	return HandType(hr >> categoryShift)
}

// String returns the category name, e.g. "Full House".
func (hr HandRank) String() string {
	return hr.Type().String()
}

// Kickers returns the tie-break ranks in descending significance.
func (hr HandRank) Kickers() []Rank {
	var out []Rank
	for shift := categoryShift - 4; shift >= 0; shift -= 4 {
		r := Rank((hr >> shift) & 0xf)
		if r == 0 {
			break
		}
		out = append(out, r)
	}
	return out
}

// RankToHandStr renders the category of a hand rank for display.
func RankToHandStr(hr HandRank) string {
	return hr.Type().String()
}

// CompareHands returns -1 if a is weaker than b, 0 if equal and +1 if stronger.
func CompareHands(a, b HandRank) int {
	return cmp.Compare(a, b)
}

func newHandRank(t HandType, ranks ...Rank) HandRank {
	hr := HandRank(t) << categoryShift
	shift := categoryShift - 4
	for _, r := range ranks {
		hr |= HandRank(r) << shift
		shift -= 4
	}
	return hr
}

// Evaluate returns the rank of the best five-card hand that can be formed
// from the hole cards and board, 5 to 7 cards in total.
func Evaluate(hole, board []Card) (HandRank, error) {
	cards := make([]Card, 0, len(hole)+len(board))
	cards = append(cards, hole...)
	cards = append(cards, board...)
	rank, _, err := BestHand(cards)
	return rank, err
}

// BestHand evaluates every five-card subset of cards and returns the
// strongest rank together with the five cards that make it.
func BestHand(cards []Card) (HandRank, []Card, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return 0, nil, fmt.Errorf("evaluate %d cards: %w", len(cards), ErrInvalidHandSize)
	}
	var seen [DeckSize]bool
	for _, c := range cards {
		if !c.Valid() {
			return 0, nil, fmt.Errorf("evaluate: invalid card %v", c)
		}
		if seen[c.index()] {
			return 0, nil, fmt.Errorf("evaluate %s: %w", c, ErrDuplicateCard)
		}
		seen[c.index()] = true
	}

	var (
		best     HandRank
		bestHand [5]Card
		hand     [5]Card
		found    bool
	)
	n := len(cards)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						hand = [5]Card{cards[a], cards[b], cards[c], cards[d], cards[e]}
						if r := evaluate5(hand); !found || r > best {
							best, bestHand, found = r, hand, true
						}
					}
				}
			}
		}
	}
	return best, bestHand[:], nil
}

// evaluate5 ranks exactly five distinct cards.
func evaluate5(cards [5]Card) HandRank {
	var counts [Ace + 1]int
	flush := true
	for i, c := range cards {
		counts[c.Rank]++
		if i > 0 && c.Suit != cards[0].Suit {
			flush = false
		}
	}

	// Ranks grouped by multiplicity, larger groups first, then higher rank.
	type group struct {
		rank  Rank
		count int
	}
	groups := make([]group, 0, 5)
	for r := Ace; r >= Two; r-- {
		if counts[r] > 0 {
			groups = append(groups, group{rank: r, count: counts[r]})
		}
	}
	slices.SortStableFunc(groups, func(x, y group) int {
		return cmp.Compare(y.count, x.count)
	})
	ranks := make([]Rank, len(groups))
	for i, g := range groups {
		ranks[i] = g.rank
	}

	straightHigh := Rank(0)
	if len(groups) == 5 {
		switch {
		case ranks[0]-ranks[4] == 4:
			straightHigh = ranks[0]
		case ranks[0] == Ace && ranks[1] == Five:
			straightHigh = Five
		}
	}

	switch {
	case straightHigh > 0 && flush:
		return newHandRank(StraightFlush, straightHigh)
	case groups[0].count == 4:
		return newHandRank(FourOfAKind, ranks...)
	case groups[0].count == 3 && groups[1].count == 2:
		return newHandRank(FullHouse, ranks...)
	case flush:
		return newHandRank(Flush, ranks...)
	case straightHigh > 0:
		return newHandRank(Straight, straightHigh)
	case groups[0].count == 3:
		return newHandRank(ThreeOfAKind, ranks...)
	case groups[0].count == 2 && groups[1].count == 2:
		return newHandRank(TwoPair, ranks...)
	case groups[0].count == 2:
		return newHandRank(Pair, ranks...)
	default:
		return newHandRank(HighCard, ranks...)
	}
}
