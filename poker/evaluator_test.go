package poker

import (
	"cmp"
	"testing"

	ref "github.com/chehsunliu/poker"
	"github.com/lox/pokerbirds/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEvaluate(t *testing.T, cards string) HandRank {
	t.Helper()
	all := MustParseCards(cards)
	rank, err := Evaluate(all[:2], all[2:])
	require.NoError(t, err)
	return rank
}

func TestEvaluateCategories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cards string
		want  HandType
	}{
		{"royal flush", "As Ks Qs Js Ts 2d 3c", StraightFlush},
		{"steel wheel", "As 2s 3s 4s 5s Kd Kc", StraightFlush},
		{"quads", "9c 9d 9h 9s Ad 2c 3h", FourOfAKind},
		{"full house from two trips", "8c 8d 8h 4s 4d 4c Ah", FullHouse},
		{"flush", "Ah 9h 7h 4h 2h Kd Qc", Flush},
		{"broadway straight", "Ad Ks Qh Jc Td 2c 3c", Straight},
		{"wheel", "Ad 2s 3h 4c 5d 9c Kc", Straight},
		{"trips", "7c 7d 7h Ks 2d 4c 9h", ThreeOfAKind},
		{"two pair", "Jc Jd 4h 4s Ad 8c 2h", TwoPair},
		{"pair", "Qc Qd 4h 7s Ad 8c 2h", Pair},
		{"high card", "Ac Jd 8h 6s 4d 3c 2h", HighCard},
		{"five cards only", "Ac Kc Qc Jc 9c", Flush},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustEvaluate(t, tt.cards).Type())
		})
	}
}

func TestEvaluateOrdering(t *testing.T) {
	t.Parallel()

	// Each hand strictly beats the next one.
	ordered := []string{
		"As Ks Qs Js Ts 2d 3c",
		"9s Ts Js Qs Ks 2d 3c",
		"As 2s 3s 4s 5s Kd Kc",
		"Ac Ad Ah As Kd 2c 3h",
		"Ac Ad Ah As Qd 2c 3h",
		"Kc Kd Kh Ah Ad 2c 3s",
		"Kc Kd Kh Qh Qd 2c 3s",
		"Ah Kh 9h 7h 3h 2d 4c",
		"Ah Qh Jh 7h 3h 2d 4c",
		"Ad Ks Qh Jc Td 2c 3c",
		"6d 5s 4h 3c 2d Kc Kh",
		"Ad 2s 3h 4c 5d Kc Qh",
		"7c 7d 7h Ks Qd 4c 2h",
		"Ac Ad Kh Ks 9d 4c 2h",
		"Ac Ad Kh Ks 8d 4c 2h",
		"Ac Ad Qh Qs Kd 4c 2h",
		"Ac Ad Kh Qs 9d 4c 2h",
		"Kc Kd Ah Qs 9d 4c 2h",
		"Ac Kd Jh 9s 7d 4c 2h",
		"Ac Kd Jh 9s 6d 4c 2h",
	}

	for i := 0; i+1 < len(ordered); i++ {
		a := mustEvaluate(t, ordered[i])
		b := mustEvaluate(t, ordered[i+1])
		assert.Equal(t, 1, CompareHands(a, b), "%s should beat %s", ordered[i], ordered[i+1])
	}
}

func TestEvaluateTies(t *testing.T) {
	t.Parallel()

	// Board plays for both players.
	a := mustEvaluate(t, "2c 3d Ah Kh Qh Jh Th")
	b := mustEvaluate(t, "4c 5d Ah Kh Qh Jh Th")
	assert.Equal(t, 0, CompareHands(a, b))

	// Same two pair and the same ace kicker.
	a = mustEvaluate(t, "Ac 2d Kh Ks Qd Qc 9h")
	b = mustEvaluate(t, "Ad 3d Kh Ks Qd Qc 9h")
	assert.Equal(t, 0, CompareHands(a, b))
}

func TestEvaluateKickers(t *testing.T) {
	t.Parallel()

	rank := mustEvaluate(t, "Kc Kd 4h 4s Ad 8c 2h")
	assert.Equal(t, TwoPair, rank.Type())
	assert.Equal(t, []Rank{King, Four, Ace}, rank.Kickers())

	wheel := mustEvaluate(t, "Ad 2s 3h 4c 5d 9c Jc")
	assert.Equal(t, []Rank{Five}, wheel.Kickers())
}

func TestEvaluateIsOrderIndependent(t *testing.T) {
	t.Parallel()

	rng := randutil.New(2024)
	for range 200 {
		d := NewDeck(rng)
		cards, err := d.Deal(7)
		require.NoError(t, err)

		want, err := Evaluate(cards[:2], cards[2:])
		require.NoError(t, err)

		shuffled := append([]Card(nil), cards...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		got, err := Evaluate(shuffled[:3], shuffled[3:])
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestEvaluateErrors(t *testing.T) {
	t.Parallel()

	_, err := Evaluate(MustParseCards("As Kd"), MustParseCards("2c 3c"))
	assert.ErrorIs(t, err, ErrInvalidHandSize)

	_, err = Evaluate(MustParseCards("As Kd"), MustParseCards("2c 3c 4c 5c 6c 7c"))
	assert.ErrorIs(t, err, ErrInvalidHandSize)

	_, err = Evaluate(MustParseCards("As As"), MustParseCards("2c 3c 4c"))
	assert.ErrorIs(t, err, ErrDuplicateCard)
}

func TestBestHandReturnsFiveCards(t *testing.T) {
	t.Parallel()

	rank, best, err := BestHand(MustParseCards("Ah 9h 7h 4h 2h Kd Qc"))
	require.NoError(t, err)
	assert.Equal(t, Flush, rank.Type())
	assert.ElementsMatch(t, MustParseCards("Ah 9h 7h 4h 2h"), best)
}

func TestRankToHandStr(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Full House", RankToHandStr(mustEvaluate(t, "Kc Kd Kh Qh Qd 2c 3s")))
	assert.Equal(t, "Straight Flush", StraightFlush.String())
	assert.Equal(t, "Three of a Kind", ThreeOfAKind.String())
	assert.Equal(t, "High Card", HighCard.String())
	assert.Equal(t, "Unknown", HandType(42).String())
}

// refClass maps the reference library's rank classes (1 = straight flush,
// 9 = high card) onto HandType.
func refClass(class int32) HandType {
	return HandType(9 - class)
}

func toRef(cards []Card) []ref.Card {
	out := make([]ref.Card, len(cards))
	for i, c := range cards {
		out[i] = ref.NewCard(c.String())
	}
	return out
}

func TestEvaluateAgreesWithReference(t *testing.T) {
	t.Parallel()

	rng := randutil.New(31337)
	for range 2000 {
		d := NewDeck(rng)
		a, err := d.Deal(7)
		require.NoError(t, err)
		d.Shuffle()
		b, err := d.Deal(7)
		require.NoError(t, err)

		ra, err := Evaluate(a[:2], a[2:])
		require.NoError(t, err)
		rb, err := Evaluate(b[:2], b[2:])
		require.NoError(t, err)

		refA := ref.Evaluate(toRef(a))
		refB := ref.Evaluate(toRef(b))

		require.Equal(t, refClass(ref.RankClass(refA)), ra.Type(), "category for %s", FormatCards(a))
		// The reference ranks lower-is-better.
		require.Equal(t, cmp.Compare(refB, refA), CompareHands(ra, rb),
			"ordering of %s vs %s", FormatCards(a), FormatCards(b))
	}
}
