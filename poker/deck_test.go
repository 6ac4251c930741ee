package poker

import (
	"testing"

	"github.com/lox/pokerbirds/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckHasAllCards(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(1))
	require.Equal(t, DeckSize, d.CardsRemaining())

	seen := make(map[Card]bool)
	for _, c := range d.Order() {
		require.True(t, c.Valid())
		require.False(t, seen[c], "duplicate %s", c)
		seen[c] = true
	}
	assert.Len(t, seen, DeckSize)
}

func TestDeckDealAdvancesCursor(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(7))
	dealt := make(map[Card]bool)

	for _, n := range []int{2, 2, 2, 3, 1, 1} {
		cards, err := d.Deal(n)
		require.NoError(t, err)
		require.Len(t, cards, n)
		for _, c := range cards {
			assert.False(t, dealt[c], "card %s dealt twice", c)
			dealt[c] = true
		}
	}

	assert.Equal(t, DeckSize-11, d.CardsRemaining())
	assert.Equal(t, 11, d.Position())
}

func TestDeckExhausted(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(3))
	_, err := d.Deal(50)
	require.NoError(t, err)

	_, err = d.Deal(3)
	require.ErrorIs(t, err, ErrDeckExhausted)
	assert.Equal(t, 2, d.CardsRemaining(), "failed deal must not move the cursor")

	cards, err := d.Deal(2)
	require.NoError(t, err)
	assert.Len(t, cards, 2)
	assert.Equal(t, 0, d.CardsRemaining())
}

func TestDeckSeedIsDeterministic(t *testing.T) {
	t.Parallel()

	a := NewDeck(randutil.New(99)).Order()
	b := NewDeck(randutil.New(99)).Order()
	c := NewDeck(randutil.New(100)).Order()

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestShuffleResetsCursor(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(5))
	_, err := d.Deal(10)
	require.NoError(t, err)

	d.Shuffle()
	assert.Equal(t, DeckSize, d.CardsRemaining())
}

func TestStackedDeck(t *testing.T) {
	t.Parallel()

	top := MustParseCards("As Ks Qs")
	d, err := NewStackedDeck(top...)
	require.NoError(t, err)

	cards, err := d.Deal(3)
	require.NoError(t, err)
	assert.Equal(t, top, cards)
	assert.Equal(t, DeckSize-3, d.CardsRemaining())

	_, err = NewStackedDeck(MustParseCards("As As")...)
	assert.Error(t, err)
}

func TestRestoreDeck(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(11))
	_, err := d.Deal(9)
	require.NoError(t, err)

	restored, err := RestoreDeck(d.Order(), d.Position())
	require.NoError(t, err)

	want, err := d.Deal(5)
	require.NoError(t, err)
	got, err := restored.Deal(5)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = RestoreDeck(d.Order()[:51], 0)
	assert.Error(t, err)
	_, err = RestoreDeck(d.Order(), 53)
	assert.Error(t, err)
}

func TestNewShuffledDeck(t *testing.T) {
	t.Parallel()

	d, err := NewShuffledDeck()
	require.NoError(t, err)
	assert.Equal(t, DeckSize, d.CardsRemaining())
}
