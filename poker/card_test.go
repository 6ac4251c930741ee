package poker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Card
		wantErr bool
	}{
		{input: "As", want: NewCard(Ace, Spades)},
		{input: "2h", want: NewCard(Two, Hearts)},
		{input: "td", want: NewCard(Ten, Diamonds)},
		{input: "10c", want: NewCard(Ten, Clubs)},
		{input: "K♠", want: NewCard(King, Spades)},
		{input: " Qh ", want: NewCard(Queen, Hearts)},
		{input: "1s", wantErr: true},
		{input: "Ax", wantErr: true},
		{input: "A", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCard(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCardsFormats(t *testing.T) {
	t.Parallel()

	want := []Card{NewCard(Ace, Spades), NewCard(King, Diamonds), NewCard(Ten, Hearts)}

	for _, input := range []string{"As Kd Th", "As,Kd,Th", "AsKdTh", "AsKd10h"} {
		got, err := ParseCards(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestCardString(t *testing.T) {
	t.Parallel()

	c := NewCard(Ace, Spades)
	assert.Equal(t, "As", c.String())
	assert.Equal(t, "A♠", c.Pretty())
	assert.Equal(t, "2c", NewCard(Two, Clubs).String())
	assert.Equal(t, "?", Rank(1).String())
	assert.True(t, NewCard(Five, Hearts).Suit.IsRed())
	assert.False(t, Card{}.Valid())
}

func TestCardJSON(t *testing.T) {
	t.Parallel()

	hand := MustParseCards("As Td")
	data, err := json.Marshal(hand)
	require.NoError(t, err)
	assert.JSONEq(t, `["As","Td"]`, string(data))

	var decoded []Card
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, hand, decoded)

	_, err = json.Marshal(Card{})
	assert.Error(t, err)
}
