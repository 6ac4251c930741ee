package phh

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lox/pokerbirds/internal/game"
	"github.com/lox/pokerbirds/poker"
)

// Variant code for no-limit Texas Hold'em.
const VariantNoLimitHoldem = "NT"

// Encode writes the hand history to w in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeToBytes encodes and returns the result as bytes.
func EncodeToBytes(hand *HandHistory) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, hand); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatAction converts an engine action to a PHH action string for the
// player at 0-based position pos. total is the player's commitment for the
// street after the action.
func FormatAction(pos int, kind game.ActionKind, total int64) string {
	player := fmt.Sprintf("p%d", pos+1)
	switch kind {
	case game.ActionFold:
		return player + " f"
	case game.ActionCheck, game.ActionCall:
		return player + " cc"
	case game.ActionRaise:
		return fmt.Sprintf("%s cbr %d", player, total)
	default:
		return fmt.Sprintf("# %s %s %d", player, kind, total)
	}
}

// FormatCards concatenates cards as PHH expects, e.g. "AsKd".
func FormatCards(cards []poker.Card) string {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(c.String())
	}
	return b.String()
}

// Options control how records are converted.
type Options struct {
	Table string
	// IncludeHoleCards reveals every dealt hand. Otherwise only hands shown
	// at showdown are written and deals are masked as "????".
	IncludeHoleCards bool
}

// FromRecord converts a completed hand to PHH.
func FromRecord(rec game.HandRecord, opts Options) *HandHistory {
	order := positionOrder(rec)
	n := len(order)
	h := &HandHistory{
		Variant:           VariantNoLimitHoldem,
		Table:             opts.Table,
		SeatCount:         n,
		Seats:             make([]int, n),
		Antes:             make([]int64, n),
		BlindsOrStraddles: make([]int64, n),
		MinBet:            rec.BigBlind,
		StartingStacks:    make([]int64, n),
		FinishingStacks:   make([]int64, n),
		Winnings:          make([]int64, n),
		Players:           make([]string, n),
		HandID:            fmt.Sprintf("%s-%d", opts.Table, rec.Number),
	}

	posOf := make(map[int]int, n)
	for pos, idx := range order {
		seat := rec.Seats[idx]
		posOf[seat] = pos
		h.Seats[pos] = seat
		h.Players[pos] = fmt.Sprintf("Player %d", seat)
		h.StartingStacks[pos] = rec.StartingStacks[idx]
		h.BlindsOrStraddles[pos] = rec.Blinds[idx]
		if idx < len(rec.FinishingStacks) {
			h.FinishingStacks[pos] = rec.FinishingStacks[idx]
		}
		if idx < len(rec.Winnings) {
			h.Winnings[pos] = rec.Winnings[idx]
		}
		cards := "????"
		if opts.IncludeHoleCards && len(rec.HoleCards[idx]) == 2 {
			cards = FormatCards(rec.HoleCards[idx])
		}
		h.Actions = append(h.Actions, fmt.Sprintf("d dh p%d %s", pos+1, cards))
	}

	dealt := 0
	dealTo := func(street game.Street) {
		for st := game.Flop; st <= street; st++ {
			want := min(boardCardsBy(st), len(rec.Board))
			if want > dealt {
				h.Actions = append(h.Actions, "d db "+FormatCards(rec.Board[dealt:want]))
				dealt = want
			}
		}
	}
	for _, a := range rec.Actions {
		dealTo(a.Street)
		h.Actions = append(h.Actions, FormatAction(posOf[a.Seat], a.Kind, a.Amount))
	}
	dealTo(game.River)

	for _, seat := range rec.Shown {
		if idx := slices.Index(rec.Seats, seat); idx >= 0 {
			h.Actions = append(h.Actions, fmt.Sprintf("p%d sm %s", posOf[seat]+1, FormatCards(rec.HoleCards[idx])))
		}
	}

	return h
}

// positionOrder returns indexes into rec.Seats starting with the small blind.
func positionOrder(rec game.HandRecord) []int {
	n := len(rec.Seats)
	start := 0
	if n > 2 {
		// Small blind is the first participant after the button.
		start = -1
		for i, seat := range rec.Seats {
			if seat > rec.Dealer {
				start = i
				break
			}
		}
		if start < 0 {
			start = 0
		}
	} else {
		for i, seat := range rec.Seats {
			if seat == rec.Dealer {
				start = i
			}
		}
	}
	order := make([]int, n)
	for i := range order {
		order[i] = (start + i) % n
	}
	return order
}

func boardCardsBy(s game.Street) int {
	switch s {
	case game.Flop:
		return 3
	case game.Turn:
		return 4
	case game.River:
		return 5
	}
	return 0
}
