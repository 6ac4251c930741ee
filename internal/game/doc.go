// Package game implements the Texas Hold'em betting and showdown rules for a
// single table.
//
// The main type is Session, which owns the seats, board, deck and pot of one
// table and advances a hand from the blinds through the preflop, flop, turn
// and river action rounds to a showdown or an uncontested win.
//
// # Basic Usage
//
//	s, err := game.NewSession(game.Config{Seats: 3, BuyIn: 2000, SmallBlind: 10, BigBlind: 20})
//	if err != nil {
//	    return err
//	}
//	if err := s.StartHand(); err != nil {
//	    return err
//	}
//	seat, _ := s.Turn()
//	out, err := s.ApplyAction(game.ActionRequest{Seat: seat, Kind: game.ActionCall})
//
// ApplyAction is the only way to move a hand forward. Each call validates one
// action, applies it and then runs the round state machine until a player
// must act again, dealing streets and settling the pot as needed. When a hand
// ends the next one is dealt automatically with the dealer button moved one
// seat to the left.
//
// All money is held in integer minor units (cents). Sum of stacks plus the pot
// is constant for the life of a hand; a violation aborts the hand and marks
// the session corrupted until ResetToLobby is called.
//
// # Deterministic Testing
//
// Shuffles and dealer selection use the injected random source:
//
//	s, _ := game.NewSession(cfg, game.WithRand(randutil.New(42)))
//
// WithDeckSource supplies pre-arranged decks for exact card sequences.
//
// A Session is not safe for concurrent use; callers serialize access per table.
package game
