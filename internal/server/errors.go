package server

import (
	"errors"
	"net/http"

	"github.com/lox/pokerbirds/internal/game"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{game.ErrNotYourTurn, "not_your_turn"},
	{game.ErrRaiseTooSmall, "raise_too_small"},
	{game.ErrCheckNotAllowed, "check_not_allowed"},
	{game.ErrNothingToCall, "nothing_to_call"},
	{game.ErrInsufficientStack, "insufficient_stack"},
	{game.ErrActionNotReopened, "action_not_reopened"},
	{game.ErrNoActiveOpponent, "no_active_opponent"},
	{game.ErrUnknownAction, "unknown_action"},
	{game.ErrUnknownSeat, "unknown_seat"},
	{game.ErrNoHandInProgress, "no_hand_in_progress"},
	{game.ErrHandInProgress, "hand_in_progress"},
	{game.ErrNotEnoughPlayers, "not_enough_players"},
	{game.ErrSessionCorrupted, "session_corrupted"},
	{game.ErrNotFound, "not_found"},
}

// classify maps an error to an HTTP status and a stable code.
func classify(err error) (int, string) {
	var inv *game.InvariantError
	if errors.As(err, &inv) {
		return http.StatusConflict, "hand_aborted"
	}
	code := "internal"
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			code = ec.code
			break
		}
	}
	switch {
	case game.IsValidation(err):
		return http.StatusUnprocessableEntity, code
	case errors.Is(err, game.ErrNotFound):
		return http.StatusNotFound, code
	case errors.Is(err, game.ErrSessionCorrupted),
		errors.Is(err, game.ErrHandInProgress),
		errors.Is(err, game.ErrNotEnoughPlayers):
		return http.StatusConflict, code
	}
	return http.StatusInternalServerError, code
}
