package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lox/pokerbirds/internal/game"
	"github.com/lox/pokerbirds/internal/money"
)

// Amount is a money value given either as a decimal string in major units
// ("20.50") or as a JSON integer in minor units.
type Amount int64

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		cents, err := money.ParseCents(s)
		if err != nil {
			return err
		}
		*a = Amount(cents)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a decimal string or integer cents")
	}
	*a = Amount(n)
	return nil
}

// CreateGameRequest holds the lobby settings.
type CreateGameRequest struct {
	Seats      int    `json:"seats"`
	BuyIn      Amount `json:"buyIn"`
	SmallBlind Amount `json:"smallBlind"`
	BigBlind   Amount `json:"bigBlind"`
}

// ActionBody is an action as submitted over HTTP or the websocket. Amount
// accepts the same forms as the lobby amounts.
type ActionBody struct {
	Seat   int             `json:"seat"`
	Action game.ActionKind `json:"action"`
	Amount Amount          `json:"amount,omitempty"`
	Seq    uint64          `json:"seq,omitempty"`
}

// Request converts the body to an engine request.
func (b ActionBody) Request() game.ActionRequest {
	return game.ActionRequest{Seat: b.Seat, Kind: b.Action, Amount: int64(b.Amount), Seq: b.Seq}
}

// CreateGameResponse returns the new game's ID and lobby view.
type CreateGameResponse struct {
	GameID string          `json:"gameId"`
	State  game.PublicView `json:"state"`
}

// OutcomeResponse is returned by state-changing endpoints.
type OutcomeResponse struct {
	Message    string           `json:"message"`
	HandNumber int              `json:"handNumber"`
	Duplicate  bool             `json:"duplicate,omitempty"`
	State      *game.PublicView `json:"state,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	cfg := game.Config{
		Seats:      req.Seats,
		BuyIn:      int64(req.BuyIn),
		SmallBlind: int64(req.SmallBlind),
		BigBlind:   int64(req.BigBlind),
	}
	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_config", err.Error())
		return
	}
	id, view, err := s.manager.Create(r.Context(), cfg)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreateGameResponse{GameID: id, State: view})
}

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	viewer, err := seatParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	view, err := s.manager.View(r.Context(), chi.URLParam(r, "gameID"), viewer)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "gameID")
	s.respond(w, r, id, 0)(s.manager.Start(r.Context(), id))
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "gameID")
	s.respond(w, r, id, 0)(s.manager.End(r.Context(), id))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "gameID")
	s.respond(w, r, id, 0)(s.manager.Reset(r.Context(), id))
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var body ActionBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	req := body.Request()
	id := chi.URLParam(r, "gameID")
	s.respond(w, r, id, req.Seat)(s.manager.Act(r.Context(), id, req))
}

// respond writes the outcome with the table as seen by viewer.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, gameID string, viewer int) func(game.Outcome, error) {
	return func(out game.Outcome, err error) {
		if err != nil {
			s.fail(w, err)
			return
		}
		view, err := s.manager.View(r.Context(), gameID, viewer)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, OutcomeResponse{
			Message:    out.Message,
			HandNumber: out.HandNumber,
			Duplicate:  out.Duplicate,
			State:      &view,
		})
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeError(w, status, code, err.Error())
}

func seatParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("seat")
	if raw == "" {
		return 0, nil
	}
	seat, err := strconv.Atoi(raw)
	if err != nil || seat < 0 {
		return 0, fmt.Errorf("invalid seat %q", raw)
	}
	return seat, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorData{Code: code, Message: message})
}
