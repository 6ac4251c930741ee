package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/lox/pokerbirds/internal/table"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 8192
)

// Connection streams one table to a websocket client. The client may also
// submit actions for its seat.
type Connection struct {
	conn    *websocket.Conn
	send    chan *Message
	gameID  string
	seat    int
	manager *table.Manager
	logger  *log.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	seat, err := seatParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	updates, unsubscribe, err := s.manager.Subscribe(r.Context(), gameID, seat)
	if err != nil {
		s.fail(w, err)
		return
	}
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		unsubscribe()
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Connection{
		conn:    ws,
		send:    make(chan *Message, 64),
		gameID:  gameID,
		seat:    seat,
		manager: s.manager,
		logger:  s.logger.WithPrefix("conn").With("game_id", gameID, "seat", seat),
		ctx:     ctx,
		cancel:  cancel,
	}
	c.logger.Info("client connected")

	// Send the current state first so the client can render immediately.
	if view, err := s.manager.View(ctx, gameID, seat); err == nil {
		c.sendData(MessageTypeState, table.Update{GameID: gameID, Event: "snapshot", State: view})
	}

	go c.forward(updates, unsubscribe)
	go c.writePump()
	go c.readPump()
}

// Close tears down the connection once.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
		c.logger.Info("client disconnected")
	})
	return err
}

// forward relays table updates until the connection closes.
func (c *Connection) forward(updates <-chan table.Update, unsubscribe func()) {
	defer unsubscribe()
	for {
		select {
		case u, ok := <-updates:
			if !ok {
				_ = c.Close()
				return
			}
			c.sendData(MessageTypeState, u)
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Connection) sendData(t MessageType, data any) {
	msg, err := NewMessage(t, data)
	if err != nil {
		c.logger.Error("failed to encode message", "type", t, "error", err)
		return
	}
	select {
	case c.send <- msg:
	case <-c.ctx.Done():
	default:
		c.logger.Warn("send buffer full, closing connection")
		_ = c.Close()
	}
}

func (c *Connection) sendError(code, message string) {
	c.sendData(MessageTypeError, ErrorData{Code: code, Message: message})
}

func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket error", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
			return
		}
	}
}

func (c *Connection) handleMessage(msg *Message) {
	switch msg.Type {
	case MessageTypeAction:
		var body ActionBody
		if err := json.Unmarshal(msg.Data, &body); err != nil {
			c.sendError("invalid_message", "failed to parse action")
			return
		}
		req := body.Request()
		if c.seat == 0 {
			c.sendError("spectator", "spectators cannot act")
			return
		}
		// A connection acts only for the seat it joined as.
		req.Seat = c.seat
		out, err := c.manager.Act(c.ctx, c.gameID, req)
		if err != nil {
			_, code := classify(err)
			c.sendError(code, err.Error())
			return
		}
		c.sendData(MessageTypeResult, OutcomeResponse{
			Message:    out.Message,
			HandNumber: out.HandNumber,
			Duplicate:  out.Duplicate,
		})
	default:
		c.sendError("unknown_message_type", "unknown message type: "+string(msg.Type))
	}
}
