package server

import (
	"encoding/json"
	"time"
)

// MessageType identifies a websocket message.
type MessageType string

const (
	// Client → server
	MessageTypeAction MessageType = "action"

	// Server → client
	MessageTypeState  MessageType = "state"
	MessageTypeResult MessageType = "result"
	MessageTypeError  MessageType = "error"
)

// Message is the websocket envelope.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a message stamped with the current time.
func NewMessage(messageType MessageType, data any) (*Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{Type: messageType, Data: raw, Timestamp: time.Now()}, nil
}

// ErrorData is the body of error responses on both transports.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
