package network

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MessageType identifies the semantic meaning of a message
type MessageType string

const (
	// Server to client
	MsgHello    MessageType = "hello"
	MsgSnapshot MessageType = "snapshot"

	// Client to server
	MsgInput MessageType = "input"
)

var ErrUnknownMessage = errors.New("unknown message type")

// Message is the JSON envelope for every websocket frame
type Message struct {
	Type    MessageType     `json:"type"`
	Seq     uint32          `json:"seq"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hello greets a new peer with its id
type Hello struct {
	Peer PeerID `json:"peer"`
}

// InputPayload carries remote vehicle controls, axes in [-1,1]
type InputPayload struct {
	Throttle float64 `json:"throttle"`
	Steer    float64 `json:"steer"`
}

// NewMessage wraps a payload value
func NewMessage(t MessageType, payload any) (*Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", t, err)
	}
	return &Message{Type: t, Payload: raw}, nil
}

// Decode parses one inbound frame
func Decode(data []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	switch m.Type {
	case MsgHello, MsgSnapshot, MsgInput:
		return &m, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, m.Type)
	}
}
