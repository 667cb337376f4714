package push

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event is the wire envelope for everything crossing the push channel,
// in both directions.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	TS      int64           `json:"ts,omitempty"`
}

// Event types understood by the server.
const (
	EventJoinChat        = "joinChat"
	EventSendMessage     = "sendMessage"
	EventMessageReceived = "messageReceived"
)

// JoinPayload enters the conversation room for a peer. The server routes
// subsequent messages between the two members of the room.
type JoinPayload struct {
	FirstName    string `json:"firstName"`
	UserID       string `json:"userId"`
	TargetUserID string `json:"targetUserId"`
}

// SendPayload carries one outbound message. Nonce identifies the send for
// server-side dedup on reconnect.
type SendPayload struct {
	Nonce        string `json:"nonce"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	UserID       string `json:"userId"`
	TargetUserID string `json:"targetUserId"`
	Text         string `json:"text"`
}

// IncomingMessage is the payload of a messageReceived event. Sent
// messages come back through here too; the client never echoes locally.
type IncomingMessage struct {
	SenderID  string `json:"senderId,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Text      string `json:"text"`
}

// NewEvent builds an envelope around a payload.
func NewEvent(eventType string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Event{
		Type:    eventType,
		Payload: data,
		TS:      time.Now().UnixMilli(),
	}, nil
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("%s event has no payload", e.Type)
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}
