package domain

import (
	"bytes"
	"encoding/json"
)

// Role is the speaker of a canonical message
type Role string

const (
	RoleUser   Role = "user"
	RoleAI     Role = "ai"
	RoleSystem Role = "system"
)

// Valid reports whether the role is one of the known speakers
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAI, RoleSystem:
		return true
	}
	return false
}

// Message is the canonical conversation message.
// It is the only shape persisted or passed between pipeline stages.
type Message struct {
	Role    Role   `json:"role" bson:"role"`
	Content string `json:"content" bson:"content"`
}

// MessageType is the discriminator carried by framework-tagged messages
type MessageType string

const (
	MessageTypeHuman  MessageType = "human"
	MessageTypeAI     MessageType = "ai"
	MessageTypeSystem MessageType = "system"
)

// TaggedMessage is the framework-native message shape identified by its type tag
type TaggedMessage struct {
	Type    MessageType `json:"type"`
	Content string      `json:"content"`
}

// RawMessage is any message value accepted by NormalizeMessages.
// The set of implementations is closed: Message and TaggedMessage.
type RawMessage interface {
	isRawMessage()
}

func (Message) isRawMessage()       {}
func (TaggedMessage) isRawMessage() {}

var tagToRole = map[MessageType]Role{
	MessageTypeHuman:  RoleUser,
	MessageTypeAI:     RoleAI,
	MessageTypeSystem: RoleSystem,
}

// NormalizeMessage converts one raw message to canonical form.
// ok is false when the value matches neither accepted shape.
func NormalizeMessage(raw RawMessage) (msg Message, ok bool) {
	switch m := raw.(type) {
	case Message:
		return m, m.Role.Valid()
	case *Message:
		if m == nil {
			return Message{}, false
		}
		return *m, m.Role.Valid()
	case TaggedMessage:
		role, found := tagToRole[m.Type]
		return Message{Role: role, Content: m.Content}, found
	case *TaggedMessage:
		if m == nil {
			return Message{}, false
		}
		role, found := tagToRole[m.Type]
		return Message{Role: role, Content: m.Content}, found
	}
	return Message{}, false
}

// NormalizeMessages converts a mixed-shape message list to canonical messages.
// Order is preserved. The first unclassifiable element fails the whole call
// with an *UnsupportedMessageError.
func NormalizeMessages(raws []RawMessage) ([]Message, error) {
	out := make([]Message, 0, len(raws))
	for i, raw := range raws {
		msg, ok := NormalizeMessage(raw)
		if !ok {
			return nil, &UnsupportedMessageError{Index: i, Value: raw}
		}
		out = append(out, msg)
	}
	return out, nil
}

// RawMessages lifts canonical messages into the normalizer's input type
func RawMessages(msgs []Message) []RawMessage {
	out := make([]RawMessage, len(msgs))
	for i, m := range msgs {
		out[i] = m
	}
	return out
}

// ParseRawMessage classifies a JSON object as a canonical or tagged message.
// Objects carrying a "role" key are canonical; otherwise a "type" key marks a
// tagged message. Anything else is returned as an *UnsupportedMessageError.
func ParseRawMessage(data []byte) (RawMessage, error) {
	unsupported := &UnsupportedMessageError{Value: json.RawMessage(bytes.TrimSpace(data))}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil, unsupported
	}

	if _, ok := fields["role"]; ok {
		var m Message
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, unsupported
		}
		return m, nil
	}
	if _, ok := fields["type"]; ok {
		var m TaggedMessage
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, unsupported
		}
		return m, nil
	}
	return nil, unsupported
}

// MessageList is a canonical message slice that decodes stored history of
// either shape through the normalizer.
type MessageList []Message

// UnmarshalJSON implements json.Unmarshaler
func (l *MessageList) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	raws := make([]RawMessage, len(items))
	for i, item := range items {
		raw, err := ParseRawMessage(item)
		if err != nil {
			if ue, ok := err.(*UnsupportedMessageError); ok {
				ue.Index = i
			}
			return err
		}
		raws[i] = raw
	}
	msgs, err := NormalizeMessages(raws)
	if err != nil {
		return err
	}
	*l = msgs
	return nil
}

// LastByRole returns the most recent message with the given role, or nil
func LastByRole(msgs []Message, role Role) *Message {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == role {
			m := msgs[i]
			return &m
		}
	}
	return nil
}
