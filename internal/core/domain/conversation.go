package domain

import "time"

// Conversation is the persisted record of a chat session
type Conversation struct {
	ID         string    `json:"id"`
	Messages   []Message `json:"messages"`
	Summaries  []string  `json:"summaries"`
	DocumentID string    `json:"documentId,omitempty"` // Bound document, empty when unbound
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewConversation holds the fields supplied when a conversation is created
type NewConversation struct {
	DocumentID string
}

// ConversationPatch is a partial update. Nil fields are left untouched.
type ConversationPatch struct {
	Messages   []Message
	DocumentID *string
}

// Apply merges the patch into c and bumps UpdatedAt.
// Summaries and CreatedAt are never touched.
func (p ConversationPatch) Apply(c *Conversation, now time.Time) {
	if p.Messages != nil {
		c.Messages = append([]Message(nil), p.Messages...)
	}
	if p.DocumentID != nil {
		c.DocumentID = *p.DocumentID
	}
	c.UpdatedAt = now
}

// NewConversationRecord builds an empty conversation with the given id
func NewConversationRecord(id string, in NewConversation, now time.Time) *Conversation {
	return &Conversation{
		ID:         id,
		Messages:   []Message{},
		Summaries:  []string{},
		DocumentID: in.DocumentID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ConversationState is the value carried between pipeline stages
type ConversationState struct {
	ConversationID string
	DocumentID     string
	Messages       []Message
	Context        string
}

// WithMessages returns a copy of s holding msgs
func (s ConversationState) WithMessages(msgs []Message) ConversationState {
	s.Messages = msgs
	return s
}

// TurnRequest is a single user turn
type TurnRequest struct {
	ConversationID string `json:"conversationId,omitempty"`
	DocumentID     string `json:"documentId,omitempty"`
	Message        string `json:"message"`
}

// TurnResult is the outcome of a completed turn
type TurnResult struct {
	ConversationID string    `json:"conversationId"`
	AI             *Message  `json:"ai"`
	Messages       []Message `json:"messages"`
}
