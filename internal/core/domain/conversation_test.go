package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewConversationRecord(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	conv := NewConversationRecord("conv-1", NewConversation{DocumentID: "doc-1"}, now)

	if conv.ID != "conv-1" {
		t.Errorf("expected ID conv-1, got %s", conv.ID)
	}
	if conv.DocumentID != "doc-1" {
		t.Errorf("expected DocumentID doc-1, got %s", conv.DocumentID)
	}
	if conv.Messages == nil || len(conv.Messages) != 0 {
		t.Errorf("expected empty non-nil messages, got %v", conv.Messages)
	}
	if conv.Summaries == nil || len(conv.Summaries) != 0 {
		t.Errorf("expected empty non-nil summaries, got %v", conv.Summaries)
	}
	if !conv.CreatedAt.Equal(now) || !conv.UpdatedAt.Equal(now) {
		t.Error("expected timestamps to equal creation time")
	}
}

func TestConversationPatch_Apply(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	later := created.Add(time.Minute)
	docID := "doc-2"

	tests := []struct {
		name      string
		patch     ConversationPatch
		wantMsgs  int
		wantDocID string
	}{
		{"empty patch only bumps timestamp", ConversationPatch{}, 1, "doc-1"},
		{"messages only", ConversationPatch{Messages: []Message{{Role: RoleUser}, {Role: RoleAI}}}, 2, "doc-1"},
		{"document only", ConversationPatch{DocumentID: &docID}, 1, "doc-2"},
		{"empty messages replace", ConversationPatch{Messages: []Message{}}, 0, "doc-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := &Conversation{
				ID:         "conv-1",
				Messages:   []Message{{Role: RoleUser, Content: "hi"}},
				Summaries:  []string{"s1"},
				DocumentID: "doc-1",
				CreatedAt:  created,
				UpdatedAt:  created,
			}

			tt.patch.Apply(conv, later)

			if len(conv.Messages) != tt.wantMsgs {
				t.Errorf("expected %d messages, got %d", tt.wantMsgs, len(conv.Messages))
			}
			if conv.DocumentID != tt.wantDocID {
				t.Errorf("expected DocumentID %s, got %s", tt.wantDocID, conv.DocumentID)
			}
			if len(conv.Summaries) != 1 || conv.Summaries[0] != "s1" {
				t.Errorf("expected summaries untouched, got %v", conv.Summaries)
			}
			if !conv.CreatedAt.Equal(created) {
				t.Error("expected CreatedAt untouched")
			}
			if !conv.UpdatedAt.Equal(later) {
				t.Error("expected UpdatedAt bumped")
			}
		})
	}
}

func TestConversationPatch_ApplyCopiesMessages(t *testing.T) {
	msgs := []Message{{Role: RoleUser, Content: "a"}}
	conv := &Conversation{}

	ConversationPatch{Messages: msgs}.Apply(conv, time.Now())
	msgs[0].Content = "changed"

	if conv.Messages[0].Content != "a" {
		t.Error("expected conversation to hold its own copy of messages")
	}
}

func TestConversationState_WithMessages(t *testing.T) {
	orig := ConversationState{
		ConversationID: "conv-1",
		DocumentID:     "doc-1",
		Messages:       []Message{{Role: RoleUser, Content: "a"}},
	}

	next := orig.WithMessages(append(append([]Message(nil), orig.Messages...), Message{Role: RoleAI, Content: "b"}))

	if len(orig.Messages) != 1 {
		t.Errorf("expected original state unchanged, got %d messages", len(orig.Messages))
	}
	if len(next.Messages) != 2 || next.DocumentID != "doc-1" || next.ConversationID != "conv-1" {
		t.Errorf("unexpected next state %+v", next)
	}
}

func TestTurnRequest_JSON(t *testing.T) {
	var req TurnRequest
	if err := json.Unmarshal([]byte(`{"conversationId":"c","documentId":"d","message":"m"}`), &req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.ConversationID != "c" || req.DocumentID != "d" || req.Message != "m" {
		t.Errorf("unexpected request %+v", req)
	}
}
