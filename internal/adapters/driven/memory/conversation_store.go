package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ConversationStore = (*ConversationStore)(nil)

// ConversationStore keeps conversations in a map. Reads return copies.
type ConversationStore struct {
	mu            sync.RWMutex
	conversations map[string]*domain.Conversation
}

// NewConversationStore creates an empty store
func NewConversationStore() *ConversationStore {
	return &ConversationStore{conversations: make(map[string]*domain.Conversation)}
}

// FindByID retrieves a conversation
func (s *ConversationStore) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(conv), nil
}

// Create stores a new empty conversation
func (s *ConversationStore) Create(ctx context.Context, in domain.NewConversation) (*domain.Conversation, error) {
	conv := domain.NewConversationRecord(uuid.NewString(), in, time.Now().UTC())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[conv.ID] = conv
	return clone(conv), nil
}

// MergeUpdate applies the patch to the stored conversation
func (s *ConversationStore) MergeUpdate(ctx context.Context, id string, patch domain.ConversationPatch) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	patch.Apply(conv, time.Now().UTC())
	return clone(conv), nil
}

// Ping always succeeds
func (s *ConversationStore) Ping(ctx context.Context) error {
	return nil
}

func clone(c *domain.Conversation) *domain.Conversation {
	out := *c
	out.Messages = append([]domain.Message{}, c.Messages...)
	out.Summaries = append([]string{}, c.Summaries...)
	return &out
}
