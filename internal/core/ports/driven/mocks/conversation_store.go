package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
)

// MockConversationStore is a mock implementation of ConversationStore for testing
type MockConversationStore struct {
	mu            sync.RWMutex
	conversations map[string]*domain.Conversation
	nextID        int
	updates       int

	// MergeUpdateFn fails MergeUpdate when it returns an error (optional)
	MergeUpdateFn func(id string, patch domain.ConversationPatch) error
	// AfterFindFn runs after every FindByID, outside the store mutex (optional)
	AfterFindFn func(ctx context.Context, id string)
}

// NewMockConversationStore creates a new MockConversationStore
func NewMockConversationStore() *MockConversationStore {
	return &MockConversationStore{
		conversations: make(map[string]*domain.Conversation),
	}
}

func (m *MockConversationStore) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	if m.AfterFindFn != nil {
		defer m.AfterFindFn(ctx, id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	conv, ok := m.conversations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneConversation(conv), nil
}

func (m *MockConversationStore) Create(ctx context.Context, in domain.NewConversation) (*domain.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	conv := domain.NewConversationRecord(fmt.Sprintf("conv-%d", m.nextID), in, time.Now())
	m.conversations[conv.ID] = conv
	return cloneConversation(conv), nil
}

func (m *MockConversationStore) MergeUpdate(ctx context.Context, id string, patch domain.ConversationPatch) (*domain.Conversation, error) {
	if m.MergeUpdateFn != nil {
		if err := m.MergeUpdateFn(id, patch); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	conv, ok := m.conversations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	patch.Apply(conv, time.Now())
	m.updates++
	return cloneConversation(conv), nil
}

func (m *MockConversationStore) Ping(ctx context.Context) error {
	return nil
}

// Helper methods for testing

// Put stores a conversation directly
func (m *MockConversationStore) Put(conv *domain.Conversation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversations[conv.ID] = cloneConversation(conv)
}

// Len returns the number of stored conversations
func (m *MockConversationStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conversations)
}

// Updates returns how many MergeUpdate calls succeeded
func (m *MockConversationStore) Updates() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.updates
}

func cloneConversation(c *domain.Conversation) *domain.Conversation {
	out := *c
	out.Messages = append([]domain.Message{}, c.Messages...)
	out.Summaries = append([]string{}, c.Summaries...)
	return &out
}
