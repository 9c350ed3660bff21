package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
)

// MockChatModel records prompts and returns a canned reply
type MockChatModel struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts [][]domain.Message

	// GenerateFn overrides the canned reply when set
	GenerateFn func(ctx context.Context, messages []domain.Message) (string, error)
}

// NewMockChatModel creates a mock that always answers reply
func NewMockChatModel(reply string) *MockChatModel {
	return &MockChatModel{reply: reply}
}

func (m *MockChatModel) Generate(ctx context.Context, messages []domain.Message) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, append([]domain.Message(nil), messages...))
	fn, reply, err := m.GenerateFn, m.reply, m.err
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, messages)
	}
	if err != nil {
		return "", err
	}
	return reply, nil
}

func (m *MockChatModel) Model() string {
	return "mock-chat-model"
}

func (m *MockChatModel) Ping(ctx context.Context) error {
	return nil
}

func (m *MockChatModel) Close() error {
	return nil
}

// SetReply changes the canned reply
func (m *MockChatModel) SetReply(reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reply = reply
}

// SetError makes every Generate call fail with err
func (m *MockChatModel) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Prompts returns every prompt received, in call order
func (m *MockChatModel) Prompts() [][]domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]domain.Message(nil), m.prompts...)
}

// LastPrompt returns the most recent prompt, or nil
func (m *MockChatModel) LastPrompt() []domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return nil
	}
	return m.prompts[len(m.prompts)-1]
}
