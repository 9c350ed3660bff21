package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-docchat/internal/metrics"
)

// Ensure chatService implements ChatService
var _ driving.ChatService = (*chatService)(nil)

const (
	defaultTurnLockTTL = 2 * time.Minute
	previewLength      = 80
)

// ChatServiceConfig holds dependencies for the chat service.
type ChatServiceConfig struct {
	Conversations driven.ConversationStore
	Pipeline      *ConversationPipeline

	// TurnLock serialises turns per conversation when set.
	// Without it concurrent turns on one conversation are last-write-wins.
	TurnLock    driven.DistributedLock
	TurnLockTTL time.Duration

	Logger *slog.Logger
}

type chatService struct {
	conversations driven.ConversationStore
	pipeline      *ConversationPipeline
	lock          driven.DistributedLock
	lockTTL       time.Duration
	logger        *slog.Logger
}

// NewChatService creates a new ChatService
func NewChatService(cfg ChatServiceConfig) driving.ChatService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := cfg.TurnLockTTL
	if ttl <= 0 {
		ttl = defaultTurnLockTTL
	}
	return &chatService{
		conversations: cfg.Conversations,
		pipeline:      cfg.Pipeline,
		lock:          cfg.TurnLock,
		lockTTL:       ttl,
		logger:        logger,
	}
}

// HandleTurn runs one user turn end to end.
// Nothing is persisted when generation fails.
func (s *chatService) HandleTurn(ctx context.Context, req domain.TurnRequest) (*domain.TurnResult, error) {
	if req.Message == "" {
		return nil, fmt.Errorf("%w: message is required", domain.ErrInvalidInput)
	}

	conv, err := s.resolve(ctx, req)
	if err != nil {
		metrics.RecordTurn("error")
		return nil, err
	}

	if s.lock != nil {
		release, err := s.acquire(ctx, conv.ID)
		if err != nil {
			metrics.RecordTurn("busy")
			return nil, err
		}
		defer release()

		// Another turn may have saved while this one waited on resolve.
		conv, err = s.conversations.FindByID(ctx, conv.ID)
		if err != nil {
			metrics.RecordTurn("error")
			return nil, fmt.Errorf("reload conversation: %w", err)
		}
	}

	history := append(domain.RawMessages(conv.Messages), domain.Message{Role: domain.RoleUser, Content: req.Message})
	messages, err := domain.NormalizeMessages(history)
	if err != nil {
		metrics.RecordTurn("error")
		return nil, fmt.Errorf("normalize history of %s: %w", conv.ID, err)
	}

	documentID := req.DocumentID
	if documentID == "" {
		documentID = conv.DocumentID
	}

	out, err := s.pipeline.Run(ctx, domain.ConversationState{
		ConversationID: conv.ID,
		DocumentID:     documentID,
		Messages:       messages,
	})
	if err != nil {
		metrics.RecordTurn("error")
		return nil, err
	}

	patch := domain.ConversationPatch{Messages: out.Messages}
	if documentID != "" {
		patch.DocumentID = &documentID
	}
	saved, err := s.conversations.MergeUpdate(ctx, conv.ID, patch)
	if err != nil {
		metrics.RecordTurn("error")
		return nil, fmt.Errorf("save conversation %s: %w", conv.ID, err)
	}

	ai := domain.LastByRole(saved.Messages, domain.RoleAI)
	preview := ""
	if ai != nil {
		preview = truncate(ai.Content, previewLength)
	}
	s.logger.Info("turn completed",
		"conversation_id", saved.ID,
		"document_id", saved.DocumentID,
		"messages", len(saved.Messages),
		"ai_preview", preview,
	)
	metrics.RecordTurn("success")

	return &domain.TurnResult{
		ConversationID: saved.ID,
		AI:             ai,
		Messages:       saved.Messages,
	}, nil
}

// GetConversation returns a stored conversation
func (s *chatService) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: conversation id is required", domain.ErrInvalidInput)
	}
	return s.conversations.FindByID(ctx, id)
}

// resolve finds the requested conversation or creates a new one.
// An unknown id starts a fresh conversation under a new id.
func (s *chatService) resolve(ctx context.Context, req domain.TurnRequest) (*domain.Conversation, error) {
	if req.ConversationID != "" {
		conv, err := s.conversations.FindByID(ctx, req.ConversationID)
		if err == nil {
			return conv, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("load conversation %s: %w", req.ConversationID, err)
		}
		s.logger.Debug("conversation not found, starting a new one", "requested_id", req.ConversationID)
	}

	conv, err := s.conversations.Create(ctx, domain.NewConversation{DocumentID: req.DocumentID})
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return conv, nil
}

func (s *chatService) acquire(ctx context.Context, conversationID string) (func(), error) {
	name := "conversation:" + conversationID
	acquired, err := s.lock.Acquire(ctx, name, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire turn lock: %w", err)
	}
	if !acquired {
		return nil, fmt.Errorf("%w: %s", domain.ErrConversationBusy, conversationID)
	}
	return func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), name); err != nil {
			s.logger.Warn("failed to release turn lock", "conversation_id", conversationID, "error", err)
		}
	}, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
