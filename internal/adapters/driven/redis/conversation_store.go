package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ConversationStore = (*ConversationStore)(nil)

const (
	conversationPrefix = "docchat:conversation:"

	// maxMergeRetries bounds optimistic retries when a watched key changes
	maxMergeRetries = 5
)

// ConversationStore implements driven.ConversationStore with one JSON value per conversation.
// A positive TTL expires idle conversations; every write refreshes it.
type ConversationStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewConversationStore creates a Redis-backed ConversationStore
func NewConversationStore(client redis.UniversalClient, ttl time.Duration) *ConversationStore {
	return &ConversationStore{client: client, ttl: ttl}
}

// conversationRecord is the stored JSON. Messages decode through the
// normalizer so entries written in the tagged shape are still readable.
type conversationRecord struct {
	ID         string             `json:"id"`
	Messages   domain.MessageList `json:"messages"`
	Summaries  []string           `json:"summaries"`
	DocumentID string             `json:"documentId,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

func toRecord(c *domain.Conversation) conversationRecord {
	return conversationRecord{
		ID:         c.ID,
		Messages:   domain.MessageList(c.Messages),
		Summaries:  c.Summaries,
		DocumentID: c.DocumentID,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func (r conversationRecord) toDomain() *domain.Conversation {
	c := &domain.Conversation{
		ID:         r.ID,
		Messages:   []domain.Message(r.Messages),
		Summaries:  r.Summaries,
		DocumentID: r.DocumentID,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if c.Messages == nil {
		c.Messages = []domain.Message{}
	}
	if c.Summaries == nil {
		c.Summaries = []string{}
	}
	return c
}

// FindByID retrieves a conversation
func (s *ConversationStore) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	return s.get(ctx, s.client, id)
}

// Create stores a new empty conversation
func (s *ConversationStore) Create(ctx context.Context, in domain.NewConversation) (*domain.Conversation, error) {
	conv := domain.NewConversationRecord(uuid.NewString(), in, time.Now().UTC())

	data, err := json.Marshal(toRecord(conv))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal conversation: %w", err)
	}
	ok, err := s.client.SetNX(ctx, conversationPrefix+conv.ID, data, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("conversation %s already exists", conv.ID)
	}
	return conv, nil
}

// MergeUpdate applies the patch in a WATCH/MULTI transaction, retrying if
// another writer changes the key in between.
func (s *ConversationStore) MergeUpdate(ctx context.Context, id string, patch domain.ConversationPatch) (*domain.Conversation, error) {
	key := conversationPrefix + id
	var updated *domain.Conversation

	txf := func(tx *redis.Tx) error {
		current, err := s.get(ctx, tx, id)
		if err != nil {
			return err
		}
		patch.Apply(current, time.Now().UTC())

		data, err := json.Marshal(toRecord(current))
		if err != nil {
			return fmt.Errorf("failed to marshal conversation: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = current
		return nil
	}

	for range maxMergeRetries {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, fmt.Errorf("merge conversation %s: too much contention", id)
}

// Ping checks if Redis is reachable
func (s *ConversationStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *ConversationStore) get(ctx context.Context, c redis.Cmdable, id string) (*domain.Conversation, error) {
	data, err := c.Get(ctx, conversationPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	var record conversationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation %s: %w", id, err)
	}
	return record.toDomain(), nil
}
