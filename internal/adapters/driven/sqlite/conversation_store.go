package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ConversationStore = (*ConversationStore)(nil)

// ConversationStore implements driven.ConversationStore using SQLite.
// Messages and summaries are JSON text columns.
type ConversationStore struct {
	db *DB
}

// NewConversationStore creates a new ConversationStore
func NewConversationStore(db *DB) *ConversationStore {
	return &ConversationStore{db: db}
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// FindByID retrieves a conversation
func (s *ConversationStore) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	return findConversation(ctx, s.db, id)
}

// Create stores a new empty conversation
func (s *ConversationStore) Create(ctx context.Context, in domain.NewConversation) (*domain.Conversation, error) {
	conv := domain.NewConversationRecord(uuid.NewString(), in, time.Now().UTC())

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversations (id, messages, summaries, document_id, created_at, updated_at)
		VALUES (?, '[]', '[]', ?, ?, ?)
	`, conv.ID, nullable(conv.DocumentID), formatTime(conv.CreatedAt), formatTime(conv.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return conv, nil
}

// MergeUpdate applies the patch inside a transaction
func (s *ConversationStore) MergeUpdate(ctx context.Context, id string, patch domain.ConversationPatch) (*domain.Conversation, error) {
	var conv *domain.Conversation

	err := s.db.Transaction(ctx, func(tx *sql.Tx) error {
		current, err := findConversation(ctx, tx, id)
		if err != nil {
			return err
		}
		patch.Apply(current, time.Now().UTC())

		messages, err := json.Marshal(current.Messages)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE conversations SET messages = ?, document_id = ?, updated_at = ? WHERE id = ?
		`, string(messages), nullable(current.DocumentID), formatTime(current.UpdatedAt), id)
		if err != nil {
			return err
		}
		conv = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Ping checks the database is usable
func (s *ConversationStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func findConversation(ctx context.Context, q queryer, id string) (*domain.Conversation, error) {
	var (
		conv                 domain.Conversation
		messages, summaries  string
		documentID           sql.NullString
		createdAt, updatedAt string
	)
	err := q.QueryRowContext(ctx, `
		SELECT id, messages, summaries, document_id, created_at, updated_at
		FROM conversations WHERE id = ?
	`, id).Scan(&conv.ID, &messages, &summaries, &documentID, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var history domain.MessageList
	if err := json.Unmarshal([]byte(messages), &history); err != nil {
		return nil, fmt.Errorf("conversation %s: %w", id, err)
	}
	conv.Messages = []domain.Message(history)
	if conv.Messages == nil {
		conv.Messages = []domain.Message{}
	}
	if err := json.Unmarshal([]byte(summaries), &conv.Summaries); err != nil {
		return nil, fmt.Errorf("conversation %s: %w", id, err)
	}
	if conv.Summaries == nil {
		conv.Summaries = []string{}
	}

	conv.DocumentID = documentID.String
	conv.CreatedAt = parseTime(createdAt)
	conv.UpdatedAt = parseTime(updatedAt)
	return &conv, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
