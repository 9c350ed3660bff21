package postgres

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

// ConversationStore implements driven.ConversationStore using PostgreSQL.
// Messages and summaries live in JSONB columns.
type ConversationStore struct {
	db *DB
}

// NewConversationStore creates a new ConversationStore
func NewConversationStore(db *DB) *ConversationStore {
	return &ConversationStore{db: db}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

const conversationColumns = `id, messages, summaries, document_id, created_at, updated_at`

// FindByID retrieves a conversation
func (s *ConversationStore) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, id)
	return scanConversation(row)
}

// Create stores a new empty conversation
func (s *ConversationStore) Create(ctx context.Context, in domain.NewConversation) (*domain.Conversation, error) {
	conv := domain.NewConversationRecord(uuid.NewString(), in, time.Now().UTC())

	query := `
		INSERT INTO conversations (id, messages, summaries, document_id, created_at, updated_at)
		VALUES ($1, '[]'::jsonb, '[]'::jsonb, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query,
		conv.ID,
		NullString(optional(conv.DocumentID)),
		conv.CreatedAt,
		conv.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return conv, nil
}

// MergeUpdate applies the patch under a row lock so concurrent merges serialise
func (s *ConversationStore) MergeUpdate(ctx context.Context, id string, patch domain.ConversationPatch) (*domain.Conversation, error) {
	var conv *domain.Conversation

	err := s.db.Transaction(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE id = $1 FOR UPDATE`, id)
		current, err := scanConversation(row)
		if err != nil {
			return err
		}

		patch.Apply(current, time.Now().UTC())

		messagesJSON, err := json.Marshal(current.Messages)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE conversations
			SET messages = $2, document_id = $3, updated_at = $4
			WHERE id = $1
		`, id, messagesJSON, NullString(optional(current.DocumentID)), current.UpdatedAt)
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

// Ping checks if the database is reachable
func (s *ConversationStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func scanConversation(row rowScanner) (*domain.Conversation, error) {
	var (
		conv          domain.Conversation
		messagesJSON  []byte
		summariesJSON []byte
		documentID    sql.NullString
	)
	err := row.Scan(&conv.ID, &messagesJSON, &summariesJSON, &documentID, &conv.CreatedAt, &conv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := decodeHistory(messagesJSON, summariesJSON, &conv); err != nil {
		return nil, fmt.Errorf("conversation %s: %w", conv.ID, err)
	}
	if p := StringPtr(documentID); p != nil {
		conv.DocumentID = *p
	}
	return &conv, nil
}

// decodeHistory fills messages and summaries from their JSON columns.
// Stored messages of either shape are normalized on the way out.
func decodeHistory(messagesJSON, summariesJSON []byte, conv *domain.Conversation) error {
	var messages domain.MessageList
	if len(messagesJSON) > 0 {
		if err := json.Unmarshal(messagesJSON, &messages); err != nil {
			return err
		}
	}
	conv.Messages = []domain.Message(messages)
	if conv.Messages == nil {
		conv.Messages = []domain.Message{}
	}

	conv.Summaries = []string{}
	if len(summariesJSON) > 0 {
		if err := json.Unmarshal(summariesJSON, &conv.Summaries); err != nil {
			return err
		}
	}
	return nil
}

// optional returns nil for the empty string
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
