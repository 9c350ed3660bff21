package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ConversationStore = (*ConversationStore)(nil)

// conversationDocument is the stored shape. Messages are kept raw so both
// canonical and tagged entries can be read back.
type conversationDocument struct {
	ID         primitive.ObjectID `bson:"_id"`
	Messages   []bson.Raw         `bson:"messages"`
	Summaries  []string           `bson:"summaries"`
	DocumentID string             `bson:"pdfId,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

// ConversationStore implements driven.ConversationStore using MongoDB.
// Ids are ObjectID hex strings.
type ConversationStore struct {
	coll *mongo.Collection
}

// NewConversationStore creates a ConversationStore on the conversations collection
func NewConversationStore(c *Client) *ConversationStore {
	return &ConversationStore{coll: c.Collection(ConversationsCollection)}
}

// FindByID retrieves a conversation
func (s *ConversationStore) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	var doc conversationDocument
	err = s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}
	return doc.toDomain()
}

// Create stores a new empty conversation
func (s *ConversationStore) Create(ctx context.Context, in domain.NewConversation) (*domain.Conversation, error) {
	oid := primitive.NewObjectID()
	conv := domain.NewConversationRecord(oid.Hex(), in, time.Now().UTC().Truncate(time.Millisecond))

	_, err := s.coll.InsertOne(ctx, conversationDocument{
		ID:         oid,
		Messages:   []bson.Raw{},
		Summaries:  []string{},
		DocumentID: conv.DocumentID,
		CreatedAt:  conv.CreatedAt,
		UpdatedAt:  conv.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv, nil
}

// MergeUpdate sets only the patched fields and returns the updated conversation
func (s *ConversationStore) MergeUpdate(ctx context.Context, id string, patch domain.ConversationPatch) (*domain.Conversation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc conversationDocument
	err = s.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, updateFor(patch, time.Now().UTC()), opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update conversation: %w", err)
	}
	return doc.toDomain()
}

// Ping pings the deployment
func (s *ConversationStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

// updateFor builds the $set document for a patch
func updateFor(patch domain.ConversationPatch, now time.Time) bson.D {
	set := bson.D{{Key: "updatedAt", Value: now}}
	if patch.Messages != nil {
		set = append(set, bson.E{Key: "messages", Value: patch.Messages})
	}
	if patch.DocumentID != nil {
		set = append(set, bson.E{Key: "pdfId", Value: *patch.DocumentID})
	}
	return bson.D{{Key: "$set", Value: set}}
}

func (d conversationDocument) toDomain() (*domain.Conversation, error) {
	messages, err := decodeMessages(d.Messages)
	if err != nil {
		return nil, fmt.Errorf("conversation %s: %w", d.ID.Hex(), err)
	}
	summaries := d.Summaries
	if summaries == nil {
		summaries = []string{}
	}
	return &domain.Conversation{
		ID:         d.ID.Hex(),
		Messages:   messages,
		Summaries:  summaries,
		DocumentID: d.DocumentID,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}, nil
}

// decodeMessages classifies each stored entry by its role or type field and
// normalizes the list.
func decodeMessages(raws []bson.Raw) ([]domain.Message, error) {
	values := make([]domain.RawMessage, len(raws))
	for i, raw := range raws {
		switch {
		case raw.Lookup("role").Type != 0:
			var m domain.Message
			if err := bson.Unmarshal(raw, &m); err != nil {
				return nil, &domain.UnsupportedMessageError{Index: i, Value: raw.String()}
			}
			values[i] = m
		case raw.Lookup("type").Type != 0:
			var m domain.TaggedMessage
			if err := bson.Unmarshal(raw, &m); err != nil {
				return nil, &domain.UnsupportedMessageError{Index: i, Value: raw.String()}
			}
			values[i] = m
		default:
			return nil, &domain.UnsupportedMessageError{Index: i, Value: raw.String()}
		}
	}
	return domain.NormalizeMessages(values)
}
