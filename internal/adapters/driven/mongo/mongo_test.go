package mongo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
)

func rawDoc(t *testing.T, v any) bson.Raw {
	t.Helper()
	data, err := bson.Marshal(v)
	require.NoError(t, err)
	return bson.Raw(data)
}

func TestSearchPipeline(t *testing.T) {
	query := domain.VectorQuery{DocumentID: "doc-1", Vector: []float32{0.1, 0.2}}.WithDefaults()
	pipeline := searchPipeline("vector_index", query)

	require.Len(t, pipeline, 2)
	stage := pipeline[0][0]
	assert.Equal(t, "$vectorSearch", stage.Key)

	fields := stage.Value.(bson.D).Map()
	assert.Equal(t, "vector_index", fields["index"])
	assert.Equal(t, "vector", fields["path"])
	assert.Equal(t, 10, fields["numCandidates"])
	assert.Equal(t, 5, fields["limit"])
	assert.Equal(t, bson.D{{Key: "pdfId", Value: "doc-1"}}, fields["filter"])
}

func TestUpdateFor(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	update := updateFor(domain.ConversationPatch{}, now)
	set := update[0].Value.(bson.D)
	assert.Len(t, set, 1, "empty patch only bumps updatedAt")

	docID := "doc-2"
	msgs := []domain.Message{{Role: domain.RoleUser, Content: "q"}}
	update = updateFor(domain.ConversationPatch{Messages: msgs, DocumentID: &docID}, now)
	fields := update[0].Value.(bson.D).Map()
	assert.Equal(t, now, fields["updatedAt"])
	assert.Equal(t, msgs, fields["messages"])
	assert.Equal(t, "doc-2", fields["pdfId"])
}

func TestDecodeMessages(t *testing.T) {
	raws := []bson.Raw{
		rawDoc(t, bson.D{{Key: "role", Value: "user"}, {Key: "content", Value: "q"}}),
		rawDoc(t, bson.D{{Key: "type", Value: "ai"}, {Key: "content", Value: "a"}}),
		rawDoc(t, bson.D{{Key: "type", Value: "system"}, {Key: "content", Value: "s"}}),
	}

	msgs, err := decodeMessages(raws)
	require.NoError(t, err)
	assert.Equal(t, []domain.Message{
		{Role: domain.RoleUser, Content: "q"},
		{Role: domain.RoleAI, Content: "a"},
		{Role: domain.RoleSystem, Content: "s"},
	}, msgs)
}

func TestDecodeMessages_Unsupported(t *testing.T) {
	raws := []bson.Raw{
		rawDoc(t, bson.D{{Key: "role", Value: "user"}, {Key: "content", Value: "q"}}),
		rawDoc(t, bson.D{{Key: "speaker", Value: "bot"}}),
	}

	_, err := decodeMessages(raws)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedMessage))

	var ue *domain.UnsupportedMessageError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, 1, ue.Index)
}

func TestConversationDocument_ToDomain(t *testing.T) {
	oid := primitive.NewObjectID()
	doc := conversationDocument{ID: oid, DocumentID: "doc-1"}

	conv, err := doc.toDomain()
	require.NoError(t, err)
	assert.Equal(t, oid.Hex(), conv.ID)
	assert.NotNil(t, conv.Messages)
	assert.NotNil(t, conv.Summaries)
	assert.Equal(t, "doc-1", conv.DocumentID)
}

func TestDocumentBSON(t *testing.T) {
	doc := &domain.Document{ID: "doc-1", Filename: "a.pdf", MimeType: "application/pdf", ChunkCount: 3}
	assert.Equal(t, doc, documentBSON(doc).toDomain())
}
