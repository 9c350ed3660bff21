package postgres

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
)

func TestDecodeHistory_MixedShapes(t *testing.T) {
	messages := []byte(`[
		{"role":"user","content":"What is the notice period?"},
		{"type":"ai","content":"Thirty days."},
		{"type":"human","content":"And for contractors?"}
	]`)

	var conv domain.Conversation
	require.NoError(t, decodeHistory(messages, []byte(`["s1"]`), &conv))

	assert.Equal(t, []domain.Message{
		{Role: domain.RoleUser, Content: "What is the notice period?"},
		{Role: domain.RoleAI, Content: "Thirty days."},
		{Role: domain.RoleUser, Content: "And for contractors?"},
	}, conv.Messages)
	assert.Equal(t, []string{"s1"}, conv.Summaries)
}

func TestDecodeHistory_Empty(t *testing.T) {
	var conv domain.Conversation
	require.NoError(t, decodeHistory(nil, nil, &conv))

	assert.NotNil(t, conv.Messages)
	assert.Empty(t, conv.Messages)
	assert.NotNil(t, conv.Summaries)
}

func TestDecodeHistory_Unsupported(t *testing.T) {
	var conv domain.Conversation
	err := decodeHistory([]byte(`[{"role":"user","content":"hi"},{"speaker":"bot"}]`), nil, &conv)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedMessage))

	var ue *domain.UnsupportedMessageError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, 1, ue.Index)
}

func TestOptional(t *testing.T) {
	assert.Nil(t, optional(""))
	require.NotNil(t, optional("doc-1"))
	assert.Equal(t, "doc-1", *optional("doc-1"))
}
