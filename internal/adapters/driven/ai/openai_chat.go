package ai

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven"
)

// Ensure OpenAIChat implements ChatModel
var _ driven.ChatModel = (*OpenAIChat)(nil)

// OpenAIChat implements ChatModel against an OpenAI-compatible chat completions API
type OpenAIChat struct {
	client     *openai.Client
	httpClient *http.Client
	model      string
}

// NewOpenAIChat creates a chat model using the OpenAI API
func NewOpenAIChat(apiKey, model, baseURL string) (driven.ChatModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = domain.DefaultChatModel
	}
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	client, httpClient := newClient(apiKey, baseURL)
	return &OpenAIChat{client: client, httpClient: httpClient, model: model}, nil
}

// NewOllamaChat creates a chat model backed by a local Ollama server
func NewOllamaChat(baseURL, model string) (driven.ChatModel, error) {
	if model == "" {
		return nil, fmt.Errorf("Ollama chat model is required")
	}
	if baseURL == "" {
		baseURL = domain.DefaultOllamaBaseURL
	}
	client, httpClient := newClient("", baseURL)
	return &OpenAIChat{client: client, httpClient: httpClient, model: model}, nil
}

// roles maps conversation roles to chat completion roles
var roles = map[domain.Role]string{
	domain.RoleUser:   openai.ChatMessageRoleUser,
	domain.RoleAI:     openai.ChatMessageRoleAssistant,
	domain.RoleSystem: openai.ChatMessageRoleSystem,
}

// Generate sends the prompt and returns the first choice's content
func (c *OpenAIChat) Generate(ctx context.Context, messages []domain.Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		role, ok := roles[m.Role]
		if !ok {
			return "", fmt.Errorf("chat completion: unknown role %q", m.Role)
		}
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", wrapAPIError("chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// Model returns the model name being used
func (c *OpenAIChat) Model() string {
	return c.model
}

// Ping verifies the API is reachable by listing models
func (c *OpenAIChat) Ping(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return wrapAPIError("list models", err)
	}
	return nil
}

// Close releases resources held by the chat model
func (c *OpenAIChat) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
