package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-docchat/internal/metrics"
	"github.com/custodia-labs/sercha-docchat/internal/runtime"
)

// Stage is one step of the conversation pipeline.
// Run must return a new state and leave its input untouched.
type Stage interface {
	Name() string
	Run(ctx context.Context, state domain.ConversationState) (domain.ConversationState, error)
}

// Ensure stages implement Stage
var (
	_ Stage = (*RetrievalStage)(nil)
	_ Stage = (*GenerationStage)(nil)
)

// RetrievalStageConfig holds dependencies for the retrieval stage.
type RetrievalStageConfig struct {
	Index         driven.VectorIndex
	Services      *runtime.Services
	Limit         int // default domain.DefaultSearchLimit
	NumCandidates int // default domain.DefaultNumCandidates
	Logger        *slog.Logger
}

// RetrievalStage fills the state context with document excerpts relevant to
// the latest user message. It never fails: any problem yields an empty context.
type RetrievalStage struct {
	index         driven.VectorIndex
	services      *runtime.Services
	limit         int
	numCandidates int
	logger        *slog.Logger
}

// NewRetrievalStage creates a new retrieval stage
func NewRetrievalStage(cfg RetrievalStageConfig) *RetrievalStage {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RetrievalStage{
		index:         cfg.Index,
		services:      cfg.Services,
		limit:         cfg.Limit,
		numCandidates: cfg.NumCandidates,
		logger:        logger,
	}
}

func (r *RetrievalStage) Name() string {
	return "retrieval"
}

// Run embeds the last user message and joins the nearest chunks of the
// bound document with newlines, most similar first.
func (r *RetrievalStage) Run(ctx context.Context, state domain.ConversationState) (domain.ConversationState, error) {
	next := state
	next.Context = ""

	if state.DocumentID == "" {
		return next, nil
	}
	lastUser := domain.LastByRole(state.Messages, domain.RoleUser)
	if lastUser == nil {
		return next, nil
	}

	embedder := r.services.EmbeddingService()
	if embedder == nil {
		r.degrade("embedding_unavailable", state, nil)
		return next, nil
	}

	vector, err := embedder.EmbedQuery(ctx, lastUser.Content)
	if err != nil {
		r.degrade("embed_error", state, err)
		return next, nil
	}

	query := domain.VectorQuery{
		DocumentID:    state.DocumentID,
		Vector:        vector,
		Limit:         r.limit,
		NumCandidates: r.numCandidates,
	}.WithDefaults()

	hits, err := r.index.Search(ctx, query)
	if err != nil {
		r.degrade("search_error", state, err)
		return next, nil
	}

	excerpts := make([]string, 0, len(hits))
	for _, hit := range hits {
		if hit == nil || hit.Chunk == nil {
			continue
		}
		excerpts = append(excerpts, hit.Chunk.Content)
	}
	next.Context = strings.Join(excerpts, "\n")

	r.logger.Debug("retrieved excerpts",
		"conversation_id", state.ConversationID,
		"document_id", state.DocumentID,
		"hits", len(excerpts),
	)
	return next, nil
}

func (r *RetrievalStage) degrade(reason string, state domain.ConversationState, err error) {
	metrics.RecordRetrievalDegraded(reason)
	r.logger.Warn("retrieval degraded to empty context",
		"reason", reason,
		"conversation_id", state.ConversationID,
		"document_id", state.DocumentID,
		"error", err,
	)
}

// NoAnswerReply is what the model is told to say when the document lacks the answer
const NoAnswerReply = "The document does not provide this information."

const noExcerpts = "(no relevant excerpts found)"

// SystemPrompt returns the instruction message built around the retrieved context
func SystemPrompt(excerpts string) domain.Message {
	if excerpts == "" {
		excerpts = noExcerpts
	}
	return domain.Message{
		Role: domain.RoleSystem,
		Content: "You are a helpful document assistant. Use ONLY the provided document excerpts when possible. \n" +
			"If the answer is not in the document, reply: \"" + NoAnswerReply + "\"\n\n" +
			"Document context:\n" + excerpts,
	}
}

// BuildPrompt puts the synthesized system message first and drops any
// system messages already in the history.
func BuildPrompt(excerpts string, history []domain.Message) []domain.Message {
	prompt := make([]domain.Message, 0, len(history)+1)
	prompt = append(prompt, SystemPrompt(excerpts))
	for _, m := range history {
		if m.Role == domain.RoleSystem {
			continue
		}
		prompt = append(prompt, m)
	}
	return prompt
}

// GenerationStage asks the chat model for the next ai message
type GenerationStage struct {
	services *runtime.Services
	logger   *slog.Logger
}

// NewGenerationStage creates a new generation stage
func NewGenerationStage(services *runtime.Services, logger *slog.Logger) *GenerationStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerationStage{services: services, logger: logger}
}

func (g *GenerationStage) Name() string {
	return "generation"
}

// Run appends the model reply to the messages. Model errors are returned as
// *domain.GenerationError.
func (g *GenerationStage) Run(ctx context.Context, state domain.ConversationState) (domain.ConversationState, error) {
	model := g.services.ChatModel()
	if model == nil {
		return state, &domain.GenerationError{ConversationID: state.ConversationID, Err: domain.ErrServiceUnavailable}
	}

	reply, err := model.Generate(ctx, BuildPrompt(state.Context, state.Messages))
	if err != nil {
		return state, &domain.GenerationError{ConversationID: state.ConversationID, Err: err}
	}

	messages := make([]domain.Message, 0, len(state.Messages)+1)
	messages = append(messages, state.Messages...)
	messages = append(messages, domain.Message{Role: domain.RoleAI, Content: reply})

	return state.WithMessages(messages), nil
}
