package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/swaggo/swag"

	"github.com/custodia-labs/sercha-docchat/docs"
	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
)

// degradedReply is returned in place of a model answer when generation fails
const degradedReply = "Sorry, I couldn't generate an answer right now. Please try again in a moment."

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// ReadyResponse reports readiness per backend
// @Description Readiness status with per-backend checks
type ReadyResponse struct {
	Status string            `json:"status" example:"ready"`
	Checks map[string]string `json:"checks,omitempty"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// UploadResponse is returned after a document has been indexed
// @Description Result of a document upload
type UploadResponse struct {
	DocumentID string `json:"documentId" example:"3f0c9a4e-0d1b-4a39-9f0e-5f1b2c7d8e90"`
	PdfID      string `json:"pdfId" example:"3f0c9a4e-0d1b-4a39-9f0e-5f1b2c7d8e90"`
	ChunkCount int    `json:"chunkCount" example:"12"`
}

// ChatRequest is a single user turn
// @Description Chat turn request. pdfId is accepted as an alias of documentId.
type ChatRequest struct {
	ConversationID string `json:"conversationId,omitempty"`
	DocumentID     string `json:"documentId,omitempty"`
	PdfID          string `json:"pdfId,omitempty"`
	Message        string `json:"message" example:"What is the termination clause?"`
}

// ChatResponse carries the reply and the full conversation history.
// A degraded reply carries only the apology in AI and omits Messages.
// @Description Chat turn response
type ChatResponse struct {
	ConversationID string           `json:"conversationId"`
	AI             *domain.Message  `json:"ai"`
	Messages       []domain.Message `json:"messages,omitempty"`
	Degraded       bool             `json:"degraded,omitempty"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Pings the configured storage backends
// @Tags         Health
// @Produce      json
// @Success      200  {object}  ReadyResponse
// @Failure      503  {object}  ReadyResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := ReadyResponse{Status: "ready", Checks: make(map[string]string, len(s.checks))}
	status := http.StatusOK
	for name, check := range s.checks {
		if err := check.Ping(ctx); err != nil {
			s.logger.Warn("readiness check failed", "backend", name, "error", err)
			resp.Checks[name] = err.Error()
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	writeJSON(w, status, resp)
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.version})
}

func (s *Server) handleSwagger(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "api docs unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, doc)
}

// Document endpoints

// handleUpload godoc
// @Summary      Upload a document
// @Description  Extracts, chunks, embeds and indexes an uploaded document
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Document to index"
// @Success      201   {object}  UploadResponse
// @Failure      400   {object}  ErrorResponse  "Missing or empty file"
// @Failure      413   {object}  ErrorResponse  "Upload too large"
// @Failure      415   {object}  ErrorResponse  "No extractor for the document type"
// @Failure      502   {object}  ErrorResponse  "Indexing aborted"
// @Failure      503   {object}  ErrorResponse  "Embedding service unavailable"
// @Router       /documents [post]
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "file is empty")
		return
	}

	result, err := s.ingestionService.Ingest(r.Context(), domain.IngestRequest{
		Filename: header.Filename,
		Data:     data,
	})
	if err != nil {
		s.writeDomainError(w, "ingest document", err)
		return
	}

	writeJSON(w, http.StatusCreated, UploadResponse{
		DocumentID: result.DocumentID,
		PdfID:      result.DocumentID,
		ChunkCount: result.ChunkCount,
	})
}

// handleGetDocument godoc
// @Summary      Get document
// @Description  Returns the registry entry of an ingested document
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  domain.Document
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Router       /documents/{id} [get]
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.ingestionService.GetDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, "get document", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Chat endpoints

// handleChat godoc
// @Summary      Chat turn
// @Description  Appends the message to a conversation and answers it from the bound document
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      ChatRequest  true  "Chat turn"
// @Success      200      {object}  ChatResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      409      {object}  ErrorResponse  "Another turn is running"
// @Failure      422      {object}  ErrorResponse  "Stored history has an unsupported message"
// @Router       /chat [post]
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	documentID := req.DocumentID
	if documentID == "" {
		documentID = req.PdfID
	}

	result, err := s.chatService.HandleTurn(r.Context(), domain.TurnRequest{
		ConversationID: req.ConversationID,
		DocumentID:     documentID,
		Message:        req.Message,
	})
	if err != nil {
		var genErr *domain.GenerationError
		if errors.As(err, &genErr) {
			s.logger.Warn("generation failed, sending degraded reply",
				"conversation_id", genErr.ConversationID, "error", genErr.Err)
			writeJSON(w, http.StatusOK, ChatResponse{
				ConversationID: genErr.ConversationID,
				AI:             &domain.Message{Role: domain.RoleAI, Content: degradedReply},
				Degraded:       true,
			})
			return
		}
		s.writeDomainError(w, "chat turn", err)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		ConversationID: result.ConversationID,
		AI:             result.AI,
		Messages:       result.Messages,
	})
}

// handleGetConversation godoc
// @Summary      Get conversation
// @Description  Returns a stored conversation with its canonical message history
// @Tags         Chat
// @Produce      json
// @Param        id   path      string  true  "Conversation ID"
// @Success      200  {object}  domain.Conversation
// @Failure      404  {object}  ErrorResponse  "Conversation not found"
// @Router       /conversations/{id} [get]
func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := s.chatService.GetConversation(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, "get conversation", err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

// Helper functions

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConversationBusy):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnsupportedMessage):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrIngestionFailed):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeDomainError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
		if status == http.StatusInternalServerError {
			writeError(w, status, "internal server error")
			return
		}
	}
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
