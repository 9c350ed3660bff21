package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-docchat/internal/metrics"
	"github.com/custodia-labs/sercha-docchat/internal/runtime"
)

// Ensure ingestionService implements IngestionService
var _ driving.IngestionService = (*ingestionService)(nil)

const (
	progressEvery            = 10
	defaultIngestConcurrency = 4
)

// IngestionServiceConfig holds dependencies for the ingestion service.
type IngestionServiceConfig struct {
	Index      driven.VectorIndex
	Documents  driven.DocumentStore // optional registry
	Extractors driven.ExtractorRegistry
	Pipeline   driven.PostProcessorPipeline
	Services   *runtime.Services

	// Concurrency bounds parallel embed+insert work. Zero uses 4.
	Concurrency int

	Logger *slog.Logger
}

type ingestionService struct {
	index       driven.VectorIndex
	documents   driven.DocumentStore
	extractors  driven.ExtractorRegistry
	pipeline    driven.PostProcessorPipeline
	services    *runtime.Services
	concurrency int
	logger      *slog.Logger
}

// NewIngestionService creates a new IngestionService
func NewIngestionService(cfg IngestionServiceConfig) driving.IngestionService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultIngestConcurrency
	}

	return &ingestionService{
		index:       cfg.Index,
		documents:   cfg.Documents,
		extractors:  cfg.Extractors,
		pipeline:    cfg.Pipeline,
		services:    cfg.Services,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Ingest extracts, chunks, embeds and indexes a document.
// Any embed or insert failure aborts the whole document and removes the
// chunks already written.
func (s *ingestionService) Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("%w: document is empty", domain.ErrInvalidInput)
	}

	embedder := s.services.EmbeddingService()
	if embedder == nil {
		return nil, fmt.Errorf("embedding service: %w", domain.ErrServiceUnavailable)
	}

	mimeType := s.extractors.Detect(req.Data, req.Filename)
	extractor := s.extractors.Get(mimeType)
	if extractor == nil {
		metrics.RecordIngestion("unsupported", 0)
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedMediaType, mimeType)
	}

	text, err := extractor.Extract(ctx, req.Data, mimeType)
	if err != nil {
		metrics.RecordIngestion("error", 0)
		return nil, fmt.Errorf("extract text: %w", err)
	}

	documentID := uuid.NewString()
	chunks := s.pipeline.Process(text)

	s.logger.Info("document extracted",
		"document_id", documentID,
		"filename", req.Filename,
		"mime_type", mimeType,
		"text_length", len([]rune(text)),
		"chunks", len(chunks),
	)

	if err := s.indexChunks(ctx, embedder, documentID, chunks); err != nil {
		metrics.RecordIngestion("error", 0)
		return nil, s.abort(ctx, documentID, err)
	}

	if s.documents != nil {
		sum := blake2b.Sum256(req.Data)
		doc := &domain.Document{
			ID:         documentID,
			Filename:   req.Filename,
			MimeType:   mimeType,
			Checksum:   hex.EncodeToString(sum[:]),
			Size:       int64(len(req.Data)),
			ChunkCount: len(chunks),
			CreatedAt:  time.Now(),
		}
		if err := s.documents.Save(ctx, doc); err != nil {
			metrics.RecordIngestion("error", 0)
			return nil, s.abort(ctx, documentID, fmt.Errorf("save document: %w", err))
		}
	}

	metrics.RecordIngestion("success", len(chunks))
	s.logger.Info("document ingested", "document_id", documentID, "chunks", len(chunks))

	return &domain.IngestResult{
		DocumentID: documentID,
		ChunkCount: len(chunks),
	}, nil
}

// GetDocument returns the registry entry of an ingested document
func (s *ingestionService) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	if s.documents == nil {
		return nil, domain.ErrNotFound
	}
	return s.documents.Get(ctx, id)
}

// indexChunks embeds and inserts chunks with bounded parallelism.
// The first failure cancels the remaining work.
func (s *ingestionService) indexChunks(ctx context.Context, embedder driven.EmbeddingService, documentID string, chunks []driven.Chunk) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	var done atomic.Int64
	now := time.Now()

	for _, chunk := range chunks {
		if gctx.Err() != nil {
			break
		}
		chunk := chunk
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			vector, err := driven.EmbedChunk(gctx, embedder, chunk.Content)
			if err != nil {
				return &domain.IngestionError{DocumentID: documentID, Position: chunk.Position, Err: fmt.Errorf("embed: %w", err)}
			}

			record := &domain.Chunk{
				ID:         uuid.NewString(),
				DocumentID: documentID,
				Content:    chunk.Content,
				Embedding:  vector,
				Position:   chunk.Position,
				StartChar:  chunk.StartOffset,
				EndChar:    chunk.EndOffset,
				CreatedAt:  now,
			}
			if err := s.index.Insert(gctx, record); err != nil {
				return &domain.IngestionError{DocumentID: documentID, Position: chunk.Position, Err: fmt.Errorf("index: %w", err)}
			}

			if n := done.Add(1); n%progressEvery == 0 {
				s.logger.Debug("indexing progress", "document_id", documentID, "indexed", n, "total", len(chunks))
			}
			return nil
		})
	}

	return g.Wait()
}

// abort removes whatever was indexed for the document and returns cause,
// joined with the cleanup failure if there was one.
func (s *ingestionService) abort(ctx context.Context, documentID string, cause error) error {
	s.logger.Error("ingestion failed", "document_id", documentID, "error", cause)

	if err := s.index.DeleteByDocument(context.WithoutCancel(ctx), documentID); err != nil {
		s.logger.Warn("failed to clean up partial document", "document_id", documentID, "error", err)
		return errors.Join(cause, fmt.Errorf("cleanup document %s: %w", documentID, err))
	}
	return cause
}
