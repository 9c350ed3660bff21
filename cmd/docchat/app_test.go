package main

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-docchat/internal/adapters/driven/memory"
	"github.com/custodia-labs/sercha-docchat/internal/adapters/driven/postgres"
	"github.com/custodia-labs/sercha-docchat/internal/adapters/driven/sqlite"
	"github.com/custodia-labs/sercha-docchat/internal/config"
	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()

	// Any endpoint works: health checks only warn.
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	return &config.Config{
		Host:                "127.0.0.1",
		Port:                4000,
		CORSOrigins:         []string{"*"},
		MaxUploadBytes:      1 << 20,
		LogLevel:            "debug",
		LogFormat:           "text",
		VectorBackend:       backend,
		ConversationBackend: backend,
		DocumentBackend:     backend,
		SQLitePath:          sqlite.MemoryPath,
		AIProvider:          string(domain.AIProviderOllama),
		AIBaseURL:           srv.URL,
		EmbeddingDimensions: 8,
		ChunkSize:           200,
		RetrievalLimit:      5,
		RetrievalCandidates: 10,
		IngestConcurrency:   2,
	}
}

func TestBuild_MemoryBackends(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	cfg := testConfig(t, config.BackendMemory)
	cfg.TurnLockEnabled = true

	app, err := build(context.Background(), cfg, logger)
	require.NoError(t, err)

	assert.NotNil(t, app.Ingestion)
	assert.NotNil(t, app.Chat)
	assert.NotNil(t, app.Server)
	assert.Contains(t, logs.String(), "application wired")
	assert.NoError(t, app.Close())
}

func TestBuild_SQLiteBackends(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	cfg := testConfig(t, config.BackendSQLite)

	app, err := build(context.Background(), cfg, logger)
	require.NoError(t, err)
	defer func() { assert.NoError(t, app.Close()) }()

	_, err = app.Chat.GetConversation(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = app.Ingestion.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBuild_UnknownProvider(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	cfg := testConfig(t, config.BackendMemory)
	cfg.AIProvider = "anthropic"
	cfg.OpenAIAPIKey = "key"

	_, err := build(context.Background(), cfg, logger)
	assert.ErrorIs(t, err, domain.ErrInvalidProvider)
}

func TestBackends_TurnLock(t *testing.T) {
	b := &backends{}
	_, ok := b.turnLock(&config.Config{ConversationBackend: config.BackendSQLite}).(*memory.Lock)
	assert.True(t, ok)
	_, ok = b.turnLock(&config.Config{ConversationBackend: config.BackendMemory}).(*memory.Lock)
	assert.True(t, ok)
	_, ok = b.turnLock(&config.Config{ConversationBackend: config.BackendPostgres, TurnLockMaxConns: 3}).(*postgres.AdvisoryLock)
	assert.True(t, ok)
}

func TestBackends_MemoryStores(t *testing.T) {
	b := &backends{}
	assert.IsType(t, &memory.VectorIndex{}, b.vectorIndex(config.BackendMemory))
	assert.IsType(t, &memory.ConversationStore{}, b.conversationStore(config.BackendMemory, 0))
	assert.IsType(t, &memory.DocumentStore{}, b.documentStore(config.BackendMemory))
}
