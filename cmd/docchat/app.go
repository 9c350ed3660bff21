package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/sercha-docchat/internal/adapters/driven/ai"
	"github.com/custodia-labs/sercha-docchat/internal/adapters/driven/memory"
	mongoadapter "github.com/custodia-labs/sercha-docchat/internal/adapters/driven/mongo"
	"github.com/custodia-labs/sercha-docchat/internal/adapters/driven/postgres"
	redisadapter "github.com/custodia-labs/sercha-docchat/internal/adapters/driven/redis"
	"github.com/custodia-labs/sercha-docchat/internal/adapters/driven/sqlite"
	"github.com/custodia-labs/sercha-docchat/internal/adapters/driving/cli"
	"github.com/custodia-labs/sercha-docchat/internal/adapters/driving/http"
	"github.com/custodia-labs/sercha-docchat/internal/config"
	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-docchat/internal/core/services"
	"github.com/custodia-labs/sercha-docchat/internal/extractors"
	"github.com/custodia-labs/sercha-docchat/internal/postprocessors"
	"github.com/custodia-labs/sercha-docchat/internal/runtime"
)

// backends holds the connections opened for the configured stores
type backends struct {
	sqlite   *sqlite.DB
	postgres *postgres.DB
	// pgLocks is a separate pool: each held advisory lock pins a connection
	pgLocks  *postgres.DB
	redis    redis.UniversalClient
	mongo    *mongoadapter.Client

	closers []func() error
}

func (b *backends) close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	return errors.Join(errs...)
}

// connect opens only the connections the configuration refers to
func connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backends, error) {
	b := &backends{}

	if cfg.Uses(config.BackendSQLite) {
		logger.Info("opening sqlite", "path", cfg.SQLitePath)
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		b.sqlite = db
		b.closers = append(b.closers, db.Close)
	}

	if cfg.Uses(config.BackendPostgres) {
		logger.Info("connecting to postgres")
		db, err := postgres.Connect(ctx, postgres.Config{
			URL:             cfg.DatabaseURL,
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
			ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
		})
		if err != nil {
			_ = b.close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := db.InitSchema(ctx); err != nil {
			_ = db.Close()
			_ = b.close()
			return nil, fmt.Errorf("init postgres schema: %w", err)
		}
		logger.Info("postgres schema ready", "pgvector", db.PgvectorVersion)
		b.postgres = db
		b.closers = append(b.closers, db.Close)

		if cfg.TurnLockEnabled && cfg.ConversationBackend == config.BackendPostgres {
			lockCfg := postgres.DefaultConfig(cfg.DatabaseURL).LockPool(cfg.TurnLockMaxConns)
			locks, err := postgres.Connect(ctx, lockCfg)
			if err != nil {
				_ = b.close()
				return nil, fmt.Errorf("connect postgres lock pool: %w", err)
			}
			b.pgLocks = locks
			b.closers = append(b.closers, locks.Close)
		}
	}

	if cfg.Uses(config.BackendRedis) {
		logger.Info("connecting to redis")
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			_ = b.close()
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			_ = b.close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		b.redis = client
		b.closers = append(b.closers, client.Close)
	}

	if cfg.Uses(config.BackendMongo) {
		logger.Info("connecting to mongodb", "database", cfg.MongoDatabase)
		client, err := mongoadapter.Connect(ctx, mongoadapter.Config{
			URI:         cfg.MongoURI,
			Database:    cfg.MongoDatabase,
			VectorIndex: cfg.MongoVectorIndex,
			Timeout:     cfg.MongoTimeout,
		})
		if err != nil {
			_ = b.close()
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		b.mongo = client
		b.closers = append(b.closers, func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return client.Close(ctx)
		})
	}

	return b, nil
}

func (b *backends) vectorIndex(name string) driven.VectorIndex {
	switch name {
	case config.BackendSQLite:
		return sqlite.NewVectorIndex(b.sqlite)
	case config.BackendPostgres:
		return postgres.NewVectorIndex(b.postgres)
	case config.BackendMongo:
		return mongoadapter.NewVectorIndex(b.mongo)
	default:
		return memory.NewVectorIndex()
	}
}

func (b *backends) conversationStore(name string, ttl time.Duration) driven.ConversationStore {
	switch name {
	case config.BackendSQLite:
		return sqlite.NewConversationStore(b.sqlite)
	case config.BackendPostgres:
		return postgres.NewConversationStore(b.postgres)
	case config.BackendRedis:
		return redisadapter.NewConversationStore(b.redis, ttl)
	case config.BackendMongo:
		return mongoadapter.NewConversationStore(b.mongo)
	default:
		return memory.NewConversationStore()
	}
}

func (b *backends) documentStore(name string) driven.DocumentStore {
	switch name {
	case config.BackendSQLite:
		return sqlite.NewDocumentStore(b.sqlite)
	case config.BackendPostgres:
		return postgres.NewDocumentStore(b.postgres)
	case config.BackendMongo:
		return mongoadapter.NewDocumentStore(b.mongo)
	default:
		return memory.NewDocumentStore()
	}
}

// turnLock follows the conversation store: turns on a shared store need a
// lock every instance can see.
func (b *backends) turnLock(cfg *config.Config) driven.DistributedLock {
	switch cfg.ConversationBackend {
	case config.BackendRedis:
		return redisadapter.NewLock(b.redis)
	case config.BackendPostgres:
		return postgres.NewAdvisoryLock(b.pgLocks, cfg.TurnLockMaxConns)
	default:
		return memory.NewLock()
	}
}

// installAI creates the embedding service and chat model. An unreachable
// provider is logged, not fatal: ingestion and chat report it per request.
func installAI(ctx context.Context, cfg *config.Config, svcs *runtime.Services, logger *slog.Logger) error {
	factory := ai.NewFactory(cfg.EmbeddingCacheSize)

	embedder, err := factory.CreateEmbeddingService(cfg.EmbeddingSettings())
	if err != nil {
		return fmt.Errorf("create embedding service: %w", err)
	}
	chat, err := factory.CreateChatModel(cfg.ChatSettings())
	if err != nil {
		if embedder != nil {
			_ = embedder.Close()
		}
		return fmt.Errorf("create chat model: %w", err)
	}
	if embedder == nil || chat == nil {
		logger.Warn("AI provider not configured, ingestion and chat are unavailable",
			"provider", cfg.AIProvider)
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if embedder != nil {
		if err := embedder.HealthCheck(checkCtx); err != nil {
			logger.Warn("embedding service health check failed", "error", err)
		}
	}
	if chat != nil {
		if err := chat.Ping(checkCtx); err != nil {
			logger.Warn("chat model health check failed", "error", err)
		}
	}

	svcs.SetEmbeddingService(embedder)
	svcs.SetChatModel(chat)
	return nil
}

// build wires the application for cfg
func build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*cli.App, error) {
	b, err := connect(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	runtimeConfig := domain.NewRuntimeConfig(cfg.VectorBackend, cfg.ConversationBackend, cfg.DocumentBackend)
	svcs := runtime.NewServices(runtimeConfig)
	if err := installAI(ctx, cfg, svcs, logger); err != nil {
		_ = b.close()
		return nil, err
	}

	index := b.vectorIndex(cfg.VectorBackend)
	conversations := b.conversationStore(cfg.ConversationBackend, cfg.ConversationTTL)
	documents := b.documentStore(cfg.DocumentBackend)

	ingestion := services.NewIngestionService(services.IngestionServiceConfig{
		Index:       index,
		Documents:   documents,
		Extractors:  extractors.DefaultRegistry(),
		Pipeline:    postprocessors.DefaultPipeline(cfg.ChunkSize),
		Services:    svcs,
		Concurrency: cfg.IngestConcurrency,
		Logger:      logger,
	})

	retrieval := services.NewRetrievalStage(services.RetrievalStageConfig{
		Index:         index,
		Services:      svcs,
		Limit:         cfg.RetrievalLimit,
		NumCandidates: cfg.RetrievalCandidates,
		Logger:        logger,
	})
	generation := services.NewGenerationStage(svcs, logger)

	chatCfg := services.ChatServiceConfig{
		Conversations: conversations,
		Pipeline:      services.NewConversationPipeline(retrieval, generation, logger),
		TurnLockTTL:   cfg.TurnLockTTL,
		Logger:        logger,
	}
	checks := map[string]http.Pinger{
		"vector_index":  http.PingFunc(index.HealthCheck),
		"conversations": conversations,
	}
	if cfg.TurnLockEnabled {
		lock := b.turnLock(cfg)
		chatCfg.TurnLock = lock
		checks["turn_lock"] = lock
	}
	chat := services.NewChatService(chatCfg)

	server := http.NewServer(http.Config{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        version,
		MaxUploadBytes: cfg.MaxUploadBytes,
		CORSOrigins:    cfg.CORSOrigins,
		Logger:         logger,
	}, ingestion, chat, checks)

	logger.Info("application wired",
		"vector_backend", cfg.VectorBackend,
		"conversation_backend", cfg.ConversationBackend,
		"document_backend", cfg.DocumentBackend,
		"ai_provider", cfg.AIProvider,
		"turn_lock", cfg.TurnLockEnabled,
	)

	return &cli.App{
		Ingestion: ingestion,
		Chat:      chat,
		Server:    server,
		Close: func() error {
			_ = svcs.Close()
			return b.close()
		},
	}, nil
}
