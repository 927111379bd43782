// Package app assembles the engine's collaborators from configuration.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/medbook-agent/appconfig"
	"github.com/SaiNageswarS/medbook-agent/booking"
	"github.com/SaiNageswarS/medbook-agent/directory"
	"github.com/SaiNageswarS/medbook-agent/intake"
	"github.com/SaiNageswarS/medbook-agent/llm"
	"github.com/SaiNageswarS/medbook-agent/memory"
	"github.com/SaiNageswarS/medbook-agent/metrics"
	"github.com/SaiNageswarS/medbook-agent/notes"
	"github.com/SaiNageswarS/medbook-agent/transcript"
	"github.com/ollama/ollama/api"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Engine struct {
	Metrics      *metrics.EngineMetrics
	Orchestrator *intake.Orchestrator
	Availability directory.AvailabilityStore
	Booking      *booking.Service
	Chatbot      *notes.Chatbot
	Summarizer   *notes.Summarizer
	Chunker      *transcript.Chunker
	Indexer      *transcript.Indexer

	closers []func(context.Context) error
}

// Build connects every backend named in cfg. The caller must Close the
// engine when done.
func Build(ctx context.Context, cfg *appconfig.AppConfig, reg prometheus.Registerer) (*Engine, error) {
	e := &Engine{Metrics: metrics.NewEngineMetrics(reg)}

	ollamaClient, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("ollama client: %w", err)
	}

	client, err := buildLLM(cfg, ollamaClient)
	if err != nil {
		return nil, err
	}

	// odm treats a missing MONGO_URI as fatal, so only ask for a client
	// when one is configured.
	var mongoClient odm.MongoClient
	if os.Getenv("MONGO_URI") != "" {
		mongoClient = odm.ProvideMongoClient()
		e.closers = append(e.closers, mongoClient.Disconnect)
	}

	dir, err := buildDirectory(cfg, mongoClient)
	if err != nil {
		e.Close(ctx)
		return nil, err
	}
	e.Availability = dir

	var appointments booking.Store = booking.NewMemoryStore()
	if mongoClient != nil {
		appointments = booking.NewMongoStore(mongoClient, cfg.MongoDatabase)
	}
	e.Booking = booking.NewService(dir, appointments)

	matcher := directory.NewMatcher(dir,
		directory.WithStageTimeout(cfg.SearchTimeout()),
		directory.WithMetrics(e.Metrics))
	e.Orchestrator = intake.NewOrchestrator(client, matcher,
		intake.WithLLMTimeout(cfg.LLMTimeout()),
		intake.WithMetrics(e.Metrics))

	embedder := transcript.NewOllamaEmbedder(ollamaClient, cfg.EmbeddingModel)
	index, err := e.buildIndex(ctx, cfg, embedder)
	if err != nil {
		e.Close(ctx)
		return nil, err
	}

	indexerOpts := []transcript.IndexerOption{transcript.WithMetrics(e.Metrics)}
	if cfg.RedisAddress != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
		e.closers = append(e.closers, func(context.Context) error { return rdb.Close() })
		indexerOpts = append(indexerOpts, transcript.WithLocker(transcript.NewRedisLocker(rdb, 0)))
	}
	e.Indexer = transcript.NewIndexer(index, indexerOpts...)
	e.Chunker = transcript.NewChunker(transcript.DefaultMaxTokens)

	var convStore memory.Store = memory.NewInMemoryStore()
	if mongoClient != nil {
		convStore = memory.NewMongoStore(mongoClient, cfg.MongoDatabase)
	}
	convs := memory.NewConversationManager(convStore, cfg.NoteMessageLimit())

	qa := notes.NewGroundedQA(client, e.Indexer, cfg.LLMTimeout(), e.Metrics)
	e.Chatbot = notes.NewChatbot(qa, notes.NewSessionStore(cfg.MaxNoteSessions, convs))
	e.Summarizer = notes.NewSummarizer(client, e.Indexer, cfg.LLMTimeout(), e.Metrics)

	return e, nil
}

func (e *Engine) Close(ctx context.Context) {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](ctx); err != nil {
			logger.Error("Failed to close backend", zap.Error(err))
		}
	}
	e.closers = nil
}

func buildLLM(cfg *appconfig.AppConfig, ollamaClient *api.Client) (llm.LLMClient, error) {
	var client llm.LLMClient
	switch cfg.LLMProvider {
	case "", "ollama":
		client = llm.NewOllamaClient(ollamaClient, cfg.LLMModel)
	case "openai":
		var opts []llm.OpenAIOption
		if cfg.LLMAPIVersion != "" {
			opts = append(opts, llm.WithAPIVersion(cfg.LLMAPIVersion))
		}
		client = llm.NewOpenAIClient(cfg.LLMBaseURL, os.Getenv("LLM_API_KEY"), cfg.LLMModel, opts...)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}

	if cfg.LLMRequestsPerSecond > 0 {
		client = llm.NewRateLimited(client, cfg.LLMRequestsPerSecond, 1)
	}
	logger.Info("LLM configured", zap.String("provider", cfg.LLMProvider), zap.String("model", client.GetModel()))
	return client, nil
}

type directoryBackend interface {
	directory.Directory
	directory.AvailabilityStore
	directory.SlotBooker
}

func buildDirectory(cfg *appconfig.AppConfig, client odm.MongoClient) (directoryBackend, error) {
	switch cfg.DirectoryBackend {
	case "", "mongo":
		if client == nil {
			return nil, fmt.Errorf("mongo directory needs MONGO_URI")
		}
		return directory.NewMongoDirectory(client, cfg.MongoDatabase, cfg.DoctorSearchIndex), nil
	case "memory":
		return directory.LoadMemoryDirectory(cfg.DirectorySeedPath)
	default:
		return nil, fmt.Errorf("unknown directory backend %q", cfg.DirectoryBackend)
	}
}

func (e *Engine) buildIndex(ctx context.Context, cfg *appconfig.AppConfig, embedder transcript.Embedder) (transcript.VectorIndex, error) {
	switch cfg.VectorBackend {
	case "", "qdrant":
		q, err := transcript.NewQdrantIndex(cfg.QdrantAddress, cfg.QdrantCollection, embedder)
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, func(context.Context) error { return q.Close() })
		if cfg.EmbeddingDims > 0 {
			if err := q.EnsureCollection(ctx, cfg.EmbeddingDims); err != nil {
				return nil, fmt.Errorf("ensure qdrant collection: %w", err)
			}
		}
		return q, nil
	case "memory":
		return transcript.NewMemoryIndex(embedder, cfg.MemoryIndexDir)
	default:
		return nil, fmt.Errorf("unknown vector backend %q", cfg.VectorBackend)
	}
}
