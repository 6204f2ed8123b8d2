package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/mindsync/internal/config"
	"github.com/akolanti/mindsync/internal/customHttpClient"
	"github.com/akolanti/mindsync/internal/data/store"
	"github.com/akolanti/mindsync/internal/domain/jobModel"
	"github.com/akolanti/mindsync/internal/rag/embedding"
	"github.com/akolanti/mindsync/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/mindsync/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/mindsync/internal/rag/llm"
	"github.com/akolanti/mindsync/internal/rag/llm/gemini"
	"github.com/akolanti/mindsync/internal/rag/llm/openaiVision"
	"github.com/akolanti/mindsync/pkg/logger_i"
)

// newJobStores prefers redis and falls back to process memory when it is offline
func newJobStores(ctx context.Context, logger *logger_i.Logger) (jobModel.JobStore, jobModel.EventStore) {
	redisJobs := store.GetRedisJobStore(ctx)
	redisEvents := store.GetRedisEventStore(ctx)
	if redisJobs != nil && redisEvents != nil {
		return redisJobs, redisEvents
	}
	if !config.FALLBACK_REDIS_TO_INTERNALSTORE {
		return nil, nil
	}
	logger.Error("Redis stores are offline, jobs and events are kept in memory")
	return store.InitInMemoryJobStore(), store.InitInMemoryEventStore()
}

// newProviders builds the embedder and the vision model for AI_PROVIDER
func newProviders(ctx context.Context) (embedding.Embedder, llm.VisionProvider, error) {
	switch config.Provider {
	case config.ProviderGemini:
		embedder := googleEmbedding.GetGoogleEmbeddingClient(ctx, config.GoogleEmbeddingModel, config.GeminiAPIKey)
		vision := gemini.GetGeminiClient(ctx, config.GeminiVisionModel, config.GeminiAPIKey)
		if embedder == nil || vision == nil {
			return nil, nil, errors.New("gemini clients could not be created")
		}
		return embedder, vision, nil

	case config.ProviderOpenAI, "":
		httpClient := customHttpClient.NewPooledClient(config.IngestionTimeout)
		embedder, err := openaiEmbedding.NewOpenAIEmbedder(openaiEmbedding.Options{
			APIKey:     config.OpenAIAPIKey,
			BaseURL:    config.OpenAIBaseURL,
			Model:      config.OpenAIEmbeddingModel,
			Dimensions: int64(config.EmbeddingOutputDimensionality),
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, nil, err
		}
		vision, err := openaiVision.NewOpenAIVision(openaiVision.Options{
			APIKey:     config.OpenAIAPIKey,
			BaseURL:    config.OpenAIBaseURL,
			Model:      config.OpenAIVisionModel,
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, nil, err
		}
		return embedder, vision, nil

	default:
		return nil, nil, fmt.Errorf("unknown AI_PROVIDER %q", config.Provider)
	}
}
