package googleEmbedding

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/akolanti/mindsync/internal/config"
	"github.com/akolanti/mindsync/internal/rag/embedding"
	"github.com/akolanti/mindsync/pkg/logger_i"
	"google.golang.org/genai"
)

var logger = logger_i.NewLogger("google_embedding")
var once sync.Once
var embeddingClient *client
var dimension int32 = config.EmbeddingOutputDimensionality

const (
	taskDocument = "RETRIEVAL_DOCUMENT"
	taskQuery    = "RETRIEVAL_QUERY"
)

var ErrRateLimited = errors.New("google embeddings rate limited")

type embedCall func(ctx context.Context, content []*genai.Content, taskType string) (*genai.EmbedContentResponse, error)

type client struct {
	genAi     *genai.Client
	model     string
	batchSize int
	call      embedCall
}

func newGoogleEmbedder(ctx context.Context, modelName string, apikey string) error {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return err
	}
	embeddingClient = &client{
		genAi: c,
		model: modelName,
	}
	logger.Info("Google Embedding client created", "model", modelName)
	return nil
}

// GetGoogleEmbeddingClient builds the shared client once, it returns nil when the client could not be created
func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		if apikey == "" {
			logger.Error("GEMINI_API_KEY is not set")
			return
		}
		if err := newGoogleEmbedder(ctx, modelName, apikey); err != nil {
			logger.Error("Error creating Google Embedding client", "error", err)
		}
	})

	if embeddingClient == nil {
		return nil
	}
	c := &client{genAi: embeddingClient.genAi, model: embeddingClient.model, batchSize: config.GoogleEmbedBatchLimit}
	c.call = c.doCall
	return c
}

func (c *client) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	log := logger.WithContext(ctx)

	result, err := c.call(ctx, getContent([]string{query}), taskQuery)
	if err != nil {
		log.Error("Error getting query embedding from Google", "error", err)
		return nil, classify(err, log)
	}
	if len(result.Embeddings) == 0 || result.Embeddings[0] == nil {
		return nil, errors.New("google returned no embedding")
	}
	return result.Embeddings[0].Values, nil
}

// EmbedBatch embeds the texts in sequential sub-batches of at most batchSize.
// Gemini answers each call in request order, results are appended in input order.
// A failed sub-batch fails the whole batch.
func (c *client) EmbedBatch(ctx context.Context, chunks []string) ([][]float32, error) {
	if len(chunks) == 0 {
		return [][]float32{}, nil
	}
	log := logger.WithContext(ctx).With("count", len(chunks))

	size := c.batchSize
	if size <= 0 {
		size = config.GoogleEmbedBatchLimit
	}

	embeddingResults := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += size {
		end := min(start+size, len(chunks))

		res, err := c.call(ctx, getContent(chunks[start:end]), taskDocument)
		if err != nil {
			log.Error("Error getting Embeddings from Google", "from", start, "to", end, "error", err)
			return nil, fmt.Errorf("google embeddings [%d:%d]: %w", start, end, classify(err, log))
		}
		if len(res.Embeddings) != end-start {
			return nil, fmt.Errorf("%w: sub-batch [%d:%d] got %d", embedding.ErrCountMismatch, start, end, len(res.Embeddings))
		}
		for _, r := range res.Embeddings {
			if r == nil {
				embeddingResults = append(embeddingResults, nil)
				continue
			}
			embeddingResults = append(embeddingResults, r.Values)
		}
	}

	if err := embedding.CheckBatch(len(chunks), embeddingResults, int(dimension)); err != nil {
		return nil, err
	}
	return embeddingResults, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content, taskType string) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: taskType})
}

// classify tags rate limit errors so callers can tell quota from a bad request
func classify(err error, log *logger_i.Logger) error {
	if isRateLimited(err, log) {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}
	return err
}
