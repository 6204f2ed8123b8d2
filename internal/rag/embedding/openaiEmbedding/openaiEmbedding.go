package openaiEmbedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/akolanti/mindsync/internal/config"
	"github.com/akolanti/mindsync/internal/rag/embedding"
	"github.com/akolanti/mindsync/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger = logger_i.NewLogger("openai_embedding")

type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int64
	HTTPClient *http.Client
}

type Client struct {
	api        openai.Client
	model      string
	dimensions int64
}

func NewOpenAIEmbedder(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	if opts.Model == "" {
		opts.Model = config.OpenAIEmbeddingModel
	}
	if opts.Dimensions == 0 {
		opts.Dimensions = int64(config.EmbeddingOutputDimensionality)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		// a failed stage fails the run, the sdk would otherwise retry twice
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}

	logger.Info("OpenAI embedding client created", "model", opts.Model)
	return &Client{
		api:        openai.NewClient(reqOpts...),
		model:      opts.Model,
		dimensions: opts.Dimensions,
	}, nil
}

// EmbedBatch sends every text in one request and places results by the index the api reports
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	log := logger.WithContext(ctx)
	log.Debug("Requesting embeddings", "count", len(texts))

	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:          openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model:          openai.EmbeddingModel(c.model),
		Dimensions:     openai.Int(c.dimensions),
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	})
	if err != nil {
		log.Error("Error getting embeddings from OpenAI", "error", err)
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d for %d inputs", embedding.ErrCountMismatch, len(resp.Data), len(texts))
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		i := int(d.Index)
		if i < 0 || i >= len(out) || out[i] != nil {
			return nil, fmt.Errorf("unexpected embedding index %d", d.Index)
		}
		out[i] = toFloat32(d.Embedding)
	}
	if err := embedding.CheckBatch(len(texts), out, int(c.dimensions)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
