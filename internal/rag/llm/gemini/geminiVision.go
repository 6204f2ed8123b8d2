package gemini

import (
	"context"
	"errors"
	"sync"

	"github.com/akolanti/mindsync/internal/rag/llm"
	"github.com/akolanti/mindsync/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client    *genai.Client
	modelName string
}

var logger = logger_i.NewLogger("llm_gemini")
var geminiClient *llmClient
var once sync.Once

// GetGeminiClient returns the shared vision client, or nil when it could not be created
func GetGeminiClient(ctx context.Context, modelName string, apikey string) llm.VisionProvider {
	once.Do(func() {
		newGeminiClient(ctx, modelName, apikey)
	})

	if geminiClient == nil {
		return nil
	}
	return &llmClient{client: geminiClient.client, modelName: geminiClient.modelName}
}

func newGeminiClient(ctx context.Context, modelName string, apikey string) {
	if apikey == "" {
		logger.Error("GEMINI_API_KEY is not set")
		return
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		logger.Error("Error creating Gemini client", "error", err)
		return
	}
	geminiClient = &llmClient{client: c, modelName: modelName}
	logger.Info("Gemini client created", "model", modelName)
}

// ExtractText sends the prompt with the raw bytes inline, gemini reads pdfs as well as images
func (c *llmClient) ExtractText(ctx context.Context, req llm.VisionRequest) (string, error) {
	log := logger.WithContext(ctx)

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			genai.NewPartFromText(req.Prompt),
			genai.NewPartFromBytes(req.Data, req.MimeType),
		},
	}}
	result, err := c.client.Models.GenerateContent(ctx, c.modelName, contents, &genai.GenerateContentConfig{
		MaxOutputTokens: int32(req.MaxTokens),
	})
	if err != nil {
		log.Error("Gemini vision call failed", "error", err)
		return "", err
	}
	if result == nil {
		return "", errors.New("gemini returned no result")
	}
	return result.Text(), nil
}
