package openaiVision

import (
	"context"
	"errors"
	"net/http"

	"github.com/akolanti/mindsync/internal/config"
	"github.com/akolanti/mindsync/internal/rag/llm"
	"github.com/akolanti/mindsync/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger = logger_i.NewLogger("llm_openai")

type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

type Client struct {
	api   openai.Client
	model string
}

func NewOpenAIVision(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	if opts.Model == "" {
		opts.Model = config.OpenAIVisionModel
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
	logger.Info("OpenAI vision client created", "model", opts.Model)
	return &Client{api: openai.NewClient(reqOpts...), model: opts.Model}, nil
}

// ExtractText sends the prompt plus the file as an image_url data url
func (c *Client) ExtractText(ctx context.Context, req llm.VisionRequest) (string, error) {
	log := logger.WithContext(ctx)

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = config.VisionMaxTokens
	}
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(c.model),
		MaxCompletionTokens: openai.Int(maxTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(req.Prompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: req.DataURL}),
			}),
		},
	})
	if err != nil {
		log.Error("OpenAI vision call failed", "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
