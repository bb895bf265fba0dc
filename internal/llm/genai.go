package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// GenAIClient completes prompts against Google's Gemini API.
type GenAIClient struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGenAIClient creates a completion client. The API key is required; it
// is the first of the two fatal preconditions of a run.
func NewGenAIClient(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIClient{client: client, model: model, logger: logger}, nil
}

// Complete sends one prompt and returns the raw reply text. Calls are
// never retried here; a transport or API failure surfaces as an error and
// the stage that asked decides what to do with it.
func (c *GenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug("completion request", zap.Int("prompt_len", len(prompt)), zap.String("model", c.model))

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("GenAI completion failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("GenAI returned an empty completion")
	}

	c.logger.Debug("completion reply", zap.Int("reply_len", len(text)))
	return text, nil
}

// Name identifies the backing model, for run logs.
func (c *GenAIClient) Name() string {
	return fmt.Sprintf("genai:%s", c.model)
}
