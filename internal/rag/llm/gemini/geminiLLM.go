package gemini

import (
	"context"
	"errors"
	"sync"

	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/rag/llm"
	"github.com/clauselens/clauselens/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client    *genai.Client
	modelName string
}

var logger *logger_i.Logger
var geminiClient *llmClient
var once sync.Once

// GetGeminiClient returns the process-wide Gemini provider, creating it on
// first call. Returns nil when the client cannot be constructed.
func GetGeminiClient(ctx context.Context, apikey string, modelName string) llm.StreamingProvider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		newGeminiClient(ctx, apikey, modelName)
	})

	if geminiClient == nil {
		return nil
	}
	return &llmClient{client: geminiClient.client, modelName: geminiClient.modelName}
}

func newGeminiClient(ctx context.Context, apikey string, modelName string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client", "error", err)
		return
	}
	geminiClient = &llmClient{client: c, modelName: modelName}
	logger.Info("Gemini client created", "model", modelName)
}

func (c *llmClient) generateConfig(systemInstruction string) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](config.ModelTemperature),
	}
	if systemInstruction != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		}
	}
	return cfg
}

func (c *llmClient) Generate(ctx context.Context, systemInstruction, prompt string) (string, error) {
	result, err := c.client.Models.GenerateContent(
		ctx,
		c.modelName,
		genai.Text(prompt),
		c.generateConfig(systemInstruction),
	)
	if err != nil {
		return "", err
	}
	text := result.Text()
	if text == "" {
		return "", errors.New("empty generation response")
	}
	return text, nil
}

func (c *llmClient) GenerateStream(ctx context.Context, systemInstruction, prompt string, onChunk func(string) error) error {
	for resp, err := range c.client.Models.GenerateContentStream(
		ctx,
		c.modelName,
		genai.Text(prompt),
		c.generateConfig(systemInstruction),
	) {
		if err != nil {
			return err
		}
		if text := resp.Text(); text != "" {
			if cbErr := onChunk(text); cbErr != nil {
				return cbErr
			}
		}
	}
	return nil
}
