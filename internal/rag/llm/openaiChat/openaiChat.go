package openaiChat

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/clauselens/clauselens/internal/rag/llm"
	"github.com/clauselens/clauselens/pkg/logger_i"
	"github.com/openai/openai-go"
)

type llmClient struct {
	client    *openai.Client
	modelName string
}

var logger *logger_i.Logger
var openaiClient *llmClient
var once sync.Once

// GetOpenAIClient returns the process-wide OpenAI chat provider. It is the
// alternative generation backend; selection happens in main via LLM_PROVIDER.
// Returns nil when OPENAI_API_KEY is unset.
func GetOpenAIClient(modelName string) llm.StreamingProvider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")
		if os.Getenv("OPENAI_API_KEY") == "" {
			logger.Error("OPENAI_API_KEY not set, OpenAI provider unavailable")
			return
		}
		c := openai.NewClient()
		openaiClient = &llmClient{client: &c, modelName: modelName}
		logger.Info("OpenAI client created", "model", modelName)
	})

	if openaiClient == nil {
		return nil
	}
	return &llmClient{client: openaiClient.client, modelName: openaiClient.modelName}
}

func (c *llmClient) params(systemInstruction, prompt string) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if systemInstruction != "" {
		messages = append(messages, openai.SystemMessage(systemInstruction))
	}
	messages = append(messages, openai.UserMessage(prompt))

	return openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    openai.ChatModel(c.modelName),
	}
}

func (c *llmClient) Generate(ctx context.Context, systemInstruction, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, c.params(systemInstruction, prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("empty generation response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *llmClient) GenerateStream(ctx context.Context, systemInstruction, prompt string, onChunk func(string) error) error {
	stream := c.client.Chat.Completions.NewStreaming(ctx, c.params(systemInstruction, prompt))
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			if err := onChunk(delta); err != nil {
				return err
			}
		}
	}
	return stream.Err()
}
