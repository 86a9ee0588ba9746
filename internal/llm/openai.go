package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// OpenAIBackend speaks the chat-completion protocol to any OpenAI-compatible
// endpoint (hosted inference services, vLLM, Ollama's /v1).
type OpenAIBackend struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

type OpenAIOptions struct {
	Model       string
	BaseURL     string
	Temperature float32
	MaxTokens   int
	HTTPClient  *http.Client
}

// NewOpenAIBackend resolves the token once; the client is reused for every call.
func NewOpenAIBackend(ctx context.Context, tokens TokenProvider, opts OpenAIOptions) (*OpenAIBackend, error) {
	token, err := tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain access token: %w", err)
	}
	config := openai.DefaultConfig(token)
	if opts.BaseURL != "" {
		config.BaseURL = opts.BaseURL
	}
	if opts.HTTPClient != nil {
		config.HTTPClient = opts.HTTPClient
	}
	return &OpenAIBackend{
		client:      openai.NewClientWithConfig(config),
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
	}, nil
}

func (c *OpenAIBackend) Name() string {
	return "openai:" + c.model
}

func (c *OpenAIBackend) Complete(ctx context.Context, messages []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", Classify(c.Name(), err)
	}
	if len(resp.Choices) > 0 {
		return resp.Choices[0].Message.Content, nil
	}
	return "", &BackendError{Kind: Fatal, Backend: c.Name(), Err: fmt.Errorf("no response choices")}
}
