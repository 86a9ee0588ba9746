package llm

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
)

type ClaudeBackend struct {
	client      *anthropic.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewClaudeBackend(ctx context.Context, tokens TokenProvider, model, baseURL string, temperature float32, maxTokens int) (*ClaudeBackend, error) {
	apiKey, err := tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain access token: %w", err)
	}
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	if maxTokens <= 0 {
		maxTokens = 4000
	}
	return &ClaudeBackend{
		client:      anthropic.NewClient(apiKey, opts...),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

func (c *ClaudeBackend) Name() string {
	return "claude:" + c.model
}

func (c *ClaudeBackend) Complete(ctx context.Context, messages []Message) (string, error) {
	system, turns := splitSystem(messages)

	req := anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		System:      system,
		MaxTokens:   c.maxTokens,
		Temperature: &c.temperature,
	}
	for _, m := range turns {
		role := anthropic.RoleUser
		if m.Role == "assistant" {
			role = anthropic.RoleAssistant
		}
		req.Messages = append(req.Messages, anthropic.Message{
			Role:    role,
			Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(m.Content)},
		})
	}

	resp, err := c.client.CreateMessages(ctx, req)
	if err != nil {
		return "", Classify(c.Name(), err)
	}
	if len(resp.Content) > 0 && resp.Content[0].Text != nil {
		return *resp.Content[0].Text, nil
	}
	return "", &BackendError{Kind: Fatal, Backend: c.Name(), Err: fmt.Errorf("no response content")}
}
