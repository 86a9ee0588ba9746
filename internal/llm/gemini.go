package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiBackend struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewGeminiBackend(ctx context.Context, tokens TokenProvider, model string, temperature float32, maxTokens int) (*GeminiBackend, error) {
	apiKey, err := tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain access token: %w", err)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiBackend{
		client:      client,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

func (c *GeminiBackend) Name() string {
	return "gemini:" + c.model
}

func (c *GeminiBackend) Complete(ctx context.Context, messages []Message) (string, error) {
	system, turns := splitSystem(messages)

	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(c.temperature)
	if c.maxTokens > 0 {
		model.SetMaxOutputTokens(int32(c.maxTokens))
	}
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	parts := make([]genai.Part, 0, len(turns))
	for _, m := range turns {
		parts = append(parts, genai.Text(m.Content))
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", Classify(c.Name(), err)
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		var sb strings.Builder
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
		if sb.Len() > 0 {
			return sb.String(), nil
		}
	}
	return "", &BackendError{Kind: Fatal, Backend: c.Name(), Err: fmt.Errorf("no response candidates or content")}
}

func (c *GeminiBackend) Close() error {
	return c.client.Close()
}
