package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// OllamaBackend talks to a local Ollama server over its native /api/chat
// endpoint with streaming disabled.
type OllamaBackend struct {
	baseURL     string
	model       string
	temperature float32
	maxTokens   int
	client      *http.Client
}

func NewOllamaBackend(model, baseURL string, temperature float32, maxTokens int) *OllamaBackend {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &OllamaBackend{
		baseURL:     strings.TrimRight(strings.TrimSuffix(strings.TrimRight(baseURL, "/"), "/v1"), "/"),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		client:      &http.Client{},
	}
}

func (c *OllamaBackend) Name() string {
	return "ollama:" + c.model
}

type ollamaOptions struct {
	Temperature float32 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaRequest struct {
	Model    string        `json:"model"`
	Messages []Message     `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
	Options  ollamaOptions `json:"options"`
}

func (c *OllamaBackend) Complete(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(ollamaRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Format:   "json",
		Options:  ollamaOptions{Temperature: c.temperature, NumPredict: c.maxTokens},
	})
	if err != nil {
		return "", &BackendError{Kind: Fatal, Backend: c.Name(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", &BackendError{Kind: Fatal, Backend: c.Name(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", Classify(c.Name(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", Classify(c.Name(), err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", Classify(c.Name(), &StatusError{StatusCode: resp.StatusCode, Body: string(data)})
	}

	return c.content(data)
}

// content accepts both the chat shape (message.content) and the
// generate shape (response).
func (c *OllamaBackend) content(data []byte) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", &BackendError{Kind: Fatal, Backend: c.Name(), Err: fmt.Errorf("invalid JSON reply from ollama")}
	}
	if v := gjson.GetBytes(data, "message.content"); v.Exists() {
		return v.String(), nil
	}
	if v := gjson.GetBytes(data, "response"); v.Exists() {
		return v.String(), nil
	}
	return "", &BackendError{Kind: Fatal, Backend: c.Name(), Err: fmt.Errorf("ollama reply has neither message.content nor response")}
}
