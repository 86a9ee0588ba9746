package core

import (
	"context"
	"time"

	"github.com/agenthands/genescan/internal/llm"
)

// MockInvoker answers each call through Respond. Latency is reported as one
// second per call.
type MockInvoker struct {
	Respond func(call int, messages []llm.Message) (string, error)
	Calls   int
}

func (m *MockInvoker) Invoke(ctx context.Context, messages []llm.Message) (*llm.Completion, error) {
	m.Calls++
	text, err := m.Respond(m.Calls, messages)
	if err != nil {
		return nil, err
	}
	return &llm.Completion{Text: text, Latency: time.Second, Attempts: 1}, nil
}
