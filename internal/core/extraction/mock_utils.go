package extraction

import (
	"context"

	"github.com/agenthands/genescan/internal/llm"
)

type MockInvoker struct {
	Response string
	Err      error
	Calls    [][]llm.Message
}

func (m *MockInvoker) Invoke(ctx context.Context, messages []llm.Message) (*llm.Completion, error) {
	m.Calls = append(m.Calls, messages)
	if m.Err != nil {
		return nil, m.Err
	}
	return &llm.Completion{Text: m.Response, Attempts: 1}, nil
}
