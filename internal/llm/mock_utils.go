package llm

import (
	"context"
	"sync"
)

// MockBackend replays queued replies; an entry with a non-nil Err fails that call.
type MockBackend struct {
	mu       sync.Mutex
	ID       string
	Queue    []MockReply
	Calls    [][]Message
	OnCall   func(ctx context.Context, call int) error
	Fallback string
}

type MockReply struct {
	Text string
	Err  error
}

func (m *MockBackend) Name() string {
	if m.ID == "" {
		return "mock"
	}
	return m.ID
}

func (m *MockBackend) Complete(ctx context.Context, messages []Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, messages)
	if m.OnCall != nil {
		if err := m.OnCall(ctx, len(m.Calls)); err != nil {
			return "", err
		}
	}
	if len(m.Queue) == 0 {
		return m.Fallback, nil
	}
	reply := m.Queue[0]
	m.Queue = m.Queue[1:]
	return reply.Text, reply.Err
}

func (m *MockBackend) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
