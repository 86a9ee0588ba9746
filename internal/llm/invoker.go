package llm

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RetryPolicy bounds a single Invoke call.
type RetryPolicy struct {
	MaxRetries  int           // additional attempts after the first
	BackoffStep time.Duration // delay before retry n is n*BackoffStep
	Timeout     time.Duration // per attempt; zero means no deadline
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:  2,
		BackoffStep: 1500 * time.Millisecond,
		Timeout:     180 * time.Second,
	}
}

// Backoff returns how long to wait before the given retry (1-based).
type Backoff func(retry int) time.Duration

// LinearBackoff waits step, 2*step, 3*step, ...
func LinearBackoff(step time.Duration) Backoff {
	return func(retry int) time.Duration {
		return step * time.Duration(retry)
	}
}

// Completion is a successful reply plus the cost of getting it.
type Completion struct {
	Text     string
	Latency  time.Duration // of the attempt that succeeded
	Attempts int
}

// Invoker runs a Backend under a RetryPolicy. It is safe to reuse across
// batches; it holds no per-call state.
type Invoker struct {
	Backend Backend
	Policy  RetryPolicy
	Backoff Backoff

	// Sleep and Now are replaceable in tests.
	Sleep func(ctx context.Context, d time.Duration) error
	Now   func() time.Time
}

func NewInvoker(backend Backend, policy RetryPolicy) *Invoker {
	return &Invoker{
		Backend: backend,
		Policy:  policy,
		Backoff: LinearBackoff(policy.BackoffStep),
		Sleep:   sleepContext,
		Now:     time.Now,
	}
}

// Invoke sends messages, retrying transient failures. Once retries are
// exhausted the last transient cause comes back as a fatal BackendError
// carrying the backend name and the number of attempts made.
func (inv *Invoker) Invoke(ctx context.Context, messages []Message) (*Completion, error) {
	log := zap.L().With(zap.String("backend", inv.Backend.Name()))
	maxAttempts := inv.Policy.MaxRetries + 1

	var lastErr *BackendError
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		start := inv.Now()
		text, err := inv.attempt(ctx, messages)
		latency := inv.Now().Sub(start)

		if err == nil {
			log.Debug("backend call succeeded",
				zap.Int("attempt", attempt),
				zap.Duration("latency", latency),
				zap.Int("chars", len(text)))
			return &Completion{Text: text, Latency: latency, Attempts: attempt}, nil
		}

		be := Classify(inv.Backend.Name(), err).(*BackendError)
		if ctx.Err() != nil || be.Kind == Fatal {
			return nil, &BackendError{Kind: Fatal, Backend: inv.Backend.Name(), Attempts: attempt, Err: be.Err}
		}
		lastErr = be

		if attempt == maxAttempts {
			break
		}
		delay := inv.Backoff(attempt)
		log.Warn("backend call failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
			zap.Duration("latency", latency),
			zap.Duration("backoff", delay),
			zap.Error(be.Err))
		if err := inv.Sleep(ctx, delay); err != nil {
			return nil, &BackendError{Kind: Fatal, Backend: inv.Backend.Name(), Attempts: attempt, Err: err}
		}
	}

	return nil, &BackendError{Kind: Fatal, Backend: inv.Backend.Name(), Attempts: maxAttempts, Err: lastErr.Err}
}

func (inv *Invoker) attempt(ctx context.Context, messages []Message) (string, error) {
	if inv.Policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.Policy.Timeout)
		defer cancel()
	}
	return inv.Backend.Complete(ctx, messages)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
