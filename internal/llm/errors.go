package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorKind tags a backend failure as retryable or not.
type ErrorKind int

const (
	Transient ErrorKind = iota
	Fatal
)

func (k ErrorKind) String() string {
	if k == Transient {
		return "transient"
	}
	return "fatal"
}

// BackendError is the only error shape the retry loop inspects.
type BackendError struct {
	Kind     ErrorKind
	Backend  string
	Attempts int
	Err      error
}

func (e *BackendError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("%s backend error from %s after %d attempt(s): %v", e.Kind, e.Backend, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s backend error from %s: %v", e.Kind, e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is, or wraps, a transient BackendError.
func IsTransient(err error) bool {
	var be *BackendError
	return errors.As(err, &be) && be.Kind == Transient
}

// StatusError is a non-2xx reply from an HTTP backend.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Classify wraps err in a BackendError. Connection failures, timeouts and
// server-side 5xx replies are transient; everything else is fatal.
// An err that already is a BackendError is returned unchanged.
func Classify(backend string, err error) error {
	if err == nil {
		return nil
	}
	var be *BackendError
	if errors.As(err, &be) {
		return err
	}
	kind := Fatal
	if transient(err) {
		kind = Transient
	}
	return &BackendError{Kind: kind, Backend: backend, Err: err}
}

func transient(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode >= 500
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode >= 500 {
			return true
		}
		if reqErr.HTTPStatusCode != 0 {
			return false
		}
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code >= 500
	}
	if s, ok := status.FromError(err); ok && s.Code() != codes.OK && s.Code() != codes.Unknown {
		switch s.Code() {
		case codes.Unavailable, codes.Internal, codes.DeadlineExceeded:
			return true
		default:
			return false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
