package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agenthands/genescan/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestOllamaBackend_ChatShape(t *testing.T) {
	var captured []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		captured, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"model":"llama3.2:3b","message":{"role":"assistant","content":"{\"genes\":[]}"},"done":true}`))
	}))
	defer srv.Close()

	b := NewOllamaBackend("llama3.2:3b", srv.URL+"/", 0.2, 0)
	got, err := b.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "be terse"},
		{Role: RoleUser, Content: "classify"},
	})

	require.NoError(t, err)
	assert.Equal(t, `{"genes":[]}`, got)
	assert.Equal(t, "llama3.2:3b", gjson.GetBytes(captured, "model").String())
	assert.False(t, gjson.GetBytes(captured, "stream").Bool())
	assert.Equal(t, "json", gjson.GetBytes(captured, "format").String())
	assert.Equal(t, "classify", gjson.GetBytes(captured, "messages.1.content").String())
}

func TestOllamaBackend_GenerateShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"plain text","done":true}`))
	}))
	defer srv.Close()

	got, err := NewOllamaBackend("m", srv.URL, 0, 0).Complete(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, "plain text", got)
}

func TestOllamaBackend_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		transient bool
	}{
		{"server error", http.StatusInternalServerError, `{"error":"oom"}`, true},
		{"model missing", http.StatusNotFound, `{"error":"model not found"}`, false},
		{"unknown shape", http.StatusOK, `{"done":true}`, false},
		{"not json", http.StatusOK, `<html>`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewOllamaBackend("m", srv.URL, 0, 0).Complete(context.Background(), nil)

			require.Error(t, err)
			assert.Equal(t, tt.transient, IsTransient(err))
		})
	}
}

func TestOllamaBackend_ConnectionRefusedIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewOllamaBackend("m", url, 0, 0).Complete(context.Background(), nil)

	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func chatServer(t *testing.T, status int, body string, seen *map[string]any) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestOpenAIBackend_Complete(t *testing.T) {
	var seen map[string]any
	srv := chatServer(t, http.StatusOK,
		`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"answer"},"finish_reason":"stop"}]}`,
		&seen)
	defer srv.Close()

	b, err := NewOpenAIBackend(context.Background(), StaticToken("secret"), OpenAIOptions{
		Model:   "meta-llama/Meta-Llama-3.1-70B-Instruct",
		BaseURL: srv.URL,
	})
	require.NoError(t, err)

	got, err := b.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "usr"},
	})

	require.NoError(t, err)
	assert.Equal(t, "answer", got)
	assert.Equal(t, "meta-llama/Meta-Llama-3.1-70B-Instruct", seen["model"])
	assert.Len(t, seen["messages"], 2)
	assert.Equal(t, "openai:meta-llama/Meta-Llama-3.1-70B-Instruct", b.Name())
}

func TestOpenAIBackend_ServerErrorIsTransient(t *testing.T) {
	srv := chatServer(t, http.StatusServiceUnavailable,
		`{"error":{"message":"overloaded","type":"server_error"}}`, nil)
	defer srv.Close()

	b, err := NewOpenAIBackend(context.Background(), StaticToken("secret"), OpenAIOptions{Model: "m", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = b.Complete(context.Background(), nil)

	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestOpenAIBackend_ClientErrorIsFatal(t *testing.T) {
	srv := chatServer(t, http.StatusUnauthorized,
		`{"error":{"message":"invalid token","type":"invalid_request_error"}}`, nil)
	defer srv.Close()

	b, err := NewOpenAIBackend(context.Background(), StaticToken("secret"), OpenAIOptions{Model: "m", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = b.Complete(context.Background(), nil)

	require.Error(t, err)
	assert.False(t, IsTransient(err))
}

func TestOpenAIBackend_MissingToken(t *testing.T) {
	_, err := NewOpenAIBackend(context.Background(), StaticToken(""), OpenAIOptions{Model: "m"})
	assert.Error(t, err)
}

func TestTokens(t *testing.T) {
	t.Setenv("GENESCAN_TEST_TOKEN", " abc \n")

	tok, err := EnvToken{Var: "GENESCAN_TEST_TOKEN"}.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = EnvToken{Var: "GENESCAN_TEST_TOKEN_UNSET"}.Token(context.Background())
	assert.Error(t, err)

	assert.Equal(t, StaticToken("k"), TokensFor(config.BackendConfig{Provider: "openai", APIKey: "k"}))
	assert.Equal(t, EnvToken{Var: "MY_KEY"}, TokensFor(config.BackendConfig{Provider: "openai", APIKeyEnv: "MY_KEY"}))
	assert.Equal(t, EnvToken{Var: "ANTHROPIC_API_KEY"}, TokensFor(config.BackendConfig{Provider: "claude"}))
}

func TestNewBackend(t *testing.T) {
	b, err := NewBackend(context.Background(), config.BackendConfig{Provider: "ollama", Model: "llama3.2:3b"})
	require.NoError(t, err)
	assert.Equal(t, "ollama:llama3.2:3b", b.Name())

	b, err = NewBackend(context.Background(), config.BackendConfig{Provider: "OpenAI", Model: "m", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIBackend{}, b)

	_, err = NewBackend(context.Background(), config.BackendConfig{Provider: "bogus"})
	assert.Error(t, err)
}

func TestInvokerWithOllama_RecoversFromServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"message":{"content":"ok"}}`))
	}))
	defer srv.Close()

	inv := NewInvoker(NewOllamaBackend("m", srv.URL, 0, 0), RetryPolicy{MaxRetries: 2})
	got, err := inv.Invoke(context.Background(), []Message{{Role: RoleUser, Content: "x"}})

	require.NoError(t, err)
	assert.Equal(t, "ok", got.Text)
	assert.Equal(t, 2, got.Attempts)
	assert.Equal(t, 2, calls)
}

func TestSplitSystem(t *testing.T) {
	system, rest := splitSystem([]Message{
		{Role: RoleSystem, Content: "a"},
		{Role: RoleUser, Content: "u"},
		{Role: RoleSystem, Content: "b"},
	})
	assert.Equal(t, "a\n\nb", system)
	assert.Equal(t, []Message{{Role: RoleUser, Content: "u"}}, rest)
}

func TestRetryPolicyFrom(t *testing.T) {
	p := RetryPolicyFrom(config.Default().Retry)
	assert.Equal(t, DefaultRetryPolicy(), p)
}
