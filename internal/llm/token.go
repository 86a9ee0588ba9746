package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// TokenProvider supplies the bearer credential for hosted backends.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed credential, typically from the config file.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", fmt.Errorf("empty access token")
	}
	return string(t), nil
}

// EnvToken reads the credential from an environment variable at call time.
type EnvToken struct {
	Var string
}

func (t EnvToken) Token(context.Context) (string, error) {
	v := strings.TrimSpace(os.Getenv(t.Var))
	if v == "" {
		return "", fmt.Errorf("access token variable %s is not set", t.Var)
	}
	return v, nil
}
