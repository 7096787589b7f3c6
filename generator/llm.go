package generator

import (
	"context"
	"errors"
	"time"
)

// ErrProviderNotConfigured is returned when no generation provider (or no
// provider credential) is available.
var ErrProviderNotConfigured = errors.New("OpenAI API key not configured")

// LLMClient abstracts the text-generation provider so it can be swapped or mocked.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings is the provider configuration handed to concrete clients.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}
