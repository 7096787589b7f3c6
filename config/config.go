// Package config loads the repurposer configuration from an optional JSON
// file, a .env file and the process environment, in that order of precedence
// (environment wins).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

// DefaultPath is the config file consulted when --config is not given.
const DefaultPath = "config/config.json"

// Duration is a time.Duration that reads "30s"-style strings from both JSON
// and environment variables.
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full process configuration.
type Config struct {
	ServerAddr     string       `json:"server_addr,omitempty" env:"SERVER_ADDR"`
	MaxUploadBytes int64        `json:"max_upload_bytes,omitempty" env:"MAX_UPLOAD_BYTES"`
	LLM            LLMConfig    `json:"llm"`
	Reader         ReaderConfig `json:"reader"`
	Chat           ChatConfig   `json:"chat"`
}

// LLMConfig selects and configures the generation provider.
type LLMConfig struct {
	Provider string   `json:"provider,omitempty" env:"LLM_PROVIDER"`
	Model    string   `json:"model,omitempty" env:"OPENAI_MODEL"`
	APIKey   string   `json:"api_key,omitempty" env:"OPENAI_API_KEY"`
	BaseURL  string   `json:"base_url,omitempty" env:"LLM_BASE_URL"`
	Timeout  Duration `json:"timeout,omitempty" env:"LLM_TIMEOUT"`
}

// ReaderConfig configures the remote content fetcher.
type ReaderConfig struct {
	Provider string   `json:"provider,omitempty" env:"READER_PROVIDER"`
	BaseURL  string   `json:"base_url,omitempty" env:"READER_BASE_URL"`
	APIKey   string   `json:"api_key,omitempty" env:"READER_API_KEY"`
	Timeout  Duration `json:"timeout,omitempty" env:"READER_TIMEOUT"`
}

// ChatConfig configures the chat responder.
type ChatConfig struct {
	Delay   Duration `json:"delay,omitempty" env:"CHAT_DELAY"`
	Instant bool     `json:"instant,omitempty" env:"CHAT_INSTANT"`
}

// Load reads path (if present), then .env, then the environment. A missing
// file is only tolerated for DefaultPath.
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && path == DefaultPath:
		default:
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing env config: %w", err)
	}

	cfg.defaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) defaults() {
	if c.ServerAddr == "" {
		c.ServerAddr = ":8080"
	}
	if c.MaxUploadBytes == 0 {
		c.MaxUploadBytes = 10 << 20
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-3.5-turbo"
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = Duration(60 * time.Second)
	}
	if c.Reader.Provider == "" {
		c.Reader.Provider = "jina"
	}
	if c.Reader.Timeout <= 0 {
		c.Reader.Timeout = Duration(30 * time.Second)
	}
	switch {
	case c.Chat.Instant:
		c.Chat.Delay = 0
	case c.Chat.Delay <= 0:
		c.Chat.Delay = Duration(time.Second)
	}
}

// Validate reports every configuration problem at once. A missing API key is
// not one of them: the server still serves the parse endpoints without it.
func (c Config) Validate() error {
	var result *multierror.Error

	switch c.LLM.Provider {
	case "openai", "mock":
	case "deepseek":
		if c.LLM.BaseURL == "" {
			result = multierror.Append(result, errors.New("llm provider deepseek requires base_url (OpenAI-compatible endpoint)"))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("llm provider %s not supported", c.LLM.Provider))
	}

	switch c.Reader.Provider {
	case "jina", "direct":
	default:
		result = multierror.Append(result, fmt.Errorf("reader provider %s not supported", c.Reader.Provider))
	}

	if c.MaxUploadBytes < 0 {
		result = multierror.Append(result, errors.New("max_upload_bytes must be positive"))
	}
	if c.ServerAddr == "" {
		result = multierror.Append(result, errors.New("server_addr must not be empty"))
	}

	return result.ErrorOrNil()
}
