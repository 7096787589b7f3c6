package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("READER_PROVIDER", "")
	t.Setenv("CHAT_DELAY", "")

	cfg, err := Load(writeConfig(t, `{}`))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-3.5-turbo", cfg.LLM.Model)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout.Std())
	assert.Equal(t, "jina", cfg.Reader.Provider)
	assert.Equal(t, 30*time.Second, cfg.Reader.Timeout.Std())
	assert.Equal(t, time.Second, cfg.Chat.Delay.Std())
	assert.EqualValues(t, 10<<20, cfg.MaxUploadBytes)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeConfig(t, `{
		"server_addr": ":9000",
		"llm": {"provider": "mock", "model": "gpt-4o-mini", "timeout": "5s"},
		"reader": {"provider": "direct"}
	}`)
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("SERVER_ADDR", ":9100")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("READER_PROVIDER", "")
	t.Setenv("CHAT_INSTANT", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.ServerAddr)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "sk-env", cfg.LLM.APIKey)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout.Std())
	assert.Equal(t, "direct", cfg.Reader.Provider)
	assert.Zero(t, cfg.Chat.Delay)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, `{"llm":`))
	require.Error(t, err)
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Config{
		ServerAddr: ":8080",
		LLM:        LLMConfig{Provider: "deepseek"},
		Reader:     ReaderConfig{Provider: "carrier-pigeon"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deepseek requires base_url")
	assert.Contains(t, err.Error(), "reader provider carrier-pigeon not supported")
}

func TestLoadRejectsNegativeUploadLimit(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("READER_PROVIDER", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")

	_, err := Load(writeConfig(t, `{"max_upload_bytes": -1}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_upload_bytes must be positive")
}

func TestValidateMissingAPIKeyIsFine(t *testing.T) {
	cfg := Config{ServerAddr: ":8080", LLM: LLMConfig{Provider: "openai"}, Reader: ReaderConfig{Provider: "jina"}}
	assert.NoError(t, cfg.Validate())
}

func TestExampleConfigLoads(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("READER_PROVIDER", "")

	cfg, err := Load("config.example.json")
	require.NoError(t, err)
	assert.Equal(t, "https://r.jina.ai", cfg.Reader.BaseURL)
	assert.Equal(t, time.Second, cfg.Chat.Delay.Std())
}
