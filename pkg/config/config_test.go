package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadClean(t *testing.T) *Config {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	cfg := loadClean(t)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8001, cfg.Server.Port)
	assert.Equal(t, "./data/truth_meter.db", cfg.SQLite.Path)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 30, cfg.Redis.TTLSec)
	assert.Equal(t, 60, cfg.Providers.TimeoutSec)
	assert.Equal(t, 1, cfg.Providers.MaxAttempts)
	assert.Equal(t, "gpt-4o", cfg.Judge.Model)
	assert.Equal(t, float32(0.3), cfg.Judge.Temperature)
	assert.Equal(t, 1024, cfg.Judge.MaxTokens)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TRUTH_METER_SERVER_PORT", "9000")
	t.Setenv("TRUTH_METER_SQLITE_PATH", "/tmp/test.db")
	t.Setenv("TRUTH_METER_REDIS_ENABLED", "true")

	cfg := loadClean(t)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/tmp/test.db", cfg.SQLite.Path)
	assert.True(t, cfg.Redis.Enabled)
}

func TestProviderKeysUseConventionalEnvNames(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("DEEPSEEK_API_KEY", "sk-ds")

	cfg := loadClean(t)

	assert.Equal(t, "sk-openai", cfg.Providers.OpenAIKey)
	assert.Equal(t, "g-key", cfg.Providers.GoogleKey)
	assert.Equal(t, "sk-ant", cfg.Providers.AnthropicKey)
	assert.Equal(t, "sk-ds", cfg.Providers.DeepSeekKey)

	// The judge rides on the OpenAI credential unless given its own.
	assert.Equal(t, "sk-openai", cfg.Judge.APIKey)
}

func TestJudgeKeyPrefixedFormWins(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("TRUTH_METER_JUDGE_APIKEY", "sk-judge")

	cfg := loadClean(t)

	assert.Equal(t, "sk-judge", cfg.Judge.APIKey)
	assert.Equal(t, "sk-openai", cfg.Providers.OpenAIKey)
}
