package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	SQLite    SQLiteConfig
	Redis     RedisConfig
	Providers ProvidersConfig
	Judge     JudgeConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTLSec   int
}

// ProvidersConfig holds the resolved credential for each supported provider.
// An empty key means the provider is not configured; the gateway reports that
// at call time rather than at startup.
type ProvidersConfig struct {
	OpenAIKey    string
	GoogleKey    string
	AnthropicKey string
	DeepSeekKey  string
	TimeoutSec   int
	MaxAttempts  int
}

type JudgeConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	TimeoutSec  int
	BaseURL     string
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/truth-meter")

	viper.SetEnvPrefix("TRUTH_METER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Provider secrets keep their conventional names alongside the prefixed form.
	viper.BindEnv("providers.openaikey", "TRUTH_METER_PROVIDERS_OPENAIKEY", "OPENAI_API_KEY")
	viper.BindEnv("providers.googlekey", "TRUTH_METER_PROVIDERS_GOOGLEKEY", "GOOGLE_API_KEY")
	viper.BindEnv("providers.anthropickey", "TRUTH_METER_PROVIDERS_ANTHROPICKEY", "ANTHROPIC_API_KEY")
	viper.BindEnv("providers.deepseekkey", "TRUTH_METER_PROVIDERS_DEEPSEEKKEY", "DEEPSEEK_API_KEY")
	viper.BindEnv("judge.apikey", "TRUTH_METER_JUDGE_APIKEY", "OPENAI_API_KEY")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8001)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 120)
	viper.SetDefault("server.bodyLimit", 1048576)

	viper.SetDefault("sqlite.path", "./data/truth_meter.db")

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttlSec", 30)

	viper.SetDefault("providers.timeoutSec", 60)
	viper.SetDefault("providers.maxAttempts", 1)

	viper.SetDefault("judge.model", "gpt-4o")
	viper.SetDefault("judge.temperature", 0.3)
	viper.SetDefault("judge.maxTokens", 1024)
	viper.SetDefault("judge.timeoutSec", 60)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
