// Package config provides configuration loading and validation for the API server and CLI.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// AppName is used for the config file name and the default log fields.
const AppName = "talent_api"

// Config is the full application configuration. Values come from (lowest to
// highest precedence) defaults, talent_api.yaml, environment variables and
// command-line flags bound into viper.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Ingestion IngestionConfig `mapstructure:"ingestion"`
	Match     MatchConfig     `mapstructure:"match"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port         int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout  time.Duration `mapstructure:"read-timeout"`
	WriteTimeout time.Duration `mapstructure:"write-timeout"`
}

// DatabaseConfig configures the PostgreSQL pool.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig configures the optional embedding cache. An empty URL disables it.
type RedisConfig struct {
	URL       string        `mapstructure:"url"`
	TTL       time.Duration `mapstructure:"ttl"`
	KeyPrefix string        `mapstructure:"key-prefix"`
}

// EmbeddingConfig selects and configures the embedding model.
type EmbeddingConfig struct {
	Provider   string        `mapstructure:"provider" validate:"oneof=hashing ollama openai gemini"`
	Model      string        `mapstructure:"model"`
	BaseURL    string        `mapstructure:"base-url"`
	APIKey     string        `mapstructure:"api-key"`
	Dimensions int           `mapstructure:"dimensions" validate:"min=0"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// LLMConfig configures the optional LLM field extractor.
type LLMConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	APIKey  string        `mapstructure:"api-key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// IngestionConfig bounds the résumé processing work.
type IngestionConfig struct {
	Workers       int   `mapstructure:"workers" validate:"min=1"`
	MaxUploadSize int64 `mapstructure:"max-upload-size" validate:"min=1"`
}

// MatchConfig controls the similarity ranker result sizes.
type MatchConfig struct {
	DefaultLimit int `mapstructure:"default-limit" validate:"min=1"`
	MaxLimit     int `mapstructure:"max-limit" validate:"min=1,gtefield=DefaultLimit"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// envBindings keeps the environment variable names used by earlier releases.
var envBindings = map[string]string{
	"server.port":          "PORT",
	"database.url":         "DATABASE_URL",
	"redis.url":            "REDIS_URL",
	"embedding.provider":   "EMBEDDING_PROVIDER",
	"embedding.model":      "EMBEDDING_MODEL",
	"embedding.base-url":   "EMBEDDING_BASE_URL",
	"embedding.api-key":    "EMBEDDING_API_KEY",
	"embedding.dimensions": "EMBEDDING_DIMENSIONS",
	"llm.enabled":          "LLM_ENABLED",
	"llm.api-key":          "GEMINI_API_KEY",
	"llm.model":            "LLM_MODEL",
	"ingestion.workers":    "INGESTION_WORKERS",
	"log.json":             "LOG_JSON",
	"log.debug":            "LOG_DEBUG",
}

type embeddingDefaults struct {
	model      string
	baseURL    string
	dimensions int
}

// providerDefaults fill the embedding settings left empty for each provider.
var providerDefaults = map[string]embeddingDefaults{
	"hashing": {model: "hashing-v1", dimensions: 384},
	"ollama":  {model: "nomic-embed-text", baseURL: "http://localhost:11434", dimensions: 768},
	"openai":  {model: "text-embedding-3-small", baseURL: "https://api.openai.com", dimensions: 1536},
	"gemini":  {model: "text-embedding-004", dimensions: 768},
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read-timeout", 30*time.Second)
	v.SetDefault("server.write-timeout", 120*time.Second)

	v.SetDefault("redis.ttl", 24*time.Hour)
	v.SetDefault("redis.key-prefix", "emb:")

	v.SetDefault("embedding.provider", "hashing")
	v.SetDefault("embedding.timeout", 30*time.Second)

	v.SetDefault("llm.enabled", false)
	v.SetDefault("llm.model", "gemini-2.5-flash-lite")
	v.SetDefault("llm.timeout", 45*time.Second)

	v.SetDefault("ingestion.workers", 4)
	v.SetDefault("ingestion.max-upload-size", int64(10<<20))

	v.SetDefault("match.default-limit", 5)
	v.SetDefault("match.max-limit", 50)
}

// Load reads the configuration from v. cfgFile may be empty, in which case an
// optional talent_api.yaml in the working directory is used when present.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and cross-field requirements.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("config error: %s failed on %s", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if d, ok := providerDefaults[c.Embedding.Provider]; ok {
		if c.Embedding.Model == "" {
			c.Embedding.Model = d.model
		}
		if c.Embedding.BaseURL == "" {
			c.Embedding.BaseURL = d.baseURL
		}
		if c.Embedding.Dimensions == 0 {
			c.Embedding.Dimensions = d.dimensions
		}
	}
	if c.Embedding.Provider == "gemini" {
		if c.Embedding.APIKey == "" {
			c.Embedding.APIKey = c.LLM.APIKey
		}
		if c.Embedding.APIKey == "" {
			return fmt.Errorf("config error: embedding.api-key (or GEMINI_API_KEY) is required for the gemini provider")
		}
	}

	if c.LLM.Enabled && c.LLM.APIKey == "" {
		return fmt.Errorf("config error: llm.api-key (GEMINI_API_KEY) is required when llm.enabled is set")
	}

	return nil
}
