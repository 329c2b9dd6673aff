// Package config loads application settings with viper. Every value has a
// default so a missing config file is not an error.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bohradivyansh-maker/translation-assistant/internal/domain"
)

const (
	envPrefix      = "TRANSLATION_ASSISTANT"
	configFileName = ".translation-assistant"
)

type Config struct {
	Log         LogConfig         `mapstructure:"log"`
	Language    LanguageConfig    `mapstructure:"language"`
	Context     ContextConfig     `mapstructure:"context"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Translation TranslationConfig `mapstructure:"translation"`
	Services    ServicesConfig    `mapstructure:"services"`
	NLP         NLPConfig         `mapstructure:"nlp"`
	Domains     []domain.Lexicon  `mapstructure:"domains"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Debug bool   `mapstructure:"debug"`
}

type LanguageConfig struct {
	DefaultTarget string `mapstructure:"default_target"`
	// Fallback is used when every detector fails.
	Fallback           string  `mapstructure:"fallback"`
	FallbackConfidence float64 `mapstructure:"fallback_confidence"`
}

type ContextConfig struct {
	SentencesBefore      int `mapstructure:"sentences_before"`
	SentencesAfter       int `mapstructure:"sentences_after"`
	MaxTranslationLength int `mapstructure:"max_translation_length"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type CacheConfig struct {
	// Backend is one of "none", "memory" or "redis".
	Backend   string `mapstructure:"backend"`
	RedisURL  string `mapstructure:"redis_url"`
	TTL       int    `mapstructure:"ttl"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type TranslationConfig struct {
	Primary             string        `mapstructure:"primary"`
	Secondary           string        `mapstructure:"secondary"`
	Timeout             time.Duration `mapstructure:"timeout"`
	PreserveEntities    bool          `mapstructure:"preserve_entities"`
	PreserveEntityTypes []string      `mapstructure:"preserve_entity_types"`
}

type ServicesConfig struct {
	Google   GoogleConfig   `mapstructure:"google"`
	MyMemory MyMemoryConfig `mapstructure:"mymemory"`
	Ollama   OllamaConfig   `mapstructure:"ollama"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
}

type GoogleConfig struct {
	Credentials string `mapstructure:"credentials"`
	ProjectID   string `mapstructure:"project_id"`
}

type MyMemoryConfig struct {
	Email string `mapstructure:"email"`
}

type OllamaConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type NLPConfig struct {
	KeyTerms int `mapstructure:"key_terms"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.debug", false)

	v.SetDefault("language.default_target", "es")
	v.SetDefault("language.fallback", "en")
	v.SetDefault("language.fallback_confidence", 0.5)

	v.SetDefault("context.sentences_before", 2)
	v.SetDefault("context.sentences_after", 2)
	v.SetDefault("context.max_translation_length", 5000)

	v.SetDefault("database.path", "data/translation_memory.db")

	v.SetDefault("cache.backend", "none")
	v.SetDefault("cache.redis_url", "redis://localhost:6379")
	v.SetDefault("cache.ttl", 3600)
	v.SetDefault("cache.key_prefix", "tm:")

	v.SetDefault("translation.primary", "google")
	v.SetDefault("translation.secondary", "mymemory")
	v.SetDefault("translation.timeout", 10*time.Second)
	v.SetDefault("translation.preserve_entities", false)
	v.SetDefault("translation.preserve_entity_types", []string{"PERSON", "ORG", "GPE", "LOC", "PRODUCT", "EVENT"})

	v.SetDefault("services.ollama.base_url", "http://localhost:11434")
	v.SetDefault("services.ollama.model", "llama3.2")
	v.SetDefault("services.openai.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("services.openai.model", "mistralai/mistral-nemo:free")

	v.SetDefault("nlp.key_terms", 5)
}

// Load reads the config file at path. An empty path searches for
// .translation-assistant.{yaml,toml,json} in the home and working
// directories. Environment variables prefixed TRANSLATION_ASSISTANT_
// override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(configFileName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if len(cfg.Domains) == 0 {
		cfg.Domains = domain.DefaultLexicons()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		v := viper.New()
		setDefaults(v)
		cfg = &Config{}
		_ = v.Unmarshal(cfg)
		cfg.Domains = domain.DefaultLexicons()
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.Context.SentencesBefore < 0 || c.Context.SentencesAfter < 0 {
		return fmt.Errorf("context sentence counts must not be negative")
	}
	switch c.Cache.Backend {
	case "", "none", "memory", "redis":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Translation.Primary == "" {
		return fmt.Errorf("translation.primary must be set")
	}
	if c.Language.FallbackConfidence < 0 || c.Language.FallbackConfidence > 1 {
		return fmt.Errorf("language.fallback_confidence must be within [0, 1]")
	}
	return nil
}
