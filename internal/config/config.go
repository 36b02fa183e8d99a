package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort       = 8000
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "sales_analytics"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379
	defaultRedisDB    = 0

	defaultCandidateLimit    = 50
	defaultTopK              = 5
	defaultRetentionDays     = 90
	defaultExtractorTimeout  = 30
	defaultGenerationTimeout = 5
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                   `yaml:"port"`
	Env            string                `yaml:"env"` // "development" | "production"
	Database       DatabaseRuntimeConfig `yaml:"database"`
	Redis          RedisRuntimeConfig    `yaml:"redis"`
	AllowedOrigins []string              `yaml:"allowed_origins"`
	Extractor      ExtractorConfig       `yaml:"extractor"`
	AI             AIConfig              `yaml:"ai"`
	Recommend      RecommendConfig       `yaml:"recommendations"`
	Retention      RetentionConfig       `yaml:"retention"`
}

type DatabaseRuntimeConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
	Loc      string `yaml:"loc"`
}

type RedisRuntimeConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

// ExtractorConfig points at the external embedding/sentiment inference service.
type ExtractorConfig struct {
	BaseURL        string             `yaml:"base_url"`
	TimeoutSeconds int                `yaml:"timeout_seconds"`
	SentimentModel string             `yaml:"sentiment_model"`
	EmbeddingModel string             `yaml:"embedding_model"`
	// LabelWeights maps the sentiment model's output labels to signed
	// contributions. Defaults cover both POSITIVE/NEGATIVE and LABEL_n
	// conventions so the underlying model can be swapped via config alone.
	LabelWeights map[string]float64 `yaml:"label_weights"`
}

type AIConfig struct {
	Providers               []AIProvider `yaml:"providers"`
	EnableNudges            bool         `yaml:"enable_nudges"`
	GenerationTimeoutSecond int          `yaml:"generation_timeout_seconds"`
}

type AIProvider struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Type         string `yaml:"type"` // OpenAI | OpenAI-Compatible | Anthropic
	APIKey       string `yaml:"api_key"`
	Endpoint     string `yaml:"endpoint,omitempty"`
	DefaultModel string `yaml:"default_model"`
	Enabled      bool   `yaml:"enabled"`
}

type RecommendConfig struct {
	CandidateLimit int `yaml:"candidate_limit"`
	TopK           int `yaml:"top_k"`
}

type RetentionConfig struct {
	KeepDays int `yaml:"keep_days"`
}

func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	cfg := defaultAppConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}

	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseRuntimeConfig{
			Host:     defaultDBHost,
			Port:     defaultDBPort,
			User:     defaultDBUser,
			Password: defaultDBPassword,
			Name:     defaultDBName,
			Charset:  defaultDBCharset,
			Loc:      defaultDBLoc,
		},
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		Extractor: ExtractorConfig{
			TimeoutSeconds: defaultExtractorTimeout,
			LabelWeights:   DefaultLabelWeights(),
		},
		AI: AIConfig{
			EnableNudges:            true,
			GenerationTimeoutSecond: defaultGenerationTimeout,
		},
		Recommend: RecommendConfig{
			CandidateLimit: defaultCandidateLimit,
			TopK:           defaultTopK,
		},
		Retention: RetentionConfig{
			KeepDays: defaultRetentionDays,
		},
	}
}

func (c *AppConfig) validate(path string) error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d in %q, expected 1-65535", c.Port, path)
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database.port %d in %q, expected 1-65535", c.Database.Port, path)
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		return fmt.Errorf("invalid redis.port %d in %q, expected 1-65535", c.Redis.Port, path)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("invalid redis.db %d in %q, expected >= 0", c.Redis.DB, path)
	}
	if c.Recommend.CandidateLimit < 1 {
		return fmt.Errorf("invalid recommendations.candidate_limit %d in %q, expected >= 1", c.Recommend.CandidateLimit, path)
	}
	if c.Recommend.TopK < 1 {
		return fmt.Errorf("invalid recommendations.top_k %d in %q, expected >= 1", c.Recommend.TopK, path)
	}
	if c.Retention.KeepDays < 1 {
		return fmt.Errorf("invalid retention.keep_days %d in %q, expected >= 1", c.Retention.KeepDays, path)
	}
	return nil
}

// DefaultLabelWeights covers the two sentiment label conventions seen in
// practice: POSITIVE/NEGATIVE and LABEL_0/LABEL_1/LABEL_2 (neutral weighs 0).
func DefaultLabelWeights() map[string]float64 {
	return map[string]float64{
		"POSITIVE": 1,
		"NEGATIVE": -1,
		"LABEL_0":  -1,
		"LABEL_1":  0,
		"LABEL_2":  1,
	}
}

func (c *AppConfig) IsDev() bool {
	return strings.ToLower(strings.TrimSpace(c.Env)) != "production"
}

// ExtractorTimeout returns the HTTP timeout for the feature extractor client.
func (c ExtractorConfig) Timeout() time.Duration {
	if c.TimeoutSeconds < 1 {
		return defaultExtractorTimeout * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GenerationTimeout bounds a single generative-text round trip.
func (c AIConfig) GenerationTimeout() time.Duration {
	if c.GenerationTimeoutSecond < 1 {
		return defaultGenerationTimeout * time.Second
	}
	return time.Duration(c.GenerationTimeoutSecond) * time.Second
}
