package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "env: development\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "127.0.0.1", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 50, cfg.Recommend.CandidateLimit)
	assert.Equal(t, 5, cfg.Recommend.TopK)
	assert.Equal(t, 90, cfg.Retention.KeepDays)
	assert.True(t, cfg.AI.EnableNudges)
	assert.Equal(t, 5*time.Second, cfg.AI.GenerationTimeout())
	assert.Equal(t, 30*time.Second, cfg.Extractor.Timeout())
	assert.True(t, cfg.IsDev())
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
port: 9090
env: production
database:
  host: db.internal
  port: 3307
  name: saleslens
redis:
  host: cache.internal
extractor:
  base_url: http://extractor:8080
  timeout_seconds: 10
  label_weights:
    joy: 1
    anger: -1
recommendations:
  candidate_limit: 100
  top_k: 10
retention:
  keep_days: 30
ai:
  enable_nudges: false
  providers:
    - id: main
      name: Main
      type: OpenAI
      api_key: sk-test
      default_model: gpt-4o-mini
      enabled: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 3307, cfg.Database.Port)
	assert.Equal(t, "cache.internal", cfg.Redis.Host)
	assert.Equal(t, 10*time.Second, cfg.Extractor.Timeout())
	assert.Equal(t, map[string]float64{"joy": 1, "anger": -1}, cfg.Extractor.LabelWeights)
	assert.Equal(t, 100, cfg.Recommend.CandidateLimit)
	assert.Equal(t, 10, cfg.Recommend.TopK)
	assert.Equal(t, 30, cfg.Retention.KeepDays)
	assert.False(t, cfg.AI.EnableNudges)
	require.Len(t, cfg.AI.Providers, 1)
	assert.Equal(t, "sk-test", cfg.AI.Providers[0].APIKey)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "nonexistent_option: true\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad port", content: "port: 70000\n"},
		{name: "bad database port", content: "database:\n  port: 0\n"},
		{name: "bad candidate limit", content: "recommendations:\n  candidate_limit: 0\n"},
		{name: "bad top_k", content: "recommendations:\n  top_k: -1\n"},
		{name: "bad retention", content: "retention:\n  keep_days: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestDSNValue(t *testing.T) {
	cfg := DatabaseRuntimeConfig{
		Host: "localhost", Port: 3306,
		User: "root", Password: "secret",
		Name: "sales_analytics", Charset: "utf8mb4", Loc: "Local",
	}
	dsn := cfg.DSNValue()
	assert.Contains(t, dsn, "root:secret@tcp(localhost:3306)/sales_analytics")
	assert.Contains(t, dsn, "parseTime=true")
}

func TestDSNValueExplicitWins(t *testing.T) {
	cfg := DatabaseRuntimeConfig{DSN: "user:pass@tcp(db:3306)/x", Host: "ignored"}
	assert.Equal(t, "user:pass@tcp(db:3306)/x", cfg.DSNValue())
}
