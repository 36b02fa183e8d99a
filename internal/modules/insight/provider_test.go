package insight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcfg "github.com/saleslens/core/internal/config"
)

func TestNewGeneratorDisabled(t *testing.T) {
	assert.Nil(t, NewGenerator(appcfg.AIConfig{EnableNudges: false}))
}

func TestNewGeneratorNoUsableProvider(t *testing.T) {
	cfg := appcfg.AIConfig{
		EnableNudges: true,
		Providers: []appcfg.AIProvider{
			{ID: "disabled", Type: "OpenAI", APIKey: "sk-x", Enabled: false},
			{ID: "no-key", Type: "OpenAI", Enabled: true},
		},
	}
	assert.Nil(t, NewGenerator(cfg))
}

func TestSelectProviderPicksFirstEnabled(t *testing.T) {
	cfg := appcfg.AIConfig{
		Providers: []appcfg.AIProvider{
			{ID: "disabled", APIKey: "sk-a", Enabled: false},
			{ID: "first", APIKey: "sk-b", Enabled: true},
			{ID: "second", APIKey: "sk-c", Enabled: true},
		},
	}
	provider := selectProvider(cfg)
	require.NotNil(t, provider)
	assert.Equal(t, "first", provider.ID)
}

func TestGenerateTextOpenAICompatible(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "local-model", body["model"])
		assert.EqualValues(t, 200, body["max_tokens"])
		assert.EqualValues(t, 0.7, body["temperature"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "Tip one\nTip two"}},
			},
		})
	}))
	t.Cleanup(srv.Close)

	gen := NewGenerator(appcfg.AIConfig{
		EnableNudges:            true,
		GenerationTimeoutSecond: 5,
		Providers: []appcfg.AIProvider{{
			ID:           "local",
			Type:         "OpenAI-Compatible",
			APIKey:       "sk-test",
			Endpoint:     srv.URL,
			DefaultModel: "local-model",
			Enabled:      true,
		}},
	})
	require.NotNil(t, gen)

	got, err := gen.GenerateText(context.Background(), "prompt", 200, 0.7)
	require.NoError(t, err)
	assert.Equal(t, "Tip one\nTip two", got)
}

func TestGenerateTextOpenAICompatibleError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "model overloaded"},
		})
	}))
	t.Cleanup(srv.Close)

	gen := &Generator{
		provider: appcfg.AIProvider{
			Type:     "openai-compatible",
			APIKey:   "sk-test",
			Endpoint: srv.URL,
		},
		timeout: 5 * time.Second,
	}

	_, err := gen.GenerateText(context.Background(), "prompt", 100, 0.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestNormalizeOpenAICompatibleEndpoint(t *testing.T) {
	assert.Equal(t, "https://api.openai.com", normalizeOpenAICompatibleEndpoint(""))
	assert.Equal(t, "http://llm.internal", normalizeOpenAICompatibleEndpoint("http://llm.internal/v1/"))
	assert.Equal(t, "http://llm.internal:8080", normalizeOpenAICompatibleEndpoint("http://llm.internal:8080"))
}
