package extractor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcfg "github.com/saleslens/core/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(appcfg.ExtractorConfig{
		BaseURL:        srv.URL,
		TimeoutSeconds: 5,
		SentimentModel: "sentiment-model",
		EmbeddingModel: "embedding-model",
	})
}

func TestEmbed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "embedding-model", body["model"])
		assert.Equal(t, "hello world", body["input"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"embedding": []float64{0.1, 0.2, 0.3},
		})
	})

	got, err := client.Embed(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, got)
}

func TestEmbedEmptyVector(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"embedding": []float64{}})
	})

	_, err := client.Embed(context.Background(), "hello")
	assert.Error(t, err)
}

func TestEmbedServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	})

	_, err := client.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestSentimentDecoding(t *testing.T) {
	tests := []struct {
		name   string
		labels []map[string]interface{}
		want   float64
	}{
		{
			name:   "positive label",
			labels: []map[string]interface{}{{"label": "POSITIVE", "score": 0.9}},
			want:   0.9,
		},
		{
			name:   "negative label",
			labels: []map[string]interface{}{{"label": "NEGATIVE", "score": 0.8}},
			want:   -0.8,
		},
		{
			name: "label_n convention",
			labels: []map[string]interface{}{
				{"label": "LABEL_0", "score": 0.1},
				{"label": "LABEL_1", "score": 0.3},
				{"label": "LABEL_2", "score": 0.6},
			},
			want: 0.5,
		},
		{
			name: "unknown labels ignored",
			labels: []map[string]interface{}{
				{"label": "MYSTERY", "score": 1.0},
				{"label": "POSITIVE", "score": 0.4},
			},
			want: 0.4,
		},
		{
			name: "sum is clamped",
			labels: []map[string]interface{}{
				{"label": "POSITIVE", "score": 0.9},
				{"label": "LABEL_2", "score": 0.9},
			},
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/sentiment", r.URL.Path)
				json.NewEncoder(w).Encode(map[string]interface{}{"labels": tt.labels})
			})

			got, err := client.Sentiment(context.Background(), "some text")
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestSentimentNoLabels(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"labels": []interface{}{}})
	})

	_, err := client.Sentiment(context.Background(), "some text")
	assert.Error(t, err)
}

func TestNotConfigured(t *testing.T) {
	client := NewClient(appcfg.ExtractorConfig{})

	_, err := client.Embed(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = client.Sentiment(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCustomLabelWeights(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"labels": []map[string]interface{}{{"label": "joy", "score": 0.5}},
		})
	}))
	t.Cleanup(srv.Close)

	client := NewClient(appcfg.ExtractorConfig{
		BaseURL:        srv.URL,
		TimeoutSeconds: 5,
		LabelWeights:   map[string]float64{"joy": 1, "anger": -1},
	})

	got, err := client.Sentiment(context.Background(), "some text")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got, 1e-9)
}
