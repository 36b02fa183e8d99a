package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	appcfg "github.com/saleslens/core/internal/config"
)

// ErrNotConfigured is returned when no extractor base URL is set. Call sites
// treat it like any other extractor failure: the derived field stays null.
var ErrNotConfigured = errors.New("extractor base url is not configured")

// Client talks to the external feature-extraction service that computes
// embeddings and sentiment for transcripts. The service is a black box; only
// its two endpoints and JSON shapes are assumed here.
type Client struct {
	baseURL        string
	sentimentModel string
	embeddingModel string
	labelWeights   map[string]float64
	httpClient     *http.Client
}

func NewClient(cfg appcfg.ExtractorConfig) *Client {
	weights := cfg.LabelWeights
	if len(weights) == 0 {
		weights = appcfg.DefaultLabelWeights()
	}
	return &Client{
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		sentimentModel: strings.TrimSpace(cfg.SentimentModel),
		embeddingModel: strings.TrimSpace(cfg.EmbeddingModel),
		labelWeights:   weights,
		httpClient:     &http.Client{Timeout: cfg.Timeout()},
	}
}

// Embed returns the embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	var result struct {
		Embedding []float64 `json:"embedding"`
	}
	if err := c.post(ctx, "/embeddings", c.embeddingModel, text, &result); err != nil {
		return nil, err
	}
	if len(result.Embedding) == 0 {
		return nil, errors.New("extractor returned an empty embedding")
	}
	return result.Embedding, nil
}

// Sentiment returns a score in [-1, 1] for the given text. The service
// reports model labels with confidences; each label contributes its
// configured weight scaled by confidence, and the sum is clamped. Unknown
// labels contribute nothing, so swapping the sentiment model is a pure
// config change.
func (c *Client) Sentiment(ctx context.Context, text string) (float64, error) {
	var result struct {
		Labels []struct {
			Label string  `json:"label"`
			Score float64 `json:"score"`
		} `json:"labels"`
	}
	if err := c.post(ctx, "/sentiment", c.sentimentModel, text, &result); err != nil {
		return 0, err
	}
	if len(result.Labels) == 0 {
		return 0, errors.New("extractor returned no sentiment labels")
	}

	var score float64
	for _, l := range result.Labels {
		weight, ok := c.labelWeights[l.Label]
		if !ok {
			continue
		}
		score += weight * l.Score
	}
	return clamp(score, -1, 1), nil
}

func (c *Client) post(ctx context.Context, path, model, input string, out interface{}) error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}

	body, _ := json.Marshal(map[string]string{
		"model": model,
		"input": input,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("extractor %s error: %s", path, strings.TrimSpace(string(respBody)))
	}
	return json.Unmarshal(respBody, out)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
