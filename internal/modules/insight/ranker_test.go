package insight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankSimilarOrdering(t *testing.T) {
	target := []float64{1, 0, 0}
	candidates := []Candidate{
		{CallID: "opposite", AgentID: "a1", Embedding: []float64{-1, 0, 0}, Transcript: "t"},
		{CallID: "identical", AgentID: "a2", Embedding: []float64{2, 0, 0}, Transcript: "t"},
		{CallID: "orthogonal", AgentID: "a3", Embedding: []float64{0, 1, 0}, Transcript: "t"},
	}

	results := RankSimilar(target, candidates, 5)
	require.Len(t, results, 3)

	assert.Equal(t, "identical", results[0].CallID)
	assert.InDelta(t, 1.0, results[0].SimilarityScore, 1e-9)
	assert.Equal(t, "orthogonal", results[1].CallID)
	assert.InDelta(t, 0.0, results[1].SimilarityScore, 1e-9)
	assert.Equal(t, "opposite", results[2].CallID)
	assert.InDelta(t, -1.0, results[2].SimilarityScore, 1e-9)
}

func TestRankSimilarTruncatesToK(t *testing.T) {
	target := []float64{1, 1}
	candidates := []Candidate{
		{CallID: "c1", Embedding: []float64{1, 1}},
		{CallID: "c2", Embedding: []float64{1, 0}},
		{CallID: "c3", Embedding: []float64{0, 1}},
	}

	results := RankSimilar(target, candidates, 2)
	assert.Len(t, results, 2)
	assert.Equal(t, "c1", results[0].CallID)
}

func TestRankSimilarSkipsUnusableCandidates(t *testing.T) {
	target := []float64{1, 0, 0}
	candidates := []Candidate{
		{CallID: "no-embedding", Embedding: nil},
		{CallID: "wrong-dim", Embedding: []float64{1, 0}},
		{CallID: "ok", Embedding: []float64{1, 0, 0}},
	}

	results := RankSimilar(target, candidates, 5)
	require.Len(t, results, 1)
	assert.Equal(t, "ok", results[0].CallID)
}

func TestRankSimilarEmptyInputs(t *testing.T) {
	assert.Empty(t, RankSimilar(nil, []Candidate{{CallID: "c1", Embedding: []float64{1}}}, 5))
	assert.Empty(t, RankSimilar([]float64{1}, nil, 5))
	assert.Empty(t, RankSimilar([]float64{1}, []Candidate{{CallID: "c1", Embedding: []float64{1}}}, 0))
}

func TestRankSimilarStableTies(t *testing.T) {
	target := []float64{1, 0}
	candidates := []Candidate{
		{CallID: "first", Embedding: []float64{3, 0}},
		{CallID: "second", Embedding: []float64{5, 0}},
	}

	results := RankSimilar(target, candidates, 5)
	require.Len(t, results, 2)
	// scale-invariant scores tie; input order wins
	assert.Equal(t, "first", results[0].CallID)
	assert.Equal(t, "second", results[1].CallID)
}

func TestCosineSimilarityZeroVector(t *testing.T) {
	assert.Equal(t, 0.0, cosineSimilarity([]float64{0, 0}, []float64{1, 1}))
	assert.Equal(t, 0.0, cosineSimilarity([]float64{1, 1}, []float64{0, 0}))
}

func TestTranscriptPreview(t *testing.T) {
	short := transcriptPreview("hello")
	assert.Equal(t, "hello...", short)

	long := transcriptPreview(strings.Repeat("x", 500))
	assert.True(t, strings.HasSuffix(long, "..."))
	assert.Len(t, long, 203)
}
