package insight

import (
	"math"
	"sort"
)

// RankSimilar scores every candidate with an embedding against the target by
// cosine similarity and returns up to k results, highest first. Ties keep the
// candidates' input order. Candidates without an embedding, or whose
// dimensionality does not match the target, are skipped individually; an
// empty target or candidate set yields an empty result. Any internal fault
// also yields an empty result rather than failing the request.
func RankSimilar(target []float64, candidates []Candidate, k int) (results []SimilarityResult) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
		}
	}()

	if len(target) == 0 || len(candidates) == 0 || k <= 0 {
		return nil
	}

	scored := make([]SimilarityResult, 0, len(candidates))
	for _, cand := range candidates {
		if len(cand.Embedding) == 0 || len(cand.Embedding) != len(target) {
			continue
		}
		scored = append(scored, SimilarityResult{
			CallID:            cand.CallID,
			AgentID:           cand.AgentID,
			SimilarityScore:   cosineSimilarity(target, cand.Embedding),
			TranscriptPreview: transcriptPreview(cand.Transcript),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].SimilarityScore > scored[j].SimilarityScore
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// cosineSimilarity computes dot(a,b) / (|a|·|b|). A zero-magnitude vector
// scores 0 rather than dividing by zero.
func cosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// transcriptPreview returns the first 200 characters of the transcript with a
// "..." suffix. The suffix is appended even when nothing was cut off; clients
// depend on the existing shape, so the quirk is kept deliberately.
func transcriptPreview(transcript string) string {
	runes := []rune(transcript)
	if len(runes) > previewChars {
		runes = runes[:previewChars]
	}
	return string(runes) + "..."
}
