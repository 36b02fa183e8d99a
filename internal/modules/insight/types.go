package insight

// Candidate is one stored call considered by the similarity ranker.
type Candidate struct {
	CallID     string
	AgentID    string
	Embedding  []float64
	Transcript string
}

// SimilarityResult is one ranked neighbour of the target call.
type SimilarityResult struct {
	CallID            string  `json:"call_id"`
	AgentID           string  `json:"agent_id"`
	SimilarityScore   float64 `json:"similarity_score"`
	TranscriptPreview string  `json:"transcript_preview"`
}

// CoachingNudge wraps a single coaching message for the API response.
type CoachingNudge struct {
	Message string `json:"message"`
}

const (
	// previewChars is how much of a neighbour's transcript the API exposes.
	previewChars = 200
	// maxNudges caps the coaching list.
	maxNudges = 3
	// nudgeMaxChars is the hard per-message cut, not word-aware.
	nudgeMaxChars = 40
)
