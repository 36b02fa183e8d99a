package calls

import (
	"time"

	"github.com/saleslens/core/internal/models"
	"github.com/saleslens/core/internal/modules/insight"
)

// CreateCallDTO is the ingest payload.
type CreateCallDTO struct {
	CallID          string    `json:"call_id"          binding:"required"`
	AgentID         string    `json:"agent_id"         binding:"required"`
	CustomerID      string    `json:"customer_id"      binding:"required"`
	Language        string    `json:"language"`
	StartTime       time.Time `json:"start_time"       binding:"required"`
	DurationSeconds int       `json:"duration_seconds" binding:"required,min=1"`
	Transcript      string    `json:"transcript"       binding:"required"`
}

// ListFilter narrows the call listing. Nil fields mean "no constraint".
type ListFilter struct {
	AgentID      string
	FromDate     *time.Time
	ToDate       *time.Time
	MinSentiment *float64
	MaxSentiment *float64
}

type callResponse struct {
	ID                     string    `json:"id"`
	CallID                 string    `json:"call_id"`
	AgentID                string    `json:"agent_id"`
	CustomerID             string    `json:"customer_id"`
	Language               string    `json:"language"`
	StartTime              time.Time `json:"start_time"`
	DurationSeconds        int       `json:"duration_seconds"`
	Transcript             string    `json:"transcript"`
	AgentTalkRatio         *float64  `json:"agent_talk_ratio"`
	CustomerSentimentScore *float64  `json:"customer_sentiment_score"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// callDetail is the single-call view; it additionally exposes the embedding.
type callDetail struct {
	callResponse
	Embedding []float64 `json:"embedding"`
}

// RecommendationsResponse pairs ranked neighbours with coaching messages.
type RecommendationsResponse struct {
	SimilarCalls   []insight.SimilarityResult `json:"similar_calls"`
	CoachingNudges []insight.CoachingNudge    `json:"coaching_nudges"`
}

func toResponse(c *models.CallModel) callResponse {
	return callResponse{
		ID:                     c.ID,
		CallID:                 c.CallID,
		AgentID:                c.AgentID,
		CustomerID:             c.CustomerID,
		Language:               c.Language,
		StartTime:              c.StartTime,
		DurationSeconds:        c.DurationSeconds,
		Transcript:             c.Transcript,
		AgentTalkRatio:         c.AgentTalkRatio,
		CustomerSentimentScore: c.CustomerSentimentScore,
		CreatedAt:              c.CreatedAt,
		UpdatedAt:              c.UpdatedAt,
	}
}

func toDetail(c *models.CallModel) callDetail {
	return callDetail{
		callResponse: toResponse(c),
		Embedding:    c.Embedding,
	}
}
