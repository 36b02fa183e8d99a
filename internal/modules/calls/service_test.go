package calls

import (
	"context"
	"errors"
	"testing"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saleslens/core/internal/models"
)

func ptr(v float64) *float64 { return &v }

func TestBuildRecommendations(t *testing.T) {
	target := &models.CallModel{
		CallID:                 "target",
		AgentID:                "agent-1",
		Transcript:             "Agent: hello\nCustomer: hi",
		Embedding:              models.FloatArray{1, 0},
		AgentTalkRatio:         ptr(0.8),
		CustomerSentimentScore: ptr(-0.5),
	}
	others := []models.CallModel{
		{CallID: "close", AgentID: "agent-2", Embedding: models.FloatArray{1, 0.1}, Transcript: "t1"},
		{CallID: "far", AgentID: "agent-3", Embedding: models.FloatArray{0, 1}, Transcript: "t2"},
		{CallID: "no-embedding", AgentID: "agent-4", Transcript: "t3"},
	}

	resp := buildRecommendations(context.Background(), target, others, 5, nil)

	require.Len(t, resp.SimilarCalls, 2)
	assert.Equal(t, "close", resp.SimilarCalls[0].CallID)
	assert.Equal(t, "far", resp.SimilarCalls[1].CallID)

	// negative sentiment + dominating talk ratio drive the first two nudges
	require.Len(t, resp.CoachingNudges, 3)
	assert.Equal(t, "Address customer concerns empathetically", resp.CoachingNudges[0].Message)
	assert.Equal(t, "Listen more, talk less - aim for balance", resp.CoachingNudges[1].Message)
}

func TestBuildRecommendationsNoCandidates(t *testing.T) {
	target := &models.CallModel{
		CallID:    "target",
		Embedding: models.FloatArray{1, 0},
	}

	resp := buildRecommendations(context.Background(), target, nil, 5, nil)

	assert.NotNil(t, resp.SimilarCalls)
	assert.Empty(t, resp.SimilarCalls)
	assert.NotEmpty(t, resp.CoachingNudges)
}

func TestBuildRecommendationsMissingDerivedFields(t *testing.T) {
	// null sentiment/ratio fall back to neutral defaults, never panic
	target := &models.CallModel{
		CallID:     "target",
		Transcript: "Agent: hi",
		Embedding:  models.FloatArray{1, 0},
	}

	resp := buildRecommendations(context.Background(), target, nil, 5, nil)
	assert.Equal(t, "Ask discovery questions", resp.CoachingNudges[0].Message)
}

func TestIsDuplicateCallIDError(t *testing.T) {
	assert.True(t, isDuplicateCallIDError(&mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry 'call_1' for key 'idx_calls_call_id'"}))
	assert.False(t, isDuplicateCallIDError(&mysqlDriver.MySQLError{Number: 1054, Message: "Unknown column"}))
	assert.True(t, isDuplicateCallIDError(errors.New("Error 1062: Duplicate entry 'x'")))
	assert.False(t, isDuplicateCallIDError(errors.New("connection refused")))
}

func TestDecodeProcessPayload(t *testing.T) {
	p, err := decodeProcessPayload([]byte(`{"call_id":"call_42"}`))
	require.NoError(t, err)
	assert.Equal(t, "call_42", p.CallID)

	_, err = decodeProcessPayload([]byte(`not json`))
	assert.Error(t, err)
}
