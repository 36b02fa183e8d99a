package models

import "time"

// CallModel is one ingested sales-call transcript plus its derived insights.
// The derived columns are nullable on purpose: a call may have a sentiment
// score without an embedding (or vice versa) when processing partially fails.
type CallModel struct {
	Base
	CallID          string    `json:"call_id"          gorm:"uniqueIndex;not null"`
	AgentID         string    `json:"agent_id"         gorm:"index;not null"`
	CustomerID      string    `json:"customer_id"      gorm:"not null"`
	Language        string    `json:"language"         gorm:"not null;default:'en'"`
	StartTime       time.Time `json:"start_time"       gorm:"index;not null"`
	DurationSeconds int       `json:"duration_seconds" gorm:"not null"`
	Transcript      string    `json:"transcript"       gorm:"type:longtext;not null"`

	AgentTalkRatio         *float64   `json:"agent_talk_ratio"         gorm:"index"`
	CustomerSentimentScore *float64   `json:"customer_sentiment_score" gorm:"index"`
	Embedding              FloatArray `json:"embedding,omitempty"      gorm:"type:longtext"`
}

func (CallModel) TableName() string { return "calls" }
