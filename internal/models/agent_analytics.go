package models

import "time"

// AgentAnalyticsModel is the periodically recomputed per-agent rollup.
// It is always derivable from the calls table and never the source of truth.
type AgentAnalyticsModel struct {
	Base
	AgentID      string    `json:"agent_id"       gorm:"uniqueIndex;not null"`
	AvgSentiment *float64  `json:"avg_sentiment"`
	AvgTalkRatio *float64  `json:"avg_talk_ratio"`
	TotalCalls   int64     `json:"total_calls"    gorm:"default:0"`
	LastUpdated  time.Time `json:"last_updated"`
}

func (AgentAnalyticsModel) TableName() string { return "agent_analytics" }
