package analytics

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/saleslens/core/internal/models"
)

type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// agentStat is the scan target for the per-agent GROUP BY. AVG skips NULL
// columns natively, so partially processed calls do not drag the means down.
type agentStat struct {
	AgentID      string
	AvgSentiment *float64
	AvgTalkRatio *float64
	TotalCalls   int64
}

func (s *Service) aggregate() ([]agentStat, error) {
	var stats []agentStat
	err := s.db.Model(&models.CallModel{}).
		Select("agent_id, AVG(customer_sentiment_score) AS avg_sentiment, AVG(agent_talk_ratio) AS avg_talk_ratio, COUNT(id) AS total_calls").
		Group("agent_id").
		Scan(&stats).Error
	return stats, err
}

// Recalculate rebuilds the agent_analytics rollup table from the calls table.
// Returns the number of agents refreshed.
func (s *Service) Recalculate() (int, error) {
	stats, err := s.aggregate()
	if err != nil {
		return 0, err
	}

	now := time.Now()
	for _, stat := range stats {
		row := models.AgentAnalyticsModel{
			AgentID:      stat.AgentID,
			AvgSentiment: stat.AvgSentiment,
			AvgTalkRatio: stat.AvgTalkRatio,
			TotalCalls:   stat.TotalCalls,
			LastUpdated:  now,
		}
		err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "agent_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"avg_sentiment", "avg_talk_ratio", "total_calls", "last_updated"}),
		}).Create(&row).Error
		if err != nil {
			return 0, err
		}
	}

	s.logger.Info("agent analytics recalculated", zap.Int("agents", len(stats)))
	return len(stats), nil
}

// ListAgents returns the rollup rows. When the rollup table has not been
// populated yet the stats are computed on the fly from the calls table, so
// the endpoint works before the first scheduled recalculation.
func (s *Service) ListAgents() ([]AgentAnalytics, error) {
	var rows []models.AgentAnalyticsModel
	if err := s.db.Order("agent_id").Find(&rows).Error; err != nil {
		return nil, err
	}

	if len(rows) > 0 {
		agents := make([]AgentAnalytics, len(rows))
		for i, row := range rows {
			agents[i] = AgentAnalytics{
				AgentID:      row.AgentID,
				AvgSentiment: row.AvgSentiment,
				AvgTalkRatio: row.AvgTalkRatio,
				TotalCalls:   row.TotalCalls,
			}
		}
		return agents, nil
	}

	stats, err := s.aggregate()
	if err != nil {
		return nil, err
	}
	agents := make([]AgentAnalytics, len(stats))
	for i, stat := range stats {
		agents[i] = AgentAnalytics{
			AgentID:      stat.AgentID,
			AvgSentiment: stat.AvgSentiment,
			AvgTalkRatio: stat.AvgTalkRatio,
			TotalCalls:   stat.TotalCalls,
		}
	}
	return agents, nil
}
