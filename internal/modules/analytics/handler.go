package analytics

import (
	"github.com/gin-gonic/gin"

	"github.com/saleslens/core/internal/pkg/response"
)

// AgentAnalytics is the per-agent leaderboard entry.
type AgentAnalytics struct {
	AgentID      string   `json:"agent_id"`
	AvgSentiment *float64 `json:"avg_sentiment"`
	AvgTalkRatio *float64 `json:"avg_talk_ratio"`
	TotalCalls   int64    `json:"total_calls"`
}

type agentsResponse struct {
	Agents []AgentAnalytics `json:"agents"`
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	analytics := rg.Group("/analytics")

	analytics.GET("/agents", h.listAgents)
	analytics.POST("/recalculate", h.recalculate)
}

func (h *Handler) listAgents(c *gin.Context) {
	agents, err := h.svc.ListAgents()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if agents == nil {
		agents = []AgentAnalytics{}
	}
	response.OK(c, agentsResponse{Agents: agents})
}

func (h *Handler) recalculate(c *gin.Context) {
	count, err := h.svc.Recalculate()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"agents": count})
}
