package calls

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saleslens/core/internal/pkg/pagination"
	"github.com/saleslens/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	calls := rg.Group("/calls")

	calls.POST("", h.create)
	calls.GET("", h.list)
	calls.GET("/:id", h.getByCallID)
	calls.GET("/:id/recommendations", h.recommendations)
	calls.POST("/:id/reprocess", h.reprocess)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCallDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	call, err := h.svc.Ingest(c.Request.Context(), &dto)
	if err != nil {
		if errors.Is(err, ErrDuplicateCall) {
			response.Conflict(c, "Call with this call_id already exists")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, toResponse(call))
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	filter := ListFilter{AgentID: c.Query("agent_id")}

	var err error
	if filter.FromDate, err = parseTimeQuery(c, "from_date"); err != nil {
		response.BadRequest(c, "invalid from_date")
		return
	}
	if filter.ToDate, err = parseTimeQuery(c, "to_date"); err != nil {
		response.BadRequest(c, "invalid to_date")
		return
	}
	if filter.MinSentiment, err = parseSentimentQuery(c, "min_sentiment"); err != nil {
		response.BadRequest(c, "invalid min_sentiment, expected a number in [-1, 1]")
		return
	}
	if filter.MaxSentiment, err = parseSentimentQuery(c, "max_sentiment"); err != nil {
		response.BadRequest(c, "invalid max_sentiment, expected a number in [-1, 1]")
		return
	}

	calls, pag, err := h.svc.List(q, filter)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]callResponse, len(calls))
	for i, call := range calls {
		items[i] = toResponse(&call)
	}
	response.Paged(c, items, pag)
}

func (h *Handler) getByCallID(c *gin.Context) {
	call, err := h.svc.GetByCallID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if call == nil {
		response.NotFoundMsg(c, "Call not found")
		return
	}
	response.OK(c, toDetail(call))
}

func (h *Handler) recommendations(c *gin.Context) {
	resp, err := h.svc.Recommendations(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrCallNotFound):
			response.NotFoundMsg(c, "Call not found")
		case errors.Is(err, ErrEmbeddingMissing):
			response.BadRequest(c, "Call embedding not available")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, resp)
}

func (h *Handler) reprocess(c *gin.Context) {
	task, err := h.svc.Reprocess(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrCallNotFound) {
			response.NotFoundMsg(c, "Call not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Accepted(c, gin.H{"task_id": task.ID, "status": task.Status})
}

func parseTimeQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseSentimentQuery(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	if v < -1 || v > 1 {
		return nil, errors.New("out of range")
	}
	return &v, nil
}
