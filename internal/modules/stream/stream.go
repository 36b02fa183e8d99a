package stream

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// SentimentUpdate is one pushed datapoint on the live sentiment stream.
type SentimentUpdate struct {
	CallID         string    `json:"call_id"`
	SentimentScore float64   `json:"sentiment_score"`
	Timestamp      time.Time `json:"timestamp"`
}

const defaultPushInterval = 2 * time.Second

// Handler streams live sentiment updates over a websocket, one connection per
// call. Scores are simulated until streaming transcription lands; the wire
// format is final.
type Handler struct {
	upgrader websocket.Upgrader
	interval time.Duration
	logger   *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		interval: defaultPushInterval,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws/sentiment/:call_id", h.sentimentUpdates)
}

func (h *Handler) sentimentUpdates(c *gin.Context) {
	callID := c.Param("call_id")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			zap.String("call_id", callID), zap.Error(err))
		return
	}
	defer conn.Close()

	// Drain client frames so close handshakes are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			h.logger.Debug("sentiment stream client disconnected",
				zap.String("call_id", callID))
			return
		case <-ticker.C:
			update := SentimentUpdate{
				CallID:         callID,
				SentimentScore: rand.Float64()*2 - 1,
				Timestamp:      time.Now().UTC(),
			}
			if err := conn.WriteJSON(update); err != nil {
				h.logger.Debug("sentiment stream write failed",
					zap.String("call_id", callID), zap.Error(err))
				return
			}
		}
	}
}
