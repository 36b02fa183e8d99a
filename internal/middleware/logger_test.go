package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerRequestFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(Logger(zap.New(core)))
	r.GET("/api/v1/calls/:id", func(c *gin.Context) {
		c.Header("x-sla-cache", "hit")
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/calls/CALL_000001?agent_id=AGENT_7", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.InfoLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Equal(t, "/api/v1/calls/CALL_000001", fields["path"])
	assert.Equal(t, "CALL_000001", fields["call_id"])
	assert.Equal(t, "agent_id=AGENT_7", fields["query"])
	assert.Equal(t, true, fields["cache_hit"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
}

func TestLoggerLevelTracksStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		status int
		level  string
	}{
		{"success logs info", http.StatusOK, zap.InfoLevel.String()},
		{"client error logs warn", http.StatusNotFound, zap.WarnLevel.String()},
		{"server error logs error", http.StatusInternalServerError, zap.ErrorLevel.String()},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.InfoLevel)
			r := gin.New()
			r.Use(Logger(zap.New(core)))
			r.GET("/status-check", func(c *gin.Context) { c.Status(tt.status) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status-check", nil))

			require.Equal(t, 1, logs.Len())
			assert.Equal(t, tt.level, logs.All()[0].Level.String())
		})
	}
}
