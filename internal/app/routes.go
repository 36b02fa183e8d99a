package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/saleslens/core/internal/middleware"
	"github.com/saleslens/core/internal/modules/analytics"
	"github.com/saleslens/core/internal/modules/calls"
	"github.com/saleslens/core/internal/modules/extractor"
	"github.com/saleslens/core/internal/modules/health"
	"github.com/saleslens/core/internal/modules/insight"
	"github.com/saleslens/core/internal/modules/stream"
	pkgredis "github.com/saleslens/core/internal/pkg/redis"
	"github.com/saleslens/core/internal/pkg/response"
	"github.com/saleslens/core/internal/pkg/taskqueue"
)

func (a *App) registerRoutes(ctx context.Context, rc *pkgredis.Client) {
	r := a.router
	db := a.db

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":    "saleslens-core",
		"version": "1.0.0",
		"docs":    "/api/v1",
	}

	// Idempotence runs on every route (requires Redis).
	r.Use(middleware.Idempotence(rc.Raw()))

	// Shared services
	taskSvc := taskqueue.NewService(rc)
	extractorClient := extractor.NewClient(a.cfg.Extractor)

	var generator insight.TextGenerator
	if g := insight.NewGenerator(a.cfg.AI); g != nil {
		generator = g
	} else {
		a.logger.Info("no generative provider configured, coaching nudges use the rule-based path")
	}

	callSvc := calls.NewService(db, extractorClient, generator, taskSvc, rc.Raw(), a.cfg.Recommend, a.logger.Named("CallService"))
	analyticsSvc := analytics.NewService(db, a.logger.Named("AnalyticsService"))

	if err := callSvc.ResumePending(ctx); err != nil {
		a.logger.Warn("failed to resume pending processing tasks", zap.Error(err))
	}

	registerCronJobs(a.sched, callSvc, analyticsSvc, a.cfg, a.logger)

	// Root-level endpoints
	r.GET("/", func(c *gin.Context) {
		response.OK(c, appInfo)
	})

	// Versioned API
	api := r.Group("/api/v1")

	// Read endpoints are briefly cached; listings change only on ingest
	// or reprocessing.
	api.Use(middleware.HTTPCache(rc.Raw(), middleware.HTTPCacheOptions{
		SkipPaths: []string{"/api/v1/ws/"},
	}))

	calls.NewHandler(callSvc).RegisterRoutes(api)
	analytics.NewHandler(analyticsSvc).RegisterRoutes(api)
	stream.NewHandler(a.logger.Named("SentimentStream")).RegisterRoutes(api)
	health.RegisterRoutes(api, db, rc, a.sched)
}
