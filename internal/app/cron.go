package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/saleslens/core/internal/config"
	"github.com/saleslens/core/internal/modules/analytics"
	"github.com/saleslens/core/internal/modules/calls"
	pkgcron "github.com/saleslens/core/internal/pkg/cron"
)

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, callSvc *calls.Service, analyticsSvc *analytics.Service, cfg *config.AppConfig, logger *zap.Logger) {
	cronLogger := logger.Named("CronService")

	sched.Register(pkgcron.Job{
		Name:        "recalculate_analytics",
		Description: "rebuild the per-agent rollup table from the calls table",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			count, err := analyticsSvc.Recalculate()
			if err != nil {
				cronLogger.Warn("analytics recalculation failed", zap.Error(err))
				return err
			}
			cronLogger.Info(fmt.Sprintf("analytics recalculated for %d agents", count))
			return nil
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "cleanup_old_calls",
		Description: fmt.Sprintf("remove calls older than %d days", cfg.Retention.KeepDays),
		Interval:    7 * 24 * time.Hour,
		Fn: func(ctx context.Context) error {
			removed, err := callSvc.CleanupOldCalls(cfg.Retention.KeepDays)
			if err != nil {
				cronLogger.Warn("call retention cleanup failed", zap.Error(err))
				return err
			}
			cronLogger.Info(fmt.Sprintf("retention cleanup removed %d calls", removed))
			return nil
		},
	})
}
