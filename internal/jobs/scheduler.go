package jobs

import (
	"fmt"

	"hackshare/internal/config"
	"hackshare/internal/logger"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Start schedules the background jobs and starts the cron runner. Callers
// stop it with Stop on the returned runner.
func Start(cfg *config.Config, db *gorm.DB) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddJob(cfg.Jobs.ReconcileSchedule, NewReconcilePointsJob(db)); err != nil {
		return nil, fmt.Errorf("schedule points reconciliation %q: %w", cfg.Jobs.ReconcileSchedule, err)
	}
	c.Start()
	logger.Infof("points reconciliation scheduled %s", cfg.Jobs.ReconcileSchedule)
	return c, nil
}
