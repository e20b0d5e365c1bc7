package jobs

import (
	"context"
	"fmt"
	"time"

	"hackshare/internal/dberr"
	"hackshare/internal/hack"
	"hackshare/internal/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const voteSumSQL = `(SELECT COALESCE(SUM(votes.value), 0) FROM votes WHERE votes.hack_id = hacks.id)`

// ReconcilePointsJob rewrites hacks.points wherever it has drifted from the
// sum of the hack's votes.
type ReconcilePointsJob struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewReconcilePointsJob(db *gorm.DB) *ReconcilePointsJob {
	return &ReconcilePointsJob{db: db, timeout: time.Minute}
}

func (j *ReconcilePointsJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	repaired, err := j.Reconcile(ctx)
	if err != nil {
		logger.Warning("points reconciliation failed:", err)
		return
	}
	if repaired > 0 {
		logger.Warningf("points reconciliation repaired %d hacks", repaired)
		return
	}
	logger.Debug("points reconciliation found no drift")
}

// Reconcile returns the number of hacks whose points were corrected. Each
// candidate is locked and re-summed in its own transaction so a vote committed
// after the scan is never overwritten with a stale total.
func (j *ReconcilePointsJob) Reconcile(ctx context.Context) (int64, error) {
	var ids []string
	err := j.db.WithContext(ctx).Model(&hack.Hack{}).
		Where("points <> " + voteSumSQL).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, fmt.Errorf("reconcile points: scan: %w", err)
	}

	var repaired int64
	for _, id := range ids {
		fixed, err := j.repair(ctx, id)
		if err != nil {
			return repaired, fmt.Errorf("reconcile points: hack %s: %w", id, err)
		}
		if fixed {
			repaired++
		}
	}
	return repaired, nil
}

func (j *ReconcilePointsJob) repair(ctx context.Context, id string) (bool, error) {
	fixed := false
	err := j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var h hack.Hack
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "points").Where("id = ?", id).Take(&h).Error
		if dberr.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		var sum int
		if err := tx.Table("votes").Where("hack_id = ?", id).
			Select("COALESCE(SUM(value), 0)").Scan(&sum).Error; err != nil {
			return err
		}
		if sum == h.Points {
			return nil
		}
		if err := tx.Model(&hack.Hack{}).Where("id = ?", id).Update("points", sum).Error; err != nil {
			return err
		}
		fixed = true
		return nil
	})
	return fixed, err
}
