package vote

import (
	"context"
	"fmt"

	"hackshare/internal/hack"
	"hackshare/internal/logger"

	"gorm.io/gorm"
)

// Engine applies votes and keeps hacks.points equal to the sum of vote values.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// Cast records userID's vote on hackID. It reports whether anything changed:
// false for unverified or missing hacks and for repeats of the standing vote.
// Withdrawing a vote that was never cast succeeds without writing.
func (e *Engine) Cast(ctx context.Context, hackID, userID string, value int) (bool, error) {
	value = Normalize(value)
	changed := false
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		hacks := hack.NewStore(tx)
		votes := NewStore(tx)

		h, err := hacks.FindByID(ctx, hackID)
		if err != nil || h == nil || !h.Verified {
			return err
		}
		existing, err := votes.Find(ctx, userID, hackID)
		if err != nil {
			return err
		}

		if existing == nil {
			if value == ValueNone {
				changed = true
				return nil
			}
			inserted, err := votes.Insert(ctx, &Vote{UserID: userID, HackID: hackID, Value: value})
			if err != nil || !inserted {
				return err
			}
			if err := hacks.AddPoints(ctx, hackID, value); err != nil {
				return err
			}
			changed = true
			return nil
		}

		if existing.Value == value {
			return nil
		}
		updated, err := votes.UpdateValue(ctx, userID, hackID, existing.Value, value)
		if err != nil || !updated {
			return err
		}
		if err := hacks.AddPoints(ctx, hackID, value-existing.Value); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("cast vote on %s: %w", hackID, err)
	}
	if changed {
		logger.Debugf("vote %d by %s on hack %s", value, userID, hackID)
	}
	return changed, nil
}
