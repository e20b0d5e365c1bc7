package hack

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hackshare/internal/dberr"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Filter is a resolved listing query handed to the repository.
type Filter struct {
	Verified      *bool
	Category      Category
	Search        string
	CreatorID     string
	Before        *time.Time
	VerifiedFirst bool
	Limit         int
}

// Repository is the persistence surface the moderation and proposal logic
// run against. Conditional writes report whether a row matched.
type Repository interface {
	Transaction(ctx context.Context, fn func(repo Repository) error) error
	FindByID(ctx context.Context, id string) (*Hack, error)
	Create(ctx context.Context, h *Hack) error
	SetPendingEdit(ctx context.Context, id string, raw datatypes.JSON) (bool, error)
	ApplyPendingEdit(ctx context.Context, id string, columns map[string]any, at time.Time) (bool, error)
	MarkVerified(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id, creatorID string) (bool, error)
	AddPoints(ctx context.Context, id string, delta int) error
	List(ctx context.Context, f Filter) ([]Hack, error)
}

// Store implements Repository on gorm. A Store built from a transaction
// handle runs every call inside that transaction.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Transaction(ctx context.Context, fn func(repo Repository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// FindByID returns nil, nil when the hack does not exist.
func (s *Store) FindByID(ctx context.Context, id string) (*Hack, error) {
	var h Hack
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&h).Error
	if dberr.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find hack %s: %w", id, err)
	}
	return &h, nil
}

func (s *Store) Create(ctx context.Context, h *Hack) error {
	if err := s.db.WithContext(ctx).Omit("Creator").Create(h).Error; err != nil {
		return fmt.Errorf("create hack: %w", err)
	}
	return nil
}

// SetPendingEdit stores raw and clears verified only when no edit is
// outstanding.
func (s *Store) SetPendingEdit(ctx context.Context, id string, raw datatypes.JSON) (bool, error) {
	res := s.db.WithContext(ctx).Model(&Hack{}).
		Where("id = ? AND pending_edit IS NULL", id).
		Updates(map[string]any{"pending_edit": raw, "verified": false})
	if res.Error != nil {
		return false, fmt.Errorf("set pending edit on %s: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// ApplyPendingEdit writes columns, clears the pending edit and verifies the
// hack, provided an edit is still outstanding.
func (s *Store) ApplyPendingEdit(ctx context.Context, id string, columns map[string]any, at time.Time) (bool, error) {
	updates := make(map[string]any, len(columns)+3)
	for k, v := range columns {
		updates[k] = v
	}
	updates["pending_edit"] = nil
	updates["verified"] = true
	updates["updated_at"] = at
	res := s.db.WithContext(ctx).Model(&Hack{}).
		Where("id = ? AND pending_edit IS NOT NULL", id).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("apply pending edit on %s: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *Store) MarkVerified(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&Hack{}).Where("id = ?", id).Update("verified", true)
	if res.Error != nil {
		return false, fmt.Errorf("verify hack %s: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// Delete removes the hack owned by creatorID together with its votes.
func (s *Store) Delete(ctx context.Context, id, creatorID string) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND creator_id = ?", id, creatorID).Delete(&Hack{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		// votes reference hacks; the FK cascades on postgres, sqlite needs it spelled out
		return tx.Exec("DELETE FROM votes WHERE hack_id = ?", id).Error
	})
	if err != nil {
		return false, fmt.Errorf("delete hack %s: %w", id, err)
	}
	return deleted, nil
}

func (s *Store) AddPoints(ctx context.Context, id string, delta int) error {
	err := s.db.WithContext(ctx).Model(&Hack{}).Where("id = ?", id).
		UpdateColumn("points", gorm.Expr("points + ?", delta)).Error
	if err != nil {
		return fmt.Errorf("add %d points to %s: %w", delta, id, err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (s *Store) List(ctx context.Context, f Filter) ([]Hack, error) {
	q := s.db.WithContext(ctx).Model(&Hack{})
	if f.Verified != nil {
		q = q.Where("verified = ?", *f.Verified)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.CreatorID != "" {
		q = q.Where("creator_id = ?", f.CreatorID)
	}
	if f.Search != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(f.Search)) + "%"
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, like, like)
	}
	if f.Before != nil {
		q = q.Where("updated_at < ?", *f.Before)
	}
	if f.VerifiedFirst {
		q = q.Order("verified DESC")
	}
	var hacks []Hack
	if err := q.Order("updated_at DESC").Limit(f.Limit).Find(&hacks).Error; err != nil {
		return nil, fmt.Errorf("list hacks: %w", err)
	}
	return hacks, nil
}
