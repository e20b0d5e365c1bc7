package vote

import (
	"context"
	"fmt"

	"hackshare/internal/dberr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Find returns nil, nil when the user has not voted on the hack.
func (s *Store) Find(ctx context.Context, userID, hackID string) (*Vote, error) {
	var v Vote
	err := s.db.WithContext(ctx).Where("user_id = ? AND hack_id = ?", userID, hackID).First(&v).Error
	if dberr.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find vote %s/%s: %w", userID, hackID, err)
	}
	return &v, nil
}

// FindForUser returns the user's votes among hackIDs.
func (s *Store) FindForUser(ctx context.Context, userID string, hackIDs []string) ([]Vote, error) {
	var votes []Vote
	if len(hackIDs) == 0 {
		return votes, nil
	}
	err := s.db.WithContext(ctx).Where("user_id = ? AND hack_id IN ?", userID, hackIDs).Find(&votes).Error
	if err != nil {
		return nil, fmt.Errorf("find votes for %s: %w", userID, err)
	}
	return votes, nil
}

// Insert creates v unless a vote for the same pair already exists.
func (s *Store) Insert(ctx context.Context, v *Vote) (bool, error) {
	res := s.db.WithContext(ctx).Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).Create(v)
	if res.Error != nil {
		return false, fmt.Errorf("insert vote %s/%s: %w", v.UserID, v.HackID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// UpdateValue moves the vote from one value to another, matching only if the
// stored value is still from.
func (s *Store) UpdateValue(ctx context.Context, userID, hackID string, from, to int) (bool, error) {
	res := s.db.WithContext(ctx).Model(&Vote{}).
		Where("user_id = ? AND hack_id = ? AND value = ?", userID, hackID, from).
		Update("value", to)
	if res.Error != nil {
		return false, fmt.Errorf("update vote %s/%s: %w", userID, hackID, res.Error)
	}
	return res.RowsAffected == 1, nil
}
