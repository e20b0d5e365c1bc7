package vote

import (
	"hackshare/internal/hack"
	"hackshare/internal/user"
)

const (
	ValueNone = 0
	ValueUp   = 1
)

// Vote is one user's standing vote on one hack. Rows are created on the first
// upvote and afterwards only change value.
type Vote struct {
	UserID string     `gorm:"type:varchar(36);primaryKey" json:"userId"`
	HackID string     `gorm:"type:varchar(36);primaryKey;index" json:"hackId"`
	Value  int        `gorm:"not null" json:"value"`
	User   *user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Hack   *hack.Hack `gorm:"foreignKey:HackID;constraint:OnDelete:CASCADE" json:"-"`
}

// Normalize maps anything other than an upvote to ValueNone.
func Normalize(value int) int {
	if value == ValueUp {
		return ValueUp
	}
	return ValueNone
}
