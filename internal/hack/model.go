package hack

import (
	"time"

	"hackshare/internal/user"

	"gorm.io/datatypes"
)

type Category string

const (
	CategoryGeneral        Category = "general"
	CategoryNoteTaking     Category = "note-taking"
	CategoryTimeSaver      Category = "time-saver"
	CategoryTimeManagement Category = "time-management"
	CategoryHealth         Category = "health"
	CategoryPlanning       Category = "planning"
	CategoryEducation      Category = "education"
	CategoryUniversity     Category = "university"
	CategoryFinance        Category = "finance"
	CategoryTechnology     Category = "technology"
	CategoryFashion        Category = "fashion"
	CategoryOthers         Category = "others"
)

var Categories = []Category{
	CategoryGeneral,
	CategoryNoteTaking,
	CategoryTimeSaver,
	CategoryTimeManagement,
	CategoryHealth,
	CategoryPlanning,
	CategoryEducation,
	CategoryUniversity,
	CategoryFinance,
	CategoryTechnology,
	CategoryFashion,
	CategoryOthers,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Hack is a submitted tip. Points mirrors the sum of its votes and is only
// changed through additive updates. UpdatedAt moves on creation and when a
// pending edit is accepted, nowhere else.
type Hack struct {
	ID          string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string          `gorm:"size:150;not null" json:"title"`
	Description string          `gorm:"size:500;not null" json:"description"`
	Category    Category        `gorm:"type:varchar(32);not null;index" json:"category"`
	Body        string          `gorm:"type:text;not null" json:"body"`
	Points      int             `gorm:"not null;default:0" json:"points"`
	Verified    bool            `gorm:"not null;default:false;index" json:"verified"`
	PendingEdit *datatypes.JSON `json:"pendingEdit"`
	CreatorID   string          `gorm:"type:varchar(36);not null;index" json:"creatorId"`
	Creator     *user.User      `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time       `gorm:"autoCreateTime:false;not null" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime:false;not null;index" json:"updatedAt"`
}

func (h *Hack) HasPendingEdit() bool {
	return h.PendingEdit != nil && len(*h.PendingEdit) > 0
}

// now is the clock for hack timestamps. Millisecond precision keeps stored
// values comparable with list cursors.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
