package tag

import "time"

// Tag is a shared label: no ownership, any authenticated caller may manage
// any tag. Lifetime is independent of the items that reference it.
type Tag struct {
	ID          string  `gorm:"primaryKey;type:uuid"`
	Name        string  `gorm:"uniqueIndex;not null;size:50"`
	Description *string `gorm:"size:255"`
	Color       *string `gorm:"size:7"` // hex code, e.g. #FF8800
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
