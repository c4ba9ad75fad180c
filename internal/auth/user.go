package auth

import "time"

type User struct {
	ID             string  `gorm:"primaryKey;type:uuid"`
	Email          string  `gorm:"uniqueIndex;not null;size:255"`
	HashedPassword string  `gorm:"not null"`
	FullName       *string `gorm:"size:255"`
	IsActive       bool    `gorm:"not null;default:true"`
	IsSuperuser    bool    `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CanModifyOwned is the single item-level policy: superusers bypass
// ownership, everyone else must own the row.
func (u *User) CanModifyOwned(ownerID string) bool {
	return u.IsSuperuser || u.ID == ownerID
}
