package item

import (
	"time"

	"curio/internal/auth"
	"curio/internal/tag"
)

// Item belongs to exactly one owner. Deleting the owner deletes the item and,
// transitively, its tag links.
type Item struct {
	ID          string  `gorm:"primaryKey;type:uuid"`
	Title       string  `gorm:"not null;size:255"`
	Description *string `gorm:"size:255"`
	ImageURL    *string `gorm:"size:2048"`
	VideoURL    *string `gorm:"size:2048"`

	OwnerID string     `gorm:"type:uuid;index;not null"`
	Owner   *auth.User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// ItemTag is the item<->tag join row: at most one per (item_id, tag_id).
type ItemTag struct {
	ItemID string `gorm:"primaryKey;type:uuid"`
	TagID  string `gorm:"primaryKey;type:uuid"`

	Item *Item    `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	Tag  *tag.Tag `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
}
