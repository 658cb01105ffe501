package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item is an inventory entry on a shelf. Items form a forest per shelf:
// a container item (IsContainer) may hold child items.
//
// Path is the materialized ancestor chain: "/" for roots, "/<A>/" for a
// child of A, "/<A>/<B>/" for a grandchild. Depth always equals the number
// of id segments in Path. Descendants of an item are exactly the items
// whose Path has the prefix Path + ID + "/".
type Item struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	ShelfID     string  `gorm:"not null;index" json:"shelfId"`
	ParentID    *string `gorm:"type:uuid;index" json:"parentId"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	IsContainer bool    `gorm:"not null;default:false" json:"isContainer"`
	Quantity    int     `gorm:"not null;default:1" json:"quantity"`
	Path        string  `gorm:"not null;default:'/'" json:"path"`
	Depth       int     `gorm:"not null;default:0" json:"depth"`
	SortOrder   int     `gorm:"not null;default:0" json:"sortOrder"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Item model
func (Item) TableName() string {
	return "items"
}

// BeforeCreate assigns a UUID primary key
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// SubtreePrefix returns the path prefix shared by all descendants of the item.
func (i *Item) SubtreePrefix() string {
	return i.Path + i.ID + "/"
}
