package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Shelf is a positioned, rotatable rectangle on the warehouse floor plan.
// PositionX/PositionY anchor the top-left corner in warehouse-local units;
// Width/Depth are the footprint; Rotation is degrees in [0, 360).
type Shelf struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	WarehouseID string  `gorm:"not null;index" json:"warehouseId"`
	Name        string  `gorm:"not null" json:"name"`
	PositionX   int     `gorm:"not null;default:0" json:"positionX"`
	PositionY   int     `gorm:"not null;default:0" json:"positionY"`
	Width       int     `gorm:"not null;default:100" json:"width"`
	Depth       int     `gorm:"not null;default:50" json:"depth"`
	Rotation    float64 `gorm:"not null;default:0" json:"rotation"`
	Color       string  `gorm:"not null;default:'#3B82F6'" json:"color"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Items []Item `gorm:"foreignKey:ShelfID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName specifies the table name for Shelf model
func (Shelf) TableName() string {
	return "shelves"
}

// BeforeCreate assigns a UUID primary key
func (s *Shelf) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
