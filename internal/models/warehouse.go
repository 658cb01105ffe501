package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Warehouse is a user-owned floor plan (shown as a "zone" in the UI)
type Warehouse struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;index" json:"userId"`
	Name   string `gorm:"not null" json:"name"`
	Width  int    `gorm:"not null;default:800" json:"width"`
	Height int    `gorm:"not null;default:600" json:"height"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Shelves []Shelf `gorm:"foreignKey:WarehouseID;constraint:OnDelete:CASCADE" json:"shelves,omitempty"`
}

// TableName specifies the table name for Warehouse model
func (Warehouse) TableName() string {
	return "warehouses"
}

// BeforeCreate assigns a UUID primary key
func (w *Warehouse) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

// WarehouseSummary is a warehouse plus aggregate counts for list views
type WarehouseSummary struct {
	Warehouse
	ShelfCount int64 `json:"shelfCount"`
	ItemCount  int64 `json:"itemCount"`
}
