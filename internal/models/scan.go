package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ScanRecord stores one AI photo-analysis run: how many items the user
// ended up adding and the raw suggestion list for auditing.
type ScanRecord struct {
	ID          string         `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string         `gorm:"not null;index" json:"userId"`
	ItemCount   int            `gorm:"not null;default:0" json:"itemCount"`
	Suggestions datatypes.JSON `gorm:"type:jsonb" json:"suggestions,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// TableName specifies the table name for ScanRecord model
func (ScanRecord) TableName() string {
	return "scan_records"
}

// BeforeCreate assigns a UUID primary key
func (s *ScanRecord) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
