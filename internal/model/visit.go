package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Visit is one dated field visit to a single segment. Photos captured during
// the visit hang off it.
type Visit struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SegmentID   uuid.UUID  `gorm:"type:uuid;not null" json:"segment_id"`
	InspectorID *uuid.UUID `gorm:"type:uuid" json:"inspector_id"`
	VisitedAt   time.Time  `gorm:"not null" json:"visited_at"`
	Notes       string     `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Segment *Segment `gorm:"foreignKey:SegmentID" json:"segment,omitempty"`
	Photos  []Photo  `gorm:"foreignKey:VisitID" json:"photos,omitempty"`
}

func (Visit) TableName() string {
	return "visits"
}

func (v *Visit) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
