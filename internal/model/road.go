package model

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// stakeIntervalM is the fixed stake length in meters used by the field
// notation "NNN+MM" (stake number + remainder in meters).
const stakeIntervalM = 20

type Road struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Code      string    `gorm:"type:varchar(64)" json:"code"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Segments []Segment `gorm:"foreignKey:RoadID" json:"segments,omitempty"`
}

func (Road) TableName() string {
	return "roads"
}

func (r *Road) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type Segment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoadID    uuid.UUID `gorm:"type:uuid;not null" json:"road_id"`
	Name      string    `gorm:"type:varchar(255)" json:"name"`
	StartKm   float64   `gorm:"not null" json:"start_km"`
	EndKm     float64   `gorm:"not null" json:"end_km"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Road *Road `gorm:"foreignKey:RoadID" json:"-"`
}

func (Segment) TableName() string {
	return "segments"
}

func (s *Segment) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.StartKm > s.EndKm {
		return fmt.Errorf("segment start km %.3f greater than end km %.3f", s.StartKm, s.EndKm)
	}
	return nil
}

func (s Segment) StartStake() string {
	return FormatStake(s.StartKm)
}

func (s Segment) EndStake() string {
	return FormatStake(s.EndKm)
}

// FormatStake converts a kilometer position into stake notation: the number
// of whole 20 m stakes plus the remainder in meters, e.g. km 12.310 -> "615+10".
func FormatStake(km float64) string {
	meters := int64(math.Round(km * 1000))
	if meters < 0 {
		meters = 0
	}
	return fmt.Sprintf("%d+%d", meters/stakeIntervalM, meters%stakeIntervalM)
}
