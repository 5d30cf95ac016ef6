package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PhotoKind string

const (
	PhotoKindRFT PhotoKind = "RFT"
	PhotoKindRDS PhotoKind = "RDS"
)

// Photo is a geotagged defect capture. Capture metadata (position, timestamp,
// kind) is immutable; the annotation fields stay editable until the photo is
// linked to an approved report. Photos are only ever soft-deleted.
type Photo struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	VisitID   uuid.UUID `gorm:"type:uuid;not null" json:"visit_id"`
	SegmentID uuid.UUID `gorm:"type:uuid;not null" json:"segment_id"`
	Kind      PhotoKind `gorm:"type:varchar(8);not null" json:"kind"`

	Latitude   *float64  `json:"latitude"`
	Longitude  *float64  `json:"longitude"`
	CapturedAt time.Time `gorm:"not null" json:"captured_at"`
	FileURL    string    `gorm:"type:text" json:"file_url"`

	// Annotation fields, mutable until locked by an approved report.
	DefectTypeID *uuid.UUID `gorm:"type:uuid" json:"patologia_id"`
	OccurrenceID *uuid.UUID `gorm:"type:uuid" json:"rds_ocorrencia_id"`
	ExtensionM   *float64   `json:"extensao_m"`
	WidthM       *float64   `json:"largura_m"`
	Stake        string     `gorm:"type:varchar(32)" json:"estaca"`
	Description  string     `gorm:"type:text" json:"descricao"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Visit      *Visit         `gorm:"foreignKey:VisitID" json:"-"`
	Segment    *Segment       `gorm:"foreignKey:SegmentID" json:"-"`
	DefectType *DefectType    `gorm:"foreignKey:DefectTypeID" json:"patologia,omitempty"`
	Occurrence *OccurrenceTag `gorm:"foreignKey:OccurrenceID" json:"rds_ocorrencia,omitempty"`
}

func (Photo) TableName() string {
	return "photos"
}

func (p *Photo) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// HasLocation reports whether the capture carries a usable geolocation.
func (p Photo) HasLocation() bool {
	return p.Latitude != nil && p.Longitude != nil
}
