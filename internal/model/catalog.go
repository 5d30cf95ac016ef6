package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefectType is a catalog entry for a pavement defect classification
// ("patologia"). Entries are seeded once and never updated afterwards.
// Weight is the severity weight fed into the heat map; nil means the catalog
// carries no usable weight for this defect and photos referencing it are
// excluded from aggregation rather than counted as zero.
type DefectType struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalCode   string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"external_code"`
	Classification string    `gorm:"type:varchar(255);not null" json:"classification"`
	IGGCategory    string    `gorm:"type:varchar(64)" json:"igg_category"`
	Weight         *float64  `json:"weight"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (DefectType) TableName() string {
	return "defect_types"
}

func (d *DefectType) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// OccurrenceTag is a catalog entry used to annotate RDS-kind photos.
type OccurrenceTag struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Category  string    `gorm:"type:varchar(128);not null;uniqueIndex:uniq_rds_occurrence" json:"category"`
	Label     string    `gorm:"type:varchar(255);not null;uniqueIndex:uniq_rds_occurrence" json:"label"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (OccurrenceTag) TableName() string {
	return "rds_occurrences"
}

func (o *OccurrenceTag) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
