package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportStatus string

const (
	ReportStatusPendente  ReportStatus = "PENDENTE"
	ReportStatusCorrigido ReportStatus = "CORRIGIDO"
	ReportStatusAprovado  ReportStatus = "APROVADO"
	ReportStatusReprovado ReportStatus = "REPROVADO"
)

// reportTransitions is the allowed-edge table of the approval workflow.
// APROVADO and REPROVADO are terminal.
var reportTransitions = map[ReportStatus][]ReportStatus{
	ReportStatusPendente:  {ReportStatusCorrigido},
	ReportStatusCorrigido: {ReportStatusAprovado, ReportStatusReprovado},
}

// CanTransitionTo reports whether the workflow allows moving from s to target.
func (s ReportStatus) CanTransitionTo(target ReportStatus) bool {
	for _, next := range reportTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible from s.
func (s ReportStatus) Terminal() bool {
	return len(reportTransitions[s]) == 0
}

// Editable reports whether the report still accepts photo link changes.
func (s ReportStatus) Editable() bool {
	return s == ReportStatusPendente || s == ReportStatusCorrigido
}

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPendente, ReportStatusCorrigido, ReportStatusAprovado, ReportStatusReprovado:
		return true
	}
	return false
}

type ReportKind string

const (
	ReportKindRFT ReportKind = "RFT"
	ReportKindRDS ReportKind = "RDS"
)

func (k ReportKind) Valid() bool {
	return k == ReportKindRFT || k == ReportKindRDS
}

// PhotoKind returns the photo kind a report of this kind may link.
func (k ReportKind) PhotoKind() PhotoKind {
	if k == ReportKindRDS {
		return PhotoKindRDS
	}
	return PhotoKindRFT
}

type ReportScope string

const (
	ReportScopeSegment ReportScope = "SEGMENT"
	ReportScopeRoad    ReportScope = "ROAD"
)

// Report is a segment-level inspection report or, for ReportScopeRoad, a
// consolidated compilation of approved segment reports. SegmentID and VisitID
// are set for segment scope only.
type Report struct {
	ID     uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Kind   ReportKind   `gorm:"type:varchar(8);not null" json:"kind"`
	Scope  ReportScope  `gorm:"type:varchar(16);not null" json:"scope"`
	Status ReportStatus `gorm:"type:varchar(16);not null" json:"status"`

	RoadID    uuid.UUID  `gorm:"type:uuid;not null" json:"road_id"`
	SegmentID *uuid.UUID `gorm:"type:uuid" json:"segment_id"`
	VisitID   *uuid.UUID `gorm:"type:uuid" json:"visit_id"`

	CreatedBy       *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	ReviewedBy      *uuid.UUID `gorm:"type:uuid" json:"reviewed_by"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Segment *Segment `gorm:"foreignKey:SegmentID" json:"segment,omitempty"`
	Visit   *Visit   `gorm:"foreignKey:VisitID" json:"visit,omitempty"`
}

func (Report) TableName() string {
	return "reports"
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ReportPhoto links a report to an included photo.
type ReportPhoto struct {
	ReportID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"report_id"`
	PhotoID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"photo_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ReportPhoto) TableName() string {
	return "report_photos"
}

// ConsolidationItem records the inclusion of a segment report into a
// road-level consolidated report. The unique index on SourceReportID is what
// makes consolidation one-time: a segment report can be consumed at most once.
type ConsolidationItem struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ConsolidatedReportID uuid.UUID `gorm:"type:uuid;not null" json:"consolidated_report_id"`
	SourceReportID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_consolidation_source" json:"source_report_id"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ConsolidationItem) TableName() string {
	return "consolidation_items"
}

func (c *ConsolidationItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
