package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportStatusLog struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID  uuid.UUID     `gorm:"type:uuid;not null" json:"report_id"`
	OldStatus *ReportStatus `gorm:"type:varchar(16)" json:"old_status"`
	NewStatus ReportStatus  `gorm:"type:varchar(16);not null" json:"new_status"`
	Note      string        `gorm:"type:text" json:"note"`
	ChangedBy *uuid.UUID    `gorm:"type:uuid" json:"changed_by"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

func (ReportStatusLog) TableName() string {
	return "report_status_log"
}

func (l *ReportStatusLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
