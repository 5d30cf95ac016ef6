package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inspection-service/internal/model"
)

var (
	// ErrStaleReport is returned when a guarded status update matched no row:
	// the report was transitioned concurrently.
	ErrStaleReport = errors.New("report status changed concurrently")
	// ErrSourceIneligible is returned when a consolidation source is not an
	// approved segment report of the requested kind.
	ErrSourceIneligible = errors.New("consolidation source not approved")
	// ErrSourceConsolidated is returned when a consolidation source is already
	// part of another consolidated report.
	ErrSourceConsolidated = errors.New("consolidation source already consolidated")
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

type ReportFilter struct {
	RoadID    *uuid.UUID
	SegmentID *uuid.UUID
	VisitID   *uuid.UUID
	Kinds     []model.ReportKind
	Statuses  []model.ReportStatus
	Scope     *model.ReportScope
	Limit     int
	Offset    int
}

func (r *ReportRepository) Create(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(report).Error; err != nil {
			return err
		}
		return tx.Create(&model.ReportStatusLog{
			ReportID:  report.ID,
			NewStatus: report.Status,
			Note:      "created",
			ChangedBy: report.CreatedBy,
		}).Error
	})
}

func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var report model.Report
	err := r.db.WithContext(ctx).
		Preload("Segment").
		Preload("Visit").
		First(&report, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) List(ctx context.Context, filter ReportFilter) ([]model.Report, error) {
	query := r.db.WithContext(ctx).Model(&model.Report{})

	if filter.RoadID != nil {
		query = query.Where("reports.road_id = ?", *filter.RoadID)
	}
	if filter.SegmentID != nil {
		query = query.Where("reports.segment_id = ?", *filter.SegmentID)
	}
	if filter.VisitID != nil {
		query = query.Where("reports.visit_id = ?", *filter.VisitID)
	}
	if len(filter.Kinds) > 0 {
		query = query.Where("reports.kind IN ?", filter.Kinds)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("reports.status IN ?", filter.Statuses)
	}
	if filter.Scope != nil {
		query = query.Where("reports.scope = ?", *filter.Scope)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	} else {
		query = query.Limit(200)
	}

	var reports []model.Report
	if err := query.
		Order("reports.created_at DESC").
		Preload("Segment").
		Preload("Visit").
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// TransitionStatus applies a guarded status update: the row is only touched if
// it still holds the expected current status, and the status log row is written
// in the same transaction. A concurrent transition makes the guard miss and the
// call fails with ErrStaleReport.
func (r *ReportRepository) TransitionStatus(ctx context.Context, reportID uuid.UUID, from, to model.ReportStatus, changedBy *uuid.UUID, note string, extra map[string]interface{}) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": to}
		for k, v := range extra {
			updates[k] = v
		}
		res := tx.Model(&model.Report{}).
			Where("id = ? AND status = ?", reportID, from).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleReport
		}
		old := from
		return tx.Create(&model.ReportStatusLog{
			ReportID:  reportID,
			OldStatus: &old,
			NewStatus: to,
			Note:      note,
			ChangedBy: changedBy,
		}).Error
	})
}

func (r *ReportRepository) LinkPhotos(ctx context.Context, reportID uuid.UUID, photoIDs []uuid.UUID) error {
	links := make([]model.ReportPhoto, 0, len(photoIDs))
	for _, id := range photoIDs {
		links = append(links, model.ReportPhoto{ReportID: reportID, PhotoID: id})
	}
	if len(links) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&links).Error
}

func (r *ReportRepository) UnlinkPhoto(ctx context.Context, reportID, photoID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("report_id = ? AND photo_id = ?", reportID, photoID).
		Delete(&model.ReportPhoto{}).Error
}

func (r *ReportRepository) CountPhotos(ctx context.Context, reportID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ReportPhoto{}).
		Where("report_id = ?", reportID).
		Count(&count).Error
	return count, err
}

func (r *ReportRepository) PhotoCounts(ctx context.Context, reportIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(reportIDs))
	if len(reportIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		ReportID uuid.UUID
		Count    int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.ReportPhoto{}).
		Select("report_id, COUNT(*) AS count").
		Where("report_id IN ?", reportIDs).
		Group("report_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ReportID] = row.Count
	}
	return counts, nil
}

// PhotoIDsOf returns the de-duplicated union of the photo-link sets of the
// given reports.
func (r *ReportRepository) PhotoIDsOf(ctx context.Context, reportIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(reportIDs) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.ReportPhoto{}).
		Distinct("photo_id").
		Where("report_id IN ?", reportIDs).
		Pluck("photo_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// EligibleCandidates lists the approved, not-yet-consolidated segment reports
// of the given kind across the segments of one road, ordered by segment start
// position and then newest visit first within a segment.
func (r *ReportRepository) EligibleCandidates(ctx context.Context, roadID uuid.UUID, kind model.ReportKind) ([]model.Report, error) {
	var reports []model.Report
	err := r.db.WithContext(ctx).
		Model(&model.Report{}).
		Joins("JOIN segments ON segments.id = reports.segment_id").
		Joins("LEFT JOIN visits ON visits.id = reports.visit_id").
		Where("segments.road_id = ?", roadID).
		Where("reports.kind = ? AND reports.scope = ? AND reports.status = ?",
			kind, model.ReportScopeSegment, model.ReportStatusAprovado).
		Where("NOT EXISTS (SELECT 1 FROM consolidation_items ci WHERE ci.source_report_id = reports.id)").
		Order("segments.start_km ASC, visits.visited_at DESC").
		Preload("Segment").
		Preload("Visit").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// CreateConsolidated persists a road-level consolidated report together with
// its back-references and the union of its sources' photo links. Eligibility is
// re-verified inside the transaction so a racing consolidation of the same
// source makes the whole call fail with no side effect.
func (r *ReportRepository) CreateConsolidated(ctx context.Context, report *model.Report, sourceIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var approved int64
		if err := tx.Model(&model.Report{}).
			Where("id IN ? AND kind = ? AND scope = ? AND status = ?",
				sourceIDs, report.Kind, model.ReportScopeSegment, model.ReportStatusAprovado).
			Count(&approved).Error; err != nil {
			return err
		}
		if approved != int64(len(sourceIDs)) {
			return ErrSourceIneligible
		}

		var consolidated int64
		if err := tx.Model(&model.ConsolidationItem{}).
			Where("source_report_id IN ?", sourceIDs).
			Count(&consolidated).Error; err != nil {
			return err
		}
		if consolidated > 0 {
			return ErrSourceConsolidated
		}

		if err := tx.Create(report).Error; err != nil {
			return err
		}

		items := make([]model.ConsolidationItem, 0, len(sourceIDs))
		for _, sourceID := range sourceIDs {
			items = append(items, model.ConsolidationItem{
				ConsolidatedReportID: report.ID,
				SourceReportID:       sourceID,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		var photoIDs []uuid.UUID
		if err := tx.Model(&model.ReportPhoto{}).
			Distinct("photo_id").
			Where("report_id IN ?", sourceIDs).
			Pluck("photo_id", &photoIDs).Error; err != nil {
			return err
		}
		links := make([]model.ReportPhoto, 0, len(photoIDs))
		for _, photoID := range photoIDs {
			links = append(links, model.ReportPhoto{ReportID: report.ID, PhotoID: photoID})
		}
		if len(links) > 0 {
			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}

		return tx.Create(&model.ReportStatusLog{
			ReportID:  report.ID,
			NewStatus: report.Status,
			Note:      "consolidated",
			ChangedBy: report.ReviewedBy,
		}).Error
	})
}

// SourceReports returns the segment reports a consolidated report was built
// from.
func (r *ReportRepository) SourceReports(ctx context.Context, consolidatedID uuid.UUID) ([]model.Report, error) {
	var reports []model.Report
	err := r.db.WithContext(ctx).
		Model(&model.Report{}).
		Joins("JOIN consolidation_items ci ON ci.source_report_id = reports.id").
		Where("ci.consolidated_report_id = ?", consolidatedID).
		Preload("Segment").
		Preload("Visit").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *ReportRepository) StatusLog(ctx context.Context, reportID uuid.UUID) ([]model.ReportStatusLog, error) {
	var entries []model.ReportStatusLog
	err := r.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
