package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"inspection-service/internal/model"
	"inspection-service/internal/repository"
)

type ReportService struct {
	reportRepo *repository.ReportRepository
	photoRepo  *repository.PhotoRepository
	roadRepo   *repository.RoadRepository
}

func NewReportService(
	reportRepo *repository.ReportRepository,
	photoRepo *repository.PhotoRepository,
	roadRepo *repository.RoadRepository,
) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		photoRepo:  photoRepo,
		roadRepo:   roadRepo,
	}
}

type CreateReportInput struct {
	VisitID  uuid.UUID
	Kind     model.ReportKind
	PhotoIDs []uuid.UUID
}

// Create opens a new segment-scope report in PENDENTE for a visit, optionally
// linking an initial set of the visit's photos.
func (s *ReportService) Create(ctx context.Context, principal model.Principal, input CreateReportInput) (*model.ReportRecord, error) {
	if !input.Kind.Valid() {
		return nil, ErrInvalidInput
	}

	visit, err := s.roadRepo.GetVisit(ctx, input.VisitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if visit.Segment == nil {
		return nil, ErrNotFound
	}

	visitID := visit.ID
	segmentID := visit.SegmentID
	createdBy := principal.UserID
	report := &model.Report{
		Kind:      input.Kind,
		Scope:     model.ReportScopeSegment,
		Status:    model.ReportStatusPendente,
		RoadID:    visit.Segment.RoadID,
		SegmentID: &segmentID,
		VisitID:   &visitID,
		CreatedBy: &createdBy,
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	if len(input.PhotoIDs) > 0 {
		if err := s.linkChecked(ctx, report, input.PhotoIDs); err != nil {
			return nil, err
		}
	}

	return s.record(ctx, report.ID)
}

// CreateRevision opens a fresh PENDENTE report reusing the photos of a
// rejected one. Rejection is terminal, so this is the only resubmission path.
func (s *ReportService) CreateRevision(ctx context.Context, principal model.Principal, reportID uuid.UUID) (*model.ReportRecord, error) {
	source, err := s.get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if source.Status != model.ReportStatusReprovado || source.Scope != model.ReportScopeSegment {
		return nil, ErrInvalidTransition
	}

	createdBy := principal.UserID
	revision := &model.Report{
		Kind:      source.Kind,
		Scope:     model.ReportScopeSegment,
		Status:    model.ReportStatusPendente,
		RoadID:    source.RoadID,
		SegmentID: source.SegmentID,
		VisitID:   source.VisitID,
		CreatedBy: &createdBy,
	}
	if err := s.reportRepo.Create(ctx, revision); err != nil {
		return nil, err
	}

	photoIDs, err := s.reportRepo.PhotoIDsOf(ctx, []uuid.UUID{source.ID})
	if err != nil {
		return nil, err
	}
	if err := s.reportRepo.LinkPhotos(ctx, revision.ID, photoIDs); err != nil {
		return nil, err
	}

	return s.record(ctx, revision.ID)
}

func (s *ReportService) Get(ctx context.Context, reportID uuid.UUID) (*model.ReportRecord, error) {
	return s.record(ctx, reportID)
}

type ListReportsOptions struct {
	RoadID    *uuid.UUID
	SegmentID *uuid.UUID
	Kinds     []model.ReportKind
	Statuses  []model.ReportStatus
	Scope     *model.ReportScope
	Limit     int
	Offset    int
}

func (s *ReportService) List(ctx context.Context, opts ListReportsOptions) ([]model.ReportRecord, error) {
	reports, err := s.reportRepo.List(ctx, repository.ReportFilter{
		RoadID:    opts.RoadID,
		SegmentID: opts.SegmentID,
		Kinds:     opts.Kinds,
		Statuses:  opts.Statuses,
		Scope:     opts.Scope,
		Limit:     opts.Limit,
		Offset:    opts.Offset,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(reports))
	for _, r := range reports {
		ids = append(ids, r.ID)
	}
	counts, err := s.reportRepo.PhotoCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	records := make([]model.ReportRecord, 0, len(reports))
	for _, r := range reports {
		records = append(records, buildReportRecord(r, counts[r.ID]))
	}
	return records, nil
}

// SubmitForReview moves a report from PENDENTE to CORRIGIDO. A report with no
// linked photos cannot be submitted.
func (s *ReportService) SubmitForReview(ctx context.Context, principal model.Principal, reportID uuid.UUID) error {
	report, err := s.get(ctx, reportID)
	if err != nil {
		return err
	}
	if report.Scope != model.ReportScopeSegment ||
		!report.Status.CanTransitionTo(model.ReportStatusCorrigido) {
		return ErrInvalidTransition
	}

	count, err := s.reportRepo.CountPhotos(ctx, reportID)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrEmptyReport
	}

	return s.transition(ctx, reportID, report.Status, model.ReportStatusCorrigido,
		principal.UserID, "submitted for review", nil)
}

// Approve moves a report from CORRIGIDO to APROVADO and records the reviewer.
// Every photo linked to the report becomes immutable from this point on. The
// guarded update ensures exactly one of two racing approvals succeeds.
func (s *ReportService) Approve(ctx context.Context, principal model.Principal, reportID uuid.UUID) error {
	if !principal.CanReview() {
		return ErrPermissionDenied
	}

	report, err := s.get(ctx, reportID)
	if err != nil {
		return err
	}
	if report.Scope != model.ReportScopeSegment ||
		!report.Status.CanTransitionTo(model.ReportStatusAprovado) {
		return ErrInvalidTransition
	}

	return s.transition(ctx, reportID, report.Status, model.ReportStatusAprovado,
		principal.UserID, "approved", map[string]interface{}{
			"reviewed_by": principal.UserID,
			"reviewed_at": time.Now(),
		})
}

// Reject moves a report from CORRIGIDO to REPROVADO. The state is terminal;
// linked photos stay editable and can be reused by a revision.
func (s *ReportService) Reject(ctx context.Context, principal model.Principal, reportID uuid.UUID, reason string) error {
	if !principal.CanReview() {
		return ErrPermissionDenied
	}

	report, err := s.get(ctx, reportID)
	if err != nil {
		return err
	}
	if report.Scope != model.ReportScopeSegment ||
		!report.Status.CanTransitionTo(model.ReportStatusReprovado) {
		return ErrInvalidTransition
	}

	return s.transition(ctx, reportID, report.Status, model.ReportStatusReprovado,
		principal.UserID, reason, map[string]interface{}{
			"reviewed_by":      principal.UserID,
			"reviewed_at":      time.Now(),
			"rejection_reason": reason,
		})
}

// LinkPhotos attaches photos to a report. Only legal while the report is still
// editable; every photo must belong to the report's segment and match its kind.
func (s *ReportService) LinkPhotos(ctx context.Context, principal model.Principal, reportID uuid.UUID, photoIDs []uuid.UUID) error {
	if len(photoIDs) == 0 {
		return ErrInvalidInput
	}
	report, err := s.get(ctx, reportID)
	if err != nil {
		return err
	}
	return s.linkChecked(ctx, report, photoIDs)
}

func (s *ReportService) UnlinkPhoto(ctx context.Context, principal model.Principal, reportID, photoID uuid.UUID) error {
	report, err := s.get(ctx, reportID)
	if err != nil {
		return err
	}
	if report.Scope != model.ReportScopeSegment || !report.Status.Editable() {
		return ErrInvalidTransition
	}
	return s.reportRepo.UnlinkPhoto(ctx, reportID, photoID)
}

func (s *ReportService) StatusLog(ctx context.Context, reportID uuid.UUID) ([]model.ReportStatusLog, error) {
	if _, err := s.get(ctx, reportID); err != nil {
		return nil, err
	}
	return s.reportRepo.StatusLog(ctx, reportID)
}

func (s *ReportService) SourceReports(ctx context.Context, consolidatedID uuid.UUID) ([]model.ReportRecord, error) {
	report, err := s.get(ctx, consolidatedID)
	if err != nil {
		return nil, err
	}
	if report.Scope != model.ReportScopeRoad {
		return nil, ErrInvalidInput
	}
	sources, err := s.reportRepo.SourceReports(ctx, consolidatedID)
	if err != nil {
		return nil, err
	}
	records := make([]model.ReportRecord, 0, len(sources))
	for _, src := range sources {
		records = append(records, buildReportRecord(src, 0))
	}
	return records, nil
}

func (s *ReportService) linkChecked(ctx context.Context, report *model.Report, photoIDs []uuid.UUID) error {
	if report.Scope != model.ReportScopeSegment || !report.Status.Editable() {
		return ErrInvalidTransition
	}
	photos, err := s.photoRepo.GetByIDs(ctx, photoIDs)
	if err != nil {
		return err
	}
	if len(photos) != len(photoIDs) {
		return ErrNotFound
	}
	for _, photo := range photos {
		if report.SegmentID == nil || photo.SegmentID != *report.SegmentID {
			return ErrInvalidInput
		}
		if photo.Kind != report.Kind.PhotoKind() {
			return ErrInvalidInput
		}
	}
	return s.reportRepo.LinkPhotos(ctx, report.ID, photoIDs)
}

func (s *ReportService) transition(ctx context.Context, reportID uuid.UUID, from, to model.ReportStatus, actor uuid.UUID, note string, extra map[string]interface{}) error {
	err := s.reportRepo.TransitionStatus(ctx, reportID, from, to, &actor, note, extra)
	if errors.Is(err, repository.ErrStaleReport) {
		return ErrStaleState
	}
	return err
}

func (s *ReportService) get(ctx context.Context, reportID uuid.UUID) (*model.Report, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return report, nil
}

func (s *ReportService) record(ctx context.Context, reportID uuid.UUID) (*model.ReportRecord, error) {
	report, err := s.get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	count, err := s.reportRepo.CountPhotos(ctx, reportID)
	if err != nil {
		return nil, err
	}
	record := buildReportRecord(*report, count)
	return &record, nil
}

func buildReportRecord(report model.Report, photoCount int64) model.ReportRecord {
	record := model.ReportRecord{
		Report:     report,
		PhotoCount: photoCount,
	}
	if report.Segment != nil {
		brief := model.NewSegmentBrief(*report.Segment)
		record.Segment = &brief
	}
	if report.Visit != nil {
		record.Visit = &model.VisitBrief{
			ID:        report.Visit.ID,
			VisitedAt: report.Visit.VisitedAt,
		}
	}
	return record
}
