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

type ConsolidationService struct {
	reportRepo *repository.ReportRepository
	roadRepo   *repository.RoadRepository
}

func NewConsolidationService(
	reportRepo *repository.ReportRepository,
	roadRepo *repository.RoadRepository,
) *ConsolidationService {
	return &ConsolidationService{
		reportRepo: reportRepo,
		roadRepo:   roadRepo,
	}
}

// EligibleCandidates returns, per segment of the road, the approved segment
// reports of the requested kind not yet consumed by a consolidation. Segments
// come in start-position order; within a segment newest visit first. The
// caller chooses the subset to consolidate; nothing is auto-selected.
func (s *ConsolidationService) EligibleCandidates(ctx context.Context, roadID uuid.UUID, kind model.ReportKind) ([]model.CandidateGroup, error) {
	if !kind.Valid() {
		return nil, ErrInvalidInput
	}
	if _, err := s.roadRepo.GetRoad(ctx, roadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	candidates, err := s.reportRepo.EligibleCandidates(ctx, roadID, kind)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	counts, err := s.reportRepo.PhotoCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	groups := []model.CandidateGroup{}
	for _, candidate := range candidates {
		if candidate.Segment == nil {
			continue
		}
		record := buildReportRecord(candidate, counts[candidate.ID])
		if len(groups) > 0 && groups[len(groups)-1].Segment.ID == candidate.Segment.ID {
			last := &groups[len(groups)-1]
			last.Reports = append(last.Reports, record)
			continue
		}
		groups = append(groups, model.CandidateGroup{
			Segment: model.NewSegmentBrief(*candidate.Segment),
			Reports: []model.ReportRecord{record},
		})
	}
	return groups, nil
}

// Consolidate merges the chosen approved segment reports into one new
// road-level report of the same kind. The new report is born APROVADO: it is a
// compilation of already-approved material, not a new reviewable artifact.
// Every chosen id must be in the eligible set; otherwise the call fails with
// an IneligibleSourceError naming the offenders and nothing is persisted.
func (s *ConsolidationService) Consolidate(ctx context.Context, principal model.Principal, roadID uuid.UUID, kind model.ReportKind, chosenIDs []uuid.UUID) (*model.ReportRecord, error) {
	if !principal.CanReview() {
		return nil, ErrPermissionDenied
	}
	if !kind.Valid() || len(chosenIDs) == 0 {
		return nil, ErrInvalidInput
	}
	if _, err := s.roadRepo.GetRoad(ctx, roadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	eligible, err := s.reportRepo.EligibleCandidates(ctx, roadID, kind)
	if err != nil {
		return nil, err
	}
	eligibleSet := make(map[uuid.UUID]struct{}, len(eligible))
	for _, candidate := range eligible {
		eligibleSet[candidate.ID] = struct{}{}
	}

	var offenders []uuid.UUID
	seen := make(map[uuid.UUID]struct{}, len(chosenIDs))
	for _, id := range chosenIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := eligibleSet[id]; !ok {
			offenders = append(offenders, id)
		}
	}
	if len(offenders) > 0 {
		return nil, &IneligibleSourceError{ReportIDs: offenders}
	}

	now := time.Now()
	actor := principal.UserID
	report := &model.Report{
		Kind:       kind,
		Scope:      model.ReportScopeRoad,
		Status:     model.ReportStatusAprovado,
		RoadID:     roadID,
		CreatedBy:  &actor,
		ReviewedBy: &actor,
		ReviewedAt: &now,
	}

	sourceIDs := make([]uuid.UUID, 0, len(seen))
	for _, id := range chosenIDs {
		if _, ok := seen[id]; ok {
			sourceIDs = append(sourceIDs, id)
			delete(seen, id)
		}
	}

	if err := s.reportRepo.CreateConsolidated(ctx, report, sourceIDs); err != nil {
		if errors.Is(err, repository.ErrSourceIneligible) || errors.Is(err, repository.ErrSourceConsolidated) {
			// Lost a race between the eligibility read and the write.
			return nil, &IneligibleSourceError{ReportIDs: sourceIDs}
		}
		return nil, err
	}

	count, err := s.reportRepo.CountPhotos(ctx, report.ID)
	if err != nil {
		return nil, err
	}
	record := buildReportRecord(*report, count)
	return &record, nil
}
