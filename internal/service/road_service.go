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

type RoadService struct {
	roadRepo *repository.RoadRepository
}

func NewRoadService(roadRepo *repository.RoadRepository) *RoadService {
	return &RoadService{roadRepo: roadRepo}
}

func (s *RoadService) List(ctx context.Context) ([]model.Road, error) {
	return s.roadRepo.ListRoads(ctx)
}

func (s *RoadService) Get(ctx context.Context, roadID uuid.UUID) (*model.Road, error) {
	road, err := s.roadRepo.GetRoad(ctx, roadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return road, nil
}

type CreateVisitInput struct {
	SegmentID uuid.UUID
	VisitedAt time.Time
	Notes     string
}

func (s *RoadService) CreateVisit(ctx context.Context, principal model.Principal, input CreateVisitInput) (*model.Visit, error) {
	if _, err := s.roadRepo.GetSegment(ctx, input.SegmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	visitedAt := input.VisitedAt
	if visitedAt.IsZero() {
		visitedAt = time.Now()
	}
	inspectorID := principal.UserID
	visit := &model.Visit{
		SegmentID:   input.SegmentID,
		InspectorID: &inspectorID,
		VisitedAt:   visitedAt,
		Notes:       input.Notes,
	}
	if err := s.roadRepo.CreateVisit(ctx, visit); err != nil {
		return nil, err
	}
	return s.roadRepo.GetVisit(ctx, visit.ID)
}

func (s *RoadService) GetVisit(ctx context.Context, visitID uuid.UUID) (*model.Visit, error) {
	visit, err := s.roadRepo.GetVisit(ctx, visitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return visit, nil
}
