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

type PhotoService struct {
	photoRepo   *repository.PhotoRepository
	roadRepo    *repository.RoadRepository
	catalogRepo *repository.CatalogRepository
}

func NewPhotoService(
	photoRepo *repository.PhotoRepository,
	roadRepo *repository.RoadRepository,
	catalogRepo *repository.CatalogRepository,
) *PhotoService {
	return &PhotoService{
		photoRepo:   photoRepo,
		roadRepo:    roadRepo,
		catalogRepo: catalogRepo,
	}
}

type CapturePhotoInput struct {
	VisitID    uuid.UUID
	Kind       model.PhotoKind
	Latitude   *float64
	Longitude  *float64
	CapturedAt time.Time
	FileURL    string
}

// Capture records a new photo under a visit. The segment reference is
// denormalized from the visit at capture time.
func (s *PhotoService) Capture(ctx context.Context, principal model.Principal, input CapturePhotoInput) (*model.Photo, error) {
	if input.Kind != model.PhotoKindRFT && input.Kind != model.PhotoKindRDS {
		return nil, ErrInvalidInput
	}

	visit, err := s.roadRepo.GetVisit(ctx, input.VisitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	capturedAt := input.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now()
	}

	photo := &model.Photo{
		VisitID:    visit.ID,
		SegmentID:  visit.SegmentID,
		Kind:       input.Kind,
		Latitude:   input.Latitude,
		Longitude:  input.Longitude,
		CapturedAt: capturedAt,
		FileURL:    input.FileURL,
	}
	if err := s.photoRepo.Create(ctx, photo); err != nil {
		return nil, err
	}
	return s.photoRepo.GetByID(ctx, photo.ID)
}

func (s *PhotoService) Get(ctx context.Context, photoID uuid.UUID) (*model.Photo, error) {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return photo, nil
}

func (s *PhotoService) ListByVisit(ctx context.Context, visitID uuid.UUID) ([]model.Photo, error) {
	if _, err := s.roadRepo.GetVisit(ctx, visitID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.photoRepo.ListByVisit(ctx, visitID)
}

// AnnotationUpdate carries a partial annotation edit. Nil fields are left
// unchanged.
type AnnotationUpdate struct {
	Description  *string
	DefectTypeID *uuid.UUID
	OccurrenceID *uuid.UUID
	ExtensionM   *float64
	WidthM       *float64
	Stake        *string
}

// EditAnnotation applies a partial annotation update to a photo. The update is
// refused with ErrPhotoLocked when any report in APROVADO status references
// the photo; the check runs inside the same transaction as the write.
func (s *PhotoService) EditAnnotation(ctx context.Context, principal model.Principal, photoID uuid.UUID, update AnnotationUpdate) (*model.Photo, error) {
	updates := map[string]interface{}{}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.DefectTypeID != nil {
		exists, err := s.catalogRepo.DefectTypeExists(ctx, *update.DefectTypeID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrInvalidInput
		}
		updates["defect_type_id"] = *update.DefectTypeID
	}
	if update.OccurrenceID != nil {
		exists, err := s.catalogRepo.OccurrenceExists(ctx, *update.OccurrenceID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrInvalidInput
		}
		updates["occurrence_id"] = *update.OccurrenceID
	}
	if update.ExtensionM != nil {
		updates["extension_m"] = *update.ExtensionM
	}
	if update.WidthM != nil {
		updates["width_m"] = *update.WidthM
	}
	if update.Stake != nil {
		updates["stake"] = *update.Stake
	}

	photo, err := s.photoRepo.UpdateAnnotation(ctx, photoID, updates)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPhotoLocked):
			return nil, ErrPhotoLocked
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrNotFound
		}
		return nil, err
	}
	return photo, nil
}
