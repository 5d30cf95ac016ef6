package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"inspection-service/internal/model"
	"inspection-service/internal/repository"
)

// HeatmapService projects approved RFT photo records into weighted geospatial
// points. It performs no normalization or bucketing; rendering concerns live
// with the presentation layer.
type HeatmapService struct {
	roadRepo *repository.RoadRepository
}

func NewHeatmapService(roadRepo *repository.RoadRepository) *HeatmapService {
	return &HeatmapService{roadRepo: roadRepo}
}

// RoadHeatmap returns one point per qualifying photo of the road: RFT kind,
// owned by an approved report (directly or through a consolidated one), with a
// geolocation and a defect type carrying a severity weight. A road with no
// qualifying photos yields an empty slice.
func (s *HeatmapService) RoadHeatmap(ctx context.Context, roadID uuid.UUID) ([]model.HeatPoint, error) {
	if _, err := s.roadRepo.GetRoad(ctx, roadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.roadRepo.HeatPoints(ctx, roadID)
}
