package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"inspection-service/internal/model"
)

type RoadRepository struct {
	db *gorm.DB
}

func NewRoadRepository(db *gorm.DB) *RoadRepository {
	return &RoadRepository{db: db}
}

func (r *RoadRepository) GetRoad(ctx context.Context, id uuid.UUID) (*model.Road, error) {
	var road model.Road
	err := r.db.WithContext(ctx).
		Preload("Segments", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_km ASC")
		}).
		First(&road, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &road, nil
}

func (r *RoadRepository) ListRoads(ctx context.Context) ([]model.Road, error) {
	var roads []model.Road
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&roads).Error; err != nil {
		return nil, err
	}
	return roads, nil
}

func (r *RoadRepository) GetSegment(ctx context.Context, id uuid.UUID) (*model.Segment, error) {
	var segment model.Segment
	if err := r.db.WithContext(ctx).First(&segment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &segment, nil
}

func (r *RoadRepository) GetVisit(ctx context.Context, id uuid.UUID) (*model.Visit, error) {
	var visit model.Visit
	err := r.db.WithContext(ctx).
		Preload("Segment").
		First(&visit, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &visit, nil
}

func (r *RoadRepository) CreateVisit(ctx context.Context, visit *model.Visit) error {
	return r.db.WithContext(ctx).Create(visit).Error
}

// HeatPoints projects the road's qualifying photos into weighted points: RFT
// photos on the road's segments, linked to at least one APROVADO report,
// carrying a geolocation and a defect type with a non-null weight. The weight
// is read from the catalog at query time, never from a cached copy.
func (r *RoadRepository) HeatPoints(ctx context.Context, roadID uuid.UUID) ([]model.HeatPoint, error) {
	points := []model.HeatPoint{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.latitude AS lat, p.longitude AS lng, dt.weight AS weight
		FROM photos p
		JOIN segments s ON s.id = p.segment_id
		JOIN defect_types dt ON dt.id = p.defect_type_id
		WHERE s.road_id = ?
		  AND p.kind = ?
		  AND p.deleted_at IS NULL
		  AND p.latitude IS NOT NULL
		  AND p.longitude IS NOT NULL
		  AND dt.weight IS NOT NULL
		  AND EXISTS (
			SELECT 1 FROM report_photos rp
			JOIN reports rep ON rep.id = rp.report_id
			WHERE rp.photo_id = p.id AND rep.status = ?
		  )`,
		roadID, model.PhotoKindRFT, model.ReportStatusAprovado,
	).Scan(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}
