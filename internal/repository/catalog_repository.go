package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inspection-service/internal/model"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// SeedDefectTypes inserts the catalog entries whose external code is not yet
// present. Existing rows are left untouched: the catalog is immutable once
// seeded. Returns the number of rows actually inserted.
func (r *CatalogRepository) SeedDefectTypes(ctx context.Context, entries []model.DefectType) (int64, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_code"}},
			DoNothing: true,
		}).
		Create(&entries)
	return res.RowsAffected, res.Error
}

func (r *CatalogRepository) SeedOccurrences(ctx context.Context, entries []model.OccurrenceTag) (int64, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}, {Name: "label"}},
			DoNothing: true,
		}).
		Create(&entries)
	return res.RowsAffected, res.Error
}

func (r *CatalogRepository) ListDefectTypes(ctx context.Context) ([]model.DefectType, error) {
	var entries []model.DefectType
	if err := r.db.WithContext(ctx).Order("external_code ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *CatalogRepository) ListOccurrences(ctx context.Context) ([]model.OccurrenceTag, error) {
	var entries []model.OccurrenceTag
	if err := r.db.WithContext(ctx).Order("category ASC, label ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *CatalogRepository) DefectTypeExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.DefectType{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *CatalogRepository) OccurrenceExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.OccurrenceTag{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
