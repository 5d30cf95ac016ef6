package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"inspection-service/internal/model"
)

// ErrPhotoLocked is returned when an annotation write targets a photo that is
// referenced by a report in APROVADO status.
var ErrPhotoLocked = errors.New("photo referenced by approved report")

type PhotoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

func (r *PhotoRepository) Create(ctx context.Context, photo *model.Photo) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *PhotoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Photo, error) {
	var photo model.Photo
	err := r.db.WithContext(ctx).
		Preload("DefectType").
		Preload("Occurrence").
		First(&photo, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *PhotoRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Photo, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var photos []model.Photo
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&photos).Error; err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *PhotoRepository) ListByVisit(ctx context.Context, visitID uuid.UUID) ([]model.Photo, error) {
	var photos []model.Photo
	err := r.db.WithContext(ctx).
		Where("visit_id = ?", visitID).
		Order("captured_at ASC").
		Preload("DefectType").
		Preload("Occurrence").
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

// UpdateAnnotation applies a partial annotation update. The lock check runs
// against the live link table inside the same transaction as the write, so a
// report approved between an earlier read and this call still blocks the edit.
func (r *PhotoRepository) UpdateAnnotation(ctx context.Context, photoID uuid.UUID, updates map[string]interface{}) (*model.Photo, error) {
	var photo model.Photo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&photo, "id = ?", photoID).Error; err != nil {
			return err
		}

		var locked int64
		if err := tx.Model(&model.ReportPhoto{}).
			Joins("JOIN reports ON reports.id = report_photos.report_id").
			Where("report_photos.photo_id = ? AND reports.status = ?", photoID, model.ReportStatusAprovado).
			Count(&locked).Error; err != nil {
			return err
		}
		if locked > 0 {
			return ErrPhotoLocked
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&model.Photo{}).Where("id = ?", photoID).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Preload("DefectType").Preload("Occurrence").First(&photo, "id = ?", photoID).Error
	})
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// LockedByApprovedReport reports whether any APROVADO report references the
// photo right now. Advisory only: mutating paths re-check inside their own
// transaction.
func (r *PhotoRepository) LockedByApprovedReport(ctx context.Context, photoID uuid.UUID) (bool, error) {
	var locked int64
	err := r.db.WithContext(ctx).
		Model(&model.ReportPhoto{}).
		Joins("JOIN reports ON reports.id = report_photos.report_id").
		Where("report_photos.photo_id = ? AND reports.status = ?", photoID, model.ReportStatusAprovado).
		Count(&locked).Error
	if err != nil {
		return false, err
	}
	return locked > 0, nil
}
