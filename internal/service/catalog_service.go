package service

import (
	"context"

	"inspection-service/internal/model"
	"inspection-service/internal/repository"
)

// CatalogService exposes the read-only defect and occurrence catalogs to the
// annotation UI.
type CatalogService struct {
	catalogRepo *repository.CatalogRepository
}

func NewCatalogService(catalogRepo *repository.CatalogRepository) *CatalogService {
	return &CatalogService{catalogRepo: catalogRepo}
}

func (s *CatalogService) DefectTypes(ctx context.Context) ([]model.DefectType, error) {
	return s.catalogRepo.ListDefectTypes(ctx)
}

func (s *CatalogService) Occurrences(ctx context.Context) ([]model.OccurrenceTag, error) {
	return s.catalogRepo.ListOccurrences(ctx)
}
