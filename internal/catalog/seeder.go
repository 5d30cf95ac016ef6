package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"inspection-service/internal/repository"
)

// Seeder loads catalog seed files into the database at startup. Rows already
// present (by external code, or category+label for occurrences) are skipped.
type Seeder struct {
	catalogRepo *repository.CatalogRepository
	log         zerolog.Logger
}

func NewSeeder(catalogRepo *repository.CatalogRepository, log zerolog.Logger) *Seeder {
	return &Seeder{catalogRepo: catalogRepo, log: log}
}

func (s *Seeder) SeedDefectTypes(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open defect catalog %s: %w", path, err)
	}
	defer file.Close()

	result, err := LoadDefectTypes(file)
	if err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		s.log.Warn().Int("line", warning.Line).Str("file", path).Msg(warning.Message)
	}

	inserted, err := s.catalogRepo.SeedDefectTypes(ctx, result.Entries)
	if err != nil {
		return err
	}
	s.log.Info().
		Int64("inserted", inserted).
		Int("skipped_rows", len(result.Warnings)).
		Str("file", path).
		Msg("defect catalog seeded")
	return nil
}

func (s *Seeder) SeedOccurrences(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open occurrence catalog %s: %w", path, err)
	}
	defer file.Close()

	result, err := LoadOccurrences(file)
	if err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		s.log.Warn().Int("line", warning.Line).Str("file", path).Msg(warning.Message)
	}

	inserted, err := s.catalogRepo.SeedOccurrences(ctx, result.Entries)
	if err != nil {
		return err
	}
	s.log.Info().
		Int64("inserted", inserted).
		Int("skipped_rows", len(result.Warnings)).
		Str("file", path).
		Msg("occurrence catalog seeded")
	return nil
}
