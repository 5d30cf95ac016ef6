package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"inspection-service/internal/model"
	"inspection-service/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Named shared-cache databases keep every pooled connection on the same
	// in-memory store while isolating tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Road{},
		&model.Segment{},
		&model.Visit{},
		&model.DefectType{},
		&model.OccurrenceTag{},
		&model.Photo{},
		&model.Report{},
		&model.ReportPhoto{},
		&model.ConsolidationItem{},
		&model.ReportStatusLog{},
	))
	return db
}

type testEnv struct {
	db *gorm.DB

	roadRepo    *repository.RoadRepository
	photoRepo   *repository.PhotoRepository
	reportRepo  *repository.ReportRepository
	catalogRepo *repository.CatalogRepository

	reports       *ReportService
	photos        *PhotoService
	consolidation *ConsolidationService
	heatmap       *HeatmapService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	roadRepo := repository.NewRoadRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	reportRepo := repository.NewReportRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)

	return &testEnv{
		db:            db,
		roadRepo:      roadRepo,
		photoRepo:     photoRepo,
		reportRepo:    reportRepo,
		catalogRepo:   catalogRepo,
		reports:       NewReportService(reportRepo, photoRepo, roadRepo),
		photos:        NewPhotoService(photoRepo, roadRepo, catalogRepo),
		consolidation: NewConsolidationService(reportRepo, roadRepo),
		heatmap:       NewHeatmapService(roadRepo),
	}
}

func (e *testEnv) createRoad(t *testing.T, name string) model.Road {
	t.Helper()
	road := model.Road{Name: name, Code: strings.ToUpper(name)}
	require.NoError(t, e.db.Create(&road).Error)
	return road
}

func (e *testEnv) createSegment(t *testing.T, road model.Road, startKm, endKm float64) model.Segment {
	t.Helper()
	segment := model.Segment{
		RoadID:  road.ID,
		Name:    fmt.Sprintf("km %.1f - %.1f", startKm, endKm),
		StartKm: startKm,
		EndKm:   endKm,
	}
	require.NoError(t, e.db.Create(&segment).Error)
	return segment
}

func (e *testEnv) createVisit(t *testing.T, segment model.Segment, visitedAt time.Time) model.Visit {
	t.Helper()
	visit := model.Visit{SegmentID: segment.ID, VisitedAt: visitedAt}
	require.NoError(t, e.db.Create(&visit).Error)
	return visit
}

func (e *testEnv) createDefect(t *testing.T, code string, weight *float64) model.DefectType {
	t.Helper()
	defect := model.DefectType{
		ExternalCode:   code,
		Classification: "defect " + code,
		Weight:         weight,
	}
	require.NoError(t, e.db.Create(&defect).Error)
	return defect
}

func (e *testEnv) createPhoto(t *testing.T, visit model.Visit, kind model.PhotoKind, lat, lng *float64, defectID *uuid.UUID) model.Photo {
	t.Helper()
	photo := model.Photo{
		VisitID:      visit.ID,
		SegmentID:    visit.SegmentID,
		Kind:         kind,
		Latitude:     lat,
		Longitude:    lng,
		CapturedAt:   visit.VisitedAt,
		DefectTypeID: defectID,
	}
	require.NoError(t, e.db.Create(&photo).Error)
	return photo
}

// approvedReport drives a report through the whole workflow: create in
// PENDENTE with the given photos, submit and approve.
func (e *testEnv) approvedReport(t *testing.T, visit model.Visit, kind model.ReportKind, photoIDs ...uuid.UUID) model.ReportRecord {
	t.Helper()
	ctx := context.Background()
	engineer := newPrincipal(model.UserRoleEngineer)

	record, err := e.reports.Create(ctx, engineer, CreateReportInput{
		VisitID:  visit.ID,
		Kind:     kind,
		PhotoIDs: photoIDs,
	})
	require.NoError(t, err)
	require.NoError(t, e.reports.SubmitForReview(ctx, engineer, record.Report.ID))
	require.NoError(t, e.reports.Approve(ctx, engineer, record.Report.ID))

	approved, err := e.reports.Get(ctx, record.Report.ID)
	require.NoError(t, err)
	return *approved
}

func newPrincipal(role model.UserRole) model.Principal {
	return model.Principal{
		UserID: uuid.New(),
		Name:   "test user",
		Email:  "test@example.com",
		Role:   role,
	}
}

func ptrFloat(v float64) *float64 {
	return &v
}

func ptrString(v string) *string {
	return &v
}
