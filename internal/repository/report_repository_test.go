package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"inspection-service/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared",
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

func seedSegmentReport(t *testing.T, db *gorm.DB, status model.ReportStatus) (*ReportRepository, model.Report) {
	t.Helper()
	road := model.Road{Name: "test road"}
	require.NoError(t, db.Create(&road).Error)
	segment := model.Segment{RoadID: road.ID, StartKm: 0, EndKm: 5}
	require.NoError(t, db.Create(&segment).Error)
	visit := model.Visit{SegmentID: segment.ID, VisitedAt: time.Now()}
	require.NoError(t, db.Create(&visit).Error)

	repo := NewReportRepository(db)
	segmentID := segment.ID
	visitID := visit.ID
	report := model.Report{
		Kind:      model.ReportKindRFT,
		Scope:     model.ReportScopeSegment,
		Status:    status,
		RoadID:    road.ID,
		SegmentID: &segmentID,
		VisitID:   &visitID,
	}
	require.NoError(t, repo.Create(context.Background(), &report))
	return repo, report
}

func TestTransitionStatusGuardedUpdate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo, report := seedSegmentReport(t, db, model.ReportStatusCorrigido)

	actor := uuid.New()
	err := repo.TransitionStatus(ctx, report.ID,
		model.ReportStatusCorrigido, model.ReportStatusAprovado, &actor, "approved", nil)
	require.NoError(t, err)

	// A second transition using the now stale expected status must miss the
	// guard and leave no trace.
	err = repo.TransitionStatus(ctx, report.ID,
		model.ReportStatusCorrigido, model.ReportStatusReprovado, &actor, "rejected", nil)
	assert.ErrorIs(t, err, ErrStaleReport)

	var current model.Report
	require.NoError(t, db.First(&current, "id = ?", report.ID).Error)
	assert.Equal(t, model.ReportStatusAprovado, current.Status)

	var logCount int64
	require.NoError(t, db.Model(&model.ReportStatusLog{}).
		Where("report_id = ? AND new_status = ?", report.ID, model.ReportStatusReprovado).
		Count(&logCount).Error)
	assert.Zero(t, logCount)
}

func TestCreateConsolidatedRollsBackOnIneligibleSource(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo, approved := seedSegmentReport(t, db, model.ReportStatusAprovado)

	pending := model.Report{
		Kind:      model.ReportKindRFT,
		Scope:     model.ReportScopeSegment,
		Status:    model.ReportStatusPendente,
		RoadID:    approved.RoadID,
		SegmentID: approved.SegmentID,
		VisitID:   approved.VisitID,
	}
	require.NoError(t, repo.Create(ctx, &pending))

	consolidated := model.Report{
		Kind:   model.ReportKindRFT,
		Scope:  model.ReportScopeRoad,
		Status: model.ReportStatusAprovado,
		RoadID: approved.RoadID,
	}
	err := repo.CreateConsolidated(ctx, &consolidated,
		[]uuid.UUID{approved.ID, pending.ID})
	assert.ErrorIs(t, err, ErrSourceIneligible)

	// Nothing was persisted: no road report, no consolidation items.
	var roadReports int64
	require.NoError(t, db.Model(&model.Report{}).
		Where("scope = ?", model.ReportScopeRoad).
		Count(&roadReports).Error)
	assert.Zero(t, roadReports)

	var items int64
	require.NoError(t, db.Model(&model.ConsolidationItem{}).Count(&items).Error)
	assert.Zero(t, items)
}

func TestCreateConsolidatedRefusesConsumedSource(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo, approved := seedSegmentReport(t, db, model.ReportStatusAprovado)

	first := model.Report{
		Kind:   model.ReportKindRFT,
		Scope:  model.ReportScopeRoad,
		Status: model.ReportStatusAprovado,
		RoadID: approved.RoadID,
	}
	require.NoError(t, repo.CreateConsolidated(ctx, &first, []uuid.UUID{approved.ID}))

	second := model.Report{
		Kind:   model.ReportKindRFT,
		Scope:  model.ReportScopeRoad,
		Status: model.ReportStatusAprovado,
		RoadID: approved.RoadID,
	}
	err := repo.CreateConsolidated(ctx, &second, []uuid.UUID{approved.ID})
	assert.ErrorIs(t, err, ErrSourceConsolidated)

	var items int64
	require.NoError(t, db.Model(&model.ConsolidationItem{}).Count(&items).Error)
	assert.Equal(t, int64(1), items)
}
