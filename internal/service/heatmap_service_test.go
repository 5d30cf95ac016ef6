package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspection-service/internal/model"
)

func TestRoadHeatmapOnlyApprovedWeightedPhotos(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	engineer := newPrincipal(model.UserRoleEngineer)

	road := env.createRoad(t, "rj-106")
	segment := env.createSegment(t, road, 0, 10)
	visit := env.createVisit(t, segment, time.Now())

	cracking := env.createDefect(t, "T-02", ptrFloat(2.0))
	pothole := env.createDefect(t, "P-01", ptrFloat(3.5))
	unweighted := env.createDefect(t, "X-99", nil)

	approvedPhoto := env.createPhoto(t, visit, model.PhotoKindRFT,
		ptrFloat(-22.90), ptrFloat(-43.20), &cracking.ID)
	pendingPhoto := env.createPhoto(t, visit, model.PhotoKindRFT,
		ptrFloat(-22.91), ptrFloat(-43.21), &pothole.ID)
	noWeightPhoto := env.createPhoto(t, visit, model.PhotoKindRFT,
		ptrFloat(-22.92), ptrFloat(-43.22), &unweighted.ID)
	noLocationPhoto := env.createPhoto(t, visit, model.PhotoKindRFT,
		nil, nil, &cracking.ID)
	rdsPhoto := env.createPhoto(t, visit, model.PhotoKindRDS,
		ptrFloat(-22.93), ptrFloat(-43.23), nil)

	env.approvedReport(t, visit, model.ReportKindRFT,
		approvedPhoto.ID, noWeightPhoto.ID, noLocationPhoto.ID)
	env.approvedReport(t, visit, model.ReportKindRDS, rdsPhoto.ID)

	// Linked but never approved.
	_, err := env.reports.Create(ctx, engineer, CreateReportInput{
		VisitID:  visit.ID,
		Kind:     model.ReportKindRFT,
		PhotoIDs: []uuid.UUID{pendingPhoto.ID},
	})
	require.NoError(t, err)

	points, err := env.heatmap.RoadHeatmap(ctx, road.ID)
	require.NoError(t, err)

	// Only the approved, geolocated RFT photo with a weighted defect survives.
	require.Len(t, points, 1)
	assert.Equal(t, -22.90, points[0].Lat)
	assert.Equal(t, -43.20, points[0].Lng)
	assert.Equal(t, 2.0, points[0].Weight)
}

func TestRoadHeatmapReadsWeightLive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	road := env.createRoad(t, "mt-130")
	segment := env.createSegment(t, road, 0, 10)
	visit := env.createVisit(t, segment, time.Now())
	defect := env.createDefect(t, "T-03", ptrFloat(1.0))
	photo := env.createPhoto(t, visit, model.PhotoKindRFT,
		ptrFloat(-15.6), ptrFloat(-55.9), &defect.ID)
	env.approvedReport(t, visit, model.ReportKindRFT, photo.ID)

	points, err := env.heatmap.RoadHeatmap(ctx, road.ID)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 1.0, points[0].Weight)

	// A catalog reweighting shows up on the next aggregation without any
	// photo write.
	require.NoError(t, env.db.Model(&model.DefectType{}).
		Where("id = ?", defect.ID).
		Update("weight", 4.0).Error)

	points, err = env.heatmap.RoadHeatmap(ctx, road.ID)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 4.0, points[0].Weight)
}

func TestRoadHeatmapEmptyAndUnknownRoad(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	road := env.createRoad(t, "to-050")
	env.createSegment(t, road, 0, 10)

	points, err := env.heatmap.RoadHeatmap(ctx, road.ID)
	require.NoError(t, err)
	assert.NotNil(t, points)
	assert.Empty(t, points)

	_, err = env.heatmap.RoadHeatmap(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
