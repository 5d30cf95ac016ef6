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

func TestReportWorkflowApprovalLocksPhotos(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	engineer := newPrincipal(model.UserRoleEngineer)

	road := env.createRoad(t, "br-101")
	segment := env.createSegment(t, road, 0, 5)
	visit := env.createVisit(t, segment, time.Now())
	defect := env.createDefect(t, "T-01", ptrFloat(2.0))
	photo := env.createPhoto(t, visit, model.PhotoKindRFT, ptrFloat(-23.5), ptrFloat(-46.6), nil)

	record, err := env.reports.Create(ctx, engineer, CreateReportInput{
		VisitID:  visit.ID,
		Kind:     model.ReportKindRFT,
		PhotoIDs: []uuid.UUID{photo.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusPendente, record.Report.Status)
	assert.Equal(t, model.ReportScopeSegment, record.Report.Scope)
	assert.Equal(t, int64(1), record.PhotoCount)

	// Annotation edits are allowed while nothing approved references the photo.
	defectID := defect.ID
	updated, err := env.photos.EditAnnotation(ctx, engineer, photo.ID, AnnotationUpdate{
		DefectTypeID: &defectID,
		Description:  ptrString("trinca longitudinal"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.DefectTypeID)
	assert.Equal(t, defect.ID, *updated.DefectTypeID)

	require.NoError(t, env.reports.SubmitForReview(ctx, engineer, record.Report.ID))

	// Still editable in CORRIGIDO.
	_, err = env.photos.EditAnnotation(ctx, engineer, photo.ID, AnnotationUpdate{
		Stake: ptrString("0+10"),
	})
	require.NoError(t, err)

	require.NoError(t, env.reports.Approve(ctx, engineer, record.Report.ID))

	approved, err := env.reports.Get(ctx, record.Report.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusAprovado, approved.Report.Status)
	require.NotNil(t, approved.Report.ReviewedBy)
	assert.Equal(t, engineer.UserID, *approved.Report.ReviewedBy)
	assert.NotNil(t, approved.Report.ReviewedAt)

	// Approval freezes every linked photo.
	_, err = env.photos.EditAnnotation(ctx, engineer, photo.ID, AnnotationUpdate{
		Description: ptrString("tentativa tardia"),
	})
	assert.ErrorIs(t, err, ErrPhotoLocked)

	// The annotation written before approval survives untouched.
	frozen, err := env.photos.Get(ctx, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, "trinca longitudinal", frozen.Description)
	assert.Equal(t, "0+10", frozen.Stake)
}

func TestSubmitEmptyReport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	engineer := newPrincipal(model.UserRoleEngineer)

	road := env.createRoad(t, "br-116")
	segment := env.createSegment(t, road, 10, 20)
	visit := env.createVisit(t, segment, time.Now())

	record, err := env.reports.Create(ctx, engineer, CreateReportInput{
		VisitID: visit.ID,
		Kind:    model.ReportKindRDS,
	})
	require.NoError(t, err)

	err = env.reports.SubmitForReview(ctx, engineer, record.Report.ID)
	assert.ErrorIs(t, err, ErrEmptyReport)

	// The failed submit must not move the status.
	after, err := env.reports.Get(ctx, record.Report.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusPendente, after.Report.Status)
}

func TestInvalidTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	engineer := newPrincipal(model.UserRoleEngineer)

	road := env.createRoad(t, "sp-270")
	segment := env.createSegment(t, road, 0, 8)
	visit := env.createVisit(t, segment, time.Now())
	photo := env.createPhoto(t, visit, model.PhotoKindRFT, nil, nil, nil)

	record, err := env.reports.Create(ctx, engineer, CreateReportInput{
		VisitID:  visit.ID,
		Kind:     model.ReportKindRFT,
		PhotoIDs: []uuid.UUID{photo.ID},
	})
	require.NoError(t, err)

	// PENDENTE cannot be approved or rejected directly.
	assert.ErrorIs(t, env.reports.Approve(ctx, engineer, record.Report.ID), ErrInvalidTransition)
	assert.ErrorIs(t, env.reports.Reject(ctx, engineer, record.Report.ID, "sem base"), ErrInvalidTransition)

	require.NoError(t, env.reports.SubmitForReview(ctx, engineer, record.Report.ID))
	require.NoError(t, env.reports.Approve(ctx, engineer, record.Report.ID))

	// APROVADO is terminal.
	assert.ErrorIs(t, env.reports.SubmitForReview(ctx, engineer, record.Report.ID), ErrInvalidTransition)
	assert.ErrorIs(t, env.reports.Reject(ctx, engineer, record.Report.ID, "tarde demais"), ErrInvalidTransition)

	// And linking photos to a terminal report is refused.
	extra := env.createPhoto(t, visit, model.PhotoKindRFT, nil, nil, nil)
	assert.ErrorIs(t, env.reports.LinkPhotos(ctx, engineer, record.Report.ID, []uuid.UUID{extra.ID}), ErrInvalidTransition)
}

func TestReviewRequiresReviewerRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	engineer := newPrincipal(model.UserRoleEngineer)
	field := newPrincipal(model.UserRoleField)

	road := env.createRoad(t, "ba-052")
	segment := env.createSegment(t, road, 2, 4)
	visit := env.createVisit(t, segment, time.Now())
	photo := env.createPhoto(t, visit, model.PhotoKindRFT, nil, nil, nil)

	record, err := env.reports.Create(ctx, field, CreateReportInput{
		VisitID:  visit.ID,
		Kind:     model.ReportKindRFT,
		PhotoIDs: []uuid.UUID{photo.ID},
	})
	require.NoError(t, err)
	require.NoError(t, env.reports.SubmitForReview(ctx, field, record.Report.ID))

	assert.ErrorIs(t, env.reports.Approve(ctx, field, record.Report.ID), ErrPermissionDenied)
	assert.ErrorIs(t, env.reports.Reject(ctx, field, record.Report.ID, "n/a"), ErrPermissionDenied)

	require.NoError(t, env.reports.Approve(ctx, engineer, record.Report.ID))
}

func TestRejectionAndRevision(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	engineer := newPrincipal(model.UserRoleEngineer)

	road := env.createRoad(t, "mg-010")
	segment := env.createSegment(t, road, 0, 3)
	visit := env.createVisit(t, segment, time.Now())
	photoA := env.createPhoto(t, visit, model.PhotoKindRDS, nil, nil, nil)
	photoB := env.createPhoto(t, visit, model.PhotoKindRDS, nil, nil, nil)

	record, err := env.reports.Create(ctx, engineer, CreateReportInput{
		VisitID:  visit.ID,
		Kind:     model.ReportKindRDS,
		PhotoIDs: []uuid.UUID{photoA.ID, photoB.ID},
	})
	require.NoError(t, err)
	require.NoError(t, env.reports.SubmitForReview(ctx, engineer, record.Report.ID))
	require.NoError(t, env.reports.Reject(ctx, engineer, record.Report.ID, "fotos sem estaca"))

	rejected, err := env.reports.Get(ctx, record.Report.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusReprovado, rejected.Report.Status)
	assert.Equal(t, "fotos sem estaca", rejected.Report.RejectionReason)

	// Rejection leaves photos editable.
	_, err = env.photos.EditAnnotation(ctx, engineer, photoA.ID, AnnotationUpdate{
		Stake: ptrString("5+0"),
	})
	require.NoError(t, err)

	// The revision starts over in PENDENTE with the same photo set.
	revision, err := env.reports.CreateRevision(ctx, engineer, record.Report.ID)
	require.NoError(t, err)
	assert.NotEqual(t, record.Report.ID, revision.Report.ID)
	assert.Equal(t, model.ReportStatusPendente, revision.Report.Status)
	assert.Equal(t, int64(2), revision.PhotoCount)

	// Only rejected reports can spawn revisions.
	_, err = env.reports.CreateRevision(ctx, engineer, revision.Report.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestLinkPhotoValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	engineer := newPrincipal(model.UserRoleEngineer)

	road := env.createRoad(t, "pr-445")
	segmentA := env.createSegment(t, road, 0, 5)
	segmentB := env.createSegment(t, road, 5, 10)
	visitA := env.createVisit(t, segmentA, time.Now())
	visitB := env.createVisit(t, segmentB, time.Now())

	rftPhoto := env.createPhoto(t, visitA, model.PhotoKindRFT, nil, nil, nil)
	rdsPhoto := env.createPhoto(t, visitA, model.PhotoKindRDS, nil, nil, nil)
	otherSegmentPhoto := env.createPhoto(t, visitB, model.PhotoKindRFT, nil, nil, nil)

	record, err := env.reports.Create(ctx, engineer, CreateReportInput{
		VisitID: visitA.ID,
		Kind:    model.ReportKindRFT,
	})
	require.NoError(t, err)

	// Kind mismatch: an RDS photo cannot enter an RFT report.
	err = env.reports.LinkPhotos(ctx, engineer, record.Report.ID, []uuid.UUID{rdsPhoto.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Segment mismatch.
	err = env.reports.LinkPhotos(ctx, engineer, record.Report.ID, []uuid.UUID{otherSegmentPhoto.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Unknown photo id.
	err = env.reports.LinkPhotos(ctx, engineer, record.Report.ID, []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, env.reports.LinkPhotos(ctx, engineer, record.Report.ID, []uuid.UUID{rftPhoto.ID}))

	// Linking twice is a no-op, not an error.
	require.NoError(t, env.reports.LinkPhotos(ctx, engineer, record.Report.ID, []uuid.UUID{rftPhoto.ID}))
	after, err := env.reports.Get(ctx, record.Report.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), after.PhotoCount)

	require.NoError(t, env.reports.UnlinkPhoto(ctx, engineer, record.Report.ID, rftPhoto.ID))
	after, err = env.reports.Get(ctx, record.Report.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), after.PhotoCount)
}

func TestStatusLogRecordsTrail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	engineer := newPrincipal(model.UserRoleEngineer)

	road := env.createRoad(t, "go-060")
	segment := env.createSegment(t, road, 1, 2)
	visit := env.createVisit(t, segment, time.Now())
	photo := env.createPhoto(t, visit, model.PhotoKindRFT, nil, nil, nil)

	record, err := env.reports.Create(ctx, engineer, CreateReportInput{
		VisitID:  visit.ID,
		Kind:     model.ReportKindRFT,
		PhotoIDs: []uuid.UUID{photo.ID},
	})
	require.NoError(t, err)
	require.NoError(t, env.reports.SubmitForReview(ctx, engineer, record.Report.ID))
	require.NoError(t, env.reports.Approve(ctx, engineer, record.Report.ID))

	log, err := env.reports.StatusLog(ctx, record.Report.ID)
	require.NoError(t, err)
	require.Len(t, log, 3)
	assert.Nil(t, log[0].OldStatus)
	assert.Equal(t, model.ReportStatusPendente, log[0].NewStatus)
	assert.Equal(t, model.ReportStatusCorrigido, log[1].NewStatus)
	assert.Equal(t, model.ReportStatusAprovado, log[2].NewStatus)
	assert.Equal(t, "approved", log[2].Note)
}
