package domain

import (
	"testing"
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/client"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/model"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/repository"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/errorx"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/testutil"

	"github.com/stretchr/testify/require"
)

func newTestMissionDomain() MissionDomain {
	return NewMissionDomain(
		repository.NewMissionRepository(),
		repository.NewShiftRepository(),
		repository.NewParticipationRepository(),
		repository.NewUserRepository(),
		client.NewLoggerAuditSink(),
		client.NewLoggerNotificationDispatcher(),
	)
}

func Test_missionDomain_Create(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestMissionDomain()

	adminCtx := testutil.NewMockContextWithUserID(ctx, testutil.Admin.ID)
	resp, err := d.Create(adminCtx, &model.CreateMissionRequest{
		Title: "Blood drive",
		Type:  "medical",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)

	// A new mission starts as a draft.
	mission, err := repository.NewMissionRepository().GetByID(ctx, resp.ID)
	require.NoError(t, err)
	require.Equal(t, entity.MissionDraft, mission.Status)
	require.Equal(t, testutil.Admin.ID, mission.CreatedBy)

	_, err = d.Create(adminCtx, &model.CreateMissionRequest{Title: "", Type: "medical"})
	requireErrorCode(t, err, errorx.BadRequest)

	_, err = d.Create(adminCtx, &model.CreateMissionRequest{Title: "x", Type: "unknown"})
	requireErrorCode(t, err, errorx.BadRequest)

	volunteerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Volunteer1.ID)
	_, err = d.Create(volunteerCtx, &model.CreateMissionRequest{Title: "x", Type: "medical"})
	requireErrorCode(t, err, errorx.PermissionDenied)
}

func Test_missionDomain_Publish(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestMissionDomain()

	adminCtx := testutil.NewMockContextWithUserID(ctx, testutil.Admin.ID)
	resp, err := d.Create(adminCtx, &model.CreateMissionRequest{
		Title: "Blood drive",
		Type:  "medical",
	})
	require.NoError(t, err)

	_, err = d.Publish(adminCtx, &model.PublishMissionRequest{ID: resp.ID})
	require.NoError(t, err)

	mission, err := repository.NewMissionRepository().GetByID(ctx, resp.ID)
	require.NoError(t, err)
	require.Equal(t, entity.MissionActive, mission.Status)

	// Only a draft can be published.
	_, err = d.Publish(adminCtx, &model.PublishMissionRequest{ID: resp.ID})
	requireErrorCode(t, err, errorx.BadRequest)
}

func Test_missionDomain_Cancel_Cascades(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	missionDomain := newTestMissionDomain()
	participationDomain := newTestParticipationDomain()

	// One approved and one pending participation under the mission.
	volunteerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Volunteer1.ID)
	applied, err := participationDomain.Apply(volunteerCtx, &model.ApplyRequest{ShiftID: testutil.Shift1.ID})
	require.NoError(t, err)

	adminCtx := testutil.NewMockContextWithUserID(ctx, testutil.Admin.ID)
	_, err = participationDomain.Approve(adminCtx, &model.ApproveParticipationRequest{ID: applied.ID})
	require.NoError(t, err)

	volunteer2Ctx := testutil.NewMockContextWithUserID(ctx, testutil.Volunteer2.ID)
	pending, err := participationDomain.Apply(volunteer2Ctx, &model.ApplyRequest{ShiftID: testutil.Shift3.ID})
	require.NoError(t, err)

	resp, err := missionDomain.Cancel(adminCtx, &model.CancelMissionRequest{ID: testutil.Mission1.ID})
	require.NoError(t, err)
	require.Equal(t, int64(3), resp.CanceledShifts)
	require.Equal(t, int64(2), resp.CanceledParticipations)

	shifts, err := repository.NewShiftRepository().GetByMissionID(ctx, testutil.Mission1.ID)
	require.NoError(t, err)
	for _, shift := range shifts {
		require.Equal(t, entity.ShiftCanceled, shift.Status)
	}

	for _, id := range []string{applied.ID, pending.ID} {
		p, err := repository.NewParticipationRepository().GetByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, entity.ParticipationCanceledByAdmin, p.Status)
		require.Equal(t, testutil.Admin.ID, p.DecidedBy.String)
	}

	// Cancel is not repeatable.
	_, err = missionDomain.Cancel(adminCtx, &model.CancelMissionRequest{ID: testutil.Mission1.ID})
	requireErrorCode(t, err, errorx.BadRequest)
}

func Test_missionDomain_GetList(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestMissionDomain()

	resp, err := d.GetList(ctx, &model.GetMissionsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Missions, 2)

	_, err = d.GetList(ctx, &model.GetMissionsRequest{Limit: 100})
	requireErrorCode(t, err, errorx.BadRequest)
}

func Test_shiftDomain_Create(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := NewShiftDomain(
		repository.NewShiftRepository(),
		repository.NewMissionRepository(),
		repository.NewUserRepository(),
		client.NewLoggerAuditSink(),
	)

	start := time.Now().Add(48 * time.Hour)
	adminCtx := testutil.NewMockContextWithUserID(ctx, testutil.Admin.ID)
	resp, err := d.Create(adminCtx, &model.CreateShiftRequest{
		MissionID: testutil.Mission1.ID,
		StartTime: start.Format(time.RFC3339),
		EndTime:   start.Add(4 * time.Hour).Format(time.RFC3339),
	})
	require.NoError(t, err)

	// Capacity falls back to the configured default.
	shift, err := repository.NewShiftRepository().GetByID(ctx, resp.ID)
	require.NoError(t, err)
	require.Equal(t, 10, shift.MaxCapacity)
	require.Equal(t, entity.ShiftOpen, shift.Status)

	// The window must be a valid half-open interval.
	_, err = d.Create(adminCtx, &model.CreateShiftRequest{
		MissionID: testutil.Mission1.ID,
		StartTime: start.Format(time.RFC3339),
		EndTime:   start.Format(time.RFC3339),
	})
	requireErrorCode(t, err, errorx.BadRequest)
}
