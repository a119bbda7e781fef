package rewards

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/config"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/client"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/domain/achieve"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/domain/leaderboard"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/repository"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/testutil"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"

	"github.com/stretchr/testify/require"
)

func newTestEngine() (*Engine, leaderboard.Leaderboard) {
	participationRepo := repository.NewParticipationRepository()
	userRepo := repository.NewUserRepository()
	pointRepo := repository.NewPointRepository()
	lboard := leaderboard.New(pointRepo, testutil.NewInMemoryRedisClient())
	evaluator := achieve.NewEvaluator(
		repository.NewAchievementRepository(), pointRepo, userRepo, participationRepo,
		lboard, client.NewLoggerNotificationDispatcher())

	engine := NewEngine(
		participationRepo, repository.NewShiftRepository(), repository.NewMissionRepository(),
		userRepo, pointRepo, lboard, evaluator)
	return engine, lboard
}

// endedParticipation seeds an approved participation on a shift that ended
// an hour ago.
func endedParticipation(
	t *testing.T, ctx context.Context, id, missionID string, start, end time.Time,
) *entity.ParticipationRequest {
	t.Helper()

	shift := &entity.Shift{
		Base:         entity.Base{ID: "shift_" + id},
		MissionID:    missionID,
		StartTime:    start,
		EndTime:      end,
		MaxCapacity:  5,
		CurrentCount: 1,
		Status:       entity.ShiftLocked,
	}
	require.NoError(t, repository.NewShiftRepository().Create(ctx, shift))

	participation := &entity.ParticipationRequest{
		Base:        entity.Base{ID: id},
		VolunteerID: testutil.Volunteer1.ID,
		ShiftID:     shift.ID,
		Status:      entity.ParticipationApproved,
		Attended:    true,
		DecidedBy:   sql.NullString{Valid: true, String: testutil.Admin.ID},
		DecidedAt:   sql.NullTime{Valid: true, Time: start.Add(-48 * time.Hour)},
	}
	require.NoError(t, repository.NewParticipationRepository().Create(ctx, participation))
	return participation
}

// weekday returns the most recent Tuesday before now, keeping bonus windows
// out of the picture.
func weekday() time.Time {
	t := time.Now().Add(-24 * time.Hour)
	for t.Weekday() != time.Tuesday {
		t = t.Add(-24 * time.Hour)
	}

	return time.Date(t.Year(), t.Month(), t.Day(), 9, 0, 0, 0, time.Local)
}

func Test_Engine_Award_BasePoints(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	engine, _ := newTestEngine()

	start := weekday()
	p := endedParticipation(t, ctx, "p1", testutil.Mission1.ID, start, start.Add(4*time.Hour))

	require.NoError(t, engine.Award(ctx, p.ID))

	// 4 hours at 10 points each, no bonuses on a Tuesday morning.
	user, err := repository.NewUserRepository().GetByID(ctx, testutil.Volunteer1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(40), user.TotalPoints)
	require.Equal(t, int64(40), user.MonthlyPoints)

	entries, err := repository.NewPointRepository().GetByVolunteer(ctx, testutil.Volunteer1.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, entity.ReasonShiftCompleted, entries[0].Reason)
}

func Test_Engine_Award_Idempotent(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	engine, _ := newTestEngine()

	start := weekday()
	p := endedParticipation(t, ctx, "p1", testutil.Mission1.ID, start, start.Add(4*time.Hour))

	require.NoError(t, engine.Award(ctx, p.ID))
	require.NoError(t, engine.Award(ctx, p.ID))

	user, err := repository.NewUserRepository().GetByID(ctx, testutil.Volunteer1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(40), user.TotalPoints)

	entries, err := repository.NewPointRepository().GetByVolunteer(ctx, testutil.Volunteer1.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func Test_Engine_Award_MedicalAndLastMinute(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	engine, _ := newTestEngine()

	start := weekday()
	p := endedParticipation(t, ctx, "p1", testutil.MedicalMission.ID, start, start.Add(4*time.Hour))

	// Approved twelve hours before the shift, inside the short notice window.
	err := repository.NewParticipationRepository().UpdateStatusFrom(
		ctx, p.ID, entity.ParticipationApproved, &entity.ParticipationRequest{
			Status:    entity.ParticipationApproved,
			DecidedAt: sql.NullTime{Valid: true, Time: start.Add(-12 * time.Hour)},
		})
	require.NoError(t, err)

	require.NoError(t, engine.Award(ctx, p.ID))

	// Base 40, medical bonus 40 (2.0x as an additive line), last minute 20.
	user, err := repository.NewUserRepository().GetByID(ctx, testutil.Volunteer1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(100), user.TotalPoints)

	entries, err := repository.NewPointRepository().GetByVolunteer(ctx, testutil.Volunteer1.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	reasons := map[entity.PointReason]int64{}
	for _, e := range entries {
		reasons[e.Reason] = e.Points
	}
	require.Equal(t, int64(40), reasons[entity.ReasonShiftCompleted])
	require.Equal(t, int64(40), reasons[entity.ReasonMedicalBonus])
	require.Equal(t, int64(20), reasons[entity.ReasonLastMinute])
}

func Test_Engine_Award_ActualHoursWin(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	engine, _ := newTestEngine()

	start := weekday()
	p := endedParticipation(t, ctx, "p1", testutil.Mission1.ID, start, start.Add(4*time.Hour))

	err := repository.NewParticipationRepository().UpdateAttendance(ctx, p.ID,
		&entity.ParticipationRequest{
			Attended:    true,
			ActualHours: sql.NullFloat64{Valid: true, Float64: 2.5},
			ConfirmedBy: sql.NullString{Valid: true, String: testutil.Moderator.ID},
			ConfirmedAt: sql.NullTime{Valid: true, Time: time.Now()},
		})
	require.NoError(t, err)

	require.NoError(t, engine.Award(ctx, p.ID))

	user, err := repository.NewUserRepository().GetByID(ctx, testutil.Volunteer1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(25), user.TotalPoints)
}

func Test_Engine_Award_NoShowForfeits(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	engine, _ := newTestEngine()

	start := weekday()
	p := endedParticipation(t, ctx, "p1", testutil.Mission1.ID, start, start.Add(4*time.Hour))

	err := repository.NewParticipationRepository().UpdateAttendance(ctx, p.ID,
		&entity.ParticipationRequest{
			Attended:    false,
			ConfirmedBy: sql.NullString{Valid: true, String: testutil.Moderator.ID},
			ConfirmedAt: sql.NullTime{Valid: true, Time: time.Now()},
		})
	require.NoError(t, err)

	require.NoError(t, engine.Award(ctx, p.ID))

	user, err := repository.NewUserRepository().GetByID(ctx, testutil.Volunteer1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), user.TotalPoints)

	// The participation is settled anyway; a later sweep skips it.
	settled, err := repository.NewParticipationRepository().GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, settled.PointsAwarded)
}

func Test_Engine_Award_NoShowPartialCredit(t *testing.T) {
	ctx := testutil.NewMockContext()
	cfg := xcontext.Configs(ctx)
	cfg.Points.NoShowPolicy = config.NoShowPartial
	cfg.Points.NoShowPartialRate = 0.5
	ctx = xcontext.WithConfigs(ctx, cfg)

	testutil.CreateFixtureDb(ctx)
	engine, _ := newTestEngine()

	start := weekday()
	p := endedParticipation(t, ctx, "p1", testutil.Mission1.ID, start, start.Add(4*time.Hour))

	err := repository.NewParticipationRepository().UpdateAttendance(ctx, p.ID,
		&entity.ParticipationRequest{
			Attended:    false,
			ConfirmedBy: sql.NullString{Valid: true, String: testutil.Moderator.ID},
			ConfirmedAt: sql.NullTime{Valid: true, Time: time.Now()},
		})
	require.NoError(t, err)

	require.NoError(t, engine.Award(ctx, p.ID))

	user, err := repository.NewUserRepository().GetByID(ctx, testutil.Volunteer1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(20), user.TotalPoints)
}

func Test_Engine_Sweep(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	engine, lboard := newTestEngine()

	start := weekday()
	endedParticipation(t, ctx, "p1", testutil.Mission1.ID, start, start.Add(4*time.Hour))

	// A shift still in the future must not be settled.
	future := &entity.ParticipationRequest{
		Base:        entity.Base{ID: "p_future"},
		VolunteerID: testutil.Volunteer2.ID,
		ShiftID:     testutil.Shift1.ID,
		Status:      entity.ParticipationApproved,
		Attended:    true,
	}
	require.NoError(t, repository.NewParticipationRepository().Create(ctx, future))

	settled, err := engine.Sweep(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, settled)

	// A second sweep finds nothing left.
	settled, err = engine.Sweep(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, settled)

	entry, err := lboard.GetRank(ctx, leaderboard.AllTime(), testutil.Volunteer1.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(1), entry.Rank)
	require.Equal(t, int64(40), entry.Points)
}

func Test_computeLines_WeekendAndNight(t *testing.T) {
	cfg := xcontext.Configs(context.Background()).Points

	// Saturday 21:00 to Sunday 01:00 crosses both the weekend and the
	// night window.
	start := time.Date(2026, 8, 22, 21, 0, 0, 0, time.Local)
	end := start.Add(4 * time.Hour)

	shift := &entity.Shift{StartTime: start, EndTime: end}
	participation := &entity.ParticipationRequest{Attended: true}
	mission := &entity.Mission{Type: entity.MissionVolunteer}

	lines := computeLines(cfg, participation, shift, mission)
	require.Len(t, lines, 3)

	total := int64(0)
	for _, l := range lines {
		total += l.points
	}

	// Base 40, weekend 20, night 20.
	require.Equal(t, int64(80), total)
}
