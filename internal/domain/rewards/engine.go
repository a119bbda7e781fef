package rewards

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/config"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/domain/achieve"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/domain/leaderboard"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/repository"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/dateutil"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"

	"github.com/google/uuid"
)

const sweepBatchSize = 100

// line is one ledger entry the engine intends to write for a participation.
type line struct {
	points      int64
	reason      entity.PointReason
	description string
}

// Engine settles ended shifts into point ledger entries. Settlement is
// idempotent per participation: the claim on points_awarded decides exactly
// one winner no matter how many sweeps race.
type Engine struct {
	participationRepo repository.ParticipationRepository
	shiftRepo         repository.ShiftRepository
	missionRepo       repository.MissionRepository
	userRepo          repository.UserRepository
	pointRepo         repository.PointRepository
	lboard            leaderboard.Leaderboard
	evaluator         *achieve.Evaluator
}

func NewEngine(
	participationRepo repository.ParticipationRepository,
	shiftRepo repository.ShiftRepository,
	missionRepo repository.MissionRepository,
	userRepo repository.UserRepository,
	pointRepo repository.PointRepository,
	lboard leaderboard.Leaderboard,
	evaluator *achieve.Evaluator,
) *Engine {
	return &Engine{
		participationRepo: participationRepo,
		shiftRepo:         shiftRepo,
		missionRepo:       missionRepo,
		userRepo:          userRepo,
		pointRepo:         pointRepo,
		lboard:            lboard,
		evaluator:         evaluator,
	}
}

// Sweep settles every approved participation whose shift has ended. A failed
// participation is logged and skipped so one bad row cannot wedge the sweep;
// it is retried on the next run because its claim was rolled back.
func (e *Engine) Sweep(ctx context.Context) (int, error) {
	eligible, err := e.participationRepo.GetRewardEligible(ctx, time.Now(), sweepBatchSize)
	if err != nil {
		return 0, err
	}

	settled := 0
	for i := range eligible {
		if err := e.Award(ctx, eligible[i].ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot settle participation %s: %v", eligible[i].ID, err)
			continue
		}

		settled++
	}

	return settled, nil
}

// Award settles a single participation. It is a no-op if another call
// already claimed it.
func (e *Engine) Award(ctx context.Context, participationID string) error {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	won, err := e.participationRepo.ClaimForAward(ctx, participationID)
	if err != nil {
		return err
	}

	if !won {
		return nil
	}

	participation, err := e.participationRepo.GetByID(ctx, participationID)
	if err != nil {
		return err
	}

	shift, err := e.shiftRepo.GetByID(ctx, participation.ShiftID)
	if err != nil {
		return err
	}

	mission, err := e.missionRepo.GetByID(ctx, shift.MissionID)
	if err != nil {
		return err
	}

	lines := computeLines(xcontext.Configs(ctx).Points, participation, shift, mission)

	var total int64
	for _, l := range lines {
		err := e.pointRepo.Create(ctx, &entity.VolunteerPoint{
			Base:        entity.Base{ID: uuid.NewString()},
			VolunteerID: participation.VolunteerID,
			Points:      l.points,
			Reason:      l.reason,
			Description: l.description,
			SourceKind:  entity.SourceParticipation,
			SourceID:    sql.NullString{Valid: true, String: participation.ID},
		})
		if err != nil {
			return err
		}

		total += l.points
	}

	if total != 0 {
		if err := e.userRepo.IncreasePoints(ctx, participation.VolunteerID, total); err != nil {
			return err
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	if total != 0 {
		if err := e.lboard.IncreasePoints(ctx, participation.VolunteerID, total); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot update leaderboard: %v", err)
		}
	}

	if _, err := e.evaluator.Evaluate(ctx, participation.VolunteerID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot evaluate achievements of %s: %v",
			participation.VolunteerID, err)
	}

	return nil
}

// computeLines prices a settled participation. Every bonus is an independent
// additive line over the same base, so two bonuses never compound.
func computeLines(
	cfg config.PointsConfigs,
	participation *entity.ParticipationRequest,
	shift *entity.Shift,
	mission *entity.Mission,
) []line {
	hours := participation.CreditedHours(shift)
	base := int64(math.Round(hours * cfg.PointsPerHour))

	if !participation.Attended {
		if cfg.NoShowPolicy == config.NoShowPartial {
			partial := int64(math.Round(float64(base) * cfg.NoShowPartialRate))
			if partial != 0 {
				return []line{{
					points:      partial,
					reason:      entity.ReasonShiftCompleted,
					description: "Partial credit for a missed shift",
				}}
			}
		}

		return nil
	}

	lines := []line{{
		points:      base,
		reason:      entity.ReasonShiftCompleted,
		description: fmt.Sprintf("Completed a %.1f hour shift", hours),
	}}

	start, end := participation.CreditedWindow(shift)

	if bonus := multiplierBonus(base, cfg.WeekendMultiplier); bonus > 0 && achieve.OverlapsWeekend(start, end) {
		lines = append(lines, line{
			points:      bonus,
			reason:      entity.ReasonWeekendBonus,
			description: "Weekend shift bonus",
		})
	}

	if bonus := multiplierBonus(base, cfg.NightMultiplier); bonus > 0 &&
		dateutil.OverlapsHourWindow(start, end, cfg.NightStartHour, cfg.NightEndHour) {
		lines = append(lines, line{
			points:      bonus,
			reason:      entity.ReasonNightBonus,
			description: "Night shift bonus",
		})
	}

	if bonus := multiplierBonus(base, cfg.MedicalMultiplier); bonus > 0 &&
		mission.Type == entity.MissionMedical {
		lines = append(lines, line{
			points:      bonus,
			reason:      entity.ReasonMedicalBonus,
			description: "Medical mission bonus",
		})
	}

	if cfg.LastMinuteBonus > 0 && participation.DecidedAt.Valid {
		notice := shift.StartTime.Sub(participation.DecidedAt.Time)
		if notice >= 0 && notice <= cfg.LastMinuteWindow {
			lines = append(lines, line{
				points:      cfg.LastMinuteBonus,
				reason:      entity.ReasonLastMinute,
				description: "Short notice signup bonus",
			})
		}
	}

	return lines
}

// multiplierBonus converts a multiplier into its additive part, so a 1.5x
// weekend multiplier over a 40 point base yields a 20 point bonus line.
func multiplierBonus(base int64, multiplier float64) int64 {
	if multiplier <= 1 {
		return 0
	}

	return int64(math.Round(float64(base) * (multiplier - 1)))
}
