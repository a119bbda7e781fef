package cron

import (
	"context"
	"sort"
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/domain/achieve"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/repository"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/dateutil"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"
)

// YearlyArchiveCronJob snapshots every volunteer's yearly aggregates into
// the archive table shortly after the year closes. The job is safe to re-run;
// the archive rows are upserted.
type YearlyArchiveCronJob struct {
	userRepo          repository.UserRepository
	participationRepo repository.ParticipationRepository
	pointRepo         repository.PointRepository
	yearlyStatRepo    repository.YearlyStatRepository
}

func NewYearlyArchiveCronJob(
	userRepo repository.UserRepository,
	participationRepo repository.ParticipationRepository,
	pointRepo repository.PointRepository,
	yearlyStatRepo repository.YearlyStatRepository,
) *YearlyArchiveCronJob {
	return &YearlyArchiveCronJob{
		userRepo:          userRepo,
		participationRepo: participationRepo,
		pointRepo:         pointRepo,
		yearlyStatRepo:    yearlyStatRepo,
	}
}

func (job *YearlyArchiveCronJob) Do(ctx context.Context) {
	lastYear := time.Now().Year() - 1
	if err := job.ArchiveYear(ctx, lastYear); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot archive year %d: %v", lastYear, err)
	}
}

// ArchiveYear aggregates and upserts the archive rows of one calendar year.
func (job *YearlyArchiveCronJob) ArchiveYear(ctx context.Context, year int) error {
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(1, 0, 0)

	pointRows, err := job.pointRepo.Statistic(ctx,
		repository.PointStatisticFilter{Start: start, End: end})
	if err != nil {
		return err
	}

	points := map[string]int64{}
	for _, row := range pointRows {
		points[row.VolunteerID] = row.Points
	}

	users, err := job.userRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	pointsCfg := xcontext.Configs(ctx).Points
	stats := []*entity.VolunteerYearlyStat{}
	for i := range users {
		stat, err := job.aggregate(ctx, users[i].ID, year, start, end, pointsCfg.NightStartHour, pointsCfg.NightEndHour)
		if err != nil {
			// One bad record must not wedge the whole archive run.
			xcontext.Logger(ctx).Errorf("Cannot aggregate volunteer %s: %v", users[i].ID, err)
			continue
		}

		stat.TotalPoints = points[users[i].ID]
		if stat.TotalShifts == 0 && stat.TotalPoints == 0 {
			continue
		}

		stats = append(stats, stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalPoints != stats[j].TotalPoints {
			return stats[i].TotalPoints > stats[j].TotalPoints
		}

		return stats[i].VolunteerID < stats[j].VolunteerID
	})

	for i, stat := range stats {
		stat.FinalRank = i + 1
		if err := job.yearlyStatRepo.Upsert(ctx, stat); err != nil {
			return err
		}
	}

	xcontext.Logger(ctx).Infof("Archived %d volunteers for year %d", len(stats), year)
	return nil
}

func (job *YearlyArchiveCronJob) aggregate(
	ctx context.Context, volunteerID string, year int,
	start, end time.Time, nightFrom, nightTo int,
) (*entity.VolunteerYearlyStat, error) {
	completed, err := job.participationRepo.GetCompleted(ctx, volunteerID)
	if err != nil {
		return nil, err
	}

	stat := &entity.VolunteerYearlyStat{VolunteerID: volunteerID, Year: year}
	for i := range completed {
		p := &completed[i]
		if p.Shift.EndTime.Before(start) || !p.Shift.EndTime.Before(end) {
			continue
		}

		stat.TotalShifts++
		stat.TotalHours += p.CreditedHours(&p.Shift)

		wStart, wEnd := p.CreditedWindow(&p.Shift)
		if achieve.OverlapsWeekend(wStart, wEnd) {
			stat.WeekendShifts++
		}

		if dateutil.OverlapsHourWindow(wStart, wEnd, nightFrom, nightTo) {
			stat.NightShifts++
		}

		if p.Shift.Mission.Type == entity.MissionMedical {
			stat.MedicalShifts++
		}
	}

	history, err := job.participationRepo.GetDecidedHistory(ctx, volunteerID)
	if err != nil {
		return nil, err
	}

	inYear := []entity.ParticipationRequest{}
	for i := range history {
		endTime := history[i].Shift.EndTime
		if !endTime.Before(start) && endTime.Before(end) {
			inYear = append(inYear, history[i])
		}
	}

	_, best := achieve.Streaks(inYear)
	stat.BestStreak = int(best)

	return stat, nil
}

func (job *YearlyArchiveCronJob) RunNow() bool {
	return false
}

func (job *YearlyArchiveCronJob) Next() time.Time {
	// The first sweep of the new year, an hour in so every shift of the old
	// year has been settled.
	return dateutil.NextYear(time.Now()).Add(time.Hour)
}
