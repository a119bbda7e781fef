package domain

import (
	"context"
	"errors"
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/domain/leaderboard"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/model"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/repository"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/errorx"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"

	"gorm.io/gorm"
)

const (
	periodAllTime = "alltime"
	periodMonth   = "month"
)

type StatisticDomain interface {
	GetLeaderboard(ctx context.Context, req *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
	GetRank(ctx context.Context, req *model.GetRankRequest) (*model.GetRankResponse, error)
	GetYearlyStat(ctx context.Context, req *model.GetYearlyStatRequest) (*model.GetYearlyStatResponse, error)
	GetYearlyStats(ctx context.Context, req *model.GetYearlyStatsRequest) (*model.GetYearlyStatsResponse, error)
}

type statisticDomain struct {
	userRepo        repository.UserRepository
	achievementRepo repository.AchievementRepository
	yearlyStatRepo  repository.YearlyStatRepository
	lboard          leaderboard.Leaderboard
}

func NewStatisticDomain(
	userRepo repository.UserRepository,
	achievementRepo repository.AchievementRepository,
	yearlyStatRepo repository.YearlyStatRepository,
	lboard leaderboard.Leaderboard,
) *statisticDomain {
	return &statisticDomain{
		userRepo:        userRepo,
		achievementRepo: achievementRepo,
		yearlyStatRepo:  yearlyStatRepo,
		lboard:          lboard,
	}
}

func parsePeriod(period, month string) (leaderboard.Period, error) {
	switch period {
	case "", periodAllTime:
		return leaderboard.AllTime(), nil
	case periodMonth:
		if month == "" {
			return leaderboard.MonthOf(time.Now()), nil
		}

		t, err := time.Parse("2006-01", month)
		if err != nil {
			return leaderboard.Period{}, err
		}

		return leaderboard.MonthOf(t), nil
	default:
		return leaderboard.Period{}, errors.New("unknown period")
	}
}

func (d *statisticDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 || req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	period, err := parsePeriod(req.Period, req.Month)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid period")
	}

	entries, err := d.lboard.GetTop(ctx, period, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get leaderboard: %v", err)
		return nil, errorx.Unknown
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.VolunteerID)
	}

	users, err := d.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get volunteers: %v", err)
		return nil, errorx.Unknown
	}

	names := map[string]string{}
	for i := range users {
		names[users[i].ID] = users[i].Name
	}

	counts, err := d.achievementRepo.CountEarnedByVolunteers(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count achievements: %v", err)
		return nil, errorx.Unknown
	}

	result := make([]model.LeaderboardEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, model.LeaderboardEntry{
			VolunteerID:      entry.VolunteerID,
			Name:             names[entry.VolunteerID],
			Points:           entry.Points,
			Rank:             entry.Rank,
			AchievementCount: counts[entry.VolunteerID],
		})
	}

	return &model.GetLeaderboardResponse{Leaderboard: result}, nil
}

func (d *statisticDomain) GetRank(
	ctx context.Context, req *model.GetRankRequest,
) (*model.GetRankResponse, error) {
	volunteerID := req.VolunteerID
	if volunteerID == "" {
		volunteerID = xcontext.RequestUserID(ctx)
	}

	period, err := parsePeriod(req.Period, req.Month)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid period")
	}

	entry, err := d.lboard.GetRank(ctx, period, volunteerID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get rank: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetRankResponse{Rank: entry.Rank, Points: entry.Points}, nil
}

func (d *statisticDomain) GetYearlyStat(
	ctx context.Context, req *model.GetYearlyStatRequest,
) (*model.GetYearlyStatResponse, error) {
	volunteerID := req.VolunteerID
	if volunteerID == "" {
		volunteerID = xcontext.RequestUserID(ctx)
	}

	stat, err := d.yearlyStatRepo.Get(ctx, volunteerID, req.Year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "No archived stats for year %d", req.Year)
		}

		xcontext.Logger(ctx).Errorf("Cannot get yearly stat: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetYearlyStatResponse{YearlyStat: convertYearlyStat(stat)}, nil
}

func (d *statisticDomain) GetYearlyStats(
	ctx context.Context, req *model.GetYearlyStatsRequest,
) (*model.GetYearlyStatsResponse, error) {
	stats, err := d.yearlyStatRepo.GetByYear(ctx, req.Year)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get yearly stats: %v", err)
		return nil, errorx.Unknown
	}

	result := make([]model.YearlyStat, 0, len(stats))
	for i := range stats {
		result = append(result, convertYearlyStat(&stats[i]))
	}

	return &model.GetYearlyStatsResponse{Stats: result}, nil
}
