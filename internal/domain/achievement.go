package domain

import (
	"context"
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/domain/achieve"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/model"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/repository"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/errorx"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"
)

type AchievementDomain interface {
	GetAll(ctx context.Context, req *model.GetAchievementsRequest) (*model.GetAchievementsResponse, error)
	GetEarned(ctx context.Context, req *model.GetEarnedAchievementsRequest) (*model.GetEarnedAchievementsResponse, error)
	GetProgress(ctx context.Context, req *model.GetAchievementProgressRequest) (*model.GetAchievementProgressResponse, error)
}

type achievementDomain struct {
	achievementRepo repository.AchievementRepository
	evaluator       *achieve.Evaluator
}

func NewAchievementDomain(
	achievementRepo repository.AchievementRepository,
	evaluator *achieve.Evaluator,
) *achievementDomain {
	return &achievementDomain{achievementRepo: achievementRepo, evaluator: evaluator}
}

func (d *achievementDomain) GetAll(
	ctx context.Context, req *model.GetAchievementsRequest,
) (*model.GetAchievementsResponse, error) {
	achievements, err := d.achievementRepo.GetActive(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get achievements: %v", err)
		return nil, errorx.Unknown
	}

	result := make([]model.Achievement, 0, len(achievements))
	for i := range achievements {
		result = append(result, convertAchievement(&achievements[i]))
	}

	return &model.GetAchievementsResponse{Achievements: result}, nil
}

func (d *achievementDomain) GetEarned(
	ctx context.Context, req *model.GetEarnedAchievementsRequest,
) (*model.GetEarnedAchievementsResponse, error) {
	volunteerID := req.VolunteerID
	if volunteerID == "" {
		volunteerID = xcontext.RequestUserID(ctx)
	}

	earned, err := d.achievementRepo.GetEarnedByVolunteer(ctx, volunteerID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get earned achievements: %v", err)
		return nil, errorx.Unknown
	}

	result := make([]model.EarnedAchievement, 0, len(earned))
	for i := range earned {
		achievement, err := d.achievementRepo.GetByID(ctx, earned[i].AchievementID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get achievement: %v", err)
			return nil, errorx.Unknown
		}

		result = append(result, model.EarnedAchievement{
			Achievement: convertAchievement(achievement),
			EarnedAt:    earned[i].EarnedAt.Format(time.RFC3339),
		})
	}

	return &model.GetEarnedAchievementsResponse{Achievements: result}, nil
}

func (d *achievementDomain) GetProgress(
	ctx context.Context, req *model.GetAchievementProgressRequest,
) (*model.GetAchievementProgressResponse, error) {
	volunteerID := req.VolunteerID
	if volunteerID == "" {
		volunteerID = xcontext.RequestUserID(ctx)
	}

	progress, err := d.evaluator.GetProgress(ctx, volunteerID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get achievement progress: %v", err)
		return nil, errorx.Unknown
	}

	result := make([]model.AchievementProgress, 0, len(progress))
	for i := range progress {
		result = append(result, model.AchievementProgress{
			Achievement: convertAchievement(&progress[i].Achievement),
			Current:     progress[i].Current,
			Target:      progress[i].Achievement.Threshold,
			Earned:      progress[i].Earned,
		})
	}

	return &model.GetAchievementProgressResponse{Progress: result}, nil
}
