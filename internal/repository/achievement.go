package repository

import (
	"context"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type AchievementRepository interface {
	// Upsert creates or refreshes a catalog row keyed by code.
	Upsert(ctx context.Context, data *entity.Achievement) error
	GetByID(ctx context.Context, id string) (*entity.Achievement, error)
	GetActive(ctx context.Context) ([]entity.Achievement, error)

	// CreateEarned inserts an unlock and reports whether the row is new.
	// The composite primary key absorbs replays.
	CreateEarned(ctx context.Context, data *entity.VolunteerAchievement) (bool, error)

	GetEarnedByVolunteer(ctx context.Context, volunteerID string) ([]entity.VolunteerAchievement, error)
	CountEarnedByVolunteers(ctx context.Context, volunteerIDs []string) (map[string]int64, error)
}

type achievementRepository struct{}

func NewAchievementRepository() *achievementRepository {
	return &achievementRepository{}
}

func (r *achievementRepository) Upsert(ctx context.Context, data *entity.Achievement) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "code"}},
			DoUpdates: clause.Assignments(map[string]any{
				"category":      data.Category,
				"threshold":     data.Threshold,
				"points_reward": data.PointsReward,
				"is_active":     data.IsActive,
			}),
		}).Create(data).Error
}

func (r *achievementRepository) GetByID(ctx context.Context, id string) (*entity.Achievement, error) {
	result := &entity.Achievement{}
	if err := xcontext.DB(ctx).Take(result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *achievementRepository) GetActive(ctx context.Context) ([]entity.Achievement, error) {
	result := []entity.Achievement{}
	err := xcontext.DB(ctx).
		Where("is_active=?", true).
		Order("category, threshold ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *achievementRepository) CreateEarned(
	ctx context.Context, data *entity.VolunteerAchievement,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data)

	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}

func (r *achievementRepository) GetEarnedByVolunteer(
	ctx context.Context, volunteerID string,
) ([]entity.VolunteerAchievement, error) {
	result := []entity.VolunteerAchievement{}
	err := xcontext.DB(ctx).
		Where("volunteer_id=?", volunteerID).
		Order("earned_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *achievementRepository) CountEarnedByVolunteers(
	ctx context.Context, volunteerIDs []string,
) (map[string]int64, error) {
	if len(volunteerIDs) == 0 {
		return map[string]int64{}, nil
	}

	rows := []struct {
		VolunteerID string
		Total       int64
	}{}

	err := xcontext.DB(ctx).
		Model(&entity.VolunteerAchievement{}).
		Select("volunteer_id, COUNT(*) as total").
		Where("volunteer_id IN (?)", volunteerIDs).
		Group("volunteer_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.VolunteerID] = row.Total
	}

	return result, nil
}
