package repository

import (
	"context"
	"errors"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"
)

type MissionRepository interface {
	Create(ctx context.Context, data *entity.Mission) error
	GetByID(ctx context.Context, id string) (*entity.Mission, error)
	GetList(ctx context.Context, offset, limit int) ([]entity.Mission, error)

	// UpdateStatusFrom transitions mission status only from the expected
	// current status.
	UpdateStatusFrom(ctx context.Context, id string, from, to entity.MissionStatus) error

	// Cancel moves any non-canceled mission to canceled.
	Cancel(ctx context.Context, id string) error
}

type missionRepository struct{}

func NewMissionRepository() *missionRepository {
	return &missionRepository{}
}

func (r *missionRepository) Create(ctx context.Context, data *entity.Mission) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *missionRepository) GetByID(ctx context.Context, id string) (*entity.Mission, error) {
	result := &entity.Mission{}
	if err := xcontext.DB(ctx).Take(result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *missionRepository) GetList(ctx context.Context, offset, limit int) ([]entity.Mission, error) {
	result := []entity.Mission{}
	err := xcontext.DB(ctx).
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *missionRepository) UpdateStatusFrom(
	ctx context.Context, id string, from, to entity.MissionStatus,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Mission{}).
		Where("id=? AND status=?", id, from).
		Update("status", to)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return ErrStatusChanged
	}

	return nil
}

func (r *missionRepository) Cancel(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Mission{}).
		Where("id=? AND status <> ?", id, entity.MissionCanceled).
		Update("status", entity.MissionCanceled)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return errors.New("mission is already canceled")
	}

	return nil
}
