package repository

import (
	"context"
	"errors"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	GetAll(ctx context.Context) ([]entity.User, error)
	Count(ctx context.Context) (int64, error)

	// LockByID takes a row lock on the user for the rest of the enclosing
	// transaction. Approvals serialize per volunteer on this lock so two
	// overlapping shifts cannot both be approved.
	LockByID(ctx context.Context, id string) (*entity.User, error)

	// RegistrationRank is the 1-based position of the user ordered by
	// registration time.
	RegistrationRank(ctx context.Context, id string) (int64, error)

	IncreasePoints(ctx context.Context, id string, points int64) error
	SetMonthlyPoints(ctx context.Context, id string, points int64) error
	ResetMonthlyPoints(ctx context.Context) error
	ResetAllPoints(ctx context.Context) error
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	result := &entity.User{}
	if err := xcontext.DB(ctx).Take(result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	result := []entity.User{}
	if err := xcontext.DB(ctx).Find(&result, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) GetAll(ctx context.Context) ([]entity.User, error) {
	result := []entity.User{}
	if err := xcontext.DB(ctx).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var result int64
	if err := xcontext.DB(ctx).Model(&entity.User{}).Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}

func (r *userRepository) LockByID(ctx context.Context, id string) (*entity.User, error) {
	tx := xcontext.DB(ctx)

	// SQLite has no FOR UPDATE; it serializes writers on its own.
	if tx.Dialector.Name() != "sqlite" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	result := &entity.User{}
	if err := tx.Take(result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) RegistrationRank(ctx context.Context, id string) (int64, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}

	var earlier int64
	err = xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("created_at < ? OR (created_at = ? AND id <= ?)",
			user.CreatedAt, user.CreatedAt, user.ID).
		Count(&earlier).Error
	if err != nil {
		return 0, err
	}

	return earlier, nil
}

func (r *userRepository) IncreasePoints(ctx context.Context, id string, points int64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Updates(map[string]any{
			"total_points":   gorm.Expr("total_points+?", points),
			"monthly_points": gorm.Expr("monthly_points+?", points),
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) SetMonthlyPoints(ctx context.Context, id string, points int64) error {
	return xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Update("monthly_points", points).Error
}

func (r *userRepository) ResetMonthlyPoints(ctx context.Context) error {
	return xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("monthly_points <> 0").
		Update("monthly_points", 0).Error
}

func (r *userRepository) ResetAllPoints(ctx context.Context) error {
	return xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("total_points <> 0 OR monthly_points <> 0").
		Updates(map[string]any{"total_points": 0, "monthly_points": 0}).Error
}
