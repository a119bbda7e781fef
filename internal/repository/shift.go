package repository

import (
	"context"
	"errors"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"
	"gorm.io/gorm"
)

// Capacity outcomes. The domain layer maps these to its error taxonomy.
var (
	ErrNoCapacity    = errors.New("shift has no free capacity")
	ErrNotJoinable   = errors.New("shift does not accept reservations")
	ErrAlreadyLocked = errors.New("shift is already locked")
	ErrShiftCanceled = errors.New("shift is canceled")
)

type ShiftRepository interface {
	Create(ctx context.Context, data *entity.Shift) error
	GetByID(ctx context.Context, id string) (*entity.Shift, error)
	GetByMissionID(ctx context.Context, missionID string) ([]entity.Shift, error)

	// Reserve atomically takes one capacity unit of an open shift and
	// flips it to full when the last unit is taken. It never trusts a
	// previously read count.
	Reserve(ctx context.Context, shiftID string) error

	// Release returns one capacity unit and reopens a full shift. Locked
	// and canceled shifts keep their status.
	Release(ctx context.Context, shiftID string) error

	Lock(ctx context.Context, shiftID string) error
	CancelAllByMission(ctx context.Context, missionID string) error
}

type shiftRepository struct{}

func NewShiftRepository() *shiftRepository {
	return &shiftRepository{}
}

func (r *shiftRepository) Create(ctx context.Context, data *entity.Shift) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *shiftRepository) GetByID(ctx context.Context, id string) (*entity.Shift, error) {
	result := &entity.Shift{}
	if err := xcontext.DB(ctx).Take(result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *shiftRepository) GetByMissionID(ctx context.Context, missionID string) ([]entity.Shift, error) {
	result := []entity.Shift{}
	err := xcontext.DB(ctx).
		Where("mission_id=?", missionID).
		Order("start_time ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *shiftRepository) Reserve(ctx context.Context, shiftID string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Shift{}).
		Where("id=? AND status=? AND current_count < max_capacity", shiftID, entity.ShiftOpen).
		Update("current_count", gorm.Expr("current_count+1"))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return r.reserveFailure(ctx, shiftID)
	}

	// The guarded increment succeeded; recompute the derived status in the
	// same transaction.
	return xcontext.DB(ctx).
		Model(&entity.Shift{}).
		Where("id=? AND status=? AND current_count >= max_capacity", shiftID, entity.ShiftOpen).
		Update("status", entity.ShiftFull).Error
}

// reserveFailure distinguishes why the guarded increment matched no row.
func (r *shiftRepository) reserveFailure(ctx context.Context, shiftID string) error {
	shift, err := r.GetByID(ctx, shiftID)
	if err != nil {
		return err
	}

	switch shift.Status {
	case entity.ShiftOpen, entity.ShiftFull:
		return ErrNoCapacity
	default:
		return ErrNotJoinable
	}
}

func (r *shiftRepository) Release(ctx context.Context, shiftID string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Shift{}).
		Where("id=? AND current_count > 0", shiftID).
		Update("current_count", gorm.Expr("current_count-1"))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return xcontext.DB(ctx).
		Model(&entity.Shift{}).
		Where("id=? AND status=? AND current_count < max_capacity", shiftID, entity.ShiftFull).
		Update("status", entity.ShiftOpen).Error
}

func (r *shiftRepository) Lock(ctx context.Context, shiftID string) error {
	joinable := []entity.ShiftStatus{entity.ShiftOpen, entity.ShiftFull}
	tx := xcontext.DB(ctx).
		Model(&entity.Shift{}).
		Where("id=? AND status IN (?)", shiftID, joinable).
		Update("status", entity.ShiftLocked)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 1 {
		return nil
	}

	shift, err := r.GetByID(ctx, shiftID)
	if err != nil {
		return err
	}

	switch shift.Status {
	case entity.ShiftLocked:
		return ErrAlreadyLocked
	default:
		return ErrShiftCanceled
	}
}

func (r *shiftRepository) CancelAllByMission(ctx context.Context, missionID string) error {
	nonTerminal := []entity.ShiftStatus{entity.ShiftOpen, entity.ShiftFull, entity.ShiftLocked}
	return xcontext.DB(ctx).
		Model(&entity.Shift{}).
		Where("mission_id=? AND status IN (?)", missionID, nonTerminal).
		Update("status", entity.ShiftCanceled).Error
}
