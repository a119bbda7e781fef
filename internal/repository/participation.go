package repository

import (
	"context"
	"errors"
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"
)

type ParticipationFilter struct {
	VolunteerID string
	ShiftID     string
	MissionID   string
	Status      []entity.ParticipationStatus
}

type ParticipationRepository interface {
	Create(ctx context.Context, data *entity.ParticipationRequest) error
	GetByID(ctx context.Context, id string) (*entity.ParticipationRequest, error)
	GetList(ctx context.Context, filter ParticipationFilter, offset, limit int) ([]entity.ParticipationRequest, error)

	// GetActive returns the pending or approved request of a (volunteer,
	// shift) pair, enforcing the unique active pair rule.
	GetActive(ctx context.Context, volunteerID, shiftID string) (*entity.ParticipationRequest, error)

	// CountApprovedOverlapping counts the volunteer's approved
	// participations whose shift window intersects [start, end). Half-open
	// intervals: touching boundaries do not overlap. A pending candidate is
	// never counted; an approved request on the same shift always is, since
	// a shift overlaps its own window.
	CountApprovedOverlapping(ctx context.Context, volunteerID string, start, end time.Time) (int64, error)

	// UpdateDecision moves a pending request to a terminal review state.
	// It fails with ErrStatusChanged if the request is not pending.
	UpdateDecision(ctx context.Context, id string, data *entity.ParticipationRequest) error

	// UpdateStatusFrom transitions status only when the current status
	// matches the expected one, so two racing cancellations cannot both
	// succeed.
	UpdateStatusFrom(ctx context.Context, id string, from entity.ParticipationStatus, data *entity.ParticipationRequest) error

	UpdateAttendance(ctx context.Context, id string, data *entity.ParticipationRequest) error

	// ClaimForAward atomically flips points_awarded false to true and
	// reports whether this call won the claim. Concurrent sweeps settle
	// here.
	ClaimForAward(ctx context.Context, id string) (bool, error)

	GetRewardEligible(ctx context.Context, endedBefore time.Time, limit int) ([]entity.ParticipationRequest, error)
	GetCompleted(ctx context.Context, volunteerID string) ([]entity.ParticipationRequest, error)
	GetDecidedHistory(ctx context.Context, volunteerID string) ([]entity.ParticipationRequest, error)
	CancelAllByShiftIDs(ctx context.Context, shiftIDs []string, decidedBy string) error
}

var ErrStatusChanged = errors.New("participation status changed concurrently")

type participationRepository struct{}

func NewParticipationRepository() *participationRepository {
	return &participationRepository{}
}

func (r *participationRepository) Create(ctx context.Context, data *entity.ParticipationRequest) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *participationRepository) GetByID(ctx context.Context, id string) (*entity.ParticipationRequest, error) {
	result := &entity.ParticipationRequest{}
	if err := xcontext.DB(ctx).Take(result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *participationRepository) GetList(
	ctx context.Context, filter ParticipationFilter, offset, limit int,
) ([]entity.ParticipationRequest, error) {
	result := []entity.ParticipationRequest{}
	tx := xcontext.DB(ctx).
		Joins("join shifts on shifts.id = participation_requests.shift_id").
		Offset(offset).
		Limit(limit).
		Order("participation_requests.created_at ASC")

	if filter.VolunteerID != "" {
		tx = tx.Where("participation_requests.volunteer_id = ?", filter.VolunteerID)
	}

	if filter.ShiftID != "" {
		tx = tx.Where("participation_requests.shift_id = ?", filter.ShiftID)
	}

	if filter.MissionID != "" {
		tx = tx.Where("shifts.mission_id = ?", filter.MissionID)
	}

	if len(filter.Status) > 0 {
		tx = tx.Where("participation_requests.status IN (?)", filter.Status)
	}

	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *participationRepository) GetActive(
	ctx context.Context, volunteerID, shiftID string,
) (*entity.ParticipationRequest, error) {
	result := entity.ParticipationRequest{}
	err := xcontext.DB(ctx).
		Where("volunteer_id=? AND shift_id=? AND status IN (?)",
			volunteerID, shiftID, entity.ActiveParticipationStatuses).
		Order("created_at desc").
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *participationRepository) CountApprovedOverlapping(
	ctx context.Context, volunteerID string, start, end time.Time,
) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.ParticipationRequest{}).
		Joins("join shifts on shifts.id = participation_requests.shift_id").
		Where("participation_requests.volunteer_id = ?", volunteerID).
		Where("participation_requests.status = ?", entity.ParticipationApproved).
		Where("shifts.start_time < ? AND shifts.end_time > ?", end, start).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *participationRepository) UpdateDecision(
	ctx context.Context, id string, data *entity.ParticipationRequest,
) error {
	return r.UpdateStatusFrom(ctx, id, entity.ParticipationPending, data)
}

func (r *participationRepository) UpdateStatusFrom(
	ctx context.Context, id string, from entity.ParticipationStatus, data *entity.ParticipationRequest,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.ParticipationRequest{}).
		Where("id=? AND status=?", id, from).
		Updates(data)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return ErrStatusChanged
	}

	return nil
}

func (r *participationRepository) UpdateAttendance(
	ctx context.Context, id string, data *entity.ParticipationRequest,
) error {
	updateMap := map[string]any{
		"attended":     data.Attended,
		"confirmed_by": data.ConfirmedBy,
		"confirmed_at": data.ConfirmedAt,
	}

	if data.ActualHours.Valid {
		updateMap["actual_hours"] = data.ActualHours
	}

	if data.ActualStartTime.Valid {
		updateMap["actual_start_time"] = data.ActualStartTime
	}

	if data.ActualEndTime.Valid {
		updateMap["actual_end_time"] = data.ActualEndTime
	}

	tx := xcontext.DB(ctx).
		Model(&entity.ParticipationRequest{}).
		Where("id=? AND status=? AND points_awarded=?", id, entity.ParticipationApproved, false).
		Updates(updateMap)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return ErrStatusChanged
	}

	return nil
}

func (r *participationRepository) ClaimForAward(ctx context.Context, id string) (bool, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.ParticipationRequest{}).
		Where("id=? AND status=? AND points_awarded=?", id, entity.ParticipationApproved, false).
		Update("points_awarded", true)

	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}

func (r *participationRepository) GetRewardEligible(
	ctx context.Context, endedBefore time.Time, limit int,
) ([]entity.ParticipationRequest, error) {
	result := []entity.ParticipationRequest{}
	err := xcontext.DB(ctx).
		Joins("join shifts on shifts.id = participation_requests.shift_id").
		Where("participation_requests.status = ?", entity.ParticipationApproved).
		Where("participation_requests.points_awarded = ?", false).
		Where("shifts.end_time <= ?", endedBefore).
		Order("shifts.end_time ASC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *participationRepository) GetCompleted(
	ctx context.Context, volunteerID string,
) ([]entity.ParticipationRequest, error) {
	result := []entity.ParticipationRequest{}
	err := xcontext.DB(ctx).
		Preload("Shift").
		Preload("Shift.Mission").
		Where("volunteer_id=? AND status=? AND points_awarded=? AND attended=?",
			volunteerID, entity.ParticipationApproved, true, true).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *participationRepository) GetDecidedHistory(
	ctx context.Context, volunteerID string,
) ([]entity.ParticipationRequest, error) {
	decided := []entity.ParticipationStatus{
		entity.ParticipationApproved,
		entity.ParticipationCanceledByUser,
		entity.ParticipationCanceledByAdmin,
	}

	result := []entity.ParticipationRequest{}
	err := xcontext.DB(ctx).
		Preload("Shift").
		Where("volunteer_id=? AND status IN (?)", volunteerID, decided).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *participationRepository) CancelAllByShiftIDs(
	ctx context.Context, shiftIDs []string, decidedBy string,
) error {
	if len(shiftIDs) == 0 {
		return nil
	}

	return xcontext.DB(ctx).
		Model(&entity.ParticipationRequest{}).
		Where("shift_id IN (?) AND status IN (?)", shiftIDs, entity.ActiveParticipationStatuses).
		Updates(map[string]any{
			"status":     entity.ParticipationCanceledByAdmin,
			"decided_by": decidedBy,
			"decided_at": time.Now(),
		}).Error
}
