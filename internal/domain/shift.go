package domain

import (
	"context"
	"errors"
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/client"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/common"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/model"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/repository"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/errorx"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShiftDomain interface {
	Create(ctx context.Context, req *model.CreateShiftRequest) (*model.CreateShiftResponse, error)
	Lock(ctx context.Context, req *model.LockShiftRequest) (*model.LockShiftResponse, error)
	Get(ctx context.Context, req *model.GetShiftRequest) (*model.GetShiftResponse, error)
	GetList(ctx context.Context, req *model.GetShiftsRequest) (*model.GetShiftsResponse, error)
}

type shiftDomain struct {
	shiftRepo    repository.ShiftRepository
	missionRepo  repository.MissionRepository
	roleVerifier *common.GlobalRoleVerifier
	auditSink    client.AuditSink
}

func NewShiftDomain(
	shiftRepo repository.ShiftRepository,
	missionRepo repository.MissionRepository,
	userRepo repository.UserRepository,
	auditSink client.AuditSink,
) *shiftDomain {
	return &shiftDomain{
		shiftRepo:    shiftRepo,
		missionRepo:  missionRepo,
		roleVerifier: common.NewGlobalRoleVerifier(userRepo),
		auditSink:    auditSink,
	}
}

func (d *shiftDomain) Create(
	ctx context.Context, req *model.CreateShiftRequest,
) (*model.CreateShiftResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.MissionRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	mission, err := d.missionRepo.GetByID(ctx, req.MissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found mission")
		}

		xcontext.Logger(ctx).Errorf("Cannot get mission: %v", err)
		return nil, errorx.Unknown
	}

	if mission.Status == entity.MissionCanceled {
		return nil, errorx.New(errorx.BadRequest, "Cannot add a shift to a canceled mission")
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid start time")
	}

	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid end time")
	}

	if !endTime.After(startTime) {
		return nil, errorx.New(errorx.BadRequest, "End time must be after start time")
	}

	maxCapacity := req.MaxCapacity
	if maxCapacity == 0 {
		maxCapacity = xcontext.Configs(ctx).Shift.DefaultCapacity
	}

	if maxCapacity < 1 {
		return nil, errorx.New(errorx.BadRequest, "Max capacity must be positive")
	}

	shift := &entity.Shift{
		Base:        entity.Base{ID: uuid.NewString()},
		MissionID:   mission.ID,
		StartTime:   startTime,
		EndTime:     endTime,
		MaxCapacity: maxCapacity,
		Status:      entity.ShiftOpen,
	}

	if err := d.shiftRepo.Create(ctx, shift); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create shift: %v", err)
		return nil, errorx.Unknown
	}

	d.auditSink.Record(ctx, client.AuditEntry{
		Actor:      xcontext.RequestUserID(ctx),
		Action:     "create",
		EntityType: "shift",
		EntityID:   shift.ID,
		At:         time.Now(),
	})

	return &model.CreateShiftResponse{ID: shift.ID}, nil
}

// Lock freezes the roster of a shift. Pending requests stay pending but can
// no longer be approved, and approved volunteers can no longer cancel.
func (d *shiftDomain) Lock(
	ctx context.Context, req *model.LockShiftRequest,
) (*model.LockShiftResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.MissionRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if err := d.shiftRepo.Lock(ctx, req.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyLocked):
			return nil, errorx.New(errorx.BadRequest, "Shift is already locked")
		case errors.Is(err, repository.ErrShiftCanceled):
			return nil, errorx.New(errorx.BadRequest, "Shift is canceled")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, errorx.New(errorx.NotFound, "Not found shift")
		default:
			xcontext.Logger(ctx).Errorf("Cannot lock shift: %v", err)
			return nil, errorx.Unknown
		}
	}

	d.auditSink.Record(ctx, client.AuditEntry{
		Actor:      xcontext.RequestUserID(ctx),
		Action:     "lock",
		EntityType: "shift",
		EntityID:   req.ID,
		At:         time.Now(),
	})

	return &model.LockShiftResponse{}, nil
}

func (d *shiftDomain) Get(
	ctx context.Context, req *model.GetShiftRequest,
) (*model.GetShiftResponse, error) {
	shift, err := d.shiftRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found shift")
		}

		xcontext.Logger(ctx).Errorf("Cannot get shift: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetShiftResponse{Shift: convertShift(shift)}, nil
}

func (d *shiftDomain) GetList(
	ctx context.Context, req *model.GetShiftsRequest,
) (*model.GetShiftsResponse, error) {
	if req.MissionID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty mission id")
	}

	shifts, err := d.shiftRepo.GetByMissionID(ctx, req.MissionID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get shifts: %v", err)
		return nil, errorx.Unknown
	}

	result := make([]model.Shift, 0, len(shifts))
	for i := range shifts {
		result = append(result, convertShift(&shifts[i]))
	}

	return &model.GetShiftsResponse{Shifts: result}, nil
}
