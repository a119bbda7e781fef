package domain

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/client"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/common"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/model"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/repository"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/enum"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/errorx"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync"
	"gorm.io/gorm"
)

type ParticipationDomain interface {
	Apply(ctx context.Context, req *model.ApplyRequest) (*model.ApplyResponse, error)
	Approve(ctx context.Context, req *model.ApproveParticipationRequest) (*model.ApproveParticipationResponse, error)
	Reject(ctx context.Context, req *model.RejectParticipationRequest) (*model.RejectParticipationResponse, error)
	Cancel(ctx context.Context, req *model.CancelParticipationRequest) (*model.CancelParticipationResponse, error)
	ConfirmAttendance(ctx context.Context, req *model.ConfirmAttendanceRequest) (*model.ConfirmAttendanceResponse, error)
	Get(ctx context.Context, req *model.GetParticipationRequest) (*model.GetParticipationResponse, error)
	GetList(ctx context.Context, req *model.GetParticipationsRequest) (*model.GetParticipationsResponse, error)
}

type participationDomain struct {
	participationRepo repository.ParticipationRepository
	shiftRepo         repository.ShiftRepository
	missionRepo       repository.MissionRepository
	userRepo          repository.UserRepository
	roleVerifier      *common.GlobalRoleVerifier
	auditSink         client.AuditSink
	notifier          client.NotificationDispatcher

	// volunteerMutexes serializes applies and approvals per volunteer so
	// the duplicate and overlap checks and the following write happen
	// without a racing sibling request.
	volunteerMutexes *xsync.MapOf[string, *sync.Mutex]
}

func NewParticipationDomain(
	participationRepo repository.ParticipationRepository,
	shiftRepo repository.ShiftRepository,
	missionRepo repository.MissionRepository,
	userRepo repository.UserRepository,
	auditSink client.AuditSink,
	notifier client.NotificationDispatcher,
) *participationDomain {
	return &participationDomain{
		participationRepo: participationRepo,
		shiftRepo:         shiftRepo,
		missionRepo:       missionRepo,
		userRepo:          userRepo,
		roleVerifier:      common.NewGlobalRoleVerifier(userRepo),
		auditSink:         auditSink,
		notifier:          notifier,
		volunteerMutexes:  xsync.NewMapOf[*sync.Mutex](),
	}
}

func (d *participationDomain) Apply(
	ctx context.Context, req *model.ApplyRequest,
) (*model.ApplyResponse, error) {
	volunteerID := xcontext.RequestUserID(ctx)
	if volunteerID == "" {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	shift, err := d.shiftRepo.GetByID(ctx, req.ShiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found shift")
		}

		xcontext.Logger(ctx).Errorf("Cannot get shift: %v", err)
		return nil, errorx.Unknown
	}

	if shift.Status == entity.ShiftLocked || shift.Status == entity.ShiftCanceled {
		return nil, errorx.New(errorx.ShiftNotJoinable, "Shift does not accept requests")
	}

	if !shift.StartTime.After(time.Now()) {
		return nil, errorx.New(errorx.ShiftNotJoinable, "Shift has already started")
	}

	mission, err := d.missionRepo.GetByID(ctx, shift.MissionID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get mission: %v", err)
		return nil, errorx.Unknown
	}

	if mission.Status != entity.MissionActive {
		return nil, errorx.New(errorx.ShiftNotJoinable, "Mission is not active")
	}

	mutex, _ := d.volunteerMutexes.LoadOrStore(volunteerID, &sync.Mutex{})
	mutex.Lock()
	defer mutex.Unlock()

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	// Row lock on the volunteer serializes applies across processes, so two
	// concurrent requests cannot both pass the checks below.
	if _, err := d.userRepo.LockByID(ctx, volunteerID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot lock volunteer: %v", err)
		return nil, errorx.Unknown
	}

	_, err = d.participationRepo.GetActive(ctx, volunteerID, shift.ID)
	if err == nil {
		return nil, errorx.New(errorx.DuplicateRequest,
			"There is already an active request for this shift")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check active participation: %v", err)
		return nil, errorx.Unknown
	}

	overlapping, err := d.participationRepo.CountApprovedOverlapping(
		ctx, volunteerID, shift.StartTime, shift.EndTime)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count overlapping participations: %v", err)
		return nil, errorx.Unknown
	}

	if overlapping > 0 {
		return nil, errorx.New(errorx.OverlapConflict,
			"Volunteer already has an approved shift in this time window")
	}

	participation := &entity.ParticipationRequest{
		Base:        entity.Base{ID: uuid.NewString()},
		VolunteerID: volunteerID,
		ShiftID:     shift.ID,
		Status:      entity.ParticipationPending,
		Notes:       req.Notes,
	}

	if err := d.participationRepo.Create(ctx, participation); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create participation: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.auditSink.Record(ctx, client.AuditEntry{
		Actor:      volunteerID,
		Action:     "apply",
		EntityType: "participation",
		EntityID:   participation.ID,
		At:         time.Now(),
	})
	d.notifier.Dispatch(ctx, client.Notification{
		Event:       client.ParticipationRequestedEvent,
		RecipientID: mission.CreatedBy,
		Metadata:    map[string]string{"participation_id": participation.ID, "shift_id": shift.ID},
	})

	return &model.ApplyResponse{ID: participation.ID}, nil
}

func (d *participationDomain) Approve(
	ctx context.Context, req *model.ApproveParticipationRequest,
) (*model.ApproveParticipationResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.ReviewRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	participation, err := d.participationRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found participation")
		}

		xcontext.Logger(ctx).Errorf("Cannot get participation: %v", err)
		return nil, errorx.Unknown
	}

	if participation.Status != entity.ParticipationPending {
		return nil, errorx.New(errorx.NotPending, "Participation is not pending")
	}

	mutex, _ := d.volunteerMutexes.LoadOrStore(participation.VolunteerID, &sync.Mutex{})
	mutex.Lock()
	defer mutex.Unlock()

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	// Row lock on the volunteer serializes approvals across processes for
	// the rest of the transaction.
	if _, err := d.userRepo.LockByID(ctx, participation.VolunteerID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot lock volunteer: %v", err)
		return nil, errorx.Unknown
	}

	shift, err := d.shiftRepo.GetByID(ctx, participation.ShiftID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get shift: %v", err)
		return nil, errorx.Unknown
	}

	overlapping, err := d.participationRepo.CountApprovedOverlapping(
		ctx, participation.VolunteerID, shift.StartTime, shift.EndTime)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count overlapping participations: %v", err)
		return nil, errorx.Unknown
	}

	if overlapping > 0 {
		return nil, errorx.New(errorx.OverlapConflict,
			"Volunteer already has an approved shift in this time window")
	}

	if err := d.shiftRepo.Reserve(ctx, shift.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNoCapacity):
			return nil, errorx.New(errorx.NoCapacity, "Shift has no free capacity")
		case errors.Is(err, repository.ErrNotJoinable):
			return nil, errorx.New(errorx.ShiftNotJoinable, "Shift does not accept reservations")
		default:
			xcontext.Logger(ctx).Errorf("Cannot reserve shift capacity: %v", err)
			return nil, errorx.Unknown
		}
	}

	reviewerID := xcontext.RequestUserID(ctx)
	err = d.participationRepo.UpdateDecision(ctx, participation.ID, &entity.ParticipationRequest{
		Status:    entity.ParticipationApproved,
		DecidedBy: sql.NullString{Valid: true, String: reviewerID},
		DecidedAt: sql.NullTime{Valid: true, Time: time.Now()},
	})
	if err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, errorx.New(errorx.NotPending, "Participation is not pending")
		}

		xcontext.Logger(ctx).Errorf("Cannot update participation decision: %v", err)
		return nil, errorx.Unknown
	}

	updatedShift, err := d.shiftRepo.GetByID(ctx, shift.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reread shift: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.auditSink.Record(ctx, client.AuditEntry{
		Actor:      reviewerID,
		Action:     "approve",
		EntityType: "participation",
		EntityID:   participation.ID,
		At:         time.Now(),
	})
	d.notifier.Dispatch(ctx, client.Notification{
		Event:       client.ParticipationApprovedEvent,
		RecipientID: participation.VolunteerID,
		Metadata:    map[string]string{"participation_id": participation.ID, "shift_id": shift.ID},
	})

	shiftFull := updatedShift.Status == entity.ShiftFull
	if shiftFull {
		d.notifier.Dispatch(ctx, client.Notification{
			Event:       client.ShiftFullEvent,
			RecipientID: reviewerID,
			Metadata:    map[string]string{"shift_id": shift.ID},
		})
	}

	return &model.ApproveParticipationResponse{ShiftFull: shiftFull}, nil
}

func (d *participationDomain) Reject(
	ctx context.Context, req *model.RejectParticipationRequest,
) (*model.RejectParticipationResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.ReviewRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	participation, err := d.participationRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found participation")
		}

		xcontext.Logger(ctx).Errorf("Cannot get participation: %v", err)
		return nil, errorx.Unknown
	}

	reviewerID := xcontext.RequestUserID(ctx)
	data := &entity.ParticipationRequest{
		Status:    entity.ParticipationRejected,
		DecidedBy: sql.NullString{Valid: true, String: reviewerID},
		DecidedAt: sql.NullTime{Valid: true, Time: time.Now()},
	}

	if req.Notes != "" {
		data.Notes = req.Notes
	}

	if err := d.participationRepo.UpdateDecision(ctx, participation.ID, data); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, errorx.New(errorx.NotPending, "Participation is not pending")
		}

		xcontext.Logger(ctx).Errorf("Cannot update participation decision: %v", err)
		return nil, errorx.Unknown
	}

	d.auditSink.Record(ctx, client.AuditEntry{
		Actor:      reviewerID,
		Action:     "reject",
		EntityType: "participation",
		EntityID:   participation.ID,
		At:         time.Now(),
	})
	d.notifier.Dispatch(ctx, client.Notification{
		Event:       client.ParticipationRejectedEvent,
		RecipientID: participation.VolunteerID,
		Metadata:    map[string]string{"participation_id": participation.ID},
	})

	return &model.RejectParticipationResponse{}, nil
}

func (d *participationDomain) Cancel(
	ctx context.Context, req *model.CancelParticipationRequest,
) (*model.CancelParticipationResponse, error) {
	requesterID := xcontext.RequestUserID(ctx)
	if requesterID == "" {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	participation, err := d.participationRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found participation")
		}

		xcontext.Logger(ctx).Errorf("Cannot get participation: %v", err)
		return nil, errorx.Unknown
	}

	byAdmin := requesterID != participation.VolunteerID
	if byAdmin {
		if err := d.roleVerifier.Verify(ctx, entity.ReviewRoles...); err != nil {
			xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}
	}

	if participation.Status != entity.ParticipationPending &&
		participation.Status != entity.ParticipationApproved {
		return nil, errorx.New(errorx.NotCancelable, "Participation is already settled")
	}

	shift, err := d.shiftRepo.GetByID(ctx, participation.ShiftID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get shift: %v", err)
		return nil, errorx.Unknown
	}

	if !shift.StartTime.After(time.Now()) {
		return nil, errorx.New(errorx.NotCancelable, "Shift has already started")
	}

	to := entity.ParticipationCanceledByUser
	if byAdmin {
		to = entity.ParticipationCanceledByAdmin
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.participationRepo.UpdateStatusFrom(ctx, participation.ID, participation.Status,
		&entity.ParticipationRequest{
			Status:    to,
			DecidedBy: sql.NullString{Valid: true, String: requesterID},
			DecidedAt: sql.NullTime{Valid: true, Time: time.Now()},
		})
	if err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, errorx.New(errorx.NotCancelable, "Participation changed concurrently")
		}

		xcontext.Logger(ctx).Errorf("Cannot cancel participation: %v", err)
		return nil, errorx.Unknown
	}

	// Only an approved participation holds a capacity unit.
	if participation.Status == entity.ParticipationApproved {
		if err := d.shiftRepo.Release(ctx, shift.ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot release shift capacity: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.auditSink.Record(ctx, client.AuditEntry{
		Actor:      requesterID,
		Action:     "cancel",
		EntityType: "participation",
		EntityID:   participation.ID,
		At:         time.Now(),
	})
	d.notifier.Dispatch(ctx, client.Notification{
		Event:       client.ParticipationCanceledEvent,
		RecipientID: participation.VolunteerID,
		Metadata:    map[string]string{"participation_id": participation.ID},
	})

	return &model.CancelParticipationResponse{}, nil
}

func (d *participationDomain) ConfirmAttendance(
	ctx context.Context, req *model.ConfirmAttendanceRequest,
) (*model.ConfirmAttendanceResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AttendanceRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	participation, err := d.participationRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found participation")
		}

		xcontext.Logger(ctx).Errorf("Cannot get participation: %v", err)
		return nil, errorx.Unknown
	}

	shift, err := d.shiftRepo.GetByID(ctx, participation.ShiftID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get shift: %v", err)
		return nil, errorx.Unknown
	}

	if shift.StartTime.After(time.Now()) {
		return nil, errorx.New(errorx.BadRequest, "Shift has not started yet")
	}

	data := &entity.ParticipationRequest{
		Attended:    req.Attended,
		ConfirmedBy: sql.NullString{Valid: true, String: xcontext.RequestUserID(ctx)},
		ConfirmedAt: sql.NullTime{Valid: true, Time: time.Now()},
	}

	if req.ActualHours != 0 {
		if req.ActualHours < 0 {
			return nil, errorx.New(errorx.BadRequest, "Actual hours must not be negative")
		}

		data.ActualHours = sql.NullFloat64{Valid: true, Float64: req.ActualHours}
	}

	if req.ActualStartTime != "" || req.ActualEndTime != "" {
		start, err := time.Parse(time.RFC3339, req.ActualStartTime)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid actual start time")
		}

		end, err := time.Parse(time.RFC3339, req.ActualEndTime)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid actual end time")
		}

		if !end.After(start) {
			return nil, errorx.New(errorx.BadRequest, "Actual end time must be after start time")
		}

		data.ActualStartTime = sql.NullTime{Valid: true, Time: start}
		data.ActualEndTime = sql.NullTime{Valid: true, Time: end}
	}

	if err := d.participationRepo.UpdateAttendance(ctx, participation.ID, data); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, errorx.New(errorx.BadRequest,
				"Attendance can only be set on an approved, unrewarded participation")
		}

		xcontext.Logger(ctx).Errorf("Cannot update attendance: %v", err)
		return nil, errorx.Unknown
	}

	d.auditSink.Record(ctx, client.AuditEntry{
		Actor:      xcontext.RequestUserID(ctx),
		Action:     "confirm_attendance",
		EntityType: "participation",
		EntityID:   participation.ID,
		At:         time.Now(),
	})
	d.notifier.Dispatch(ctx, client.Notification{
		Event:       client.AttendanceConfirmedEvent,
		RecipientID: participation.VolunteerID,
		Metadata:    map[string]string{"participation_id": participation.ID},
	})

	return &model.ConfirmAttendanceResponse{}, nil
}

func (d *participationDomain) Get(
	ctx context.Context, req *model.GetParticipationRequest,
) (*model.GetParticipationResponse, error) {
	participation, err := d.participationRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found participation")
		}

		xcontext.Logger(ctx).Errorf("Cannot get participation: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetParticipationResponse{
		Participation: convertParticipation(participation),
	}, nil
}

func (d *participationDomain) GetList(
	ctx context.Context, req *model.GetParticipationsRequest,
) (*model.GetParticipationsResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 {
		return nil, errorx.New(errorx.BadRequest, "Limit must not be negative")
	}

	if req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	filter := repository.ParticipationFilter{
		VolunteerID: req.VolunteerID,
		ShiftID:     req.ShiftID,
		MissionID:   req.MissionID,
	}

	if req.Status != "" {
		status, err := enum.ToEnum[entity.ParticipationStatus](req.Status)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid status filter")
		}

		filter.Status = []entity.ParticipationStatus{status}
	}

	participations, err := d.participationRepo.GetList(ctx, filter, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get participations: %v", err)
		return nil, errorx.Unknown
	}

	result := make([]model.Participation, 0, len(participations))
	for i := range participations {
		result = append(result, convertParticipation(&participations[i]))
	}

	return &model.GetParticipationsResponse{Participations: result}, nil
}
