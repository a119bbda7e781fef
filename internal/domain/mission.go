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
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/enum"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/errorx"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MissionDomain interface {
	Create(ctx context.Context, req *model.CreateMissionRequest) (*model.CreateMissionResponse, error)
	Publish(ctx context.Context, req *model.PublishMissionRequest) (*model.PublishMissionResponse, error)
	Cancel(ctx context.Context, req *model.CancelMissionRequest) (*model.CancelMissionResponse, error)
	Get(ctx context.Context, req *model.GetMissionRequest) (*model.GetMissionResponse, error)
	GetList(ctx context.Context, req *model.GetMissionsRequest) (*model.GetMissionsResponse, error)
}

type missionDomain struct {
	missionRepo       repository.MissionRepository
	shiftRepo         repository.ShiftRepository
	participationRepo repository.ParticipationRepository
	roleVerifier      *common.GlobalRoleVerifier
	auditSink         client.AuditSink
	notifier          client.NotificationDispatcher
}

func NewMissionDomain(
	missionRepo repository.MissionRepository,
	shiftRepo repository.ShiftRepository,
	participationRepo repository.ParticipationRepository,
	userRepo repository.UserRepository,
	auditSink client.AuditSink,
	notifier client.NotificationDispatcher,
) *missionDomain {
	return &missionDomain{
		missionRepo:       missionRepo,
		shiftRepo:         shiftRepo,
		participationRepo: participationRepo,
		roleVerifier:      common.NewGlobalRoleVerifier(userRepo),
		auditSink:         auditSink,
		notifier:          notifier,
	}
}

func (d *missionDomain) Create(
	ctx context.Context, req *model.CreateMissionRequest,
) (*model.CreateMissionResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.MissionRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty title")
	}

	missionType, err := enum.ToEnum[entity.MissionType](req.Type)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid mission type %s", req.Type)
	}

	mission := &entity.Mission{
		Base:        entity.Base{ID: uuid.NewString()},
		Title:       req.Title,
		Description: req.Description,
		Type:        missionType,
		Status:      entity.MissionDraft,
		CreatedBy:   xcontext.RequestUserID(ctx),
	}

	if err := d.missionRepo.Create(ctx, mission); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create mission: %v", err)
		return nil, errorx.Unknown
	}

	d.auditSink.Record(ctx, client.AuditEntry{
		Actor:      mission.CreatedBy,
		Action:     "create",
		EntityType: "mission",
		EntityID:   mission.ID,
		At:         time.Now(),
	})

	return &model.CreateMissionResponse{ID: mission.ID}, nil
}

func (d *missionDomain) Publish(
	ctx context.Context, req *model.PublishMissionRequest,
) (*model.PublishMissionResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.MissionRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	err := d.missionRepo.UpdateStatusFrom(ctx, req.ID, entity.MissionDraft, entity.MissionActive)
	if err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, errorx.New(errorx.BadRequest, "Only a draft mission can be published")
		}

		xcontext.Logger(ctx).Errorf("Cannot publish mission: %v", err)
		return nil, errorx.Unknown
	}

	actor := xcontext.RequestUserID(ctx)
	d.auditSink.Record(ctx, client.AuditEntry{
		Actor:      actor,
		Action:     "publish",
		EntityType: "mission",
		EntityID:   req.ID,
		At:         time.Now(),
	})
	d.notifier.Dispatch(ctx, client.Notification{
		Event:       client.MissionPublishedEvent,
		RecipientID: actor,
		Metadata:    map[string]string{"mission_id": req.ID},
	})

	return &model.PublishMissionResponse{}, nil
}

// Cancel cancels the mission and cascades to every shift and active
// participation under it in a single transaction.
func (d *missionDomain) Cancel(
	ctx context.Context, req *model.CancelMissionRequest,
) (*model.CancelMissionResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.MissionRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	mission, err := d.missionRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found mission")
		}

		xcontext.Logger(ctx).Errorf("Cannot get mission: %v", err)
		return nil, errorx.Unknown
	}

	if mission.Status == entity.MissionCanceled {
		return nil, errorx.New(errorx.BadRequest, "Mission is already canceled")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.missionRepo.Cancel(ctx, mission.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot cancel mission: %v", err)
		return nil, errorx.Unknown
	}

	shifts, err := d.shiftRepo.GetByMissionID(ctx, mission.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get shifts of mission: %v", err)
		return nil, errorx.Unknown
	}

	canceledShifts := int64(0)
	shiftIDs := []string{}
	for i := range shifts {
		if shifts[i].Status != entity.ShiftCanceled {
			canceledShifts++
		}

		shiftIDs = append(shiftIDs, shifts[i].ID)
	}

	if err := d.shiftRepo.CancelAllByMission(ctx, mission.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot cancel shifts of mission: %v", err)
		return nil, errorx.Unknown
	}

	actor := xcontext.RequestUserID(ctx)

	// Counted before the cascade so the response can report how many
	// volunteers are affected.
	active, err := d.participationRepo.GetList(ctx, repository.ParticipationFilter{
		MissionID: mission.ID,
		Status:    entity.ActiveParticipationStatuses,
	}, 0, -1)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get active participations: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.participationRepo.CancelAllByShiftIDs(ctx, shiftIDs, actor); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot cancel participations: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.auditSink.Record(ctx, client.AuditEntry{
		Actor:      actor,
		Action:     "cancel",
		EntityType: "mission",
		EntityID:   mission.ID,
		At:         time.Now(),
	})

	for i := range active {
		d.notifier.Dispatch(ctx, client.Notification{
			Event:       client.MissionCanceledEvent,
			RecipientID: active[i].VolunteerID,
			Metadata:    map[string]string{"mission_id": mission.ID},
		})
	}

	return &model.CancelMissionResponse{
		CanceledShifts:         canceledShifts,
		CanceledParticipations: int64(len(active)),
	}, nil
}

func (d *missionDomain) Get(
	ctx context.Context, req *model.GetMissionRequest,
) (*model.GetMissionResponse, error) {
	mission, err := d.missionRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found mission")
		}

		xcontext.Logger(ctx).Errorf("Cannot get mission: %v", err)
		return nil, errorx.Unknown
	}

	shifts, err := d.shiftRepo.GetByMissionID(ctx, mission.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get shifts of mission: %v", err)
		return nil, errorx.Unknown
	}

	shiftModels := make([]model.Shift, 0, len(shifts))
	for i := range shifts {
		shiftModels = append(shiftModels, convertShift(&shifts[i]))
	}

	return &model.GetMissionResponse{
		Mission: convertMission(mission),
		Shifts:  shiftModels,
	}, nil
}

func (d *missionDomain) GetList(
	ctx context.Context, req *model.GetMissionsRequest,
) (*model.GetMissionsResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 || req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	missions, err := d.missionRepo.GetList(ctx, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get missions: %v", err)
		return nil, errorx.Unknown
	}

	result := make([]model.Mission, 0, len(missions))
	for i := range missions {
		result = append(result, convertMission(&missions[i]))
	}

	return &model.GetMissionsResponse{Missions: result}, nil
}
