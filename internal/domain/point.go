package domain

import (
	"context"
	"errors"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/model"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/repository"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/errorx"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"

	"gorm.io/gorm"
)

type PointDomain interface {
	GetHistory(ctx context.Context, req *model.GetPointHistoryRequest) (*model.GetPointHistoryResponse, error)
	GetBalance(ctx context.Context, req *model.GetBalanceRequest) (*model.GetBalanceResponse, error)
}

type pointDomain struct {
	pointRepo repository.PointRepository
	userRepo  repository.UserRepository
}

func NewPointDomain(
	pointRepo repository.PointRepository,
	userRepo repository.UserRepository,
) *pointDomain {
	return &pointDomain{pointRepo: pointRepo, userRepo: userRepo}
}

func (d *pointDomain) GetHistory(
	ctx context.Context, req *model.GetPointHistoryRequest,
) (*model.GetPointHistoryResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 || req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	volunteerID := req.VolunteerID
	if volunteerID == "" {
		volunteerID = xcontext.RequestUserID(ctx)
	}

	entries, err := d.pointRepo.GetByVolunteer(ctx, volunteerID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get point history: %v", err)
		return nil, errorx.Unknown
	}

	result := make([]model.PointEntry, 0, len(entries))
	for i := range entries {
		result = append(result, convertPointEntry(&entries[i]))
	}

	return &model.GetPointHistoryResponse{Entries: result}, nil
}

func (d *pointDomain) GetBalance(
	ctx context.Context, req *model.GetBalanceRequest,
) (*model.GetBalanceResponse, error) {
	volunteerID := req.VolunteerID
	if volunteerID == "" {
		volunteerID = xcontext.RequestUserID(ctx)
	}

	user, err := d.userRepo.GetByID(ctx, volunteerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found volunteer")
		}

		xcontext.Logger(ctx).Errorf("Cannot get volunteer: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetBalanceResponse{
		TotalPoints:   user.TotalPoints,
		MonthlyPoints: user.MonthlyPoints,
	}, nil
}
