package common

import (
	"context"
	"errors"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/repository"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"

	"golang.org/x/exp/slices"
)

type GlobalRoleVerifier struct {
	userRepo repository.UserRepository
}

func NewGlobalRoleVerifier(userRepo repository.UserRepository) *GlobalRoleVerifier {
	return &GlobalRoleVerifier{userRepo: userRepo}
}

func (v *GlobalRoleVerifier) Verify(ctx context.Context, requiredRoles ...entity.GlobalRole) error {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return errors.New("no user in context")
	}

	user, err := v.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !slices.Contains(requiredRoles, user.Role) {
		return errors.New("user role does not have permission")
	}

	return nil
}
