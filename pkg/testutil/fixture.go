package testutil

import (
	"context"
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/repository"
)

// Well-known fixture rows shared by the domain tests.
var (
	Admin = entity.User{
		Base: entity.Base{ID: "admin"},
		Name: "admin",
		Role: entity.RoleAdmin,
	}

	Moderator = entity.User{
		Base: entity.Base{ID: "moderator"},
		Name: "moderator",
		Role: entity.RoleModerator,
	}

	Volunteer1 = entity.User{
		Base: entity.Base{ID: "volunteer1"},
		Name: "volunteer1",
		Role: entity.RoleVolunteer,
	}

	Volunteer2 = entity.User{
		Base: entity.Base{ID: "volunteer2"},
		Name: "volunteer2",
		Role: entity.RoleVolunteer,
	}

	Mission1 = entity.Mission{
		Base:      entity.Base{ID: "mission1"},
		Title:     "Food bank support",
		Type:      entity.MissionVolunteer,
		Status:    entity.MissionActive,
		CreatedBy: Admin.ID,
	}

	MedicalMission = entity.Mission{
		Base:      entity.Base{ID: "mission_medical"},
		Title:     "First aid station",
		Type:      entity.MissionMedical,
		Status:    entity.MissionActive,
		CreatedBy: Admin.ID,
	}

	// Shift1 starts tomorrow with two seats.
	Shift1 = entity.Shift{
		Base:        entity.Base{ID: "shift1"},
		MissionID:   Mission1.ID,
		StartTime:   time.Now().Add(24 * time.Hour),
		EndTime:     time.Now().Add(28 * time.Hour),
		MaxCapacity: 2,
		Status:      entity.ShiftOpen,
	}

	// Shift2 overlaps Shift1 by two hours.
	Shift2 = entity.Shift{
		Base:        entity.Base{ID: "shift2"},
		MissionID:   Mission1.ID,
		StartTime:   time.Now().Add(26 * time.Hour),
		EndTime:     time.Now().Add(30 * time.Hour),
		MaxCapacity: 2,
		Status:      entity.ShiftOpen,
	}

	// Shift3 starts exactly when Shift1 ends; touching is not overlapping.
	Shift3 = entity.Shift{
		Base:        entity.Base{ID: "shift3"},
		MissionID:   Mission1.ID,
		StartTime:   time.Now().Add(28 * time.Hour),
		EndTime:     time.Now().Add(32 * time.Hour),
		MaxCapacity: 1,
		Status:      entity.ShiftOpen,
	}
)

func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
	InsertMissions(ctx)
	InsertShifts(ctx)
}

func InsertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()
	for _, user := range []entity.User{Admin, Moderator, Volunteer1, Volunteer2} {
		u := user
		if err := userRepo.Create(ctx, &u); err != nil {
			panic(err)
		}
	}
}

func InsertMissions(ctx context.Context) {
	missionRepo := repository.NewMissionRepository()
	for _, mission := range []entity.Mission{Mission1, MedicalMission} {
		m := mission
		if err := missionRepo.Create(ctx, &m); err != nil {
			panic(err)
		}
	}
}

func InsertShifts(ctx context.Context) {
	shiftRepo := repository.NewShiftRepository()
	for _, shift := range []entity.Shift{Shift1, Shift2, Shift3} {
		sh := shift
		if err := shiftRepo.Create(ctx, &sh); err != nil {
			panic(err)
		}
	}
}
