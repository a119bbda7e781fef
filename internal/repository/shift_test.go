package repository_test

import (
	"testing"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/repository"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/testutil"

	"github.com/stretchr/testify/require"
)

func Test_shiftRepository_Reserve(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	shiftRepo := repository.NewShiftRepository()

	// Shift1 has two seats.
	require.NoError(t, shiftRepo.Reserve(ctx, testutil.Shift1.ID))

	shift, err := shiftRepo.GetByID(ctx, testutil.Shift1.ID)
	require.NoError(t, err)
	require.Equal(t, 1, shift.CurrentCount)
	require.Equal(t, entity.ShiftOpen, shift.Status)

	// The last seat flips the shift to full.
	require.NoError(t, shiftRepo.Reserve(ctx, testutil.Shift1.ID))

	shift, err = shiftRepo.GetByID(ctx, testutil.Shift1.ID)
	require.NoError(t, err)
	require.Equal(t, 2, shift.CurrentCount)
	require.Equal(t, entity.ShiftFull, shift.Status)

	require.ErrorIs(t, shiftRepo.Reserve(ctx, testutil.Shift1.ID), repository.ErrNoCapacity)
}

func Test_shiftRepository_Reserve_NotJoinable(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	shiftRepo := repository.NewShiftRepository()

	require.NoError(t, shiftRepo.Lock(ctx, testutil.Shift1.ID))
	require.ErrorIs(t, shiftRepo.Reserve(ctx, testutil.Shift1.ID), repository.ErrNotJoinable)
}

func Test_shiftRepository_Release(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	shiftRepo := repository.NewShiftRepository()

	// Shift3 has a single seat; fill it then release it.
	require.NoError(t, shiftRepo.Reserve(ctx, testutil.Shift3.ID))

	shift, err := shiftRepo.GetByID(ctx, testutil.Shift3.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ShiftFull, shift.Status)

	require.NoError(t, shiftRepo.Release(ctx, testutil.Shift3.ID))

	shift, err = shiftRepo.GetByID(ctx, testutil.Shift3.ID)
	require.NoError(t, err)
	require.Equal(t, 0, shift.CurrentCount)
	require.Equal(t, entity.ShiftOpen, shift.Status)

	// The count never goes negative.
	require.Error(t, shiftRepo.Release(ctx, testutil.Shift3.ID))
}

func Test_shiftRepository_Release_KeepsLockedStatus(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	shiftRepo := repository.NewShiftRepository()

	require.NoError(t, shiftRepo.Reserve(ctx, testutil.Shift3.ID))
	require.NoError(t, shiftRepo.Lock(ctx, testutil.Shift3.ID))
	require.NoError(t, shiftRepo.Release(ctx, testutil.Shift3.ID))

	shift, err := shiftRepo.GetByID(ctx, testutil.Shift3.ID)
	require.NoError(t, err)
	require.Equal(t, 0, shift.CurrentCount)
	require.Equal(t, entity.ShiftLocked, shift.Status)
}

func Test_shiftRepository_Lock(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	shiftRepo := repository.NewShiftRepository()

	require.NoError(t, shiftRepo.Lock(ctx, testutil.Shift1.ID))
	require.ErrorIs(t, shiftRepo.Lock(ctx, testutil.Shift1.ID), repository.ErrAlreadyLocked)

	require.NoError(t, shiftRepo.CancelAllByMission(ctx, testutil.Mission1.ID))
	require.ErrorIs(t, shiftRepo.Lock(ctx, testutil.Shift2.ID), repository.ErrShiftCanceled)
}

func Test_shiftRepository_CancelAllByMission(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	shiftRepo := repository.NewShiftRepository()

	require.NoError(t, shiftRepo.Lock(ctx, testutil.Shift1.ID))
	require.NoError(t, shiftRepo.CancelAllByMission(ctx, testutil.Mission1.ID))

	shifts, err := shiftRepo.GetByMissionID(ctx, testutil.Mission1.ID)
	require.NoError(t, err)
	require.Len(t, shifts, 3)
	for _, shift := range shifts {
		require.Equal(t, entity.ShiftCanceled, shift.Status)
	}
}
