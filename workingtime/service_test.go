package workingtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/worktime-engine/core"
	"github.com/warp/worktime-engine/store/memory"
	"github.com/warp/worktime-engine/workingtime"
)

func newService(t *testing.T) (*workingtime.Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	svc := workingtime.NewService(store, nil).WithClock(func() time.Time {
		return time.Date(2024, time.February, 1, 12, 0, 0, 0, time.UTC)
	})
	return svc, store
}

func sixHours() map[time.Weekday]core.PlannedWorkingHours {
	return map[time.Weekday]core.PlannedWorkingHours{time.Monday: planned(6), time.Tuesday: planned(6)}
}

// =============================================================================
// CREATE
// =============================================================================

func TestService_Contracts_DefaultWhenEmpty(t *testing.T) {
	svc, _ := newService(t)

	contracts, err := svc.Contracts(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	assert.True(t, contracts[0].Default)
	assert.True(t, contracts[0].Current)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("dated contract needs an existing one", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.Create(ctx, workingtime.NewWorkingTime(alice, core.DatePtr(day("2024-01-10")), sixHours()))
		assert.ErrorIs(t, err, core.ErrInvalidWorkingTime)
	})

	t.Run("second open start is rejected", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.EnsureDefault(ctx, alice)
		require.NoError(t, err)

		_, err = svc.Create(ctx, workingtime.NewWorkingTime(alice, nil, sixHours()))
		assert.ErrorIs(t, err, core.ErrInvalidWorkingTime)
	})

	t.Run("duplicate start is rejected", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.EnsureDefault(ctx, alice)
		require.NoError(t, err)
		_, err = svc.Create(ctx, workingtime.NewWorkingTime(alice, core.DatePtr(day("2024-01-10")), sixHours()))
		require.NoError(t, err)

		_, err = svc.Create(ctx, workingtime.NewWorkingTime(alice, core.DatePtr(day("2024-01-10")), sixHours()))
		assert.ErrorIs(t, err, core.ErrInvalidWorkingTime)
	})

	t.Run("contracts are listed newest first", func(t *testing.T) {
		svc, _ := newService(t)
		first, err := svc.EnsureDefault(ctx, alice)
		require.NoError(t, err)
		second, err := svc.Create(ctx, workingtime.NewWorkingTime(alice, core.DatePtr(day("2024-01-10")), sixHours()))
		require.NoError(t, err)
		assert.True(t, second.Current)

		contracts, err := svc.Contracts(ctx, alice)
		require.NoError(t, err)
		require.Len(t, contracts, 2)
		assert.Equal(t, second.ID, contracts[0].ID)
		assert.Equal(t, first.ID, contracts[1].ID)
		assert.Equal(t, "2024-01-09", core.FormatOptional(contracts[1].ValidTo))
		assert.False(t, contracts[1].Current)
	})
}

func TestService_EnsureDefault_IsIdempotent(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	first, err := svc.EnsureDefault(ctx, alice)
	require.NoError(t, err)
	again, err := svc.EnsureDefault(ctx, alice)
	require.NoError(t, err)

	assert.Equal(t, first.ID, again.ID)
	stored, err := store.FindWorkingTimes(ctx, []core.PersonID{alice})
	require.NoError(t, err)
	assert.Len(t, stored[alice], 1)
}

// =============================================================================
// UPDATE
// =============================================================================

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("open start ignores a new validFrom", func(t *testing.T) {
		svc, _ := newService(t)
		first, err := svc.EnsureDefault(ctx, alice)
		require.NoError(t, err)

		updated, err := svc.Update(ctx, first.ID, workingtime.WorkWeekUpdate{
			ValidFrom: core.DatePtr(day("2023-01-01")),
			Workdays:  sixHours(),
		})
		require.NoError(t, err)
		assert.Nil(t, updated.ValidFrom)
		assert.Equal(t, planned(12), updated.WeeklyHours())
	})

	t.Run("dated contract moves", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.EnsureDefault(ctx, alice)
		require.NoError(t, err)
		second, err := svc.Create(ctx, workingtime.NewWorkingTime(alice, core.DatePtr(day("2024-01-10")), sixHours()))
		require.NoError(t, err)

		updated, err := svc.Update(ctx, second.ID, workingtime.WorkWeekUpdate{
			ValidFrom:    core.DatePtr(day("2024-03-01")),
			Workdays:     sixHours(),
			FederalState: core.GermanyBerlin,
		})
		require.NoError(t, err)
		assert.Equal(t, "2024-03-01", core.FormatOptional(updated.ValidFrom))
		assert.Equal(t, core.GermanyBerlin, updated.FederalState)
		assert.False(t, updated.Current)
	})

	t.Run("dated contract without validFrom fails", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.EnsureDefault(ctx, alice)
		require.NoError(t, err)
		second, err := svc.Create(ctx, workingtime.NewWorkingTime(alice, core.DatePtr(day("2024-01-10")), sixHours()))
		require.NoError(t, err)

		_, err = svc.Update(ctx, second.ID, workingtime.WorkWeekUpdate{Workdays: sixHours()})
		assert.ErrorIs(t, err, core.ErrInvalidWorkingTime)
	})

	t.Run("unknown contract", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.Update(ctx, "missing", workingtime.WorkWeekUpdate{})
		assert.ErrorIs(t, err, core.ErrInvalidWorkingTime)
		assert.ErrorIs(t, err, core.ErrWorkingTimeNotFound)
	})
}

// =============================================================================
// DELETE
// =============================================================================

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	first, err := svc.EnsureDefault(ctx, alice)
	require.NoError(t, err)
	past, err := svc.Create(ctx, workingtime.NewWorkingTime(alice, core.DatePtr(day("2024-01-10")), sixHours()))
	require.NoError(t, err)
	future, err := svc.Create(ctx, workingtime.NewWorkingTime(alice, core.DatePtr(day("2025-01-01")), sixHours()))
	require.NoError(t, err)

	// The open start is never deleted
	deleted, err := svc.Delete(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	// Later contracts are, past or future
	deleted, err = svc.Delete(ctx, future.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = svc.Delete(ctx, past.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	contracts, err := svc.Contracts(ctx, alice)
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	assert.Equal(t, first.ID, contracts[0].ID)

	_, err = svc.Delete(ctx, past.ID)
	assert.True(t, core.IsNotFound(err))
}

func TestService_ContractsByPersons(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	_, err := svc.EnsureDefault(ctx, alice)
	require.NoError(t, err)
	second, err := svc.Create(ctx, workingtime.NewWorkingTime(alice, core.DatePtr(day("2024-01-10")), sixHours()))
	require.NoError(t, err)

	byPerson, err := svc.ContractsByPersons(ctx, []core.PersonID{alice, "bob"}, core.DateRange{From: day("2024-02-01"), ToExclusive: day("2024-03-01")})
	require.NoError(t, err)

	require.Len(t, byPerson[alice], 1)
	assert.Equal(t, second.ID, byPerson[alice][0].ID)
	require.Len(t, byPerson["bob"], 1)
	assert.True(t, byPerson["bob"][0].Default)
}
