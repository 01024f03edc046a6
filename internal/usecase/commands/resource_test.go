//go:build unit

package commands_test

import (
	"context"
	"testing"

	"turf-booking/internal/domain/user"
	"turf-booking/internal/infra/memstore"
	"turf-booking/internal/pkg/clock"
	"turf-booking/internal/pkg/config"
	"turf-booking/internal/pkg/errs"
	"turf-booking/internal/usecase/commands"
	"turf-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func newResourceCommands(t *testing.T) (commands.ResourceCommands, queries.ResourceQueries, *memstore.Store) {
	t.Helper()
	store := memstore.New(discardLogger())
	cfg := config.NewTestConfig()
	return commands.NewResourceCommands(store, clock.NewMockClock(now), cfg, discardLogger()),
		queries.NewResourceQueries(store, cfg),
		store
}

func TestCreateResource(t *testing.T) {
	cmds, registry, _ := newResourceCommands(t)
	admin := mustActor(t, user.RoleAdmin)

	t.Run("基本成功ケース", func(t *testing.T) {
		view, err := cmds.CreateResource(context.Background(), admin, commands.CreateResourceParams{
			Name:       "Skyline Turf",
			Location:   "Indiranagar, Bengaluru",
			HourlyRate: "83.33",
		})
		require.NoError(t, err)
		assert.Equal(t, "83.33", view.HourlyRate)
		assert.False(t, view.CreatedAt.IsZero())

		exists, err := registry.Exists(context.Background(), view.ID)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("管理者以外NG", func(t *testing.T) {
		_, err := cmds.CreateResource(context.Background(), mustActor(t, user.RoleCustomer), commands.CreateResourceParams{
			Name: "X", Location: "Y", HourlyRate: "10",
		})
		require.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("入力不正", func(t *testing.T) {
		for _, p := range []commands.CreateResourceParams{
			{Name: "X", Location: "Y", HourlyRate: "10.001"},
			{Name: "X", Location: "Y", HourlyRate: "0"},
			{Name: "", Location: "Y", HourlyRate: "10"},
			{Name: "X", Location: "", HourlyRate: "10"},
		} {
			_, err := cmds.CreateResource(context.Background(), admin, p)
			require.ErrorIs(t, err, errs.ErrInvalidResource, "%+v", p)
		}
	})

	list, err := registry.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpdateResourceKeepsBookedCost(t *testing.T) {
	f := newFixture(t)
	cmds := commands.NewResourceCommands(f.store, f.clock, config.NewTestConfig(), discardLogger())

	booked, err := f.book(f.customer, "2025-07-15 10:00", 2)
	require.NoError(t, err)
	require.Equal(t, "100.00", booked.TotalCost)

	view, err := cmds.UpdateResource(context.Background(), f.admin, f.turf.ID(), commands.UpdateResourceParams{
		HourlyRate: ptr("75.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "75.00", view.HourlyRate)
	assert.Equal(t, "Green Field Arena", view.Name)

	list := f.persisted(t)
	require.Len(t, list, 1)
	assert.Equal(t, "100.00", list[0].TotalCost)

	next, err := f.book(f.customer, "2025-07-16 10:00", 2)
	require.NoError(t, err)
	assert.Equal(t, "150.00", next.TotalCost)
}

func TestUpdateResourceErrors(t *testing.T) {
	f := newFixture(t)
	cmds := commands.NewResourceCommands(f.store, f.clock, config.NewTestConfig(), discardLogger())

	_, err := cmds.UpdateResource(context.Background(), f.admin, uuid.New(), commands.UpdateResourceParams{Name: ptr("X")})
	require.ErrorIs(t, err, errs.ErrResourceNotFound)

	_, err = cmds.UpdateResource(context.Background(), f.admin, f.turf.ID(), commands.UpdateResourceParams{HourlyRate: ptr("-5")})
	require.ErrorIs(t, err, errs.ErrInvalidResource)

	_, err = cmds.UpdateResource(context.Background(), f.customer, f.turf.ID(), commands.UpdateResourceParams{Name: ptr("X")})
	require.ErrorIs(t, err, errs.ErrForbidden)
}

func TestDeleteResource(t *testing.T) {
	f := newFixture(t)
	cmds := commands.NewResourceCommands(f.store, f.clock, config.NewTestConfig(), discardLogger())

	booked, err := f.book(f.customer, "2025-07-15 10:00", 2)
	require.NoError(t, err)

	err = cmds.DeleteResource(context.Background(), f.admin, f.turf.ID())
	require.ErrorIs(t, err, errs.ErrResourceInUse)

	require.NoError(t, f.cmds.CancelBooking(context.Background(), f.customer, booked.ID))
	require.NoError(t, cmds.DeleteResource(context.Background(), f.admin, f.turf.ID()))

	err = cmds.DeleteResource(context.Background(), f.admin, f.turf.ID())
	require.ErrorIs(t, err, errs.ErrResourceNotFound)

	_, err = f.book(f.customer, "2025-07-15 10:00", 2)
	require.ErrorIs(t, err, errs.ErrResourceNotFound)
}
