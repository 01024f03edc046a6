//go:build unit

package user_test

import (
	"testing"

	"turf-booking/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name  string
	id    uuid.UUID
	role  string
	errIs error
}

func TestActor(t *testing.T) {
	t.Run("基本成功ケース", func(t *testing.T) {
		id := uuid.New()
		actor, err := user.NewActor(id, user.RoleCustomer)
		require.NoError(t, err)

		assert.Equal(t, id, actor.ID())
		assert.Equal(t, user.RoleCustomer, actor.Role())
		assert.False(t, actor.IsAdmin())
	})

	t.Run("ロール検証", func(t *testing.T) {
		runCases(t, []testCase{
			{name: "ADMIN ロールOK", id: uuid.New(), role: "ADMIN"},
			{name: "CUSTOMER ロールOK", id: uuid.New(), role: "CUSTOMER"},
			{name: "小文字ロールNG", id: uuid.New(), role: "admin", errIs: user.ErrInvalidRole},
			{name: "無効なロールNG", id: uuid.New(), role: "operator", errIs: user.ErrInvalidRole},
			{name: "空のロールNG", id: uuid.New(), role: "", errIs: user.ErrInvalidRole},
		})
	})

	t.Run("ID検証", func(t *testing.T) {
		runCases(t, []testCase{
			{name: "空のIDNG", id: uuid.Nil, role: "CUSTOMER", errIs: user.ErrInvalidActorID},
		})
	})
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			role, err := user.NewRole(c.role)
			if err == nil {
				_, err = user.NewActor(c.id, role)
			}

			if c.errIs == nil {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
