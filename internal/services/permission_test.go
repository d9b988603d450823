package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allActions = []ActionKind{ActionAdd, ActionEdit, ActionDelete, ActionApply}

func TestGuestNeverAuthorized(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, action := range allActions {
		assert.ErrorIs(t, env.guard.Authorize(ctx, GuestUserID, action), ErrUnauthorized)
		assert.ErrorIs(t, env.guard.Authorize(ctx, "", action), ErrUnauthorized)
	}
}

func TestAdminAlwaysAuthorized(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, action := range allActions {
		assert.NoError(t, env.guard.Authorize(ctx, testAdminID, action))
	}
}

func TestUserAuthorizedUntilLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// delete 每日 1 次
	require.NoError(t, env.guard.Authorize(ctx, testUser.UserID, ActionDelete))
	require.NoError(t, env.quota.Charge(ctx, testUser.UserID, ActionDelete))

	err := env.guard.Authorize(ctx, testUser.UserID, ActionDelete)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Contains(t, err.Error(), "1")

	// 其他动作不受影响
	assert.NoError(t, env.guard.Authorize(ctx, testUser.UserID, ActionAdd))
}

func TestRoleOf(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, RoleVisitor, env.guard.RoleOf(GuestUserID))
	assert.Equal(t, RoleVisitor, env.guard.RoleOf(""))
	assert.Equal(t, RoleAdmin, env.guard.RoleOf(testAdminID))
	assert.Equal(t, RoleUser, env.guard.RoleOf(testUser.UserID))
}
