package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moegraph/internal/models"
)

func TestRolloverPureFunction(t *testing.T) {
	rec := &models.QuotaRecord{
		UserID:        "u1",
		LastResetDate: "2026-08-31",
		Adds:          7,
		Edits:         3,
		Deletes:       1,
		Applies:       1,
	}

	assert.False(t, Rollover(rec, "2026-08-31"), "同一天不清零")
	assert.Equal(t, 7, rec.Adds)

	assert.True(t, Rollover(rec, "2026-09-01"))
	assert.Equal(t, "2026-09-01", rec.LastResetDate)
	assert.Zero(t, rec.Adds)
	assert.Zero(t, rec.Edits)
	assert.Zero(t, rec.Deletes)
	assert.Zero(t, rec.Applies)
}

func TestLedgerRollsOverOnDateChange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	day1 := time.Date(2026, 8, 31, 15, 0, 0, 0, time.Local)
	env.setClock(day1)

	require.NoError(t, env.quota.Charge(ctx, testUser.UserID, ActionAdd))
	require.NoError(t, env.quota.Charge(ctx, testUser.UserID, ActionDelete))

	rec, err := env.quota.GetOrInit(ctx, testUser.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Adds)
	assert.Equal(t, 1, rec.Deletes)

	// 跨日后第一次读取即清零，不依赖定时任务
	env.setClock(day1.Add(24 * time.Hour))
	rec, err = env.quota.GetOrInit(ctx, testUser.UserID)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01", rec.LastResetDate)
	assert.Zero(t, rec.Adds)
	assert.Zero(t, rec.Deletes)
}

func TestChargeCountsPerAction(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.quota.Charge(ctx, testUser.UserID, ActionAdd))
	require.NoError(t, env.quota.Charge(ctx, testUser.UserID, ActionAdd))
	require.NoError(t, env.quota.Charge(ctx, testUser.UserID, ActionEdit))
	require.NoError(t, env.quota.Charge(ctx, testUser.UserID, ActionApply))

	rec, err := env.quota.GetOrInit(ctx, testUser.UserID)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Adds)
	assert.Equal(t, 1, rec.Edits)
	assert.Zero(t, rec.Deletes)
	assert.Equal(t, 1, rec.Applies)
}

func TestAdminNeverGetsQuotaRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.graph.CreateNode(ctx, testAdmin, namedInput("管理员建的"), nil, 0)
	require.NoError(t, err)
	require.NoError(t, env.graph.DeleteNode(ctx, testAdmin, 1))

	// 管理员既不被扣减也不会生成配额记录
	rec, err := env.store.GetQuota(ctx, testAdmin.UserID)
	require.NoError(t, err)
	assert.Nil(t, rec)
}
