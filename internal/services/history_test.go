package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moegraph/internal/models"
)

func appendEntries(t *testing.T, env *testEnv, n int, nodeID uint) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		err := env.history.Append(ctx, &models.HistoryEntry{
			UserID:   testUser.UserID,
			Nickname: testUser.Nickname,
			Role:     RoleUser,
			NodeID:   nodeID,
			NodeName: fmt.Sprintf("节点%d-%d", nodeID, i),
			Action:   models.ActionEdit,
		})
		require.NoError(t, err)
	}
}

func TestGlobalHistoryWindow(t *testing.T) {
	env := newTestEnv(t)

	appendEntries(t, env, 105, 1)

	entries, err := env.history.Recent(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 100)
	// 新的在前：第一条是第 105 次写入
	assert.Equal(t, "节点1-104", entries[0].NodeName)
	assert.Equal(t, "节点1-5", entries[99].NodeName)
}

func TestNodeHistoryWindow(t *testing.T) {
	env := newTestEnv(t)

	// 两个节点的记录交错写入
	appendEntries(t, env, 8, 7)
	appendEntries(t, env, 5, 3)
	appendEntries(t, env, 7, 7)

	entries, err := env.history.RecentForNode(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, entries, 10)
	for _, e := range entries {
		assert.Equal(t, uint(7), e.NodeID)
	}
	assert.Equal(t, "节点7-6", entries[0].NodeName)
}

func TestMutationsRecordHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.graph.CreateNode(ctx, testUser, namedInput("甲"), nil, 0)
	require.NoError(t, err)
	_, err = env.graph.UpdateNode(ctx, testUser, 1, namedInput("乙"), nil)
	require.NoError(t, err)
	require.NoError(t, env.graph.DeleteNode(ctx, testAdmin, 1))

	entries, err := env.history.Recent(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, models.ActionDelete, entries[0].Action)
	assert.Equal(t, "乙", entries[0].NodeName) // 删除记的是删前名字
	assert.Equal(t, RoleAdmin, entries[0].Role)
	assert.Equal(t, models.ActionEdit, entries[1].Action)
	assert.Equal(t, models.ActionAdd, entries[2].Action)
	assert.Equal(t, RoleUser, entries[2].Role)
	assert.Equal(t, testUser.Nickname, entries[2].Nickname)
}
