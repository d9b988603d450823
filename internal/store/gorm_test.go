package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"moegraph/internal/models"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "store.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	st := NewGormStore(db)
	require.NoError(t, st.Migrate())
	return st
}

func TestPutNodeIsFullRecordUpsert(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	node := &models.Node{
		ID:        1,
		Name:      "甲",
		Tags:      models.RawList(`["吸血鬼"]`),
		Extension: models.IDList{2, 3},
		X:         1.5,
	}
	require.NoError(t, st.PutNode(ctx, node))

	// 同 ID 再写入等于整条覆盖
	node.Name = "乙"
	node.Extension = models.IDList{}
	require.NoError(t, st.PutNode(ctx, node))

	got, err := st.GetNode(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "乙", got.Name)
	assert.Empty(t, got.Extension)
	assert.Equal(t, 1.5, got.X)

	count, err := st.CountNodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGetNodeMissingReturnsNil(t *testing.T) {
	st := newTestStore(t)

	got, err := st.GetNode(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMaxNodeID(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	max, err := st.MaxNodeID(ctx)
	require.NoError(t, err)
	assert.Zero(t, max)

	require.NoError(t, st.PutNode(ctx, &models.Node{ID: 4, Name: "丁"}))
	require.NoError(t, st.PutNode(ctx, &models.Node{ID: 2, Name: "乙"}))

	max, err = st.MaxNodeID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(4), max)
}

func TestQuotaUpsert(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	rec, err := st.GetQuota(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, rec)

	require.NoError(t, st.SaveQuota(ctx, &models.QuotaRecord{UserID: "u1", LastResetDate: "2026-09-01", Adds: 1}))
	require.NoError(t, st.SaveQuota(ctx, &models.QuotaRecord{UserID: "u1", LastResetDate: "2026-09-01", Adds: 2}))

	rec, err = st.GetQuota(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 2, rec.Adds)
}

func TestApplicationUniquePerNode(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.CreateApplication(ctx, &models.Application{ID: "a1", NodeID: 7}))
	// node_id 唯一索引兜底，并发下重复申请也写不进去
	assert.Error(t, st.CreateApplication(ctx, &models.Application{ID: "a2", NodeID: 7}))

	app, err := st.GetNodeApplication(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, "a1", app.ID)

	require.NoError(t, st.DeleteApplication(ctx, "a1"))
	app, err = st.GetNodeApplication(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, app)
}
