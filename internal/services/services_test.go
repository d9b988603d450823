package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"moegraph/internal/assets"
	"moegraph/internal/config"
	"moegraph/internal/store"
)

const (
	testAdminID = "1173408"
)

var (
	testUser  = Identity{UserID: "284901", Nickname: "小明"}
	testAdmin = Identity{UserID: testAdminID, Nickname: "管理员"}
	testGuest = Identity{UserID: GuestUserID, Nickname: "游客"}
)

type testEnv struct {
	store   *store.GormStore
	assets  *assets.DiskStore
	quota   *QuotaLedger
	guard   *PermissionGuard
	history *HistoryLedger
	graph   *GraphService
	apps    *ApplicationWorkflow
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "moegraph.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	st := store.NewGormStore(db)
	require.NoError(t, st.Migrate())

	assetStore, err := assets.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	cache, err := NewCache(16)
	require.NoError(t, err)

	quota := NewQuotaLedger(st)
	guard := NewPermissionGuard([]string{testAdminID}, quota, config.QuotaLimits{
		Add: 10, Edit: 10, Delete: 1, Apply: 1,
	})
	history := NewHistoryLedger(st)
	graph := NewGraphService(st, assetStore, guard, quota, history, cache)

	return &testEnv{
		store:   st,
		assets:  assetStore,
		quota:   quota,
		guard:   guard,
		history: history,
		graph:   graph,
		apps:    NewApplicationWorkflow(st, graph, guard, quota, history),
	}
}

// setClock 固定账本时钟，用于模拟跨日
func (e *testEnv) setClock(day time.Time) {
	e.quota.now = func() time.Time { return day }
}

func namedInput(name string) NodeInput {
	return NodeInput{Name: name}
}
