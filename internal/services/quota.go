package services

import (
	"context"
	"fmt"
	"time"

	"moegraph/internal/models"
	"moegraph/internal/store"
)

// ActionKind 计入配额的操作类型
type ActionKind string

const (
	ActionAdd    ActionKind = "add"
	ActionEdit   ActionKind = "edit"
	ActionDelete ActionKind = "delete"
	ActionApply  ActionKind = "apply"
)

// Rollover 按日清零：记录上的日期与 today 不一致时全部计数归零。
// 纯函数，不依赖调度任务，任何入口读取配额前调用。
func Rollover(rec *models.QuotaRecord, today string) (changed bool) {
	if rec.LastResetDate == today {
		return false
	}
	rec.LastResetDate = today
	rec.Adds = 0
	rec.Edits = 0
	rec.Deletes = 0
	rec.Applies = 0
	return true
}

// QuotaLedger 每用户每日配额账本。
// 同一用户的 读取-清零-计数 序列按用户串行，避免并发丢写。
type QuotaLedger struct {
	store store.QuotaStore
	locks *keyedMutex

	// now 可在测试中替换以模拟跨日
	now func() time.Time
}

func NewQuotaLedger(s store.QuotaStore) *QuotaLedger {
	return &QuotaLedger{
		store: s,
		locks: newKeyedMutex(),
		now:   time.Now,
	}
}

func (q *QuotaLedger) today() string {
	return q.now().Format("2006-01-02")
}

// GetOrInit 取出用户配额记录，必要时先做按日清零并落库。
func (q *QuotaLedger) GetOrInit(ctx context.Context, userID string) (*models.QuotaRecord, error) {
	unlock := q.locks.lock(userID)
	defer unlock()
	return q.getOrInitLocked(ctx, userID)
}

func (q *QuotaLedger) getOrInitLocked(ctx context.Context, userID string) (*models.QuotaRecord, error) {
	today := q.today()

	rec, err := q.store.GetQuota(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = &models.QuotaRecord{UserID: userID, LastResetDate: today}
		if err := q.store.SaveQuota(ctx, rec); err != nil {
			return nil, err
		}
		return rec, nil
	}

	if Rollover(rec, today) {
		if err := q.store.SaveQuota(ctx, rec); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// Charge 给对应操作计数 +1。调用方保证此前 Authorize 已通过，
// 且一次用户操作只计一次。
func (q *QuotaLedger) Charge(ctx context.Context, userID string, action ActionKind) error {
	unlock := q.locks.lock(userID)
	defer unlock()

	rec, err := q.getOrInitLocked(ctx, userID)
	if err != nil {
		return err
	}

	switch action {
	case ActionAdd:
		rec.Adds++
	case ActionEdit:
		rec.Edits++
	case ActionDelete:
		rec.Deletes++
	case ActionApply:
		rec.Applies++
	default:
		return fmt.Errorf("unknown quota action %q", action)
	}
	return q.store.SaveQuota(ctx, rec)
}
