package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"moegraph/internal/models"
	"moegraph/internal/store"
)

// 查询窗口：全局最近 100 条，单节点最近 10 条
const (
	historyGlobalLimit = 100
	historyNodeLimit   = 10
)

// HistoryLedger 操作记录账本，只追加
type HistoryLedger struct {
	store store.HistoryStore
}

func NewHistoryLedger(s store.HistoryStore) *HistoryLedger {
	return &HistoryLedger{store: s}
}

// Append 写入一条操作记录
func (h *HistoryLedger) Append(ctx context.Context, entry *models.HistoryEntry) error {
	if err := h.store.AppendHistory(ctx, entry); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"user_id": entry.UserID,
		"node_id": entry.NodeID,
		"action":  entry.Action,
	}).Info("history recorded")
	return nil
}

// Recent 全局最近记录，新的在前
func (h *HistoryLedger) Recent(ctx context.Context) ([]models.HistoryEntry, error) {
	return h.store.RecentHistory(ctx, historyGlobalLimit)
}

// RecentForNode 指定节点的最近记录，新的在前
func (h *HistoryLedger) RecentForNode(ctx context.Context, nodeID uint) ([]models.HistoryEntry, error) {
	return h.store.RecentNodeHistory(ctx, nodeID, historyNodeLimit)
}
