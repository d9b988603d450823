package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"moegraph/internal/models"
	"moegraph/internal/store"
)

// 审批动作，approve 以外的值一律按驳回处理
const ResolveApprove = "approve"

// ApplicationWorkflow 「设为知名形态」申请流程：
// 用户提交申请 → 管理员批准或驳回，两种结果都会移除待审条目。
type ApplicationWorkflow struct {
	store   store.Store
	graph   *GraphService
	guard   *PermissionGuard
	quota   *QuotaLedger
	history *HistoryLedger
}

func NewApplicationWorkflow(s store.Store, graph *GraphService, guard *PermissionGuard, quota *QuotaLedger, history *HistoryLedger) *ApplicationWorkflow {
	return &ApplicationWorkflow{
		store:   s,
		graph:   graph,
		guard:   guard,
		quota:   quota,
		history: history,
	}
}

// List 待审申请列表，管理员专用
func (w *ApplicationWorkflow) List(ctx context.Context, actor Identity) ([]models.Application, error) {
	if !w.guard.IsAdmin(actor.UserID) {
		return nil, ErrUnauthorized
	}
	return w.store.ListApplications(ctx)
}

// Propose 提交申请。同一节点已有待审申请时拒绝。
func (w *ApplicationWorkflow) Propose(ctx context.Context, actor Identity, nodeID uint) (*models.Application, error) {
	if actor.IsGuest() {
		return nil, ErrUnauthorized
	}
	if err := w.guard.Authorize(ctx, actor.UserID, ActionApply); err != nil {
		return nil, err
	}

	existing, err := w.store.GetNodeApplication(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("节点 %d %w", nodeID, ErrDuplicateApplication)
	}

	node, err := w.store.GetNode(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, fmt.Errorf("节点 %d %w", nodeID, ErrNotFound)
	}

	app := &models.Application{
		ID:       uuid.NewString(),
		NodeID:   node.ID,
		NodeName: node.Name,
		UserID:   actor.UserID,
		Nickname: actor.Nickname,
	}
	if err := w.store.CreateApplication(ctx, app); err != nil {
		return nil, err
	}

	w.recordHistory(ctx, actor, node.ID, node.Name, models.ActionApplyFamous)
	if !w.guard.IsAdmin(actor.UserID) {
		if err := w.quota.Charge(ctx, actor.UserID, ActionApply); err != nil {
			logrus.WithError(err).WithField("user_id", actor.UserID).Error("failed to charge quota")
		}
	}

	logrus.WithFields(logrus.Fields{"node_id": nodeID, "user_id": actor.UserID}).Info("famous application filed")
	return app, nil
}

// Resolve 管理员审批。action 为 approve 时给节点打上知名标记；
// 其他值按驳回处理。无论结果如何该申请都会从待审队列移除，
// 节点已不存在也照常移除。
func (w *ApplicationWorkflow) Resolve(ctx context.Context, actor Identity, appID, action string) error {
	if !w.guard.IsAdmin(actor.UserID) {
		return ErrUnauthorized
	}

	app, err := w.store.GetApplication(ctx, appID)
	if err != nil {
		return err
	}
	if app == nil {
		return fmt.Errorf("申请 %s %w", appID, ErrNotFound)
	}

	historyAction := models.ActionRejectFamous
	if action == ResolveApprove {
		historyAction = models.ActionApproveFamous
		if err := w.graph.markFamous(ctx, app.NodeID); err != nil {
			return err
		}
	}

	if err := w.store.DeleteApplication(ctx, app.ID); err != nil {
		return err
	}

	w.recordHistory(ctx, actor, app.NodeID, app.NodeName, historyAction)
	return nil
}

func (w *ApplicationWorkflow) recordHistory(ctx context.Context, actor Identity, nodeID uint, nodeName, action string) {
	entry := &models.HistoryEntry{
		UserID:   actor.UserID,
		Nickname: actor.Nickname,
		Role:     w.guard.RoleOf(actor.UserID),
		NodeID:   nodeID,
		NodeName: nodeName,
		Action:   action,
	}
	if err := w.history.Append(ctx, entry); err != nil {
		logrus.WithError(err).Error("failed to append history")
	}
}
