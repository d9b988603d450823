package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"moegraph/internal/assets"
	"moegraph/internal/models"
	"moegraph/internal/store"
)

const nodeListCacheKey = "nodes:all"

// NodeInput 创建/编辑节点时客户端提交的可写字段
type NodeInput struct {
	Name         string
	Introduction string
	Source       models.RawList
	Related      models.RawList
	Tags         models.RawList
	Extension    models.IDList
	X            float64
	Y            float64
}

// Upload 待保存的上传图片
type Upload struct {
	Filename string
	Reader   io.Reader
}

// GraphService 节点图谱的编排层，唯一的变更入口。
// 锁策略：同一节点的读-改-写按节点串行；删除要扫全图清引用，
// 和新增/编辑互斥（graphMu 写锁）；新增要取 max(id)+1，同样拿写锁。
type GraphService struct {
	store   store.Store
	assets  assets.Store
	guard   *PermissionGuard
	quota   *QuotaLedger
	history *HistoryLedger
	cache   *Cache

	nodeLocks *keyedMutex
	graphMu   sync.RWMutex
}

func NewGraphService(s store.Store, a assets.Store, guard *PermissionGuard, quota *QuotaLedger, history *HistoryLedger, cache *Cache) *GraphService {
	return &GraphService{
		store:     s,
		assets:    a,
		guard:     guard,
		quota:     quota,
		history:   history,
		cache:     cache,
		nodeLocks: newKeyedMutex(),
	}
}

// ListNodes 返回全部节点。只读，不走权限
func (g *GraphService) ListNodes(ctx context.Context) ([]models.Node, error) {
	if cached := g.cache.Get(nodeListCacheKey); cached != nil {
		if nodes, ok := cached.([]models.Node); ok {
			return nodes, nil
		}
	}

	nodes, err := g.store.ListNodes(ctx)
	if err != nil {
		return nil, err
	}
	g.cache.Set(nodeListCacheKey, nodes, time.Minute)
	return nodes, nil
}

// GetNode 按 ID 取节点
func (g *GraphService) GetNode(ctx context.Context, id uint) (*models.Node, error) {
	node, err := g.store.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, fmt.Errorf("节点 %d %w", id, ErrNotFound)
	}
	return node, nil
}

// CreateNode 新增节点。parentID 非 0 且存在时，把新节点挂到其 extension 下。
// 父节点和新节点是两次独立写入，中间崩溃会留下无回链的父节点，读端视为「尚未挂接」。
func (g *GraphService) CreateNode(ctx context.Context, actor Identity, in NodeInput, upload *Upload, parentID uint) (*models.Node, error) {
	if actor.IsGuest() {
		return nil, ErrUnauthorized
	}
	if err := g.guard.Authorize(ctx, actor.UserID, ActionAdd); err != nil {
		return nil, err
	}

	g.graphMu.Lock()
	defer g.graphMu.Unlock()

	maxID, err := g.store.MaxNodeID(ctx)
	if err != nil {
		return nil, err
	}
	newID := maxID + 1

	imageURL := ""
	if upload != nil {
		imageURL, err = g.assets.Save(upload.Filename, upload.Reader)
		if err != nil {
			return nil, err
		}
	}

	node := &models.Node{
		ID:           newID,
		Name:         in.Name,
		Introduction: in.Introduction,
		Image:        imageURL,
		Source:       in.Source,
		Related:      in.Related,
		Tags:         in.Tags,
		Extension:    in.Extension,
		X:            in.X,
		Y:            in.Y,
	}
	if node.Extension == nil {
		node.Extension = models.IDList{}
	}

	if parentID != 0 {
		parent, err := g.store.GetNode(ctx, parentID)
		if err != nil {
			return nil, err
		}
		// 父节点不存在时按无父处理，不报错
		if parent != nil && !parent.Extension.Contains(newID) {
			parent.Extension = append(parent.Extension, newID)
			if err := g.store.PutNode(ctx, parent); err != nil {
				return nil, err
			}
		}
	}

	if err := g.store.PutNode(ctx, node); err != nil {
		return nil, err
	}

	g.recordHistory(ctx, actor, node.ID, node.Name, models.ActionAdd)
	g.chargeQuota(ctx, actor.UserID, ActionAdd)
	g.cache.Delete(nodeListCacheKey)

	logrus.WithFields(logrus.Fields{"node_id": node.ID, "user_id": actor.UserID}).Info("node created")
	return node, nil
}

// UpdateNode 整体覆盖可写字段，不做合并，客户端须回传未改动的字段。
// 换图时先尽力删掉旧图，删除失败不阻断更新。
func (g *GraphService) UpdateNode(ctx context.Context, actor Identity, id uint, in NodeInput, upload *Upload) (*models.Node, error) {
	if actor.IsGuest() {
		return nil, ErrUnauthorized
	}
	if err := g.guard.Authorize(ctx, actor.UserID, ActionEdit); err != nil {
		return nil, err
	}

	g.graphMu.RLock()
	defer g.graphMu.RUnlock()
	unlock := g.nodeLocks.lock(nodeKey(id))
	defer unlock()

	node, err := g.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}

	if upload != nil {
		if err := g.assets.Delete(node.Image); err != nil {
			logrus.WithError(err).WithField("image", node.Image).Warn("failed to remove old image")
		}
		newURL, err := g.assets.Save(upload.Filename, upload.Reader)
		if err != nil {
			return nil, err
		}
		node.Image = newURL
	}

	node.Name = in.Name
	node.Introduction = in.Introduction
	node.Source = in.Source
	node.Related = in.Related
	node.Tags = in.Tags
	node.Extension = in.Extension
	if node.Extension == nil {
		node.Extension = models.IDList{}
	}

	if err := g.store.PutNode(ctx, node); err != nil {
		return nil, err
	}

	g.recordHistory(ctx, actor, node.ID, node.Name, models.ActionEdit)
	g.chargeQuota(ctx, actor.UserID, ActionEdit)
	g.cache.Delete(nodeListCacheKey)
	return node, nil
}

// UpdateNodePosition 管理员专用：覆盖画布坐标。
// 记一条 edit 操作记录，不扣配额。
func (g *GraphService) UpdateNodePosition(ctx context.Context, actor Identity, id uint, x, y float64) (*models.Node, error) {
	if !g.guard.IsAdmin(actor.UserID) {
		return nil, ErrUnauthorized
	}

	g.graphMu.RLock()
	defer g.graphMu.RUnlock()
	unlock := g.nodeLocks.lock(nodeKey(id))
	defer unlock()

	node, err := g.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}

	node.X = x
	node.Y = y
	if err := g.store.PutNode(ctx, node); err != nil {
		return nil, err
	}

	g.recordHistory(ctx, actor, node.ID, node.Name, models.ActionEdit)
	g.cache.Delete(nodeListCacheKey)
	return node, nil
}

// DeleteNode 删除节点。校验顺序：存在 → 无子形态 → 非受保护的根。
// 然后清掉其他节点 extension 里的引用，删图片，删记录。
func (g *GraphService) DeleteNode(ctx context.Context, actor Identity, id uint) error {
	if actor.IsGuest() {
		return ErrUnauthorized
	}
	if err := g.guard.Authorize(ctx, actor.UserID, ActionDelete); err != nil {
		return err
	}

	// 写锁：引用清理要扫全图，不能和并发新增回链交错
	g.graphMu.Lock()
	defer g.graphMu.Unlock()

	node, err := g.GetNode(ctx, id)
	if err != nil {
		return err
	}

	if len(node.Extension) > 0 {
		return fmt.Errorf("「%s」%w（%d 个）", node.Name, ErrHasDescendants, len(node.Extension))
	}

	if id == models.RootNodeID {
		count, err := g.store.CountNodes(ctx)
		if err != nil {
			return err
		}
		if count > 1 {
			return ErrRootProtected
		}
	}

	// 清理其他节点对该节点的引用，只回写有改动的
	nodes, err := g.store.ListNodes(ctx)
	if err != nil {
		return err
	}
	for i := range nodes {
		other := &nodes[i]
		if other.ID == id {
			continue
		}
		if trimmed, changed := other.Extension.Without(id); changed {
			other.Extension = trimmed
			if err := g.store.PutNode(ctx, other); err != nil {
				return err
			}
		}
	}

	if err := g.assets.Delete(node.Image); err != nil {
		logrus.WithError(err).WithField("image", node.Image).Warn("failed to remove node image")
	}

	if err := g.store.DeleteNode(ctx, id); err != nil {
		return err
	}

	g.recordHistory(ctx, actor, id, node.Name, models.ActionDelete)
	g.chargeQuota(ctx, actor.UserID, ActionDelete)
	g.cache.Delete(nodeListCacheKey)

	logrus.WithFields(logrus.Fields{"node_id": id, "user_id": actor.UserID}).Info("node deleted")
	return nil
}

// SetFamous 管理员专用：绕过申请流程直接设置知名标记
func (g *GraphService) SetFamous(ctx context.Context, actor Identity, id uint, isFamous bool) (*models.Node, error) {
	if !g.guard.IsAdmin(actor.UserID) {
		return nil, ErrUnauthorized
	}

	g.graphMu.RLock()
	defer g.graphMu.RUnlock()
	unlock := g.nodeLocks.lock(nodeKey(id))
	defer unlock()

	node, err := g.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}

	node.IsFamous = isFamous
	if err := g.store.PutNode(ctx, node); err != nil {
		return nil, err
	}

	g.recordHistory(ctx, actor, node.ID, node.Name, models.ActionEdit)
	g.cache.Delete(nodeListCacheKey)
	return node, nil
}

// markFamous 审批通过时由申请流程调用。节点已被删除则静默跳过，
// 申请照常收尾。
func (g *GraphService) markFamous(ctx context.Context, id uint) error {
	g.graphMu.RLock()
	defer g.graphMu.RUnlock()
	unlock := g.nodeLocks.lock(nodeKey(id))
	defer unlock()

	node, err := g.store.GetNode(ctx, id)
	if err != nil {
		return err
	}
	if node == nil {
		return nil
	}

	node.IsFamous = true
	if err := g.store.PutNode(ctx, node); err != nil {
		return err
	}
	g.cache.Delete(nodeListCacheKey)
	return nil
}

func (g *GraphService) recordHistory(ctx context.Context, actor Identity, nodeID uint, nodeName, action string) {
	entry := &models.HistoryEntry{
		UserID:   actor.UserID,
		Nickname: actor.Nickname,
		Role:     g.guard.RoleOf(actor.UserID),
		NodeID:   nodeID,
		NodeName: nodeName,
		Action:   action,
	}
	if err := g.history.Append(ctx, entry); err != nil {
		logrus.WithError(err).Error("failed to append history")
	}
}

// chargeQuota 操作成功后扣减配额，管理员不扣
func (g *GraphService) chargeQuota(ctx context.Context, userID string, action ActionKind) {
	if g.guard.IsAdmin(userID) {
		return
	}
	if err := g.quota.Charge(ctx, userID, action); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("failed to charge quota")
	}
}

func nodeKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
