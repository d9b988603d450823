package services

import (
	"errors"
	"fmt"
)

// 服务层错误分类，handler 据此映射 HTTP 状态码。
// 错误文案直接面向前端展示，带上下文时用 fmt.Errorf("...%w") 组合。
var (
	// ErrUnauthorized 游客发起变更，或非管理员调用管理员接口
	ErrUnauthorized = errors.New("权限不足")
	// ErrQuotaExceeded 当日配额已用完（具体上限见 QuotaExceededError）
	ErrQuotaExceeded = errors.New("今日操作次数已达上限")
	// ErrNotFound 节点或申请不存在
	ErrNotFound = errors.New("不存在")
	// ErrHasDescendants 节点还有子形态，不能删除
	ErrHasDescendants = errors.New("仍有子形态，不能删除")
	// ErrRootProtected 尚有其他节点时根节点不可删除
	ErrRootProtected = errors.New("其他节点存在时不能删除根节点")
	// ErrDuplicateApplication 该节点已有待审申请
	ErrDuplicateApplication = errors.New("已有待审申请")
)

// QuotaExceededError 配额用尽，文案带上具体操作和每日上限
type QuotaExceededError struct {
	Action ActionKind
	Limit  int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("今日%s次数已达上限（每日 %d 次）", actionLabel(e.Action), e.Limit)
}

// Is 让 errors.Is(err, ErrQuotaExceeded) 成立
func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

func actionLabel(action ActionKind) string {
	switch action {
	case ActionAdd:
		return "新增"
	case ActionEdit:
		return "修改"
	case ActionDelete:
		return "删除"
	case ActionApply:
		return "申请"
	}
	return "操作"
}
