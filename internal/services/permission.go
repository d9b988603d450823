package services

import (
	"context"
	"fmt"

	"moegraph/internal/config"
)

// 用户角色
const (
	RoleAdmin   = "admin"
	RoleUser    = "user"
	RoleVisitor = "visitor"
)

// PermissionGuard 变更操作的准入判断：
// 游客一律拒绝；管理员无条件放行且不查配额；普通用户看当日配额。
type PermissionGuard struct {
	admins map[string]bool
	quota  *QuotaLedger
	limits config.QuotaLimits
}

func NewPermissionGuard(adminIDs []string, quota *QuotaLedger, limits config.QuotaLimits) *PermissionGuard {
	admins := make(map[string]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}
	return &PermissionGuard{admins: admins, quota: quota, limits: limits}
}

// IsAdmin reports whether userID is in the admin set.
func (g *PermissionGuard) IsAdmin(userID string) bool {
	return g.admins[userID]
}

// RoleOf returns the display role for a user id.
func (g *PermissionGuard) RoleOf(userID string) string {
	switch {
	case userID == "" || userID == GuestUserID:
		return RoleVisitor
	case g.admins[userID]:
		return RoleAdmin
	default:
		return RoleUser
	}
}

// Limit returns the configured daily limit for an action kind.
func (g *PermissionGuard) Limit(action ActionKind) int {
	switch action {
	case ActionAdd:
		return g.limits.Add
	case ActionEdit:
		return g.limits.Edit
	case ActionDelete:
		return g.limits.Delete
	case ActionApply:
		return g.limits.Apply
	}
	return 0
}

// Authorize 判断 userID 是否可以执行 action。
// 通过返回 nil；否则返回 ErrUnauthorized 或 ErrQuotaExceeded。
// 只做判断不计数，实际扣减由操作成功后的 Charge 完成。
func (g *PermissionGuard) Authorize(ctx context.Context, userID string, action ActionKind) error {
	if userID == "" || userID == GuestUserID {
		return ErrUnauthorized
	}
	if g.admins[userID] {
		return nil
	}

	rec, err := g.quota.GetOrInit(ctx, userID)
	if err != nil {
		return err
	}

	var used int
	switch action {
	case ActionAdd:
		used = rec.Adds
	case ActionEdit:
		used = rec.Edits
	case ActionDelete:
		used = rec.Deletes
	case ActionApply:
		used = rec.Applies
	default:
		return fmt.Errorf("unknown action %q: %w", action, ErrUnauthorized)
	}

	if limit := g.Limit(action); used >= limit {
		return &QuotaExceededError{Action: action, Limit: limit}
	}
	return nil
}
