package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"moegraph/internal/middleware"
	"moegraph/internal/services"
)

type UserHandler struct {
	guard *services.PermissionGuard
	quota *services.QuotaLedger
}

func NewUserHandler(guard *services.PermissionGuard, quota *services.QuotaLedger) *UserHandler {
	return &UserHandler{guard: guard, quota: quota}
}

// Info 当前用户信息 (GET /api/user/info)。
// 读取配额时顺带完成按日清零。管理员不维护配额记录，不返回 quota。
func (h *UserHandler) Info(c *gin.Context) {
	actor := middleware.CurrentIdentity(c)
	if actor.IsGuest() {
		c.JSON(http.StatusOK, gin.H{
			"logged_in": false,
			"role":      services.RoleVisitor,
		})
		return
	}

	resp := gin.H{
		"logged_in": true,
		"user_id":   actor.UserID,
		"nickname":  actor.Nickname,
		"role":      h.guard.RoleOf(actor.UserID),
	}

	if !h.guard.IsAdmin(actor.UserID) {
		quota, err := h.quota.GetOrInit(c.Request.Context(), actor.UserID)
		if err != nil {
			renderError(c, err)
			return
		}
		resp["quota"] = quota
	}

	c.JSON(http.StatusOK, resp)
}
