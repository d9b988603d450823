package middleware

import (
	"github.com/gin-gonic/gin"

	"moegraph/internal/services"
)

const IdentityKey = "identity"

// LoadIdentity 从请求参数里取出操作者身份。
// 前端在表单或查询串里带 user_id / nickname，未登录时为 guest。
// 身份的真实性由 OAuth 回调时下发的参数保证（会话加密不在本服务范围内）。
func LoadIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.PostForm("user_id")
		if userID == "" {
			userID = c.Query("user_id")
		}
		if userID == "" {
			userID = services.GuestUserID
		}

		nickname := c.PostForm("nickname")
		if nickname == "" {
			nickname = c.Query("nickname")
		}
		if nickname == "" {
			nickname = "游客"
		}

		c.Set(IdentityKey, services.Identity{UserID: userID, Nickname: nickname})
		c.Next()
	}
}

// CurrentIdentity returns the actor set by LoadIdentity.
func CurrentIdentity(c *gin.Context) services.Identity {
	if v, ok := c.Get(IdentityKey); ok {
		if id, ok := v.(services.Identity); ok {
			return id
		}
	}
	return services.Identity{UserID: services.GuestUserID, Nickname: "游客"}
}
