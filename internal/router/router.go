package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"moegraph/internal/config"
	"moegraph/internal/handlers"
	"moegraph/internal/middleware"
)

// Handlers 路由用到的全部 handler
type Handlers struct {
	Auth        *handlers.AuthHandler
	Node        *handlers.NodeHandler
	History     *handlers.HistoryHandler
	Application *handlers.ApplicationHandler
	User        *handlers.UserHandler
}

// Setup 组装路由。imagesDir 挂到 /images 下直接走静态文件。
func Setup(cfg *config.Config, h Handlers, imagesDir string) *gin.Engine {
	r := gin.Default()

	// 前端是独立部署的 SPA，跨域放开
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowCredentials = false
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsCfg))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("moegraph_session", store))

	r.Use(middleware.LoadIdentity())

	r.Static("/images", imagesDir)

	api := r.Group("/api")
	{
		api.GET("/auth/login", h.Auth.Login)
		api.GET("/auth/callback", h.Auth.Callback)

		api.GET("/user/info", h.User.Info)

		api.GET("/nodes", h.Node.List)
		api.POST("/nodes", h.Node.Create)
		api.PUT("/nodes/:id", h.Node.Update)
		api.PUT("/nodes/:id/position", h.Node.UpdatePosition)
		api.DELETE("/nodes/:id", h.Node.Delete)
		api.PUT("/nodes/:id/famous", h.Node.SetFamous)

		api.GET("/history", h.History.Get)

		api.POST("/nodes/:id/apply", h.Application.Propose)
		api.GET("/applications", h.Application.List)
		api.POST("/applications/:id/resolve", h.Application.Resolve)
	}

	return r
}
