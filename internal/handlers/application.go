package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"moegraph/internal/middleware"
	"moegraph/internal/models"
	"moegraph/internal/services"
)

type ApplicationHandler struct {
	apps *services.ApplicationWorkflow
}

func NewApplicationHandler(apps *services.ApplicationWorkflow) *ApplicationHandler {
	return &ApplicationHandler{apps: apps}
}

// List 待审申请列表 (GET /api/applications)，仅管理员
func (h *ApplicationHandler) List(c *gin.Context) {
	apps, err := h.apps.List(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		renderError(c, err)
		return
	}
	if apps == nil {
		apps = []models.Application{}
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// Propose 为节点提交「设为知名形态」申请 (POST /api/nodes/:id/apply)
func (h *ApplicationHandler) Propose(c *gin.Context) {
	nodeID, ok := parseNodeID(c)
	if !ok {
		return
	}

	app, err := h.apps.Propose(c.Request.Context(), middleware.CurrentIdentity(c), nodeID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// Resolve 审批申请 (POST /api/applications/:id/resolve)，仅管理员。
// action=approve 通过，其余值按驳回处理。
func (h *ApplicationHandler) Resolve(c *gin.Context) {
	appID := c.Param("id")
	action := c.PostForm("action")

	err := h.apps.Resolve(c.Request.Context(), middleware.CurrentIdentity(c), appID, action)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
