package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"moegraph/internal/middleware"
	"moegraph/internal/models"
	"moegraph/internal/services"
)

type NodeHandler struct {
	graph *services.GraphService
}

func NewNodeHandler(graph *services.GraphService) *NodeHandler {
	return &NodeHandler{graph: graph}
}

// List 全部节点 (GET /api/nodes)
func (h *NodeHandler) List(c *gin.Context) {
	nodes, err := h.graph.ListNodes(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nodes": nodes})
}

// Create 新增节点 (POST /api/nodes)，multipart 表单 + 可选图片
func (h *NodeHandler) Create(c *gin.Context) {
	in, ok := parseNodeInput(c)
	if !ok {
		return
	}
	in.X = parseFloat(c.PostForm("x"))
	in.Y = parseFloat(c.PostForm("y"))

	var parentID uint
	if v := c.PostForm("parent_id"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			badRequest(c, "parent_id 不合法")
			return
		}
		parentID = uint(n)
	}

	upload, closeUpload := parseUpload(c)
	defer closeUpload()

	node, err := h.graph.CreateNode(c.Request.Context(), middleware.CurrentIdentity(c), in, upload, parentID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, node)
}

// Update 编辑节点 (PUT /api/nodes/:id)，整体覆盖可写字段
func (h *NodeHandler) Update(c *gin.Context) {
	id, ok := parseNodeID(c)
	if !ok {
		return
	}

	in, ok := parseNodeInput(c)
	if !ok {
		return
	}

	upload, closeUpload := parseUpload(c)
	defer closeUpload()

	node, err := h.graph.UpdateNode(c.Request.Context(), middleware.CurrentIdentity(c), id, in, upload)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, node)
}

// UpdatePosition 更新画布坐标 (PUT /api/nodes/:id/position)，仅管理员
func (h *NodeHandler) UpdatePosition(c *gin.Context) {
	id, ok := parseNodeID(c)
	if !ok {
		return
	}

	var pos struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := c.ShouldBindJSON(&pos); err != nil {
		badRequest(c, "坐标格式不合法")
		return
	}

	node, err := h.graph.UpdateNodePosition(c.Request.Context(), middleware.CurrentIdentity(c), id, pos.X, pos.Y)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, node)
}

// Delete 删除节点 (DELETE /api/nodes/:id)
func (h *NodeHandler) Delete(c *gin.Context) {
	id, ok := parseNodeID(c)
	if !ok {
		return
	}

	if err := h.graph.DeleteNode(c.Request.Context(), middleware.CurrentIdentity(c), id); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Node deleted successfully"})
}

// SetFamous 直接设置知名标记 (PUT /api/nodes/:id/famous)，仅管理员
func (h *NodeHandler) SetFamous(c *gin.Context) {
	id, ok := parseNodeID(c)
	if !ok {
		return
	}

	var body struct {
		IsFamous bool `json:"is_famous"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "请求格式不合法")
		return
	}

	node, err := h.graph.SetFamous(c.Request.Context(), middleware.CurrentIdentity(c), id, body.IsFamous)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, node)
}

// --- 表单解析 ---

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseNodeID(c *gin.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		badRequest(c, "节点 ID 不合法")
		return 0, false
	}
	return uint(n), true
}

// parseNodeInput 解析可写字段。列表字段以 JSON 串提交，入口校验一次，
// 解析失败返回 400 而不是落库脏数据。
func parseNodeInput(c *gin.Context) (services.NodeInput, bool) {
	var in services.NodeInput
	in.Name = c.PostForm("name")
	if in.Name == "" {
		badRequest(c, "名称不能为空")
		return in, false
	}
	in.Introduction = c.PostForm("introduction")

	var err error
	if in.Source, err = models.ParseRawList(c.PostForm("source")); err != nil {
		badRequest(c, "source 必须是 JSON 数组")
		return in, false
	}
	if in.Related, err = models.ParseRawList(c.PostForm("related")); err != nil {
		badRequest(c, "related 必须是 JSON 数组")
		return in, false
	}
	if in.Tags, err = models.ParseRawList(c.PostForm("tags")); err != nil {
		badRequest(c, "tags 必须是 JSON 数组")
		return in, false
	}

	// 旧版前端用 connections 字段，读取时兼容，存储只写 extension
	ext := c.PostForm("extension")
	if ext == "" {
		ext = c.PostForm("connections")
	}
	if in.Extension, err = models.ParseIDList(ext); err != nil {
		badRequest(c, "extension 必须是节点 ID 数组")
		return in, false
	}
	return in, true
}

// parseUpload 取出可选的上传图片，调用方负责在请求结束时 close
func parseUpload(c *gin.Context) (*services.Upload, func()) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		// 没带图片按无图处理
		return nil, func() {}
	}
	return &services.Upload{Filename: header.Filename, Reader: file}, func() { file.Close() }
}
