package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"moegraph/internal/services"
)

// renderError 把服务层错误映射成 HTTP 状态码和提示信息
func renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "服务器内部错误"

	switch {
	case errors.Is(err, services.ErrUnauthorized),
		errors.Is(err, services.ErrQuotaExceeded):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, services.ErrHasDescendants),
		errors.Is(err, services.ErrRootProtected),
		errors.Is(err, services.ErrDuplicateApplication):
		status = http.StatusBadRequest
		message = err.Error()
	}

	c.JSON(status, gin.H{"detail": message})
}

// badRequest 请求本身不合法（如字段解析失败）
func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": message})
}
