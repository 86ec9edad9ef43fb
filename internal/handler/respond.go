// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leboweric/eos-platform-sub008/internal/svcerr"
	"github.com/leboweric/eos-platform-sub008/pkg/log"
)

// respondOK 输出统一的成功响应结构。
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// respondCreated 输出创建成功的响应结构。
func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// respondError 把 service 层错误映射为 HTTP 状态码与统一的失败响应结构。
// 未归类的错误一律 500，细节只进日志不出接口。
func respondError(c *gin.Context, err error) {
	var verr *svcerr.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": verr.Message, "field": verr.Field})
		return
	}

	switch {
	case errors.Is(err, svcerr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, svcerr.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, svcerr.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "认证失败"})
	case errors.Is(err, svcerr.ErrConflict):
		// 冲突走 400，靠具体的业务文案与普通校验失败区分
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, svcerr.ErrCooldown):
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "操作过于频繁，请稍后再试"})
	default:
		log.Errorf("未归类的服务错误: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "服务内部错误"})
	}
}

// respondBadRequest 输出请求体校验失败的响应。
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
}
