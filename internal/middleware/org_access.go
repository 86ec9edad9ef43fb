// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leboweric/eos-platform-sub008/internal/service"
	"github.com/leboweric/eos-platform-sub008/pkg/log"
)

// OrgAccessMiddleware 校验当前用户对路径参数 :orgId 指定组织的访问权，
// 并把构建好的访问视角存入上下文。此中间件必须在 AuthMiddleware 之后使用。
func OrgAccessMiddleware(access service.AccessService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "无法获取用户信息"})
			return
		}

		orgID := c.Param("orgId")
		if orgID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "缺少组织 ID"})
			return
		}

		scope, err := access.ScopeFor(c.Request.Context(), user, orgID)
		if err != nil {
			log.Errorf("构建访问视角失败 user=%s org=%s: %v", user.ID, orgID, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "服务内部错误"})
			return
		}
		if scope == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "没有该组织的访问权限"})
			return
		}

		c.Set("scope", scope)
		c.Next()
	}
}

// CurrentScope 从 Gin 上下文中取出组织访问中间件放入的访问视角。
func CurrentScope(c *gin.Context) *service.AccessScope {
	v, exists := c.Get("scope")
	if !exists {
		return nil
	}
	scope, ok := v.(*service.AccessScope)
	if !ok {
		return nil
	}
	return scope
}
