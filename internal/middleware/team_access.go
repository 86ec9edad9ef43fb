// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leboweric/eos-platform-sub008/internal/model"
	"github.com/leboweric/eos-platform-sub008/internal/service"
	"github.com/leboweric/eos-platform-sub008/pkg/log"
)

// TeamAccessMiddleware 校验当前用户对路径参数 :teamId 指定团队的访问权。
// 此中间件必须在 OrgAccessMiddleware 之后使用。
func TeamAccessMiddleware(access service.AccessService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		scope := CurrentScope(c)
		if user == nil || scope == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "无法获取用户信息"})
			return
		}

		teamID := c.Param("teamId")
		if teamID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "缺少团队 ID"})
			return
		}
		// 全零 ID 指向领导团队，由 service 层解析，这里只校验组织已通过
		if model.IsZeroTeamID(teamID) {
			c.Next()
			return
		}

		ok, err := access.CanAccessTeam(c.Request.Context(), user, scope.OrganizationID, teamID)
		if err != nil {
			log.Errorf("团队访问判定失败 user=%s team=%s: %v", user.ID, teamID, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "服务内部错误"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "没有该团队的访问权限"})
			return
		}

		c.Next()
	}
}
