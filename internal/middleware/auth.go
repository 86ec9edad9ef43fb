// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/leboweric/eos-platform-sub008/internal/model"
	"github.com/leboweric/eos-platform-sub008/internal/repository"
	"github.com/leboweric/eos-platform-sub008/internal/service"
	"github.com/leboweric/eos-platform-sub008/pkg/log"
	"github.com/leboweric/eos-platform-sub008/pkg/token"
)

// AuthMiddleware 创建一个 Gin 中间件，用于 JWT 认证。
// 它会从请求头中提取 token，验证其有效性，并将完整的 User 对象存入 Gin 的上下文中。
// 已登出的 token 在黑名单中会被直接拒绝。
func AuthMiddleware(jwtManager *token.JWTManager, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从 Authorization 请求头中获取 token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "请求未包含授权头"})
			return
		}

		// Token 通常以 "Bearer <token>" 的形式提供，我们需要提取出 token 本身
		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "无效的授权头格式"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)

		// 先查黑名单：登出后的 token 即便签名有效也要拒绝
		blacklisted, err := service.IsTokenBlacklisted(c.Request.Context(), tokenString)
		if err != nil {
			log.Errorf("查询 token 黑名单失败: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "服务内部错误"})
			return
		}
		if blacklisted {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "token 已失效"})
			return
		}

		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "无效或已过期的 token"})
			return
		}

		// 主体 ID 兼容新旧两种声明字段
		userID, err := claims.SubjectID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "token 缺少主体标识"})
			return
		}

		// 使用 claims 中的用户 ID 从数据库获取完整的用户信息
		user, err := userRepo.FindByID(c.Request.Context(), userID)
		if err != nil {
			log.Errorf("查询用户失败: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "服务内部错误"})
			return
		}
		if user == nil {
			// 如果根据 token 中的用户信息无法找到用户，说明该用户可能已被删除
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "用户不存在"})
			return
		}

		// 将完整的 User 对象存储在 context 中，供后续处理函数使用
		c.Set("user", user)
		c.Set("claims", claims)
		c.Set("accessToken", tokenString)

		c.Next()
	}
}

// CurrentUser 从 Gin 上下文中取出认证中间件放入的用户对象。
func CurrentUser(c *gin.Context) *model.User {
	v, exists := c.Get("user")
	if !exists {
		return nil
	}
	user, ok := v.(*model.User)
	if !ok {
		return nil
	}
	return user
}
