// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/leboweric/eos-platform-sub008/internal/service"
	"github.com/leboweric/eos-platform-sub008/pkg/log"
)

// AuthHandler 负责处理注册、登录与会话相关的 API 请求。
type AuthHandler struct {
	userService service.UserService
}

// NewAuthHandler 创建一个新的 AuthHandler 实例。
func NewAuthHandler(userService service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// Register 处理新组织注册请求。
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Register: Invalid request payload, error: %v", err)
		respondBadRequest(c, "无效的请求负载：邮箱、密码、姓名和组织名不能为空")
		return
	}

	resp, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		log.Warnf("Register: registration failed for '%s', error: %v", req.Email, err)
		respondError(c, err)
		return
	}

	log.Infof("User '%s' registered successfully", resp.User.Email)
	respondCreated(c, resp)
}

// Login 处理用户登录请求。
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Login: Invalid request payload, error: %v", err)
		respondBadRequest(c, "无效的请求负载：邮箱和密码不能为空")
		return
	}

	resp, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, resp)
}

// RefreshRequest 定义了刷新令牌 API 的请求体结构。
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Refresh 处理令牌刷新请求。
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "无效的请求负载：refreshToken 不能为空")
		return
	}

	resp, err := h.userService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, resp)
}

// Logout 处理登出请求，将当前访问令牌加入黑名单。
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenString := c.GetString("accessToken")
	if err := h.userService.Logout(c.Request.Context(), tokenString); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "已登出"})
}
