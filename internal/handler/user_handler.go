// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/leboweric/eos-platform-sub008/internal/middleware"
	"github.com/leboweric/eos-platform-sub008/internal/service"
)

// UserHandler 负责处理当前用户个人信息相关的 API 请求。
type UserHandler struct {
	userService service.UserService
	orgService  service.OrganizationService
}

// NewUserHandler 创建一个新的 UserHandler 实例。
func NewUserHandler(userService service.UserService, orgService service.OrganizationService) *UserHandler {
	return &UserHandler{userService: userService, orgService: orgService}
}

// GetProfile 返回当前登录用户的信息。
func (h *UserHandler) GetProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	respondOK(c, user)
}

// UpdateProfileRequest 定义了个人信息更新 API 的请求体结构。
type UpdateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UpdateProfile 更新当前登录用户的姓名。
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "无效的请求负载")
		return
	}

	user := middleware.CurrentUser(c)
	updated, err := h.userService.UpdateProfile(c.Request.Context(), user.ID, req.FirstName, req.LastName)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, updated)
}

// ListMyOrganizations 返回顾问被授权访问的全部组织。
func (h *UserHandler) ListMyOrganizations(c *gin.Context) {
	user := middleware.CurrentUser(c)
	orgs, err := h.orgService.ListGrantedOrganizations(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, orgs)
}
