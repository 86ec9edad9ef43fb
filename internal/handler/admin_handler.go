// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/leboweric/eos-platform-sub008/internal/middleware"
	"github.com/leboweric/eos-platform-sub008/internal/service"
	"github.com/leboweric/eos-platform-sub008/pkg/log"
)

// AdminHandler 负责处理管理员专属的 API 请求。
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler 创建一个新的 AdminHandler 实例。
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListUsers 分页列出组织内的用户。
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	scope := middleware.CurrentScope(c)
	resp, err := h.adminService.ListUsers(c.Request.Context(), scope.OrganizationID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// UpdateUserRoleRequest 定义了角色修改 API 的请求体结构。
type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateUserRole 修改组织内用户的角色。
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	var req UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "无效的请求负载：role 不能为空")
		return
	}

	scope := middleware.CurrentScope(c)
	user, err := h.adminService.UpdateUserRole(c.Request.Context(), scope.OrganizationID, c.Param("userId"), req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, user)
}

// ResetDemo 把演示组织恢复到初始状态，受冷却时间限制。
func (h *AdminHandler) ResetDemo(c *gin.Context) {
	scope := middleware.CurrentScope(c)
	if err := h.adminService.ResetDemo(c.Request.Context(), scope.OrganizationID); err != nil {
		respondError(c, err)
		return
	}

	log.Infow("演示组织重置完成", "organizationId", scope.OrganizationID, "operator", scope.UserID)
	respondOK(c, gin.H{"message": "演示数据已重置"})
}
