// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/leboweric/eos-platform-sub008/internal/middleware"
	"github.com/leboweric/eos-platform-sub008/internal/service"
)

// OrganizationHandler 负责处理组织目录与顾问授权相关的 API 请求。
type OrganizationHandler struct {
	orgService service.OrganizationService
}

// NewOrganizationHandler 创建一个新的 OrganizationHandler 实例。
func NewOrganizationHandler(orgService service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// Get 返回当前组织的信息。
func (h *OrganizationHandler) Get(c *gin.Context) {
	scope := middleware.CurrentScope(c)
	org, err := h.orgService.Get(c.Request.Context(), scope.OrganizationID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, org)
}

// Update 更新组织名称与主题配色，仅限管理员。
func (h *OrganizationHandler) Update(c *gin.Context) {
	var req service.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "无效的请求负载")
		return
	}

	scope := middleware.CurrentScope(c)
	org, err := h.orgService.Update(c.Request.Context(), scope.OrganizationID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, org)
}

// GrantRequest 定义了顾问授权 API 的请求体结构。
type GrantRequest struct {
	ConsultantUserID string `json:"consultantUserId" binding:"required"`
}

// Grant 给顾问授予当前组织的访问权，仅限管理员。
func (h *OrganizationHandler) Grant(c *gin.Context) {
	var req GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "无效的请求负载：consultantUserId 不能为空")
		return
	}

	scope := middleware.CurrentScope(c)
	if err := h.orgService.Grant(c.Request.Context(), req.ConsultantUserID, scope.OrganizationID); err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, gin.H{"message": "授权成功"})
}

// Revoke 收回顾问对当前组织的访问权，仅限管理员。
func (h *OrganizationHandler) Revoke(c *gin.Context) {
	consultantUserID := c.Param("userId")
	scope := middleware.CurrentScope(c)
	if err := h.orgService.Revoke(c.Request.Context(), consultantUserID, scope.OrganizationID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "授权已收回"})
}
