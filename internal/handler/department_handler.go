// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/leboweric/eos-platform-sub008/internal/middleware"
	"github.com/leboweric/eos-platform-sub008/internal/service"
)

// DepartmentHandler 负责处理部门树相关的 API 请求。
type DepartmentHandler struct {
	deptService service.DepartmentService
}

// NewDepartmentHandler 创建一个新的 DepartmentHandler 实例。
func NewDepartmentHandler(deptService service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{deptService: deptService}
}

// GetTree 返回组织的完整部门树。
func (h *DepartmentHandler) GetTree(c *gin.Context) {
	scope := middleware.CurrentScope(c)
	tree, err := h.deptService.GetTree(c.Request.Context(), scope.OrganizationID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, tree)
}

// Get 返回单个部门的信息。
func (h *DepartmentHandler) Get(c *gin.Context) {
	scope := middleware.CurrentScope(c)
	dept, err := h.deptService.Get(c.Request.Context(), scope.OrganizationID, c.Param("deptId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dept)
}

// Create 创建新部门，仅限管理员。
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req service.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "无效的请求负载：部门名称不能为空")
		return
	}

	scope := middleware.CurrentScope(c)
	dept, err := h.deptService.Create(c.Request.Context(), scope.OrganizationID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, dept)
}

// Update 更新部门信息，仅限管理员。
func (h *DepartmentHandler) Update(c *gin.Context) {
	var req service.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "无效的请求负载：部门名称不能为空")
		return
	}

	scope := middleware.CurrentScope(c)
	dept, err := h.deptService.Update(c.Request.Context(), scope.OrganizationID, c.Param("deptId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dept)
}

// Delete 删除部门，仅限管理员。
func (h *DepartmentHandler) Delete(c *gin.Context) {
	scope := middleware.CurrentScope(c)
	if err := h.deptService.Delete(c.Request.Context(), scope.OrganizationID, c.Param("deptId")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "部门已删除"})
}
