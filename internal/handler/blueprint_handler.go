// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/leboweric/eos-platform-sub008/internal/middleware"
	"github.com/leboweric/eos-platform-sub008/internal/service"
)

// BlueprintHandler 负责处理战略蓝图相关的 API 请求。
type BlueprintHandler struct {
	bpService service.BlueprintService
}

// NewBlueprintHandler 创建一个新的 BlueprintHandler 实例。
func NewBlueprintHandler(bpService service.BlueprintService) *BlueprintHandler {
	return &BlueprintHandler{bpService: bpService}
}

// scopeFromQuery 从查询参数解析蓝图作用域（teamId 与 departmentId 互斥）。
func scopeFromQuery(c *gin.Context) service.BlueprintScope {
	var scope service.BlueprintScope
	if v, ok := c.GetQuery("teamId"); ok && v != "" {
		scope.TeamID = &v
	}
	if v, ok := c.GetQuery("departmentId"); ok && v != "" {
		scope.DepartmentID = &v
	}
	return scope
}

// Get 返回作用域内的完整蓝图聚合，首次访问时创建。
func (h *BlueprintHandler) Get(c *gin.Context) {
	orgScope := middleware.CurrentScope(c)
	resp, err := h.bpService.Get(c.Request.Context(), orgScope.OrganizationID, scopeFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// CoreValuesRequest 定义了核心价值观整组替换的请求体。
type CoreValuesRequest struct {
	CoreValues []service.CoreValueInput `json:"coreValues" binding:"required"`
}

// ReplaceCoreValues 整组替换核心价值观。
func (h *BlueprintHandler) ReplaceCoreValues(c *gin.Context) {
	var req CoreValuesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "无效的请求负载：coreValues 不能为空")
		return
	}

	orgScope := middleware.CurrentScope(c)
	values, err := h.bpService.ReplaceCoreValues(c.Request.Context(), orgScope.OrganizationID, scopeFromQuery(c), req.CoreValues)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, values)
}

// UpdateCoreFocus 更新核心焦点。
func (h *BlueprintHandler) UpdateCoreFocus(c *gin.Context) {
	var req service.CoreFocusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "无效的请求负载")
		return
	}

	orgScope := middleware.CurrentScope(c)
	focus, err := h.bpService.UpdateCoreFocus(c.Request.Context(), orgScope.OrganizationID, scopeFromQuery(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, focus)
}

// UpdateTenYearTarget 更新十年目标。
func (h *BlueprintHandler) UpdateTenYearTarget(c *gin.Context) {
	var req service.TenYearTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "无效的请求负载")
		return
	}

	orgScope := middleware.CurrentScope(c)
	target, err := h.bpService.UpdateTenYearTarget(c.Request.Context(), orgScope.OrganizationID, scopeFromQuery(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, target)
}

// UpdateThreeYearPicture 更新三年图景。
func (h *BlueprintHandler) UpdateThreeYearPicture(c *gin.Context) {
	var req service.ThreeYearPictureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "无效的请求负载")
		return
	}

	orgScope := middleware.CurrentScope(c)
	picture, err := h.bpService.UpdateThreeYearPicture(c.Request.Context(), orgScope.OrganizationID, scopeFromQuery(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, picture)
}

// UpdateOneYearPlan 更新一年计划。
func (h *BlueprintHandler) UpdateOneYearPlan(c *gin.Context) {
	var req service.OneYearPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "无效的请求负载")
		return
	}

	orgScope := middleware.CurrentScope(c)
	plan, err := h.bpService.UpdateOneYearPlan(c.Request.Context(), orgScope.OrganizationID, scopeFromQuery(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, plan)
}
