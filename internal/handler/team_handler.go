// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/leboweric/eos-platform-sub008/internal/middleware"
	"github.com/leboweric/eos-platform-sub008/internal/service"
)

// TeamHandler 负责处理团队与成员关系相关的 API 请求。
type TeamHandler struct {
	teamService service.TeamService
}

// NewTeamHandler 创建一个新的 TeamHandler 实例。
func NewTeamHandler(teamService service.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// List 返回组织的全部团队。
func (h *TeamHandler) List(c *gin.Context) {
	scope := middleware.CurrentScope(c)
	teams, err := h.teamService.List(c.Request.Context(), scope.OrganizationID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, teams)
}

// Get 返回单个团队的信息。
func (h *TeamHandler) Get(c *gin.Context) {
	scope := middleware.CurrentScope(c)
	team, err := h.teamService.Get(c.Request.Context(), scope.OrganizationID, c.Param("teamId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, team)
}

// Create 创建新团队，仅限管理员。
func (h *TeamHandler) Create(c *gin.Context) {
	var req service.TeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "无效的请求负载：团队名称不能为空")
		return
	}

	scope := middleware.CurrentScope(c)
	team, err := h.teamService.Create(c.Request.Context(), scope.OrganizationID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, team)
}

// Update 更新团队信息，仅限管理员。
func (h *TeamHandler) Update(c *gin.Context) {
	var req service.TeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "无效的请求负载：团队名称不能为空")
		return
	}

	scope := middleware.CurrentScope(c)
	team, err := h.teamService.Update(c.Request.Context(), scope.OrganizationID, c.Param("teamId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, team)
}

// Delete 删除团队，仅限管理员；领导团队不可删除。
func (h *TeamHandler) Delete(c *gin.Context) {
	scope := middleware.CurrentScope(c)
	if err := h.teamService.Delete(c.Request.Context(), scope.OrganizationID, c.Param("teamId")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "团队已删除"})
}

// ListMembers 返回团队的全部成员。
func (h *TeamHandler) ListMembers(c *gin.Context) {
	scope := middleware.CurrentScope(c)
	members, err := h.teamService.ListMembers(c.Request.Context(), scope.OrganizationID, c.Param("teamId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, members)
}

// AddMemberRequest 定义了添加团队成员 API 的请求体结构。
type AddMemberRequest struct {
	UserID string `json:"userId" binding:"required"`
	Role   string `json:"role"`
}

// AddMember 向团队添加成员，仅限管理员。
func (h *TeamHandler) AddMember(c *gin.Context) {
	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "无效的请求负载：userId 不能为空")
		return
	}

	scope := middleware.CurrentScope(c)
	if err := h.teamService.AddMember(c.Request.Context(), scope.OrganizationID, c.Param("teamId"), req.UserID, req.Role); err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, gin.H{"message": "成员已添加"})
}

// RemoveMember 从团队移除成员，仅限管理员。
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	scope := middleware.CurrentScope(c)
	if err := h.teamService.RemoveMember(c.Request.Context(), scope.OrganizationID, c.Param("teamId"), c.Param("userId")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "成员已移除"})
}
