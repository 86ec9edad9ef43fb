// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/leboweric/eos-platform-sub008/internal/middleware"
	"github.com/leboweric/eos-platform-sub008/internal/service"
)

// FolderHandler 负责处理文档文件夹树相关的 API 请求。
type FolderHandler struct {
	folderService service.FolderService
}

// NewFolderHandler 创建一个新的 FolderHandler 实例。
func NewFolderHandler(folderService service.FolderService) *FolderHandler {
	return &FolderHandler{folderService: folderService}
}

// GetTree 返回当前用户可见的文件夹树。
func (h *FolderHandler) GetTree(c *gin.Context) {
	scope := middleware.CurrentScope(c)
	tree, err := h.folderService.GetTree(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, tree)
}

// Create 创建文件夹，仅限管理员。
func (h *FolderHandler) Create(c *gin.Context) {
	var req service.FolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "无效的请求负载：文件夹名称不能为空")
		return
	}

	scope := middleware.CurrentScope(c)
	folder, err := h.folderService.Create(c.Request.Context(), scope, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, folder)
}

// Update 更新文件夹名称、位置或可见性，仅限管理员。
func (h *FolderHandler) Update(c *gin.Context) {
	var req service.FolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "无效的请求负载：文件夹名称不能为空")
		return
	}

	scope := middleware.CurrentScope(c)
	folder, err := h.folderService.Update(c.Request.Context(), scope, c.Param("folderId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, folder)
}

// Delete 删除文件夹，仅限管理员；非空文件夹不可删除。
func (h *FolderHandler) Delete(c *gin.Context) {
	scope := middleware.CurrentScope(c)
	if err := h.folderService.Delete(c.Request.Context(), scope, c.Param("folderId")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "文件夹已删除"})
}
