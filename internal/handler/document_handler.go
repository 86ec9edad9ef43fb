// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/leboweric/eos-platform-sub008/internal/middleware"
	"github.com/leboweric/eos-platform-sub008/internal/service"
	"github.com/leboweric/eos-platform-sub008/pkg/log"
)

// maxUploadSize 限制单个上传文件的大小（50 MB）。
const maxUploadSize = 50 << 20

// DocumentHandler 负责处理文档库相关的 API 请求。
type DocumentHandler struct {
	docService service.DocumentService
}

// NewDocumentHandler 创建一个新的 DocumentHandler 实例。
func NewDocumentHandler(docService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{docService: docService}
}

// List 返回当前用户可见的文档，支持按部门、文件夹、收藏和关键词过滤。
func (h *DocumentHandler) List(c *gin.Context) {
	scope := middleware.CurrentScope(c)

	opts := service.DocumentListOptions{
		DepartmentID:  c.Query("departmentId"),
		Search:        c.Query("search"),
		FavoritesOnly: c.Query("favorites") == "true",
	}
	if folderID, ok := c.GetQuery("folderId"); ok {
		opts.FolderID = &folderID
	}

	docs, err := h.docService.List(c.Request.Context(), scope, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, docs)
}

// Get 返回单个文档的元数据。
func (h *DocumentHandler) Get(c *gin.Context) {
	scope := middleware.CurrentScope(c)
	doc, err := h.docService.Get(c.Request.Context(), scope, c.Param("docId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, doc)
}

// Upload 处理文档上传：文件走 multipart，元数据走表单字段。
func (h *DocumentHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondBadRequest(c, "缺少上传文件")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		respondBadRequest(c, "文件大小超过限制")
		return
	}

	req := service.CreateDocumentRequest{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Visibility:  c.PostForm("visibility"),
		FileName:    header.Filename,
		FileSize:    header.Size,
		MimeType:    header.Header.Get("Content-Type"),
		Content:     file,
	}
	if v := c.PostForm("departmentId"); v != "" {
		req.DepartmentID = &v
	}
	if v := c.PostForm("folderId"); v != "" {
		req.FolderID = &v
	}
	if v := c.PostForm("relatedPriorityId"); v != "" {
		req.RelatedPriorityID = &v
	}

	scope := middleware.CurrentScope(c)
	doc, err := h.docService.Create(c.Request.Context(), scope, req)
	if err != nil {
		respondError(c, err)
		return
	}

	log.Infof("Document '%s' uploaded by user '%s'", doc.ID, scope.UserID)
	respondCreated(c, doc)
}

// Update 更新文档元数据。
func (h *DocumentHandler) Update(c *gin.Context) {
	var req service.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "无效的请求负载")
		return
	}

	scope := middleware.CurrentScope(c)
	doc, err := h.docService.Update(c.Request.Context(), scope, c.Param("docId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, doc)
}

// Delete 删除文档及其存储对象。
func (h *DocumentHandler) Delete(c *gin.Context) {
	scope := middleware.CurrentScope(c)
	if err := h.docService.Delete(c.Request.Context(), scope, c.Param("docId")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "文档已删除"})
}

// Download 返回文档的限时下载链接。
func (h *DocumentHandler) Download(c *gin.Context) {
	scope := middleware.CurrentScope(c)
	url, err := h.docService.DownloadURL(c.Request.Context(), scope, c.Param("docId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"downloadUrl": url})
}

// Favorite 将文档加入当前用户收藏。
func (h *DocumentHandler) Favorite(c *gin.Context) {
	scope := middleware.CurrentScope(c)
	if err := h.docService.Favorite(c.Request.Context(), scope, c.Param("docId")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "已收藏"})
}

// Unfavorite 将文档移出当前用户收藏。
func (h *DocumentHandler) Unfavorite(c *gin.Context) {
	scope := middleware.CurrentScope(c)
	if err := h.docService.Unfavorite(c.Request.Context(), scope, c.Param("docId")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "已取消收藏"})
}
