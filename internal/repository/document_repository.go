package repository

import (
	"context"
	"errors"

	"github.com/leboweric/eos-platform-sub008/internal/model"
	"gorm.io/gorm"
)

// DocumentViewer 描述了列表查询的主体：可见性谓词在 SQL 中据此展开。
type DocumentViewer struct {
	UserID  string
	IsAdmin bool
	// TeamIDs 是主体在目标组织内的团队成员关系，决定 department 可见性。
	TeamIDs []string
}

// DocumentFilter 是文档列表的可选过滤条件。
type DocumentFilter struct {
	DepartmentID  string
	Search        string
	FavoritesOnly bool
	// FolderID 为 nil 表示不过滤；指向空串表示仅根目录（folder_id IS NULL）。
	FolderID *string
}

// DocumentRepository 接口定义了文档数据的持久化操作。
type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) error
	FindByID(ctx context.Context, orgID, id string) (*model.Document, error)
	Update(ctx context.Context, doc *model.Document) error
	Delete(ctx context.Context, orgID, id string) error
	// ListVisible 返回主体可见的文档：可见性过滤发生在 SQL 谓词中，
	// 而不是取回后在内存里裁剪。
	ListVisible(ctx context.Context, orgID string, viewer DocumentViewer, filter DocumentFilter) ([]model.Document, error)
	CountByFolder(ctx context.Context, orgID string) (map[string]int64, error)

	Favorite(ctx context.Context, docID, userID string) error
	Unfavorite(ctx context.Context, docID, userID string) error
	ListFavoriteIDs(ctx context.Context, userID string) (map[string]bool, error)
}

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository 创建一个新的 DocumentRepository 实例。
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Create 在数据库中插入一条新的文档记录。
func (r *documentRepository) Create(ctx context.Context, doc *model.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// FindByID 在组织作用域内查找一个文档。
func (r *documentRepository) FindByID(ctx context.Context, orgID, id string) (*model.Document, error) {
	var doc model.Document
	err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Update 更新数据库中一条已存在的文档记录。
func (r *documentRepository) Update(ctx context.Context, doc *model.Document) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

// Delete 在组织作用域内软删除一个文档。
func (r *documentRepository) Delete(ctx context.Context, orgID, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		Delete(&model.Document{}).Error
}

// visibilityPredicate 返回三分类可见性谓词的条件串与参数。
// company: 同组织即可见；department: 需要成员关系命中 department_id，
// 未标团队的行（department_id IS NULL）不会被 IN 命中，对任何人不可见；
// private: 仅上传者本人，管理员例外。
func visibilityPredicate(viewer DocumentViewer) (string, []interface{}) {
	teamIDs := viewer.TeamIDs
	if len(teamIDs) == 0 {
		// IN 空集在 SQL 中不合法，使用不可能命中的占位值
		teamIDs = []string{""}
	}
	if viewer.IsAdmin {
		return "visibility = ? OR (visibility = ? AND department_id IN ?) OR visibility = ?",
			[]interface{}{model.VisibilityCompany, model.VisibilityDepartment, teamIDs, model.VisibilityPrivate}
	}
	return "visibility = ? OR (visibility = ? AND department_id IN ?) OR (visibility = ? AND uploaded_by = ?)",
		[]interface{}{model.VisibilityCompany, model.VisibilityDepartment, teamIDs, model.VisibilityPrivate, viewer.UserID}
}

// visibilityScope 把可见性谓词包装为 gorm scope。
func visibilityScope(viewer DocumentViewer) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		cond, args := visibilityPredicate(viewer)
		return db.Where(cond, args...)
	}
}

// ListVisible 返回主体在组织内可见的文档列表。
func (r *documentRepository) ListVisible(ctx context.Context, orgID string, viewer DocumentViewer, filter DocumentFilter) ([]model.Document, error) {
	db := r.db.WithContext(ctx).Model(&model.Document{}).
		Where("organization_id = ?", orgID).
		Scopes(visibilityScope(viewer))

	if filter.DepartmentID != "" {
		db = db.Where("department_id = ?", filter.DepartmentID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		db = db.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}
	if filter.FavoritesOnly {
		db = db.Joins("JOIN document_favorites df ON df.document_id = documents.id AND df.user_id = ?", viewer.UserID)
	}
	if filter.FolderID != nil {
		if *filter.FolderID == "" {
			db = db.Where("folder_id IS NULL")
		} else {
			db = db.Where("folder_id = ?", *filter.FolderID)
		}
	}

	var docs []model.Document
	err := db.Order("created_at DESC").Find(&docs).Error
	return docs, err
}

// folderCountRow 用于接收聚合查询结果。
type folderCountRow struct {
	FolderID string
	Count    int64
}

// CountByFolder 统计组织内每个文件夹下的文档数量。
func (r *documentRepository) CountByFolder(ctx context.Context, orgID string) (map[string]int64, error) {
	var rows []folderCountRow
	err := r.db.WithContext(ctx).Model(&model.Document{}).
		Select("folder_id AS folder_id, COUNT(*) AS count").
		Where("organization_id = ? AND folder_id IS NOT NULL", orgID).
		Group("folder_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.FolderID] = row.Count
	}
	return counts, nil
}

// Favorite 将文档加入用户收藏，重复收藏视为成功。
func (r *documentRepository) Favorite(ctx context.Context, docID, userID string) error {
	fav := &model.DocumentFavorite{DocumentID: docID, UserID: userID}
	err := r.db.WithContext(ctx).Create(fav).Error
	if err != nil && r.db.WithContext(ctx).
		Where("document_id = ? AND user_id = ?", docID, userID).
		First(&model.DocumentFavorite{}).Error == nil {
		return nil
	}
	return err
}

// Unfavorite 将文档移出用户收藏。
func (r *documentRepository) Unfavorite(ctx context.Context, docID, userID string) error {
	return r.db.WithContext(ctx).
		Where("document_id = ? AND user_id = ?", docID, userID).
		Delete(&model.DocumentFavorite{}).Error
}

// ListFavoriteIDs 返回用户收藏的文档 ID 集合。
func (r *documentRepository) ListFavoriteIDs(ctx context.Context, userID string) (map[string]bool, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.DocumentFavorite{}).
		Where("user_id = ?", userID).
		Pluck("document_id", &ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
