package repository

import (
	"context"
	"errors"

	"github.com/leboweric/eos-platform-sub008/internal/model"
	"gorm.io/gorm"
)

// FolderRepository 接口定义了文档文件夹数据的持久化操作。
type FolderRepository interface {
	Create(ctx context.Context, folder *model.DocumentFolder) error
	FindByID(ctx context.Context, orgID, id string) (*model.DocumentFolder, error)
	Update(ctx context.Context, folder *model.DocumentFolder) error
	Delete(ctx context.Context, orgID, id string) error
	// ListVisible 返回主体可见的文件夹；与文档共用同一套三分类可见性谓词。
	// 树的组装在 service 层进行，这里只负责取可见行。
	ListVisible(ctx context.Context, orgID string, viewer DocumentViewer) ([]model.DocumentFolder, error)
	CountChildren(ctx context.Context, orgID, id string) (int64, error)
	// ParentMap 返回组织内全量的 文件夹ID -> 父ID 映射，用于写入前的环校验。
	ParentMap(ctx context.Context, orgID string) (map[string]*string, error)
	// ExistsName 检查同一父级下是否已有同名文件夹，不做可见性过滤：
	// 唯一性是组织级约束，主体看不见的行同样会触发唯一索引。
	ExistsName(ctx context.Context, orgID string, parentID *string, name, excludeID string) (bool, error)
}

type folderRepository struct {
	db *gorm.DB
}

// NewFolderRepository 创建一个新的 FolderRepository 实例。
func NewFolderRepository(db *gorm.DB) FolderRepository {
	return &folderRepository{db: db}
}

// Create 在数据库中插入一条新的文件夹记录。
func (r *folderRepository) Create(ctx context.Context, folder *model.DocumentFolder) error {
	return r.db.WithContext(ctx).Create(folder).Error
}

// FindByID 在组织作用域内查找一个文件夹。
func (r *folderRepository) FindByID(ctx context.Context, orgID, id string) (*model.DocumentFolder, error) {
	var folder model.DocumentFolder
	err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&folder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// Update 更新数据库中一条已存在的文件夹记录。
func (r *folderRepository) Update(ctx context.Context, folder *model.DocumentFolder) error {
	return r.db.WithContext(ctx).Save(folder).Error
}

// Delete 在组织作用域内删除一个文件夹。
func (r *folderRepository) Delete(ctx context.Context, orgID, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		Delete(&model.DocumentFolder{}).Error
}

// ListVisible 返回主体可见的文件夹，按名称排序。
func (r *folderRepository) ListVisible(ctx context.Context, orgID string, viewer DocumentViewer) ([]model.DocumentFolder, error) {
	teamIDs := viewer.TeamIDs
	if len(teamIDs) == 0 {
		teamIDs = []string{""}
	}

	db := r.db.WithContext(ctx).Model(&model.DocumentFolder{}).
		Where("organization_id = ?", orgID)
	if viewer.IsAdmin {
		db = db.Where(
			"visibility = ? OR (visibility = ? AND department_id IN ?) OR visibility = ?",
			model.VisibilityCompany, model.VisibilityDepartment, teamIDs, model.VisibilityPrivate,
		)
	} else {
		db = db.Where(
			"visibility = ? OR (visibility = ? AND department_id IN ?) OR (visibility = ? AND created_by = ?)",
			model.VisibilityCompany, model.VisibilityDepartment, teamIDs, model.VisibilityPrivate, viewer.UserID,
		)
	}

	var folders []model.DocumentFolder
	err := db.Order("name").Find(&folders).Error
	return folders, err
}

// CountChildren 统计直接子文件夹数量，用于删除前的校验。
func (r *folderRepository) CountChildren(ctx context.Context, orgID, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.DocumentFolder{}).
		Where("organization_id = ? AND parent_folder_id = ?", orgID, id).
		Count(&count).Error
	return count, err
}

// ExistsName 检查同一父级下是否已有同名文件夹，excludeID 用于更新时排除自身。
func (r *folderRepository) ExistsName(ctx context.Context, orgID string, parentID *string, name, excludeID string) (bool, error) {
	db := r.db.WithContext(ctx).Model(&model.DocumentFolder{}).
		Where("organization_id = ? AND name = ?", orgID, name)
	if parentID == nil {
		db = db.Where("parent_folder_id IS NULL")
	} else {
		db = db.Where("parent_folder_id = ?", *parentID)
	}
	if excludeID != "" {
		db = db.Where("id <> ?", excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

// parentRow 用于接收父指针查询结果。
type parentRow struct {
	ID             string
	ParentFolderID *string
}

// ParentMap 返回组织内全量的 文件夹ID -> 父ID 映射。
func (r *folderRepository) ParentMap(ctx context.Context, orgID string) (map[string]*string, error) {
	var rows []parentRow
	err := r.db.WithContext(ctx).Model(&model.DocumentFolder{}).
		Select("id", "parent_folder_id").
		Where("organization_id = ?", orgID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	parents := make(map[string]*string, len(rows))
	for _, row := range rows {
		parents[row.ID] = row.ParentFolderID
	}
	return parents, nil
}
