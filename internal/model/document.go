package model

import (
	"time"

	"gorm.io/gorm"
)

// 可见性分类常量：company（全组织可见）、department（团队成员可见）、
// private（仅上传者本人或管理员可见）。
const (
	VisibilityCompany    = "company"
	VisibilityDepartment = "department"
	VisibilityPrivate    = "private"
)

// Document 对应于数据库中的 'documents' 表。
// 文档归属一个组织，携带三分类的可见性标记。
// 注意：department 可见性通过 DepartmentID 指向的其实是 teams.id，
// 成员判断走 team_members —— 这是源数据模型里有意保留的命名重载。
type Document struct {
	ID          string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	FileName    string `gorm:"type:varchar(255)" json:"fileName"`
	FileSize    int64  `json:"fileSize"`
	MimeType    string `gorm:"type:varchar(100)" json:"mimeType"`
	// ObjectKey 是文件在对象存储中的键；下载走预签名 URL。
	ObjectKey      string  `gorm:"type:varchar(512)" json:"-"`
	Visibility     string  `gorm:"type:varchar(20);not null;default:'company'" json:"visibility"`
	OrganizationID string  `gorm:"type:varchar(36);index;not null" json:"organizationId"`
	DepartmentID   *string `gorm:"type:varchar(36);index" json:"departmentId"`
	UploadedBy     string  `gorm:"type:varchar(36);index;not null" json:"uploadedBy"`
	FolderID       *string `gorm:"type:varchar(36);index" json:"folderId"`
	RelatedPriorityID *string        `gorm:"type:varchar(36)" json:"relatedPriorityId"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Document) TableName() string {
	return "documents"
}

// OwnerOrgID 返回文档所属组织。
func (d *Document) OwnerOrgID() string { return d.OrganizationID }

// VisibilityClass 返回文档的可见性分类。
func (d *Document) VisibilityClass() string { return d.Visibility }

// VisibilityTeamID 返回 department 可见性对应的团队 ID。
func (d *Document) VisibilityTeamID() *string { return d.DepartmentID }

// OwnerUserID 返回文档的上传者。
func (d *Document) OwnerUserID() string { return d.UploadedBy }

// DocumentFavorite 对应于 'document_favorites' 表。
type DocumentFavorite struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	DocumentID string    `gorm:"type:varchar(36);uniqueIndex:idx_doc_user;not null" json:"documentId"`
	UserID     string    `gorm:"type:varchar(36);uniqueIndex:idx_doc_user;not null" json:"userId"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (DocumentFavorite) TableName() string {
	return "document_favorites"
}

// DocumentFolder 对应于 'document_folders' 表。
// 文件夹通过 ParentFolderID 构成树，与部门树同构；
// 同一组织同一父级下名称唯一。
type DocumentFolder struct {
	ID             string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name           string  `gorm:"type:varchar(255);not null;uniqueIndex:idx_folder_scope_name" json:"name"`
	OrganizationID string  `gorm:"type:varchar(36);index;not null;uniqueIndex:idx_folder_scope_name" json:"organizationId"`
	ParentFolderID *string `gorm:"type:varchar(36);index;uniqueIndex:idx_folder_scope_name" json:"parentFolderId"`
	Visibility     string  `gorm:"type:varchar(20);not null;default:'company'" json:"visibility"`
	DepartmentID   *string `gorm:"type:varchar(36)" json:"departmentId"`
	CreatedBy      string  `gorm:"type:varchar(36);not null" json:"createdBy"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (DocumentFolder) TableName() string {
	return "document_folders"
}

// OwnerOrgID 返回文件夹所属组织。
func (f *DocumentFolder) OwnerOrgID() string { return f.OrganizationID }

// VisibilityClass 返回文件夹的可见性分类。
func (f *DocumentFolder) VisibilityClass() string { return f.Visibility }

// VisibilityTeamID 返回 department 可见性对应的团队 ID。
func (f *DocumentFolder) VisibilityTeamID() *string { return f.DepartmentID }

// OwnerUserID 返回文件夹的创建者。
func (f *DocumentFolder) OwnerUserID() string { return f.CreatedBy }

// FolderNode represents a node in the folder tree.
// Path 是从根到该节点的祖先名称序列（含自身），Level 为根相对深度（根为 0）。
type FolderNode struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	ParentFolderID *string       `json:"parentFolderId"`
	Visibility     string        `json:"visibility"`
	CreatedBy      string        `json:"createdBy"`
	CreatedByName  string        `json:"createdByName"`
	DocumentCount  int64         `json:"documentCount"`
	Level          int           `json:"level"`
	Path           []string      `json:"path"`
	Children       []*FolderNode `json:"children"`
}
