package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/leboweric/eos-platform-sub008/internal/hierarchy"
	"github.com/leboweric/eos-platform-sub008/internal/model"
	"github.com/leboweric/eos-platform-sub008/internal/repository"
	"github.com/leboweric/eos-platform-sub008/internal/svcerr"
)

// FolderRequest 定义了文件夹创建与更新的请求体。
type FolderRequest struct {
	Name           string  `json:"name" binding:"required"`
	ParentFolderID *string `json:"parentFolderId"`
	Visibility     string  `json:"visibility"`
	DepartmentID   *string `json:"departmentId"`
}

// FolderService 定义了文档文件夹树的业务逻辑。
// 文件夹的增删改仅限管理员，树的读取遵循可见性规则。
type FolderService interface {
	// GetTree 返回主体可见的文件夹树，附带层级、路径与文档数。
	GetTree(ctx context.Context, scope *AccessScope) ([]*model.FolderNode, error)
	Create(ctx context.Context, scope *AccessScope, req FolderRequest) (*model.DocumentFolder, error)
	Update(ctx context.Context, scope *AccessScope, id string, req FolderRequest) (*model.DocumentFolder, error)
	// Delete 删除文件夹，存在子文件夹或文档时拒绝。
	Delete(ctx context.Context, scope *AccessScope, id string) error
}

type folderService struct {
	folderRepo repository.FolderRepository
	docRepo    repository.DocumentRepository
	userRepo   repository.UserRepository
}

// NewFolderService 创建一个文件夹服务实例。
func NewFolderService(folderRepo repository.FolderRepository, docRepo repository.DocumentRepository, userRepo repository.UserRepository) FolderService {
	return &folderService{folderRepo: folderRepo, docRepo: docRepo, userRepo: userRepo}
}

func (s *folderService) GetTree(ctx context.Context, scope *AccessScope) ([]*model.FolderNode, error) {
	folders, err := s.folderRepo.ListVisible(ctx, scope.OrganizationID, viewerOf(scope))
	if err != nil {
		return nil, err
	}

	docCounts, err := s.docRepo.CountByFolder(ctx, scope.OrganizationID)
	if err != nil {
		return nil, err
	}

	creatorNames, err := s.resolveCreatorNames(ctx, folders)
	if err != nil {
		return nil, err
	}

	roots := hierarchy.Build(folders,
		func(f model.DocumentFolder) string { return f.ID },
		func(f model.DocumentFolder) *string { return f.ParentFolderID },
		func(f model.DocumentFolder) string { return f.Name },
	)

	nodes := make([]*model.FolderNode, 0, len(roots))
	for _, root := range roots {
		nodes = append(nodes, toFolderNode(root, docCounts, creatorNames))
	}
	return nodes, nil
}

func (s *folderService) resolveCreatorNames(ctx context.Context, folders []model.DocumentFolder) (map[string]string, error) {
	names := make(map[string]string)
	for _, f := range folders {
		if _, ok := names[f.CreatedBy]; ok {
			continue
		}
		creator, err := s.userRepo.FindByID(ctx, f.CreatedBy)
		if err != nil {
			return nil, err
		}
		if creator != nil {
			names[f.CreatedBy] = creator.FullName()
		}
	}
	return names, nil
}

func toFolderNode(node *hierarchy.Node[model.DocumentFolder], docCounts map[string]int64, creatorNames map[string]string) *model.FolderNode {
	f := node.Row
	out := &model.FolderNode{
		ID:             f.ID,
		Name:           f.Name,
		ParentFolderID: f.ParentFolderID,
		Visibility:     f.Visibility,
		CreatedBy:      f.CreatedBy,
		CreatedByName:  creatorNames[f.CreatedBy],
		DocumentCount:  docCounts[f.ID],
		Level:          node.Level,
		Path:           node.Path,
		Children:       make([]*model.FolderNode, 0, len(node.Children)),
	}
	for _, child := range node.Children {
		out.Children = append(out.Children, toFolderNode(child, docCounts, creatorNames))
	}
	return out
}

func (s *folderService) Create(ctx context.Context, scope *AccessScope, req FolderRequest) (*model.DocumentFolder, error) {
	if !scope.IsAdmin() {
		return nil, svcerr.Forbidden("只有管理员可以管理文件夹")
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = model.VisibilityCompany
	}
	if err := validateVisibility(visibility, req.DepartmentID); err != nil {
		return nil, err
	}

	if req.ParentFolderID != nil {
		parent, err := s.folderRepo.FindByID(ctx, scope.OrganizationID, *req.ParentFolderID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, svcerr.NotFound("父文件夹")
		}
	}

	if err := s.checkDuplicateName(ctx, scope.OrganizationID, req.Name, req.ParentFolderID, ""); err != nil {
		return nil, err
	}

	folder := &model.DocumentFolder{
		ID:             uuid.NewString(),
		Name:           req.Name,
		OrganizationID: scope.OrganizationID,
		ParentFolderID: req.ParentFolderID,
		Visibility:     visibility,
		DepartmentID:   req.DepartmentID,
		CreatedBy:      scope.UserID,
	}
	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *folderService) Update(ctx context.Context, scope *AccessScope, id string, req FolderRequest) (*model.DocumentFolder, error) {
	if !scope.IsAdmin() {
		return nil, svcerr.Forbidden("只有管理员可以管理文件夹")
	}

	folder, err := s.folderRepo.FindByID(ctx, scope.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, svcerr.NotFound("文件夹")
	}

	// 改父级时校验不会形成环
	parents, err := s.folderRepo.ParentMap(ctx, scope.OrganizationID)
	if err != nil {
		return nil, err
	}
	if err := hierarchy.ValidateParent(id, req.ParentFolderID, parents); err != nil {
		return nil, err
	}

	if err := s.checkDuplicateName(ctx, scope.OrganizationID, req.Name, req.ParentFolderID, id); err != nil {
		return nil, err
	}

	folder.Name = req.Name
	folder.ParentFolderID = req.ParentFolderID
	if req.Visibility != "" {
		if err := validateVisibility(req.Visibility, req.DepartmentID); err != nil {
			return nil, err
		}
		folder.Visibility = req.Visibility
		folder.DepartmentID = req.DepartmentID
	}

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *folderService) Delete(ctx context.Context, scope *AccessScope, id string) error {
	if !scope.IsAdmin() {
		return svcerr.Forbidden("只有管理员可以管理文件夹")
	}

	folder, err := s.folderRepo.FindByID(ctx, scope.OrganizationID, id)
	if err != nil {
		return err
	}
	if folder == nil {
		return svcerr.NotFound("文件夹")
	}

	children, err := s.folderRepo.CountChildren(ctx, scope.OrganizationID, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return svcerr.Conflict("请先删除或移走子文件夹")
	}

	docCounts, err := s.docRepo.CountByFolder(ctx, scope.OrganizationID)
	if err != nil {
		return err
	}
	if docCounts[id] > 0 {
		return svcerr.Conflict("请先移走文件夹内的文档")
	}

	return s.folderRepo.Delete(ctx, scope.OrganizationID, id)
}

// checkDuplicateName 校验同一父级下的名称唯一性，excludeID 用于更新时排除自身。
// 查询不带可见性过滤：唯一性是组织级约束，主体看不见的同名行
// 同样会触发唯一索引。数据库的唯一索引兜底，这里提前校验是为了给出明确的错误信息。
func (s *folderService) checkDuplicateName(ctx context.Context, orgID, name string, parentID *string, excludeID string) error {
	exists, err := s.folderRepo.ExistsName(ctx, orgID, parentID, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return svcerr.Conflict("同一位置下已存在同名文件夹")
	}
	return nil
}
