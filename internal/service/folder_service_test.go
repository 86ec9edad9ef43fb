package service

import (
	"context"
	"testing"

	"github.com/leboweric/eos-platform-sub008/internal/model"
	"github.com/leboweric/eos-platform-sub008/internal/repository"
	"github.com/leboweric/eos-platform-sub008/internal/svcerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFolderRepo 是一个内存实现，按 ID 保存文件夹。
type fakeFolderRepo struct {
	folders map[string]*model.DocumentFolder
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[string]*model.DocumentFolder)}
}

func (f *fakeFolderRepo) Create(ctx context.Context, folder *model.DocumentFolder) error {
	f.folders[folder.ID] = folder
	return nil
}
func (f *fakeFolderRepo) FindByID(ctx context.Context, orgID, id string) (*model.DocumentFolder, error) {
	folder, ok := f.folders[id]
	if !ok || folder.OrganizationID != orgID {
		return nil, nil
	}
	return folder, nil
}
func (f *fakeFolderRepo) Update(ctx context.Context, folder *model.DocumentFolder) error {
	f.folders[folder.ID] = folder
	return nil
}
func (f *fakeFolderRepo) Delete(ctx context.Context, orgID, id string) error {
	delete(f.folders, id)
	return nil
}
func (f *fakeFolderRepo) ListVisible(ctx context.Context, orgID string, viewer repository.DocumentViewer) ([]model.DocumentFolder, error) {
	var out []model.DocumentFolder
	for _, folder := range f.folders {
		if folder.OrganizationID == orgID {
			out = append(out, *folder)
		}
	}
	return out, nil
}
func (f *fakeFolderRepo) CountChildren(ctx context.Context, orgID, id string) (int64, error) {
	var count int64
	for _, folder := range f.folders {
		if folder.OrganizationID == orgID && folder.ParentFolderID != nil && *folder.ParentFolderID == id {
			count++
		}
	}
	return count, nil
}
func (f *fakeFolderRepo) ParentMap(ctx context.Context, orgID string) (map[string]*string, error) {
	parents := make(map[string]*string)
	for id, folder := range f.folders {
		if folder.OrganizationID == orgID {
			parents[id] = folder.ParentFolderID
		}
	}
	return parents, nil
}
func (f *fakeFolderRepo) ExistsName(ctx context.Context, orgID string, parentID *string, name, excludeID string) (bool, error) {
	for id, folder := range f.folders {
		if folder.OrganizationID != orgID || folder.Name != name || id == excludeID {
			continue
		}
		if parentID == nil && folder.ParentFolderID == nil {
			return true, nil
		}
		if parentID != nil && folder.ParentFolderID != nil && *parentID == *folder.ParentFolderID {
			return true, nil
		}
	}
	return false, nil
}

// fakeDocRepo 只支撑文件夹删除校验需要的计数查询。
type fakeDocRepo struct {
	countsByFolder map[string]int64
}

func (f *fakeDocRepo) Create(ctx context.Context, doc *model.Document) error { return nil }
func (f *fakeDocRepo) FindByID(ctx context.Context, orgID, id string) (*model.Document, error) {
	return nil, nil
}
func (f *fakeDocRepo) Update(ctx context.Context, doc *model.Document) error { return nil }
func (f *fakeDocRepo) Delete(ctx context.Context, orgID, id string) error    { return nil }
func (f *fakeDocRepo) ListVisible(ctx context.Context, orgID string, viewer repository.DocumentViewer, filter repository.DocumentFilter) ([]model.Document, error) {
	return nil, nil
}
func (f *fakeDocRepo) CountByFolder(ctx context.Context, orgID string) (map[string]int64, error) {
	if f.countsByFolder == nil {
		return map[string]int64{}, nil
	}
	return f.countsByFolder, nil
}
func (f *fakeDocRepo) Favorite(ctx context.Context, docID, userID string) error   { return nil }
func (f *fakeDocRepo) Unfavorite(ctx context.Context, docID, userID string) error { return nil }
func (f *fakeDocRepo) ListFavoriteIDs(ctx context.Context, userID string) (map[string]bool, error) {
	return map[string]bool{}, nil
}

func adminScope(orgID string) *AccessScope {
	return &AccessScope{UserID: "u-admin", OrganizationID: orgID, Role: model.RoleAdmin}
}

func TestFolderCreateDuplicateNameConflict(t *testing.T) {
	folderRepo := newFakeFolderRepo()
	svc := NewFolderService(folderRepo, &fakeDocRepo{}, &fakeUserRepo{users: map[string]*model.User{}})
	ctx := context.Background()

	_, err := svc.Create(ctx, adminScope("org-a"), FolderRequest{Name: "Plans"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, adminScope("org-a"), FolderRequest{Name: "Plans"})
	assert.ErrorIs(t, err, svcerr.ErrConflict)
}

func TestFolderCreateDuplicateAgainstInvisibleSibling(t *testing.T) {
	// 已存在的同名文件夹是 department 可见性，且团队不在操作者的视角内；
	// 唯一性校验必须照样命中，而不是等唯一索引报错
	folderRepo := newFakeFolderRepo()
	teamID := "t-other"
	folderRepo.folders["f1"] = &model.DocumentFolder{
		ID:             "f1",
		OrganizationID: "org-a",
		Name:           "Plans",
		Visibility:     model.VisibilityDepartment,
		DepartmentID:   &teamID,
	}
	svc := NewFolderService(folderRepo, &fakeDocRepo{}, &fakeUserRepo{users: map[string]*model.User{}})

	_, err := svc.Create(context.Background(), adminScope("org-a"), FolderRequest{Name: "Plans"})
	assert.ErrorIs(t, err, svcerr.ErrConflict)
}

func TestFolderUpdateDuplicateExcludesSelf(t *testing.T) {
	folderRepo := newFakeFolderRepo()
	folderRepo.folders["f1"] = &model.DocumentFolder{
		ID: "f1", OrganizationID: "org-a", Name: "Plans", Visibility: model.VisibilityCompany,
	}
	svc := NewFolderService(folderRepo, &fakeDocRepo{}, &fakeUserRepo{users: map[string]*model.User{}})

	// 保持原名更新自身不算重名
	_, err := svc.Update(context.Background(), adminScope("org-a"), "f1", FolderRequest{Name: "Plans"})
	assert.NoError(t, err)
}

func TestFolderWritesAdminOnly(t *testing.T) {
	svc := NewFolderService(newFakeFolderRepo(), &fakeDocRepo{}, &fakeUserRepo{users: map[string]*model.User{}})
	member := &AccessScope{UserID: "u1", OrganizationID: "org-a", Role: model.RoleMember}

	_, err := svc.Create(context.Background(), member, FolderRequest{Name: "Plans"})
	assert.ErrorIs(t, err, svcerr.ErrForbidden)
}

func TestFolderDeleteBlockedWhileNonEmpty(t *testing.T) {
	folderRepo := newFakeFolderRepo()
	folderRepo.folders["f1"] = &model.DocumentFolder{
		ID: "f1", OrganizationID: "org-a", Name: "Plans", Visibility: model.VisibilityCompany,
	}
	docRepo := &fakeDocRepo{countsByFolder: map[string]int64{"f1": 2}}
	svc := NewFolderService(folderRepo, docRepo, &fakeUserRepo{users: map[string]*model.User{}})

	err := svc.Delete(context.Background(), adminScope("org-a"), "f1")
	assert.ErrorIs(t, err, svcerr.ErrConflict)
}
