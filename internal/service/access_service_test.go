package service

import (
	"context"
	"testing"

	"github.com/leboweric/eos-platform-sub008/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOrgRepo 是一个内存实现，只支撑访问判定需要的授权行查询。
type fakeOrgRepo struct {
	grants map[string]bool // key: userID+"/"+orgID
}

func (f *fakeOrgRepo) Create(ctx context.Context, org *model.Organization) error { return nil }
func (f *fakeOrgRepo) FindByID(ctx context.Context, id string) (*model.Organization, error) {
	return nil, nil
}
func (f *fakeOrgRepo) Update(ctx context.Context, org *model.Organization) error { return nil }
func (f *fakeOrgRepo) CreateGrant(ctx context.Context, grant *model.ConsultantOrganization) error {
	return nil
}
func (f *fakeOrgRepo) DeleteGrant(ctx context.Context, consultantUserID, orgID string) error {
	return nil
}
func (f *fakeOrgRepo) FindGrant(ctx context.Context, consultantUserID, orgID string) (*model.ConsultantOrganization, error) {
	if f.grants[consultantUserID+"/"+orgID] {
		return &model.ConsultantOrganization{
			ConsultantUserID: consultantUserID,
			OrganizationID:   orgID,
		}, nil
	}
	return nil, nil
}
func (f *fakeOrgRepo) ListGrantedOrgs(ctx context.Context, consultantUserID string) ([]model.Organization, error) {
	return nil, nil
}

// fakeTeamRepo 是一个内存实现，按组织保存团队与成员关系。
type fakeTeamRepo struct {
	teams       map[string]*model.Team // key: teamID
	memberships map[string]bool        // key: userID+"/"+teamID
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{
		teams:       make(map[string]*model.Team),
		memberships: make(map[string]bool),
	}
}

func (f *fakeTeamRepo) Create(ctx context.Context, team *model.Team) error {
	f.teams[team.ID] = team
	return nil
}
func (f *fakeTeamRepo) FindByID(ctx context.Context, orgID, id string) (*model.Team, error) {
	team, ok := f.teams[id]
	if !ok || team.OrganizationID != orgID {
		return nil, nil
	}
	return team, nil
}
func (f *fakeTeamRepo) ListForOrg(ctx context.Context, orgID string) ([]model.Team, error) {
	var teams []model.Team
	for _, team := range f.teams {
		if team.OrganizationID == orgID {
			teams = append(teams, *team)
		}
	}
	return teams, nil
}
func (f *fakeTeamRepo) Update(ctx context.Context, team *model.Team) error {
	f.teams[team.ID] = team
	return nil
}
func (f *fakeTeamRepo) Delete(ctx context.Context, orgID, id string) error {
	delete(f.teams, id)
	return nil
}
func (f *fakeTeamRepo) FindLeadershipTeam(ctx context.Context, orgID string) (*model.Team, error) {
	for _, team := range f.teams {
		if team.OrganizationID == orgID && team.IsLeadershipTeam {
			return team, nil
		}
	}
	return nil, nil
}
func (f *fakeTeamRepo) AddMember(ctx context.Context, member *model.TeamMember) error {
	f.memberships[member.UserID+"/"+member.TeamID] = true
	return nil
}
func (f *fakeTeamRepo) RemoveMember(ctx context.Context, teamID, userID string) error {
	delete(f.memberships, userID+"/"+teamID)
	return nil
}
func (f *fakeTeamRepo) FindMembership(ctx context.Context, userID, teamID string) (*model.TeamMember, error) {
	if f.memberships[userID+"/"+teamID] {
		return &model.TeamMember{TeamID: teamID, UserID: userID}, nil
	}
	return nil, nil
}
func (f *fakeTeamRepo) ListTeamIDsForUser(ctx context.Context, userID, orgID string) ([]string, error) {
	var ids []string
	for id, team := range f.teams {
		if team.OrganizationID == orgID && f.memberships[userID+"/"+id] {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
func (f *fakeTeamRepo) ListMembers(ctx context.Context, teamID string) ([]model.User, error) {
	return nil, nil
}

func newTestAccess(orgRepo *fakeOrgRepo, teamRepo *fakeTeamRepo) AccessService {
	// 关闭缓存，测试不依赖 Redis
	return NewAccessService(orgRepo, teamRepo, 0)
}

func memberUser(id, orgID string) *model.User {
	return &model.User{ID: id, OrganizationID: orgID, Role: model.RoleMember}
}

func TestCanAccessOrganizationHomeOrg(t *testing.T) {
	access := newTestAccess(&fakeOrgRepo{}, &fakeTeamRepo{})

	ok, err := access.CanAccessOrganization(context.Background(), memberUser("u1", "org-a"), "org-a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCanAccessOrganizationCrossOrgDenied(t *testing.T) {
	access := newTestAccess(&fakeOrgRepo{}, &fakeTeamRepo{})

	// 非顾问用户永远无法离开本籍组织，即使是管理员
	admin := &model.User{ID: "u1", OrganizationID: "org-a", Role: model.RoleAdmin}
	ok, err := access.CanAccessOrganization(context.Background(), admin, "org-b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanAccessOrganizationConsultantNeedsGrant(t *testing.T) {
	orgRepo := &fakeOrgRepo{grants: map[string]bool{"c1/org-b": true}}
	access := newTestAccess(orgRepo, &fakeTeamRepo{})

	consultant := &model.User{ID: "c1", OrganizationID: "org-a", Role: model.RoleMember, IsConsultant: true}

	ok, err := access.CanAccessOrganization(context.Background(), consultant, "org-b")
	require.NoError(t, err)
	assert.True(t, ok, "有授权行的顾问可以进入目标组织")

	ok, err = access.CanAccessOrganization(context.Background(), consultant, "org-c")
	require.NoError(t, err)
	assert.False(t, ok, "没有授权行的组织不可进入")
}

func TestCanAccessTeamRequiresMembership(t *testing.T) {
	teamRepo := &fakeTeamRepo{
		teams: map[string]*model.Team{
			"t1": {ID: "t1", OrganizationID: "org-a"},
			"t2": {ID: "t2", OrganizationID: "org-a"},
		},
		memberships: map[string]bool{"u1/t1": true},
	}
	access := newTestAccess(&fakeOrgRepo{}, teamRepo)
	user := memberUser("u1", "org-a")

	ok, err := access.CanAccessTeam(context.Background(), user, "org-a", "t1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = access.CanAccessTeam(context.Background(), user, "org-a", "t2")
	require.NoError(t, err)
	assert.False(t, ok, "普通成员不能访问未加入的团队")
}

func TestCanAccessTeamCrossOrgTeamInvisible(t *testing.T) {
	// t9 属于 org-b，但请求发生在 org-a 的上下文里
	teamRepo := &fakeTeamRepo{
		teams:       map[string]*model.Team{"t9": {ID: "t9", OrganizationID: "org-b"}},
		memberships: map[string]bool{"u1/t9": true},
	}
	access := newTestAccess(&fakeOrgRepo{}, teamRepo)

	ok, err := access.CanAccessTeam(context.Background(), memberUser("u1", "org-a"), "org-a", "t9")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanAccessTeamAdminStillNeedsMembership(t *testing.T) {
	teamRepo := &fakeTeamRepo{
		teams: map[string]*model.Team{"t1": {ID: "t1", OrganizationID: "org-a"}},
	}
	access := newTestAccess(&fakeOrgRepo{}, teamRepo)
	admin := &model.User{ID: "u1", OrganizationID: "org-a", Role: model.RoleAdmin}

	// 团队判定严格窄于组织判定：没有成员关系行就拒绝，管理员也一样
	ok, err := access.CanAccessTeam(context.Background(), admin, "org-a", "t1")
	require.NoError(t, err)
	assert.False(t, ok)

	teamRepo.memberships = map[string]bool{"u1/t1": true}
	ok, err = access.CanAccessTeam(context.Background(), admin, "org-a", "t1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCanAccessTeamConsultantStillNeedsMembership(t *testing.T) {
	orgRepo := &fakeOrgRepo{grants: map[string]bool{"c1/org-b": true}}
	teamRepo := &fakeTeamRepo{
		teams: map[string]*model.Team{"t1": {ID: "t1", OrganizationID: "org-b"}},
	}
	access := newTestAccess(orgRepo, teamRepo)
	consultant := &model.User{ID: "c1", OrganizationID: "org-a", Role: model.RoleMember, IsConsultant: true}

	// 组织授权只打开组织大门，团队还是要有成员关系行
	ok, err := access.CanAccessTeam(context.Background(), consultant, "org-b", "t1")
	require.NoError(t, err)
	assert.False(t, ok)

	teamRepo.memberships = map[string]bool{"c1/t1": true}
	ok, err = access.CanAccessTeam(context.Background(), consultant, "org-b", "t1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCanAccessTeamOrgDeniedShortCircuits(t *testing.T) {
	teamRepo := &fakeTeamRepo{
		teams:       map[string]*model.Team{"t1": {ID: "t1", OrganizationID: "org-b"}},
		memberships: map[string]bool{"u1/t1": true},
	}
	access := newTestAccess(&fakeOrgRepo{}, teamRepo)

	// 组织不可访问时团队判定必然失败，成员关系不起作用
	ok, err := access.CanAccessTeam(context.Background(), memberUser("u1", "org-a"), "org-b", "t1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScopeForDeniedReturnsNil(t *testing.T) {
	access := newTestAccess(&fakeOrgRepo{}, &fakeTeamRepo{})

	scope, err := access.ScopeFor(context.Background(), memberUser("u1", "org-a"), "org-b")
	require.NoError(t, err)
	assert.Nil(t, scope)
}

func TestScopeForCollectsTeamIDs(t *testing.T) {
	teamRepo := &fakeTeamRepo{
		teams: map[string]*model.Team{
			"t1": {ID: "t1", OrganizationID: "org-a"},
			"t2": {ID: "t2", OrganizationID: "org-a"},
			"t3": {ID: "t3", OrganizationID: "org-b"},
		},
		memberships: map[string]bool{"u1/t1": true, "u1/t2": true, "u1/t3": true},
	}
	access := newTestAccess(&fakeOrgRepo{}, teamRepo)

	scope, err := access.ScopeFor(context.Background(), memberUser("u1", "org-a"), "org-a")
	require.NoError(t, err)
	require.NotNil(t, scope)
	assert.Equal(t, "u1", scope.UserID)
	assert.Equal(t, "org-a", scope.OrganizationID)
	// 其他组织的团队不会混进视角
	assert.ElementsMatch(t, []string{"t1", "t2"}, scope.TeamIDs)
	assert.True(t, scope.InTeam("t1"))
	assert.False(t, scope.InTeam("t3"))
}

func doc(orgID, visibility string, deptID *string, uploadedBy string) *model.Document {
	return &model.Document{
		OrganizationID: orgID,
		Visibility:     visibility,
		DepartmentID:   deptID,
		UploadedBy:     uploadedBy,
	}
}

func TestCanViewCrossOrgAlwaysDenied(t *testing.T) {
	access := newTestAccess(&fakeOrgRepo{}, &fakeTeamRepo{})
	scope := &AccessScope{UserID: "u1", OrganizationID: "org-a", Role: model.RoleAdmin}

	// 即使是管理员，别的组织的公司级文档也不可见
	assert.False(t, access.CanView(scope, doc("org-b", model.VisibilityCompany, nil, "u1")))
}

func TestCanViewCompanyVisibleToEveryone(t *testing.T) {
	access := newTestAccess(&fakeOrgRepo{}, &fakeTeamRepo{})
	scope := &AccessScope{UserID: "u1", OrganizationID: "org-a", Role: model.RoleMember}

	assert.True(t, access.CanView(scope, doc("org-a", model.VisibilityCompany, nil, "u2")))
}

func TestCanViewDepartmentVisibility(t *testing.T) {
	access := newTestAccess(&fakeOrgRepo{}, &fakeTeamRepo{})
	teamID := "t1"

	member := &AccessScope{UserID: "u1", OrganizationID: "org-a", Role: model.RoleMember, TeamIDs: []string{"t1"}}
	outsider := &AccessScope{UserID: "u2", OrganizationID: "org-a", Role: model.RoleMember, TeamIDs: []string{"t2"}}
	admin := &AccessScope{UserID: "u3", OrganizationID: "org-a", Role: model.RoleAdmin}

	d := doc("org-a", model.VisibilityDepartment, &teamID, "u9")
	assert.True(t, access.CanView(member, d))
	assert.False(t, access.CanView(outsider, d))
	// department 可见性只看成员关系，管理员没有特权
	assert.False(t, access.CanView(admin, d))

	// 未标团队的 department 行对任何人都不可见，与列表查询一致
	assert.False(t, access.CanView(outsider, doc("org-a", model.VisibilityDepartment, nil, "u9")))
	assert.False(t, access.CanView(admin, doc("org-a", model.VisibilityDepartment, nil, "u9")))
}

func TestCanViewPrivateVisibility(t *testing.T) {
	access := newTestAccess(&fakeOrgRepo{}, &fakeTeamRepo{})

	owner := &AccessScope{UserID: "u1", OrganizationID: "org-a", Role: model.RoleMember}
	other := &AccessScope{UserID: "u2", OrganizationID: "org-a", Role: model.RoleMember}
	admin := &AccessScope{UserID: "u3", OrganizationID: "org-a", Role: model.RoleAdmin}

	d := doc("org-a", model.VisibilityPrivate, nil, "u1")
	assert.True(t, access.CanView(owner, d))
	assert.False(t, access.CanView(other, d))
	assert.True(t, access.CanView(admin, d))
}

func TestCanViewUnknownVisibilityDenied(t *testing.T) {
	access := newTestAccess(&fakeOrgRepo{}, &fakeTeamRepo{})
	scope := &AccessScope{UserID: "u1", OrganizationID: "org-a", Role: model.RoleAdmin}

	assert.False(t, access.CanView(scope, doc("org-a", "secret", nil, "u1")))
}

func TestCanViewFolderImplementsProtected(t *testing.T) {
	access := newTestAccess(&fakeOrgRepo{}, &fakeTeamRepo{})
	scope := &AccessScope{UserID: "u1", OrganizationID: "org-a", Role: model.RoleMember}

	folder := &model.DocumentFolder{
		OrganizationID: "org-a",
		Visibility:     model.VisibilityPrivate,
		CreatedBy:      "u1",
	}
	assert.True(t, access.CanView(scope, folder))

	folder.CreatedBy = "u2"
	assert.False(t, access.CanView(scope, folder))
}
