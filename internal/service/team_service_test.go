package service

import (
	"context"
	"testing"

	"github.com/leboweric/eos-platform-sub008/internal/model"
	"github.com/leboweric/eos-platform-sub008/internal/svcerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo 是一个内存实现，按 ID 保存用户。
type fakeUserRepo struct {
	users map[string]*model.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}
func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return f.users[id], nil
}
func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}
func (f *fakeUserRepo) FindWithPagination(ctx context.Context, orgID string, offset, limit int) ([]model.User, int64, error) {
	return nil, 0, nil
}

func newTestTeamService(teamRepo *fakeTeamRepo, userRepo *fakeUserRepo) TeamService {
	access := newTestAccess(&fakeOrgRepo{}, teamRepo)
	return NewTeamService(teamRepo, userRepo, access)
}

func TestTeamGetZeroIDResolvesLeadershipTeam(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	teamRepo.teams["t-lead"] = &model.Team{
		ID: "t-lead", OrganizationID: "org-a", Name: "Leadership Team", IsLeadershipTeam: true,
	}
	svc := newTestTeamService(teamRepo, &fakeUserRepo{users: map[string]*model.User{}})

	team, err := svc.Get(context.Background(), "org-a", model.ZeroTeamID)
	require.NoError(t, err)
	assert.Equal(t, "t-lead", team.ID)
}

func TestTeamGetZeroIDWithoutLeadershipTeam(t *testing.T) {
	svc := newTestTeamService(newFakeTeamRepo(), &fakeUserRepo{users: map[string]*model.User{}})

	_, err := svc.Get(context.Background(), "org-a", model.ZeroTeamID)
	assert.ErrorIs(t, err, svcerr.ErrNotFound)
}

func TestTeamCreateFlagsLeadershipByName(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	svc := newTestTeamService(teamRepo, &fakeUserRepo{users: map[string]*model.User{}})

	team, err := svc.Create(context.Background(), "org-a", TeamRequest{Name: "leadership team"})
	require.NoError(t, err)
	assert.True(t, team.IsLeadershipTeam, "名称匹配不区分大小写")

	// 同一组织的第二个领导团队被拒绝
	_, err = svc.Create(context.Background(), "org-a", TeamRequest{Name: "Leadership Team"})
	assert.ErrorIs(t, err, svcerr.ErrConflict)

	// 其他组织不受影响
	_, err = svc.Create(context.Background(), "org-b", TeamRequest{Name: "Leadership Team"})
	assert.NoError(t, err)
}

func TestTeamDeleteLeadershipForbidden(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	teamRepo.teams["t-lead"] = &model.Team{
		ID: "t-lead", OrganizationID: "org-a", Name: "Leadership Team", IsLeadershipTeam: true,
	}
	teamRepo.teams["t-normal"] = &model.Team{ID: "t-normal", OrganizationID: "org-a", Name: "Sales"}
	svc := newTestTeamService(teamRepo, &fakeUserRepo{users: map[string]*model.User{}})

	err := svc.Delete(context.Background(), "org-a", "t-lead")
	assert.ErrorIs(t, err, svcerr.ErrForbidden)

	err = svc.Delete(context.Background(), "org-a", "t-normal")
	require.NoError(t, err)
	_, ok := teamRepo.teams["t-normal"]
	assert.False(t, ok)
}

func TestTeamAddMember(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	teamRepo.teams["t1"] = &model.Team{ID: "t1", OrganizationID: "org-a", Name: "Sales"}
	userRepo := &fakeUserRepo{users: map[string]*model.User{
		"u1": {ID: "u1", OrganizationID: "org-a"},
		"c1": {ID: "c1", OrganizationID: "org-b", IsConsultant: true},
		"x1": {ID: "x1", OrganizationID: "org-b"},
	}}
	svc := newTestTeamService(teamRepo, userRepo)
	ctx := context.Background()

	require.NoError(t, svc.AddMember(ctx, "org-a", "t1", "u1", ""))
	assert.True(t, teamRepo.memberships["u1/t1"])

	// 重复加入冲突
	err := svc.AddMember(ctx, "org-a", "t1", "u1", "")
	assert.ErrorIs(t, err, svcerr.ErrConflict)

	// 顾问可以跨组织加入
	require.NoError(t, svc.AddMember(ctx, "org-a", "t1", "c1", "member"))

	// 普通外组织用户不行
	err = svc.AddMember(ctx, "org-a", "t1", "x1", "")
	assert.True(t, svcerr.IsValidation(err))

	// 不存在的用户
	err = svc.AddMember(ctx, "org-a", "t1", "ghost", "")
	assert.ErrorIs(t, err, svcerr.ErrNotFound)
}

func TestTeamRemoveMember(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	teamRepo.teams["t1"] = &model.Team{ID: "t1", OrganizationID: "org-a", Name: "Sales"}
	teamRepo.memberships["u1/t1"] = true
	svc := newTestTeamService(teamRepo, &fakeUserRepo{users: map[string]*model.User{}})
	ctx := context.Background()

	require.NoError(t, svc.RemoveMember(ctx, "org-a", "t1", "u1"))
	assert.False(t, teamRepo.memberships["u1/t1"])

	// 再次删除视为不存在
	err := svc.RemoveMember(ctx, "org-a", "t1", "u1")
	assert.ErrorIs(t, err, svcerr.ErrNotFound)
}
