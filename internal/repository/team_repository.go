package repository

import (
	"context"
	"errors"

	"github.com/leboweric/eos-platform-sub008/internal/model"
	"gorm.io/gorm"
)

// TeamRepository 接口定义了团队与成员关系的数据操作方法。
type TeamRepository interface {
	Create(ctx context.Context, team *model.Team) error
	FindByID(ctx context.Context, orgID, id string) (*model.Team, error)
	ListForOrg(ctx context.Context, orgID string) ([]model.Team, error)
	Update(ctx context.Context, team *model.Team) error
	Delete(ctx context.Context, orgID, id string) error
	// FindLeadershipTeam 返回组织的领导团队（组织级默认作用域）。
	FindLeadershipTeam(ctx context.Context, orgID string) (*model.Team, error)

	AddMember(ctx context.Context, member *model.TeamMember) error
	RemoveMember(ctx context.Context, teamID, userID string) error
	// FindMembership 查找用户在指定团队的成员关系行，不存在时返回 nil。
	FindMembership(ctx context.Context, userID, teamID string) (*model.TeamMember, error)
	// ListTeamIDsForUser 返回用户在某组织内所属的全部团队 ID。
	ListTeamIDsForUser(ctx context.Context, userID, orgID string) ([]string, error)
	ListMembers(ctx context.Context, teamID string) ([]model.User, error)
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository 创建一个新的 TeamRepository 实例。
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

// Create 在数据库中插入一个新的团队记录。
func (r *teamRepository) Create(ctx context.Context, team *model.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

// FindByID 在组织作用域内查找一个团队。
func (r *teamRepository) FindByID(ctx context.Context, orgID, id string) (*model.Team, error) {
	var team model.Team
	err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// ListForOrg 检索组织下的全部团队，领导团队在前。
func (r *teamRepository) ListForOrg(ctx context.Context, orgID string) ([]model.Team, error) {
	var teams []model.Team
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("is_leadership_team DESC, name").
		Find(&teams).Error
	return teams, err
}

// Update 更新数据库中一个已存在的团队记录。
func (r *teamRepository) Update(ctx context.Context, team *model.Team) error {
	return r.db.WithContext(ctx).Save(team).Error
}

// Delete 在组织作用域内删除一个团队及其成员关系。
func (r *teamRepository) Delete(ctx context.Context, orgID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&model.TeamMember{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND organization_id = ?", id, orgID).
			Delete(&model.Team{}).Error
	})
}

// FindLeadershipTeam 返回组织的领导团队，不存在时返回 nil。
func (r *teamRepository) FindLeadershipTeam(ctx context.Context, orgID string) (*model.Team, error) {
	var team model.Team
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND is_leadership_team = ?", orgID, true).
		First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// AddMember 插入一条团队成员关系行。
func (r *teamRepository) AddMember(ctx context.Context, member *model.TeamMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// RemoveMember 删除一条团队成员关系行。
func (r *teamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	return r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&model.TeamMember{}).Error
}

// FindMembership 查找用户在指定团队的成员关系行。
func (r *teamRepository) FindMembership(ctx context.Context, userID, teamID string) (*model.TeamMember, error) {
	var member model.TeamMember
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND team_id = ?", userID, teamID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListTeamIDsForUser 返回用户在某组织内所属的全部团队 ID。
func (r *teamRepository) ListTeamIDsForUser(ctx context.Context, userID, orgID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.TeamMember{}).
		Joins("JOIN teams t ON t.id = team_members.team_id").
		Where("team_members.user_id = ? AND t.organization_id = ?", userID, orgID).
		Pluck("team_members.team_id", &ids).Error
	return ids, err
}

// ListMembers 返回团队的全部成员用户。
func (r *teamRepository) ListMembers(ctx context.Context, teamID string) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Joins("JOIN team_members tm ON tm.user_id = users.id").
		Where("tm.team_id = ?", teamID).
		Order("users.first_name, users.last_name").
		Find(&users).Error
	return users, err
}
