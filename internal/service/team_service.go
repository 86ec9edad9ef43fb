package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leboweric/eos-platform-sub008/internal/model"
	"github.com/leboweric/eos-platform-sub008/internal/repository"
	"github.com/leboweric/eos-platform-sub008/internal/svcerr"
	"github.com/leboweric/eos-platform-sub008/pkg/events"
	"github.com/leboweric/eos-platform-sub008/pkg/kafka"
	"github.com/leboweric/eos-platform-sub008/pkg/log"
)

// TeamRequest 定义了团队创建与更新的请求体。
type TeamRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	DepartmentID *string `json:"departmentId"`
}

// TeamService 定义了团队与成员关系的业务逻辑。
type TeamService interface {
	List(ctx context.Context, orgID string) ([]model.Team, error)
	// Get 按 ID 查询团队，全零 ID 解析为组织的领导团队。
	Get(ctx context.Context, orgID, id string) (*model.Team, error)
	Create(ctx context.Context, orgID string, req TeamRequest) (*model.Team, error)
	Update(ctx context.Context, orgID, id string, req TeamRequest) (*model.Team, error)
	Delete(ctx context.Context, orgID, id string) error
	ListMembers(ctx context.Context, orgID, teamID string) ([]model.User, error)
	AddMember(ctx context.Context, orgID, teamID, userID, role string) error
	RemoveMember(ctx context.Context, orgID, teamID, userID string) error
}

type teamService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
	access   AccessService
}

// NewTeamService 创建一个团队服务实例。
func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository, access AccessService) TeamService {
	return &teamService{teamRepo: teamRepo, userRepo: userRepo, access: access}
}

func (s *teamService) List(ctx context.Context, orgID string) ([]model.Team, error) {
	return s.teamRepo.ListForOrg(ctx, orgID)
}

func (s *teamService) Get(ctx context.Context, orgID, id string) (*model.Team, error) {
	// 全零 ID 是历史遗留的领导团队占位符
	if model.IsZeroTeamID(id) {
		team, err := s.teamRepo.FindLeadershipTeam(ctx, orgID)
		if err != nil {
			return nil, err
		}
		if team == nil {
			return nil, svcerr.NotFound("领导团队")
		}
		return team, nil
	}

	team, err := s.teamRepo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, svcerr.NotFound("团队")
	}
	return team, nil
}

func (s *teamService) Create(ctx context.Context, orgID string, req TeamRequest) (*model.Team, error) {
	team := &model.Team{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		DepartmentID:   req.DepartmentID,
		Name:           req.Name,
		Description:    req.Description,
		// 名字叫 Leadership Team 的团队自动获得领导团队标记
		IsLeadershipTeam: strings.EqualFold(req.Name, "Leadership Team"),
	}

	if team.IsLeadershipTeam {
		existing, err := s.teamRepo.FindLeadershipTeam(ctx, orgID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, svcerr.Conflict("组织已存在领导团队")
		}
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *teamService) Update(ctx context.Context, orgID, id string, req TeamRequest) (*model.Team, error) {
	team, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	team.Name = req.Name
	team.Description = req.Description
	team.DepartmentID = req.DepartmentID
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *teamService) Delete(ctx context.Context, orgID, id string) error {
	team, err := s.Get(ctx, orgID, id)
	if err != nil {
		return err
	}
	if team.IsLeadershipTeam {
		return svcerr.Forbidden("领导团队不能删除")
	}
	return s.teamRepo.Delete(ctx, orgID, team.ID)
}

func (s *teamService) ListMembers(ctx context.Context, orgID, teamID string) ([]model.User, error) {
	team, err := s.Get(ctx, orgID, teamID)
	if err != nil {
		return nil, err
	}
	return s.teamRepo.ListMembers(ctx, team.ID)
}

func (s *teamService) AddMember(ctx context.Context, orgID, teamID, userID, role string) error {
	team, err := s.Get(ctx, orgID, teamID)
	if err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return svcerr.NotFound("用户")
	}
	// 顾问可以跨组织加入团队，普通用户只能加入本组织的团队
	if user.OrganizationID != orgID && !user.IsConsultant {
		return svcerr.Validation("userId", "用户不属于该组织")
	}

	existing, err := s.teamRepo.FindMembership(ctx, userID, team.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return svcerr.Conflict("用户已是该团队成员")
	}

	if role == "" {
		role = model.RoleMember
	}
	member := &model.TeamMember{
		TeamID:   team.ID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now(),
	}
	if err := s.teamRepo.AddMember(ctx, member); err != nil {
		return err
	}

	s.publishMembershipChanged(ctx, userID, orgID)
	return nil
}

func (s *teamService) RemoveMember(ctx context.Context, orgID, teamID, userID string) error {
	team, err := s.Get(ctx, orgID, teamID)
	if err != nil {
		return err
	}

	existing, err := s.teamRepo.FindMembership(ctx, userID, team.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return svcerr.NotFound("团队成员")
	}

	if err := s.teamRepo.RemoveMember(ctx, team.ID, userID); err != nil {
		return err
	}

	s.publishMembershipChanged(ctx, userID, orgID)
	return nil
}

// publishMembershipChanged 发出成员变更事件并同步清除判定缓存。
func (s *teamService) publishMembershipChanged(ctx context.Context, userID, orgID string) {
	if err := s.access.Invalidate(ctx, userID, orgID); err != nil {
		log.Warnf("清除访问判定缓存失败: %v", err)
	}
	event := events.AccessEvent{
		Type:           events.TypeMembershipChanged,
		UserID:         userID,
		OrganizationID: orgID,
	}
	if err := kafka.ProduceAccessEvent(ctx, event); err != nil {
		log.Errorf("发送成员变更事件失败 user=%s org=%s: %v", userID, orgID, err)
	}
}
