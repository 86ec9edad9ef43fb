package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/leboweric/eos-platform-sub008/internal/model"
	"github.com/leboweric/eos-platform-sub008/internal/repository"
	"github.com/leboweric/eos-platform-sub008/pkg/database"
	"github.com/leboweric/eos-platform-sub008/pkg/events"
	"github.com/leboweric/eos-platform-sub008/pkg/log"
)

// Protected 是受可见性控制的资源需要实现的能力接口，
// 文档与文件夹都实现了它，判定逻辑因此只写一份。
type Protected interface {
	OwnerOrgID() string
	VisibilityClass() string
	VisibilityTeamID() *string
	OwnerUserID() string
}

// AccessScope 描述了一个用户在某个组织内的完整访问视角，
// 由一次请求开始时构建，之后所有判定都基于它，不再回查数据库。
type AccessScope struct {
	UserID         string
	OrganizationID string
	Role           string
	IsConsultant   bool
	// TeamIDs 是用户在当前组织内所属的全部团队 ID。
	TeamIDs []string
}

// IsAdmin 判断该视角是否具有管理员权限。
func (s *AccessScope) IsAdmin() bool {
	return s.Role == model.RoleAdmin
}

// InTeam 判断用户是否属于指定团队。
func (s *AccessScope) InTeam(teamID string) bool {
	for _, id := range s.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}

// AccessService 是多租户访问控制的核心判定服务。
type AccessService interface {
	// CanAccessOrganization 判断用户能否进入指定组织：
	// 要么是用户的本籍组织，要么用户是顾问且持有该组织的授权记录。
	CanAccessOrganization(ctx context.Context, user *model.User, orgID string) (bool, error)
	// CanAccessTeam 判断用户能否访问指定团队，团队判定严格窄于组织判定。
	CanAccessTeam(ctx context.Context, user *model.User, orgID, teamID string) (bool, error)
	// ScopeFor 为用户在指定组织内构建访问视角，组织不可访问时返回 nil。
	ScopeFor(ctx context.Context, user *model.User, orgID string) (*AccessScope, error)
	// CanView 判断访问视角能否看到某个受保护资源。
	CanView(scope *AccessScope, res Protected) bool
	// Invalidate 清除用户在指定组织下的判定缓存。
	Invalidate(ctx context.Context, userID, orgID string) error
}

type accessService struct {
	orgRepo  repository.OrganizationRepository
	teamRepo repository.TeamRepository
	cacheTTL time.Duration
}

// NewAccessService 创建一个访问控制服务实例。
// cacheTTLSeconds 为 0 时关闭 Redis 判定缓存。
func NewAccessService(orgRepo repository.OrganizationRepository, teamRepo repository.TeamRepository, cacheTTLSeconds int) AccessService {
	return &accessService{
		orgRepo:  orgRepo,
		teamRepo: teamRepo,
		cacheTTL: time.Duration(cacheTTLSeconds) * time.Second,
	}
}

func accessCacheKey(userID, orgID string) string {
	return fmt.Sprintf("access:%s:%s", userID, orgID)
}

func (s *accessService) CanAccessOrganization(ctx context.Context, user *model.User, orgID string) (bool, error) {
	// 本籍组织直接放行，不走缓存
	if user.OrganizationID == orgID {
		return true, nil
	}
	if !user.IsConsultant {
		return false, nil
	}

	// 顾问的跨组织判定需要查授权表，结果短暂缓存
	if s.cacheTTL > 0 {
		cached, err := database.RDB.Get(ctx, accessCacheKey(user.ID, orgID)).Result()
		if err == nil {
			return cached == "1", nil
		}
		if err != redis.Nil {
			log.Warnf("读取访问判定缓存失败: %v", err)
		}
	}

	grant, err := s.orgRepo.FindGrant(ctx, user.ID, orgID)
	if err != nil {
		return false, err
	}
	allowed := grant != nil

	if s.cacheTTL > 0 {
		val := "0"
		if allowed {
			val = "1"
		}
		if err := database.RDB.Set(ctx, accessCacheKey(user.ID, orgID), val, s.cacheTTL).Err(); err != nil {
			log.Warnf("写入访问判定缓存失败: %v", err)
		}
	}
	return allowed, nil
}

func (s *accessService) CanAccessTeam(ctx context.Context, user *model.User, orgID, teamID string) (bool, error) {
	ok, err := s.CanAccessOrganization(ctx, user, orgID)
	if err != nil || !ok {
		return false, err
	}

	// 团队必须属于该组织，跨组织的团队 ID 视为不存在
	team, err := s.teamRepo.FindByID(ctx, orgID, teamID)
	if err != nil {
		return false, err
	}
	if team == nil {
		return false, nil
	}

	// 团队访问只看成员关系行，管理员和顾问也不例外
	membership, err := s.teamRepo.FindMembership(ctx, user.ID, teamID)
	if err != nil {
		return false, err
	}
	return membership != nil, nil
}

func (s *accessService) ScopeFor(ctx context.Context, user *model.User, orgID string) (*AccessScope, error) {
	ok, err := s.CanAccessOrganization(ctx, user, orgID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	teamIDs, err := s.teamRepo.ListTeamIDsForUser(ctx, user.ID, orgID)
	if err != nil {
		return nil, err
	}

	return &AccessScope{
		UserID:         user.ID,
		OrganizationID: orgID,
		Role:           user.Role,
		IsConsultant:   user.IsConsultant,
		TeamIDs:        teamIDs,
	}, nil
}

func (s *accessService) CanView(scope *AccessScope, res Protected) bool {
	// 跨组织资源一律不可见，可见性分类在此之后才有意义
	if res.OwnerOrgID() != scope.OrganizationID {
		return false
	}

	switch res.VisibilityClass() {
	case model.VisibilityCompany:
		return true
	case model.VisibilityDepartment:
		// 只看成员关系，与列表查询的 SQL 谓词保持同一答案；
		// 没有标团队的 department 行任何人都查不到
		teamID := res.VisibilityTeamID()
		if teamID == nil {
			return false
		}
		return scope.InTeam(*teamID)
	case model.VisibilityPrivate:
		return scope.IsAdmin() || res.OwnerUserID() == scope.UserID
	default:
		return false
	}
}

func (s *accessService) Invalidate(ctx context.Context, userID, orgID string) error {
	if s.cacheTTL <= 0 {
		return nil
	}
	return database.RDB.Del(ctx, accessCacheKey(userID, orgID)).Err()
}

// CacheInvalidator 消费访问事件并清除对应的判定缓存，
// 作为 Kafka 消费者的处理器挂到事件流上。
type CacheInvalidator struct {
	access AccessService
}

// NewCacheInvalidator 创建一个缓存失效处理器。
func NewCacheInvalidator(access AccessService) *CacheInvalidator {
	return &CacheInvalidator{access: access}
}

// Handle 根据事件中的用户与组织清除判定缓存。
// 清除失败只记录日志，缓存会随 TTL 自行过期。
func (h *CacheInvalidator) Handle(ctx context.Context, event events.AccessEvent) error {
	if event.UserID == "" || event.OrganizationID == "" {
		return nil
	}
	if err := h.access.Invalidate(ctx, event.UserID, event.OrganizationID); err != nil {
		log.Errorf("清除访问判定缓存失败 user=%s org=%s: %v", event.UserID, event.OrganizationID, err)
		return err
	}
	log.Infof("访问判定缓存已清除 user=%s org=%s type=%s", event.UserID, event.OrganizationID, event.Type)
	return nil
}
