package service

import (
	"context"
	"time"

	"github.com/leboweric/eos-platform-sub008/internal/model"
	"github.com/leboweric/eos-platform-sub008/internal/repository"
	"github.com/leboweric/eos-platform-sub008/internal/svcerr"
	"github.com/leboweric/eos-platform-sub008/pkg/events"
	"github.com/leboweric/eos-platform-sub008/pkg/kafka"
	"github.com/leboweric/eos-platform-sub008/pkg/log"
)

// UpdateOrganizationRequest 定义了组织信息更新的请求体，空字段不修改。
type UpdateOrganizationRequest struct {
	Name                string `json:"name"`
	ThemePrimaryColor   string `json:"themePrimaryColor"`
	ThemeSecondaryColor string `json:"themeSecondaryColor"`
	ThemeAccentColor    string `json:"themeAccentColor"`
}

// OrganizationService 定义了组织目录与顾问授权的业务逻辑。
type OrganizationService interface {
	Get(ctx context.Context, orgID string) (*model.Organization, error)
	Update(ctx context.Context, orgID string, req UpdateOrganizationRequest) (*model.Organization, error)
	// ListGrantedOrganizations 返回顾问被授权访问的全部组织。
	ListGrantedOrganizations(ctx context.Context, consultant *model.User) ([]model.Organization, error)
	// Grant 给顾问授予某组织的访问权。
	Grant(ctx context.Context, consultantUserID, orgID string) error
	// Revoke 收回顾问对某组织的访问权。
	Revoke(ctx context.Context, consultantUserID, orgID string) error
}

type organizationService struct {
	orgRepo  repository.OrganizationRepository
	userRepo repository.UserRepository
	access   AccessService
}

// NewOrganizationService 创建一个组织服务实例。
func NewOrganizationService(orgRepo repository.OrganizationRepository, userRepo repository.UserRepository, access AccessService) OrganizationService {
	return &organizationService{orgRepo: orgRepo, userRepo: userRepo, access: access}
}

func (s *organizationService) Get(ctx context.Context, orgID string) (*model.Organization, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, svcerr.NotFound("组织")
	}
	return org, nil
}

func (s *organizationService) Update(ctx context.Context, orgID string, req UpdateOrganizationRequest) (*model.Organization, error) {
	org, err := s.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		org.Name = req.Name
	}
	if req.ThemePrimaryColor != "" {
		org.ThemePrimaryColor = req.ThemePrimaryColor
	}
	if req.ThemeSecondaryColor != "" {
		org.ThemeSecondaryColor = req.ThemeSecondaryColor
	}
	if req.ThemeAccentColor != "" {
		org.ThemeAccentColor = req.ThemeAccentColor
	}

	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *organizationService) ListGrantedOrganizations(ctx context.Context, consultant *model.User) ([]model.Organization, error) {
	if !consultant.IsConsultant {
		return nil, svcerr.Forbidden("仅顾问账号可以查看授权组织")
	}
	return s.orgRepo.ListGrantedOrgs(ctx, consultant.ID)
}

func (s *organizationService) Grant(ctx context.Context, consultantUserID, orgID string) error {
	consultant, err := s.userRepo.FindByID(ctx, consultantUserID)
	if err != nil {
		return err
	}
	if consultant == nil {
		return svcerr.NotFound("用户")
	}
	if !consultant.IsConsultant {
		return svcerr.Validation("consultantUserId", "该用户不是顾问账号")
	}

	if _, err := s.Get(ctx, orgID); err != nil {
		return err
	}

	existing, err := s.orgRepo.FindGrant(ctx, consultantUserID, orgID)
	if err != nil {
		return err
	}
	if existing != nil {
		return svcerr.Conflict("该顾问已拥有此组织的访问权")
	}

	grant := &model.ConsultantOrganization{
		ConsultantUserID: consultantUserID,
		OrganizationID:   orgID,
		CreatedAt:        time.Now(),
	}
	if err := s.orgRepo.CreateGrant(ctx, grant); err != nil {
		return err
	}

	s.publishGrantChanged(ctx, consultantUserID, orgID)
	return nil
}

func (s *organizationService) Revoke(ctx context.Context, consultantUserID, orgID string) error {
	existing, err := s.orgRepo.FindGrant(ctx, consultantUserID, orgID)
	if err != nil {
		return err
	}
	if existing == nil {
		return svcerr.NotFound("授权记录")
	}

	if err := s.orgRepo.DeleteGrant(ctx, consultantUserID, orgID); err != nil {
		return err
	}

	s.publishGrantChanged(ctx, consultantUserID, orgID)
	return nil
}

// publishGrantChanged 发出授权变更事件并同步清除本地判定缓存。
// 事件发送失败只记录日志，缓存会随 TTL 过期兜底。
func (s *organizationService) publishGrantChanged(ctx context.Context, userID, orgID string) {
	if err := s.access.Invalidate(ctx, userID, orgID); err != nil {
		log.Warnf("清除访问判定缓存失败: %v", err)
	}
	event := events.AccessEvent{
		Type:           events.TypeGrantChanged,
		UserID:         userID,
		OrganizationID: orgID,
	}
	if err := kafka.ProduceAccessEvent(ctx, event); err != nil {
		log.Errorf("发送授权变更事件失败 user=%s org=%s: %v", userID, orgID, err)
	}
}
