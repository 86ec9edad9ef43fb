package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/leboweric/eos-platform-sub008/internal/model"
	"github.com/leboweric/eos-platform-sub008/internal/repository"
	"github.com/leboweric/eos-platform-sub008/internal/svcerr"
	"github.com/leboweric/eos-platform-sub008/pkg/database"
	"github.com/leboweric/eos-platform-sub008/pkg/log"
	"gorm.io/gorm"
)

// UserListResponse 是用户列表的分页响应结构。
type UserListResponse struct {
	Users    []model.User `json:"users"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"pageSize"`
}

// AdminService 定义了管理员专属的业务逻辑。
type AdminService interface {
	// ListUsers 分页列出组织内的用户。
	ListUsers(ctx context.Context, orgID string, page, pageSize int) (*UserListResponse, error)
	// UpdateUserRole 修改组织内用户的角色。
	UpdateUserRole(ctx context.Context, orgID, userID, role string) (*model.User, error)
	// ResetDemo 把演示组织的数据恢复到初始状态，受冷却时间限制。
	ResetDemo(ctx context.Context, orgID string) error
}

type adminService struct {
	db            *gorm.DB
	userRepo      repository.UserRepository
	demoOrgID     string
	resetCooldown time.Duration
}

// NewAdminService 创建一个管理员服务实例。
func NewAdminService(db *gorm.DB, userRepo repository.UserRepository, demoOrgID string, cooldownHours int) AdminService {
	return &adminService{
		db:            db,
		userRepo:      userRepo,
		demoOrgID:     demoOrgID,
		resetCooldown: time.Duration(cooldownHours) * time.Hour,
	}
}

func (s *adminService) ListUsers(ctx context.Context, orgID string, page, pageSize int) (*UserListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	users, total, err := s.userRepo.FindWithPagination(ctx, orgID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	return &UserListResponse{
		Users:    users,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *adminService) UpdateUserRole(ctx context.Context, orgID, userID, role string) (*model.User, error) {
	switch role {
	case model.RoleAdmin, model.RoleManager, model.RoleMember:
	default:
		return nil, svcerr.Validation("role", "角色必须是 admin、manager 或 member")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.OrganizationID != orgID {
		return nil, svcerr.NotFound("用户")
	}

	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *adminService) ResetDemo(ctx context.Context, orgID string) error {
	if s.demoOrgID == "" || orgID != s.demoOrgID {
		return svcerr.Forbidden("只有演示组织可以重置")
	}

	// 冷却时间持久化在 Redis 中，进程重启不会绕过限制
	key := fmt.Sprintf("demo:reset:%s", orgID)
	ok, err := database.RDB.SetNX(ctx, key, time.Now().Format(time.RFC3339), s.resetCooldown).Result()
	if err != nil {
		return err
	}
	if !ok {
		return svcerr.ErrCooldown
	}

	// 清空演示组织的业务数据并恢复基线，整体一个事务
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id IN (SELECT id FROM users WHERE organization_id = ?)", orgID).
			Delete(&model.DocumentFavorite{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("organization_id = ?", orgID).Delete(&model.Document{}).Error; err != nil {
			return err
		}
		if err := tx.Where("organization_id = ?", orgID).Delete(&model.DocumentFolder{}).Error; err != nil {
			return err
		}

		var blueprintIDs []string
		if err := tx.Model(&model.BusinessBlueprint{}).
			Where("organization_id = ?", orgID).
			Pluck("id", &blueprintIDs).Error; err != nil {
			return err
		}
		if len(blueprintIDs) > 0 {
			for _, child := range []interface{}{
				&model.CoreValue{}, &model.CoreFocus{}, &model.TenYearTarget{},
				&model.ThreeYearPicture{}, &model.OneYearPlan{},
			} {
				if err := tx.Where("blueprint_id IN ?", blueprintIDs).Delete(child).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("organization_id = ?", orgID).Delete(&model.BusinessBlueprint{}).Error; err != nil {
				return err
			}
		}

		// 非领导团队连同成员关系一起清掉，领导团队是组织的基线结构
		if err := tx.Where("team_id IN (SELECT id FROM teams WHERE organization_id = ? AND is_leadership_team = ?)", orgID, false).
			Delete(&model.TeamMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("organization_id = ? AND is_leadership_team = ?", orgID, false).
			Delete(&model.Team{}).Error; err != nil {
			return err
		}
		if err := tx.Where("organization_id = ?", orgID).Delete(&model.Department{}).Error; err != nil {
			return err
		}

		var leadership model.Team
		err := tx.Where("organization_id = ? AND is_leadership_team = ?", orgID, true).
			First(&leadership).Error
		if err == gorm.ErrRecordNotFound {
			leadership = model.Team{
				ID:               uuid.NewString(),
				OrganizationID:   orgID,
				Name:             "Leadership Team",
				IsLeadershipTeam: true,
			}
			return tx.Create(&leadership).Error
		}
		return err
	})
	if err != nil {
		// 重置失败时释放冷却锁，允许立即重试
		if delErr := database.RDB.Del(ctx, key).Err(); delErr != nil {
			log.Warnf("释放演示重置冷却锁失败: %v", delErr)
		}
		return err
	}

	log.Infow("演示组织已重置", "organizationId", orgID)
	return nil
}
