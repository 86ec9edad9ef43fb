package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/leboweric/eos-platform-sub008/internal/model"
	"github.com/leboweric/eos-platform-sub008/internal/repository"
	"github.com/leboweric/eos-platform-sub008/internal/svcerr"
	"github.com/leboweric/eos-platform-sub008/pkg/database"
	"github.com/leboweric/eos-platform-sub008/pkg/hash"
	"github.com/leboweric/eos-platform-sub008/pkg/log"
	"github.com/leboweric/eos-platform-sub008/pkg/token"
	"gorm.io/gorm"
)

// RegisterRequest 定义了注册接口的请求体。
// 注册会同时创建组织、领导团队和管理员账号。
type RegisterRequest struct {
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=8"`
	FirstName        string `json:"firstName" binding:"required"`
	LastName         string `json:"lastName" binding:"required"`
	OrganizationName string `json:"organizationName" binding:"required"`
}

// LoginRequest 定义了登录接口的请求体。
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse 是注册与登录成功后的统一返回结构。
type AuthResponse struct {
	User         *model.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// UserService 定义了账号与会话相关的业务逻辑。
type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	Logout(ctx context.Context, accessToken string) error
	GetProfile(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID, firstName, lastName string) (*model.User, error)
}

type userService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	jwtMgr   *token.JWTManager
}

// NewUserService 创建一个用户服务实例。
func NewUserService(db *gorm.DB, userRepo repository.UserRepository, jwtMgr *token.JWTManager) UserService {
	return &userService{db: db, userRepo: userRepo, jwtMgr: jwtMgr}
}

func (s *userService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, svcerr.Conflict("邮箱已被注册")
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hashed,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         model.RoleAdmin,
	}

	// 组织、领导团队、管理员账号和团队成员关系要么全部建立，要么全部回滚
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org := &model.Organization{
			ID:   uuid.NewString(),
			Name: req.OrganizationName,
		}
		if err := tx.Create(org).Error; err != nil {
			return err
		}

		user.OrganizationID = org.ID
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		leadership := &model.Team{
			ID:               uuid.NewString(),
			OrganizationID:   org.ID,
			Name:             "Leadership Team",
			IsLeadershipTeam: true,
		}
		if err := tx.Create(leadership).Error; err != nil {
			return err
		}

		member := &model.TeamMember{
			TeamID:   leadership.ID,
			UserID:   user.ID,
			Role:     model.RoleAdmin,
			JoinedAt: time.Now(),
		}
		return tx.Create(member).Error
	})
	if err != nil {
		return nil, err
	}

	log.Infow("新组织注册成功", "organizationId", user.OrganizationID, "userId", user.ID)
	return s.issueTokens(user)
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	// 账号不存在与密码错误返回同一个错误，不暴露邮箱是否注册过
	if user == nil || !hash.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, svcerr.ErrUnauthorized
	}

	return s.issueTokens(user)
}

func (s *userService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtMgr.VerifyToken(refreshToken)
	if err != nil {
		return nil, svcerr.ErrUnauthorized
	}

	userID, err := claims.SubjectID()
	if err != nil {
		return nil, svcerr.ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, svcerr.ErrUnauthorized
	}

	return s.issueTokens(user)
}

func (s *userService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwtMgr.VerifyToken(accessToken)
	if err != nil {
		// 无效令牌视为已登出
		return nil
	}

	if claims.ExpiresAt == nil {
		return nil
	}

	// 把令牌加入黑名单，有效期与令牌剩余寿命一致
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}
	return database.RDB.Set(ctx, "blacklist:"+accessToken, "1", remaining).Err()
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, svcerr.NotFound("用户")
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID, firstName, lastName string) (*model.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if firstName != "" {
		user.FirstName = firstName
	}
	if lastName != "" {
		user.LastName = lastName
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) issueTokens(user *model.User) (*AuthResponse, error) {
	accessToken, err := s.jwtMgr.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// IsTokenBlacklisted 检查访问令牌是否已被登出。
func IsTokenBlacklisted(ctx context.Context, accessToken string) (bool, error) {
	_, err := database.RDB.Get(ctx, "blacklist:"+accessToken).Result()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	return false, err
}
