package repository

import (
	"context"
	"errors"

	"github.com/leboweric/eos-platform-sub008/internal/model"
	"gorm.io/gorm"
)

// OrganizationRepository 接口定义了组织与顾问授权行的数据操作方法。
type OrganizationRepository interface {
	Create(ctx context.Context, org *model.Organization) error
	FindByID(ctx context.Context, id string) (*model.Organization, error)
	Update(ctx context.Context, org *model.Organization) error

	// 顾问授权行：跨租户访问的唯一依据。
	CreateGrant(ctx context.Context, grant *model.ConsultantOrganization) error
	DeleteGrant(ctx context.Context, consultantUserID, orgID string) error
	FindGrant(ctx context.Context, consultantUserID, orgID string) (*model.ConsultantOrganization, error)
	ListGrantedOrgs(ctx context.Context, consultantUserID string) ([]model.Organization, error)
}

type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository 创建一个新的 OrganizationRepository 实例。
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

// Create 在数据库中插入一个新的组织记录。
func (r *organizationRepository) Create(ctx context.Context, org *model.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

// FindByID 根据 ID 查找组织。
func (r *organizationRepository) FindByID(ctx context.Context, id string) (*model.Organization, error) {
	var org model.Organization
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// Update 更新数据库中一个已存在的组织记录。
func (r *organizationRepository) Update(ctx context.Context, org *model.Organization) error {
	return r.db.WithContext(ctx).Save(org).Error
}

// CreateGrant 插入一条顾问-组织授权行。
func (r *organizationRepository) CreateGrant(ctx context.Context, grant *model.ConsultantOrganization) error {
	return r.db.WithContext(ctx).Create(grant).Error
}

// DeleteGrant 删除一条顾问-组织授权行。
func (r *organizationRepository) DeleteGrant(ctx context.Context, consultantUserID, orgID string) error {
	return r.db.WithContext(ctx).
		Where("consultant_user_id = ? AND organization_id = ?", consultantUserID, orgID).
		Delete(&model.ConsultantOrganization{}).Error
}

// FindGrant 查找指定顾问对指定组织的授权行。
func (r *organizationRepository) FindGrant(ctx context.Context, consultantUserID, orgID string) (*model.ConsultantOrganization, error) {
	var grant model.ConsultantOrganization
	err := r.db.WithContext(ctx).
		Where("consultant_user_id = ? AND organization_id = ?", consultantUserID, orgID).
		First(&grant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// ListGrantedOrgs 列出顾问被授权访问的全部组织。
func (r *organizationRepository) ListGrantedOrgs(ctx context.Context, consultantUserID string) ([]model.Organization, error) {
	var orgs []model.Organization
	err := r.db.WithContext(ctx).
		Joins("JOIN consultant_organizations co ON co.organization_id = organizations.id").
		Where("co.consultant_user_id = ?", consultantUserID).
		Order("organizations.name").
		Find(&orgs).Error
	return orgs, err
}
