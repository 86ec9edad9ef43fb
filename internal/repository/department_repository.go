package repository

import (
	"context"
	"errors"

	"github.com/leboweric/eos-platform-sub008/internal/model"
	"gorm.io/gorm"
)

// DepartmentRepository 接口定义了部门数据的持久化操作。
type DepartmentRepository interface {
	Create(ctx context.Context, dept *model.Department) error
	FindByID(ctx context.Context, orgID, id string) (*model.Department, error)
	ListForOrg(ctx context.Context, orgID string) ([]model.Department, error)
	Update(ctx context.Context, dept *model.Department) error
	Delete(ctx context.Context, orgID, id string) error
	CountChildren(ctx context.Context, orgID, id string) (int64, error)
	// MemberCounts 返回部门 ID 到成员数的映射。
	// 成员数是该部门下所有团队去重后的成员总数。
	MemberCounts(ctx context.Context, orgID string) (map[string]int64, error)
}

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository 创建一个新的 DepartmentRepository 实例。
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

// Create 在数据库中插入一个新的部门记录。
func (r *departmentRepository) Create(ctx context.Context, dept *model.Department) error {
	return r.db.WithContext(ctx).Create(dept).Error
}

// FindByID 在组织作用域内查找一个部门。
func (r *departmentRepository) FindByID(ctx context.Context, orgID, id string) (*model.Department, error) {
	var dept model.Department
	err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&dept).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

// ListForOrg 检索组织下的全部部门，顶层在前、同层按名称排序。
func (r *departmentRepository) ListForOrg(ctx context.Context, orgID string) ([]model.Department, error) {
	var depts []model.Department
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("parent_department_id IS NOT NULL, name").
		Find(&depts).Error
	return depts, err
}

// Update 更新数据库中一个已存在的部门记录。
func (r *departmentRepository) Update(ctx context.Context, dept *model.Department) error {
	return r.db.WithContext(ctx).Save(dept).Error
}

// Delete 在组织作用域内删除一个部门。
func (r *departmentRepository) Delete(ctx context.Context, orgID, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		Delete(&model.Department{}).Error
}

// CountChildren 统计直接子部门数量，用于删除前的校验。
func (r *departmentRepository) CountChildren(ctx context.Context, orgID, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Department{}).
		Where("organization_id = ? AND parent_department_id = ?", orgID, id).
		Count(&count).Error
	return count, err
}

// memberCountRow 用于接收聚合查询结果。
type memberCountRow struct {
	DepartmentID string
	MemberCount  int64
}

// MemberCounts 聚合各部门（经由其团队）去重后的成员数量。
func (r *departmentRepository) MemberCounts(ctx context.Context, orgID string) (map[string]int64, error) {
	var rows []memberCountRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT d.id AS department_id, COUNT(DISTINCT tm.user_id) AS member_count
		FROM departments d
		LEFT JOIN teams t ON t.department_id = d.id
		LEFT JOIN team_members tm ON tm.team_id = t.id
		WHERE d.organization_id = ?
		GROUP BY d.id`, orgID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.DepartmentID] = row.MemberCount
	}
	return counts, nil
}
