package repository

import (
	"context"
	"errors"

	"github.com/leboweric/eos-platform-sub008/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlueprintRepository 接口定义了战略蓝图及其子实体的数据操作方法。
// 子实体均按 blueprint_id upsert：依赖存储层的原子冲突合并，
// 不做应用层加锁。
type BlueprintRepository interface {
	FindByScope(ctx context.Context, orgID string, teamID, departmentID *string) (*model.BusinessBlueprint, error)
	Create(ctx context.Context, bp *model.BusinessBlueprint) error

	ListCoreValues(ctx context.Context, blueprintID string) ([]model.CoreValue, error)
	ReplaceCoreValues(ctx context.Context, blueprintID string, values []model.CoreValue) error
	GetCoreFocus(ctx context.Context, blueprintID string) (*model.CoreFocus, error)
	UpsertCoreFocus(ctx context.Context, focus *model.CoreFocus) error
	GetTenYearTarget(ctx context.Context, blueprintID string) (*model.TenYearTarget, error)
	UpsertTenYearTarget(ctx context.Context, target *model.TenYearTarget) error
	GetThreeYearPicture(ctx context.Context, blueprintID string) (*model.ThreeYearPicture, error)
	UpsertThreeYearPicture(ctx context.Context, picture *model.ThreeYearPicture) error
	GetOneYearPlan(ctx context.Context, blueprintID string) (*model.OneYearPlan, error)
	UpsertOneYearPlan(ctx context.Context, plan *model.OneYearPlan) error
}

type blueprintRepository struct {
	db *gorm.DB
}

// NewBlueprintRepository 创建一个新的 BlueprintRepository 实例。
func NewBlueprintRepository(db *gorm.DB) BlueprintRepository {
	return &blueprintRepository{db: db}
}

// FindByScope 按 组织 + (团队|部门) 作用域查找蓝图。
// teamID 与 departmentID 互斥；两者皆空表示组织级蓝图。
func (r *blueprintRepository) FindByScope(ctx context.Context, orgID string, teamID, departmentID *string) (*model.BusinessBlueprint, error) {
	db := r.db.WithContext(ctx).Where("organization_id = ?", orgID)
	if teamID != nil {
		db = db.Where("team_id = ?", *teamID)
	} else {
		db = db.Where("team_id IS NULL")
	}
	if departmentID != nil {
		db = db.Where("department_id = ?", *departmentID)
	} else {
		db = db.Where("department_id IS NULL")
	}

	var bp model.BusinessBlueprint
	err := db.First(&bp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bp, nil
}

// Create 在数据库中插入一条新的蓝图记录。
func (r *blueprintRepository) Create(ctx context.Context, bp *model.BusinessBlueprint) error {
	return r.db.WithContext(ctx).Create(bp).Error
}

// ListCoreValues 返回蓝图的核心价值观条目，按排序键排序。
func (r *blueprintRepository) ListCoreValues(ctx context.Context, blueprintID string) ([]model.CoreValue, error) {
	var values []model.CoreValue
	err := r.db.WithContext(ctx).
		Where("blueprint_id = ?", blueprintID).
		Order("sort_order, created_at").
		Find(&values).Error
	return values, err
}

// ReplaceCoreValues 以整组替换的方式更新核心价值观，整体在一个事务内完成。
func (r *blueprintRepository) ReplaceCoreValues(ctx context.Context, blueprintID string, values []model.CoreValue) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("blueprint_id = ?", blueprintID).Delete(&model.CoreValue{}).Error; err != nil {
			return err
		}
		if len(values) == 0 {
			return nil
		}
		return tx.Create(&values).Error
	})
}

// GetCoreFocus 返回蓝图的核心焦点。
func (r *blueprintRepository) GetCoreFocus(ctx context.Context, blueprintID string) (*model.CoreFocus, error) {
	var focus model.CoreFocus
	err := r.db.WithContext(ctx).Where("blueprint_id = ?", blueprintID).First(&focus).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &focus, nil
}

// UpsertCoreFocus 按 blueprint_id 冲突合并核心焦点。
func (r *blueprintRepository) UpsertCoreFocus(ctx context.Context, focus *model.CoreFocus) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "blueprint_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"purpose", "niche", "updated_at"}),
	}).Create(focus).Error
}

// GetTenYearTarget 返回蓝图的十年目标。
func (r *blueprintRepository) GetTenYearTarget(ctx context.Context, blueprintID string) (*model.TenYearTarget, error) {
	var target model.TenYearTarget
	err := r.db.WithContext(ctx).Where("blueprint_id = ?", blueprintID).First(&target).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &target, nil
}

// UpsertTenYearTarget 按 blueprint_id 冲突合并十年目标。
func (r *blueprintRepository) UpsertTenYearTarget(ctx context.Context, target *model.TenYearTarget) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "blueprint_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "target_year", "updated_at"}),
	}).Create(target).Error
}

// GetThreeYearPicture 返回蓝图的三年图景。
func (r *blueprintRepository) GetThreeYearPicture(ctx context.Context, blueprintID string) (*model.ThreeYearPicture, error) {
	var picture model.ThreeYearPicture
	err := r.db.WithContext(ctx).Where("blueprint_id = ?", blueprintID).First(&picture).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &picture, nil
}

// UpsertThreeYearPicture 按 blueprint_id 冲突合并三年图景。
func (r *blueprintRepository) UpsertThreeYearPicture(ctx context.Context, picture *model.ThreeYearPicture) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "blueprint_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"revenue", "profit", "vision", "target_date", "updated_at"}),
	}).Create(picture).Error
}

// GetOneYearPlan 返回蓝图的一年计划。
func (r *blueprintRepository) GetOneYearPlan(ctx context.Context, blueprintID string) (*model.OneYearPlan, error) {
	var plan model.OneYearPlan
	err := r.db.WithContext(ctx).Where("blueprint_id = ?", blueprintID).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// UpsertOneYearPlan 按 blueprint_id 冲突合并一年计划。
func (r *blueprintRepository) UpsertOneYearPlan(ctx context.Context, plan *model.OneYearPlan) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "blueprint_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"revenue", "profit", "goals", "target_date", "updated_at"}),
	}).Create(plan).Error
}
