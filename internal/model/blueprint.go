package model

import "time"

// BusinessBlueprint 对应于 'business_blueprints' 表（战略蓝图 / VTO 聚合根）。
// 作用域键：组织 + (TeamID 或 DepartmentID，二者互斥)；两者都为空表示组织级蓝图。
// 蓝图在首次访问时惰性创建（get-or-create），子实体按蓝图 ID upsert。
type BusinessBlueprint struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrganizationID string    `gorm:"type:varchar(36);index:idx_bp_scope;not null" json:"organizationId"`
	TeamID         *string   `gorm:"type:varchar(36);index:idx_bp_scope" json:"teamId"`
	DepartmentID   *string   `gorm:"type:varchar(36);index:idx_bp_scope" json:"departmentId"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (BusinessBlueprint) TableName() string {
	return "business_blueprints"
}

// CoreValue 是蓝图的核心价值观条目。
type CoreValue struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	BlueprintID string    `gorm:"type:varchar(36);index;not null" json:"blueprintId"`
	Value       string    `gorm:"type:varchar(255);not null" json:"value"`
	Description string    `gorm:"type:text" json:"description"`
	SortOrder   int       `gorm:"not null;default:0" json:"sortOrder"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (CoreValue) TableName() string {
	return "core_values"
}

// CoreFocus 是蓝图的核心焦点，每个蓝图至多一行。
type CoreFocus struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	BlueprintID string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"blueprintId"`
	Purpose     string    `gorm:"type:text" json:"purpose"`
	Niche       string    `gorm:"type:text" json:"niche"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (CoreFocus) TableName() string {
	return "core_focus"
}

// TenYearTarget 是蓝图的十年目标，每个蓝图至多一行。
type TenYearTarget struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	BlueprintID string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"blueprintId"`
	Description string    `gorm:"type:text" json:"description"`
	TargetYear  int       `json:"targetYear"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (TenYearTarget) TableName() string {
	return "ten_year_targets"
}

// ThreeYearPicture 是蓝图的三年图景，每个蓝图至多一行。
type ThreeYearPicture struct {
	ID          string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	BlueprintID string     `gorm:"type:varchar(36);uniqueIndex;not null" json:"blueprintId"`
	Revenue     string     `gorm:"type:varchar(100)" json:"revenue"`
	Profit      string     `gorm:"type:varchar(100)" json:"profit"`
	Vision      string     `gorm:"type:text" json:"vision"`
	TargetDate  *time.Time `json:"targetDate"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (ThreeYearPicture) TableName() string {
	return "three_year_pictures"
}

// OneYearPlan 是蓝图的一年计划，每个蓝图至多一行。
type OneYearPlan struct {
	ID          string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	BlueprintID string     `gorm:"type:varchar(36);uniqueIndex;not null" json:"blueprintId"`
	Revenue     string     `gorm:"type:varchar(100)" json:"revenue"`
	Profit      string     `gorm:"type:varchar(100)" json:"profit"`
	Goals       string     `gorm:"type:text" json:"goals"`
	TargetDate  *time.Time `json:"targetDate"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (OneYearPlan) TableName() string {
	return "one_year_plans"
}
