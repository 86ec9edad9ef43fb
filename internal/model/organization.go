// Package model 定义了与数据库表对应的 Go 结构体。
package model

import "time"

// Organization 对应于数据库中的 'organizations' 表。
// 组织是租户隔离的顶层边界，所有其他实体都（传递地）归属于某个组织。
type Organization struct {
	// ID 是组织的唯一标识符（UUID），作为主键。
	ID string `gorm:"type:varchar(36);primaryKey" json:"id"`
	// Name 是组织的显示名称。
	Name string `gorm:"type:varchar(255);not null" json:"name"`
	// 主题颜色，由前端用于定制界面。
	ThemePrimaryColor   string `gorm:"type:varchar(7)" json:"themePrimaryColor"`
	ThemeSecondaryColor string `gorm:"type:varchar(7)" json:"themeSecondaryColor"`
	ThemeAccentColor    string `gorm:"type:varchar(7)" json:"themeAccentColor"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Organization) TableName() string {
	return "organizations"
}

// ConsultantOrganization 对应于 'consultant_organizations' 表。
// 它是授权行：允许一个顾问用户访问其主租户之外的某个组织。
// 该行由显式的授权动作创建，在每次跨租户请求时被查询，不会隐式过期。
type ConsultantOrganization struct {
	ConsultantUserID string    `gorm:"type:varchar(36);primaryKey" json:"consultantUserId"`
	OrganizationID   string    `gorm:"type:varchar(36);primaryKey" json:"organizationId"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (ConsultantOrganization) TableName() string {
	return "consultant_organizations"
}
