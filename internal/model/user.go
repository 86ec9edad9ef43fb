package model

import "time"

// 用户角色常量。
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleMember  = "member"
)

// User 对应于数据库中的 'users' 表。
// 每个用户恰好归属一个组织（主租户）；IsConsultant 标记该用户可能
// 通过 consultant_organizations 授权行获得跨租户访问能力。
type User struct {
	ID           string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	FirstName    string `gorm:"type:varchar(100)" json:"firstName"`
	LastName     string `gorm:"type:varchar(100)" json:"lastName"`
	// Role 取值为 admin / manager / member。
	Role string `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	// OrganizationID 是用户的主租户。
	OrganizationID string    `gorm:"type:varchar(36);index;not null" json:"organizationId"`
	IsConsultant   bool      `gorm:"not null;default:false" json:"isConsultant"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (User) TableName() string {
	return "users"
}

// FullName 返回用户的显示名称。
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	return u.FirstName + " " + u.LastName
}

// IsAdmin 报告用户是否为管理员角色。
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
