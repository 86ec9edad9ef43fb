package model

import "time"

// Department 对应于数据库中的 'departments' 表。
// 部门归属于一个组织，通过 ParentDepartmentID 构成树形结构，
// 顶层部门的 ParentDepartmentID 为 NULL。
// 不变量：部门不能是自己的祖先；该约束在写入时校验。
type Department struct {
	ID             string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrganizationID string  `gorm:"type:varchar(36);index;not null" json:"organizationId"`
	Name           string  `gorm:"type:varchar(255);not null" json:"name"`
	Description    string  `gorm:"type:text" json:"description"`
	// LeaderID 指向负责人用户，可以为空。
	LeaderID *string `gorm:"type:varchar(36)" json:"leaderId"`
	// ParentDepartmentID 指向父部门，使用指针以接受 NULL 值，表示顶层部门。
	ParentDepartmentID *string   `gorm:"type:varchar(36);index" json:"parentDepartmentId"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Department) TableName() string {
	return "departments"
}

// DepartmentNode represents a node in the department tree.
type DepartmentNode struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Description        string            `json:"description"`
	LeaderID           *string           `json:"leaderId"`
	LeaderName         string            `json:"leaderName"`
	ParentDepartmentID *string           `json:"parentDepartmentId"`
	MemberCount        int64             `json:"memberCount"`
	SubDepartments     []*DepartmentNode `json:"subDepartments"`
}
