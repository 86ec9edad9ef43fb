package model

import "time"

// ZeroTeamID 是历史遗留的占位团队 ID，语义上等价于"未选择团队"。
const ZeroTeamID = "00000000-0000-0000-0000-000000000000"

// IsZeroTeamID 报告给定的团队 ID 是否为遗留占位 ID。
func IsZeroTeamID(teamID string) bool {
	return teamID == ZeroTeamID
}

// Team 对应于数据库中的 'teams' 表。
// 团队归属于一个组织，可选地挂在某个部门下。
// IsLeadershipTeam 标记的团队作为组织级默认范围使用。
type Team struct {
	ID             string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrganizationID string  `gorm:"type:varchar(36);index;not null" json:"organizationId"`
	DepartmentID   *string `gorm:"type:varchar(36);index" json:"departmentId"`
	Name           string  `gorm:"type:varchar(255);not null" json:"name"`
	Description    string  `gorm:"type:text" json:"description"`
	IsLeadershipTeam bool      `gorm:"not null;default:false" json:"isLeadershipTeam"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Team) TableName() string {
	return "teams"
}

// TeamMember 对应于 'team_members' 表，是用户与团队的多对多成员关系行。
type TeamMember struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	TeamID string `gorm:"type:varchar(36);uniqueIndex:idx_team_user;not null" json:"teamId"`
	UserID string `gorm:"type:varchar(36);uniqueIndex:idx_team_user;index;not null" json:"userId"`
	// Role 是成员在团队内的角色，例如 member / leader。
	Role     string    `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joinedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (TeamMember) TableName() string {
	return "team_members"
}
