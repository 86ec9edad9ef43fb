// Package events 定义了访问控制相关的事件载荷。
// 成员关系或顾问授权发生变化时发布事件，消费方据此失效访问判定缓存，
// 保证多实例部署下缓存不会长期滞留过期判定。
package events

import "time"

// 事件类型常量。
const (
	// TypeMembershipChanged 表示团队成员关系发生了增删。
	TypeMembershipChanged = "membership_changed"
	// TypeGrantChanged 表示顾问-组织授权行发生了增删。
	TypeGrantChanged = "grant_changed"
)

// AccessEvent 是一次访问范围变化的通知。
// UserID + OrganizationID 唯一确定需要失效的缓存键。
type AccessEvent struct {
	Type           string    `json:"type"`
	UserID         string    `json:"userId"`
	OrganizationID string    `json:"organizationId"`
	OccurredAt     time.Time `json:"occurredAt"`
}
