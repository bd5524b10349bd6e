// Package access 基于角色的访问策略。
package access

import (
	"context"

	"github.com/fahroediin/resource-tracker/internal/model"
)

// Actor 当前请求的操作者，由 JWT 主体与档案查询构建
type Actor struct {
	ProfileID string
	FullName  string
	Email     string
	Role      model.Role
}

// CanEdit admin / head 可增删改成员、项目与技能评分
func (a *Actor) CanEdit() bool {
	if a == nil {
		return false
	}
	return a.Role == model.RoleAdmin || a.Role == model.RoleHead
}

// IsAdmin 仅 admin 可管理用户角色
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == model.RoleAdmin
}

// CanSeeUsers 用户管理入口的可见性
func (a *Actor) CanSeeUsers() bool {
	return a.CanEdit()
}

// IsSelf 目标档案是否为本人
func (a *Actor) IsSelf(profileID string) bool {
	return a != nil && a.ProfileID != "" && a.ProfileID == profileID
}

// CanManageProfile 修改角色 / 删除用户：admin 且目标不是本人
func (a *Actor) CanManageProfile(targetID string) bool {
	return a.IsAdmin() && !a.IsSelf(targetID)
}

// ── 上下文传递 ──

type actorKey struct{}

// WithActor 将操作者写入 context
func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// FromContext 读取操作者；不存在时返回 nil（匿名，无任何权限）
func FromContext(ctx context.Context) *Actor {
	a, _ := ctx.Value(actorKey{}).(*Actor)
	return a
}
