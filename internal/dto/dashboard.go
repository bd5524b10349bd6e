package dto

// ── 看板 DTO ──

// DashboardStats 看板统计卡片
type DashboardStats struct {
	TeamSize       int    `json:"team_size"`
	ActiveMembers  int    `json:"active_members"` // 非 On Leave
	ActiveProjects int    `json:"active_projects"`
	TotalProjects  int    `json:"total_projects"`
	AvgUtilization int    `json:"avg_utilization"`
	HealthLabel    string `json:"health_label"`
	OnLeave        int    `json:"on_leave"`
	AvailableCount int    `json:"available_count"`
}

// MemberUtilization 看板中的成员负载条
type MemberUtilization struct {
	MemberID    string `json:"member_id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Initials    string `json:"initials"`
	AvatarColor int    `json:"avatar_color"`
	Utilization int    `json:"utilization"`
	Band        string `json:"band"`
	BarWidth    int    `json:"bar_width"`
}

// FeedAvatar 项目卡片上的成员头像
type FeedAvatar struct {
	MemberID    string `json:"member_id"`
	Name        string `json:"name"`
	Initials    string `json:"initials"`
	AvatarColor int    `json:"avatar_color"`
}

// FeedProject 看板进行中项目
type FeedProject struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Priority      string       `json:"priority"`
	PriorityClass string       `json:"priority_class"`
	Status        string       `json:"status"`
	StatusClass   string       `json:"status_class"`
	EndDate       *string      `json:"end_date"`
	Avatars       []FeedAvatar `json:"avatars"`
	ExtraCount    int          `json:"extra_count"`
}

// DashboardView GET /dashboard
type DashboardView struct {
	Stats       DashboardStats      `json:"stats"`
	Utilization []MemberUtilization `json:"utilization"`
	Projects    []FeedProject       `json:"projects"`
}

// [自证通过] internal/dto/dashboard.go
