// Package capacity 成员负载计算与分级，纯函数，不做任何 I/O。
package capacity

import (
	"math"

	"github.com/fahroediin/resource-tracker/internal/model"
)

// Band 负载分级
type Band int

const (
	BandUnder Band = iota
	BandOptimal
	BandHigh
	BandOver
)

// 分级阈值：<50 Under，50..80 Optimal，81..100 High，>100 Over
const (
	OptimalFloor = 50
	OptimalCeil  = 80
	FullLoad     = 100
)

// AllBands 全部分级
func AllBands() []Band {
	return []Band{BandUnder, BandOptimal, BandHigh, BandOver}
}

// ClassifyBand 根据负载百分比分级
// 进度条样式、颜色与容量标签统一使用此规则
func ClassifyBand(pct int) Band {
	switch {
	case pct < OptimalFloor:
		return BandUnder
	case pct <= OptimalCeil:
		return BandOptimal
	case pct <= FullLoad:
		return BandHigh
	default:
		return BandOver
	}
}

// Label 容量视图标签
func (b Band) Label() string {
	switch b {
	case BandUnder:
		return "Under-allocated"
	case BandOptimal:
		return "Optimal"
	case BandHigh:
		return "High Load"
	case BandOver:
		return "Over-allocated"
	}
	return ""
}

// Class 进度条样式
func (b Band) Class() string {
	switch b {
	case BandUnder:
		return "low"
	case BandOptimal:
		return "optimal"
	case BandHigh:
		return "high"
	case BandOver:
		return "over"
	}
	return ""
}

// StatusClass 容量标签样式
func (b Band) StatusClass() string {
	switch b {
	case BandUnder:
		return "status-under"
	case BandOptimal:
		return "status-optimal"
	case BandHigh:
		return "status-high"
	case BandOver:
		return "status-over"
	}
	return ""
}

// BarColor 进度条渐变色
func (b Band) BarColor() string {
	switch b {
	case BandUnder:
		return "linear-gradient(90deg, #6bc5d2, #88d8e0)"
	case BandOptimal:
		return "linear-gradient(90deg, #A2CB8B, #b8d9a5)"
	case BandHigh:
		return "linear-gradient(90deg, #f0c050, #f5d280)"
	case BandOver:
		return "linear-gradient(90deg, #e8636f, #f09da5)"
	}
	return ""
}

// String 实现 fmt.Stringer
func (b Band) String() string { return b.Label() }

// MarshalText 以样式类名（如 "optimal"）输出到 JSON
func (b Band) MarshalText() ([]byte, error) { return []byte(b.Class()), nil }

// ComputeUtilization 成员在所有计入负载的项目上的投入之和，不设上限
// 暂停 / 已完成项目不计
func ComputeUtilization(memberID string, projects []model.Project) int {
	total := 0
	for _, p := range projects {
		if !p.Status.CountsTowardUtilization() {
			continue
		}
		for _, a := range p.Assignments {
			if a.MemberID == memberID {
				total += a.Allocation
				break
			}
		}
	}
	return total
}

// Utilizations 一次性计算所有成员负载
func Utilizations(projects []model.Project) map[string]int {
	out := make(map[string]int)
	for _, p := range projects {
		if !p.Status.CountsTowardUtilization() {
			continue
		}
		for _, a := range p.Assignments {
			out[a.MemberID] += a.Allocation
		}
	}
	return out
}

// IsOverAllocated 负载是否超过 100%
func IsOverAllocated(pct int) bool { return pct > FullLoad }

// BarWidth 进度条宽度，封顶 100
func BarWidth(pct int) int {
	if pct > FullLoad {
		return FullLoad
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// Average 四舍五入的平均值；空输入返回 0
func Average(values []int) int {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(values))))
}

// ProjectShare 成员在某项目上的投入
type ProjectShare struct {
	ProjectID  string
	Name       string
	Status     model.ProjectStatus
	Allocation int
}

// AssignedProjects 容量视图中的项目标签：成员参与的全部未完成项目
// 与 ComputeUtilization 不同，暂停项目仍然展示
func AssignedProjects(memberID string, projects []model.Project) []ProjectShare {
	var out []ProjectShare
	for _, p := range projects {
		if p.Status == model.ProjectCompleted {
			continue
		}
		for _, a := range p.Assignments {
			if a.MemberID == memberID {
				out = append(out, ProjectShare{
					ProjectID:  p.ProjectID,
					Name:       p.Name,
					Status:     p.Status,
					Allocation: a.Allocation,
				})
				break
			}
		}
	}
	return out
}
