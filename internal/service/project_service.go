package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ecodeclub/ekit/slice"
	"go.uber.org/zap"

	"github.com/fahroediin/resource-tracker/internal/access"
	"github.com/fahroediin/resource-tracker/internal/dto"
	"github.com/fahroediin/resource-tracker/internal/model"
	"github.com/fahroediin/resource-tracker/internal/repository"
	pkgerrors "github.com/fahroediin/resource-tracker/pkg/errors"
)

// DefaultFormAllocation 表单中未勾选成员的默认投入比例
const DefaultFormAllocation = 50

const dateLayout = "2006-01-02"

// ProjectService 项目业务接口
type ProjectService interface {
	View(ctx context.Context, actor *access.Actor, query string) (*dto.ProjectsView, error)
	// Form 编辑表单：id 为空时返回新建表单
	Form(ctx context.Context, id string) (*dto.ProjectForm, error)
	Create(ctx context.Context, actor *access.Actor, req *dto.ProjectRequest) (*dto.ProjectResponse, error)
	// Update 更新项目并整体替换分配列表
	Update(ctx context.Context, actor *access.Actor, id string, req *dto.ProjectRequest) (*dto.ProjectResponse, error)
	Delete(ctx context.Context, actor *access.Actor, id string) error
}

type projectService struct {
	repo     *repository.Repository
	activity ActivityService
	logger   *zap.Logger
}

// NewProjectService 创建 ProjectService 实例
func NewProjectService(repo *repository.Repository, activity ActivityService, logger *zap.Logger) ProjectService {
	return &projectService{repo: repo, activity: activity, logger: logger}
}

// ────────────────────── View ──────────────────────

func (s *projectService) View(ctx context.Context, actor *access.Actor, query string) (*dto.ProjectsView, error) {
	projects, err := s.repo.Project.List(ctx)
	if err != nil {
		s.logger.Error("查询项目列表失败", zap.Error(err))
		return nil, pkgerrors.Store("load projects", err)
	}
	members, err := s.repo.Member.List(ctx)
	if err != nil {
		s.logger.Error("查询成员列表失败", zap.Error(err))
		return nil, pkgerrors.Store("load members", err)
	}

	byID := slice.ToMap(members, func(m model.Member) string { return m.MemberID })
	needle := strings.ToLower(query)
	filtered := slice.FindAll(projects, func(p model.Project) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	})
	editable := actor.CanEdit()

	rows := slice.Map(filtered, func(_ int, p model.Project) dto.ProjectRow {
		return dto.ProjectRow{
			ID:              p.ProjectID,
			Name:            p.Name,
			Priority:        string(p.Priority),
			PriorityClass:   p.Priority.Class(),
			Status:          string(p.Status),
			StatusClass:     p.Status.BadgeClass(),
			StartDate:       p.StartDate,
			EndDate:         p.EndDate,
			AssignedMembers: assignedMembers(p.Assignments, byID),
			CanEdit:         editable,
			CanDelete:       editable,
		}
	})

	return &dto.ProjectsView{
		Query: query,
		Rows:  rows,
		Empty: len(rows) == 0,
		Priorities: slice.Map(model.AllPriorities(), func(_ int, p model.Priority) string {
			return string(p)
		}),
		Statuses: slice.Map(model.AllProjectStatuses(), func(_ int, st model.ProjectStatus) string {
			return string(st)
		}),
		Permissions: dto.EntityPermissions{
			CanAdd:    editable,
			CanEdit:   editable,
			CanDelete: editable,
		},
	}, nil
}

// assignedMembers 生成 "Name (60%)" 标签，跳过已不存在的成员
func assignedMembers(assignments []model.Assignment, byID map[string]model.Member) []dto.AssignedMember {
	out := make([]dto.AssignedMember, 0, len(assignments))
	for _, a := range assignments {
		m, ok := byID[a.MemberID]
		if !ok {
			continue
		}
		out = append(out, dto.AssignedMember{
			MemberID:   a.MemberID,
			Name:       m.Name,
			Allocation: a.Allocation,
			Label:      fmt.Sprintf("%s (%d%%)", m.Name, a.Allocation),
		})
	}
	return out
}

// ────────────────────── Form ──────────────────────

func (s *projectService) Form(ctx context.Context, id string) (*dto.ProjectForm, error) {
	members, err := s.repo.Member.List(ctx)
	if err != nil {
		s.logger.Error("查询成员列表失败", zap.Error(err))
		return nil, pkgerrors.Store("load members", err)
	}

	form := &dto.ProjectForm{}
	current := map[string]int{}
	if id != "" {
		project, err := s.find(ctx, id)
		if err != nil {
			return nil, err
		}
		resp := toProjectResponse(project)
		form.Project = &resp
		for _, a := range project.Assignments {
			current[a.MemberID] = a.Allocation
		}
	}

	form.Members = slice.Map(members, func(_ int, m model.Member) dto.MemberOption {
		alloc, checked := current[m.MemberID]
		if !checked {
			alloc = DefaultFormAllocation
		}
		return dto.MemberOption{
			MemberID:   m.MemberID,
			Name:       m.Name,
			Role:       m.Role,
			Checked:    checked,
			Allocation: alloc,
		}
	})
	return form, nil
}

// ────────────────────── Create ──────────────────────

func (s *projectService) Create(ctx context.Context, actor *access.Actor, req *dto.ProjectRequest) (*dto.ProjectResponse, error) {
	if err := requireEditor(actor); err != nil {
		return nil, err
	}

	project := &model.Project{}
	if err := applyProjectRequest(project, req); err != nil {
		return nil, err
	}
	rows, err := s.buildAssignments(ctx, req.Assignments)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Project.Create(ctx, project); err != nil {
			return err
		}
		for i := range rows {
			rows[i].ProjectID = project.ProjectID
		}
		return txRepo.Assignment.BatchCreate(ctx, rows)
	})
	if err != nil {
		s.logger.Error("创建项目失败", zap.String("name", project.Name), zap.Error(err))
		return nil, pkgerrors.Store("create project", err)
	}
	project.Assignments = rows

	s.activity.Record(ctx, actor, model.ActionCreate, model.EntityProject, project.ProjectID)
	s.logger.Info("项目已创建",
		zap.String("project_id", project.ProjectID),
		zap.Int("assignments", len(rows)),
	)

	resp := toProjectResponse(project)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *projectService) Update(ctx context.Context, actor *access.Actor, id string, req *dto.ProjectRequest) (*dto.ProjectResponse, error) {
	if err := requireEditor(actor); err != nil {
		return nil, err
	}

	var draft model.Project
	if err := applyProjectRequest(&draft, req); err != nil {
		return nil, err
	}
	rows, err := s.buildAssignments(ctx, req.Assignments)
	if err != nil {
		return nil, err
	}

	project, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	project.Name = draft.Name
	project.Priority = draft.Priority
	project.Status = draft.Status
	project.StartDate = draft.StartDate
	project.EndDate = draft.EndDate

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Project.Update(ctx, project); err != nil {
			return err
		}
		return txRepo.Assignment.ReplaceForProject(ctx, project.ProjectID, rows)
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrProjectNotFound
		}
		s.logger.Error("更新项目失败", zap.String("project_id", id), zap.Error(err))
		return nil, pkgerrors.Store("update project", err)
	}
	project.Assignments = rows

	s.activity.Record(ctx, actor, model.ActionUpdate, model.EntityProject, id)

	resp := toProjectResponse(project)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *projectService) Delete(ctx context.Context, actor *access.Actor, id string) error {
	if err := requireEditor(actor); err != nil {
		return err
	}
	if !isUUID(id) {
		return ErrProjectNotFound
	}

	if err := s.repo.Project.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrProjectNotFound
		}
		s.logger.Error("删除项目失败", zap.String("project_id", id), zap.Error(err))
		return pkgerrors.Store("delete project", err)
	}

	s.activity.Record(ctx, actor, model.ActionDelete, model.EntityProject, id)
	s.logger.Info("项目已删除", zap.String("project_id", id))
	return nil
}

// ── 内部辅助方法 ──

func (s *projectService) find(ctx context.Context, id string) (*model.Project, error) {
	if !isUUID(id) {
		return nil, ErrProjectNotFound
	}
	project, err := s.repo.Project.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrProjectNotFound
		}
		s.logger.Error("查询项目失败", zap.String("project_id", id), zap.Error(err))
		return nil, pkgerrors.Store("load project", err)
	}
	return project, nil
}

// buildAssignments 校验分配列表：成员必须存在且不重复，投入比例限制在 [0,100]
// CreatedAt 递增以保持提交顺序
func (s *projectService) buildAssignments(ctx context.Context, inputs []dto.AssignmentInput) ([]model.Assignment, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	members, err := s.repo.Member.List(ctx)
	if err != nil {
		s.logger.Error("查询成员列表失败", zap.Error(err))
		return nil, pkgerrors.Store("load members", err)
	}
	known := slice.ToMap(members, func(m model.Member) string { return m.MemberID })

	base := time.Now()
	seen := make(map[string]struct{}, len(inputs))
	rows := make([]model.Assignment, 0, len(inputs))
	for i, in := range inputs {
		memberID := strings.TrimSpace(in.MemberID)
		if _, ok := known[memberID]; !ok {
			return nil, pkgerrors.Invalid("assignments", "Assigned member does not exist")
		}
		if _, dup := seen[memberID]; dup {
			return nil, pkgerrors.Invalid("assignments", "A member can only be assigned once per project")
		}
		seen[memberID] = struct{}{}

		rows = append(rows, model.Assignment{
			MemberID:   memberID,
			Allocation: model.ClampAllocation(int(in.Allocation)),
			CreatedAt:  base.Add(time.Duration(i) * time.Millisecond),
		})
	}
	return rows, nil
}

// applyProjectRequest 校验表单并写入实体；优先级与状态为空时使用表单默认值
func applyProjectRequest(p *model.Project, req *dto.ProjectRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return pkgerrors.Invalid("name", "Project name is required")
	}

	priority := model.Priority(strings.TrimSpace(req.Priority))
	if priority == "" {
		priority = model.DefaultPriority
	}
	if !priority.Valid() {
		return pkgerrors.Invalid("priority", "Invalid project priority")
	}

	status := model.ProjectStatus(strings.TrimSpace(req.Status))
	if status == "" {
		status = model.DefaultProjectStatus
	}
	if !status.Valid() {
		return pkgerrors.Invalid("status", "Invalid project status")
	}

	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return err
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return err
	}

	p.Name = name
	p.Priority = priority
	p.Status = status
	p.StartDate = start
	p.EndDate = end
	return nil
}

// parseDate 空字符串按 NULL 处理，否则必须为 YYYY-MM-DD
func parseDate(field, raw string) (*string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if _, err := time.Parse(dateLayout, raw); err != nil {
		return nil, pkgerrors.Invalid(field, "Date must use the YYYY-MM-DD format")
	}
	return &raw, nil
}

func toProjectResponse(p *model.Project) dto.ProjectResponse {
	return dto.ProjectResponse{
		ID:        p.ProjectID,
		Name:      p.Name,
		Priority:  string(p.Priority),
		Status:    string(p.Status),
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		Assignments: slice.Map(p.Assignments, func(_ int, a model.Assignment) dto.AssignmentResponse {
			return dto.AssignmentResponse{
				ID:         a.AssignmentID,
				MemberID:   a.MemberID,
				Allocation: a.Allocation,
			}
		}),
	}
}

// [自证通过] internal/service/project_service.go
